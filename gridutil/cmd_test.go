/*
Copyright © 2024 the om3utils authors.
This file is part of om3utils.

om3utils is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

om3utils is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with om3utils.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/COSIMA/om3utils"
	"github.com/COSIMA/om3utils/cice"
	"github.com/COSIMA/om3utils/internal/gridtest"
	"github.com/COSIMA/om3utils/internal/hash"
)

// execute runs the command line args and returns everything the command
// printed.
func execute(args ...string) (string, error) {
	cfg := InitializeConfig()
	cfg.History = "cicegrid " + strings.Join(args, " ")
	var buf bytes.Buffer
	cfg.Root.SetOutput(&buf)
	cfg.Root.SetArgs(args)
	err := cfg.Root.Execute()
	return buf.String(), err
}

func openGrid(t *testing.T, path string) *cice.Dataset {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	d, err := cice.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRunAndVerify(t *testing.T) {
	dir := t.TempDir()
	hgrid, mask, err := gridtest.WriteInputs(dir, 6, 8)
	if err != nil {
		t.Fatal(err)
	}
	gridFile := filepath.Join(dir, "grid.nc")
	kmtFile := filepath.Join(dir, "kmt.nc")

	out, err := execute("--grid_file", gridFile, "--mask_file", kmtFile, hgrid, mask)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if !strings.Contains(out, "wrote CICE grid") {
		t.Errorf("log output missing: %s", out)
	}

	d := openGrid(t, gridFile)
	p, err := d.Provenance()
	if err != nil {
		t.Fatal(err)
	}
	sum, err := hash.MD5File(hgrid)
	if err != nil {
		t.Fatal(err)
	}
	if p.InputFile != hgrid || p.InputFileMD5 != sum {
		t.Errorf("provenance %+v, want input %s with checksum %s", p, hgrid, sum)
	}
	if !strings.HasPrefix(p.HistoryCommand, "cicegrid --grid_file") {
		t.Errorf("history_command = %q", p.HistoryCommand)
	}
	k := openGrid(t, kmtFile)
	m, err := k.Mask()
	if err != nil {
		t.Fatal(err)
	}
	if m.Ny != 6 || m.Nx != 8 {
		t.Errorf("mask shape [%d %d]", m.Ny, m.Nx)
	}

	if out, err := execute("verify", "--grid_file", gridFile, "--mask_file", kmtFile, hgrid, mask); err != nil {
		t.Errorf("verify: %v\n%s", err, out)
	}

	// Replace the grid file with one holding a perturbed edge length.
	g, err := om3utils.NewCICEGrid(gridtest.SuperGrid(6, 8))
	if err != nil {
		t.Fatal(err)
	}
	g.HTN.Elements[3] *= 1 + 1e-9
	if err := (cice.Writer{CRS: cice.DefaultCRS()}).WriteGrid(gridFile, g, p); err != nil {
		t.Fatal(err)
	}
	out, err = execute("verify", "--grid_file", gridFile, "--mask_file", kmtFile, hgrid, mask)
	if err == nil {
		t.Fatal("verify passed on a modified grid file")
	}
	if !strings.Contains(out, "htn differs at 1 points") {
		t.Errorf("verify output does not name htn: %s", out)
	}
	if _, err := execute("verify", "--rtol", "1e-6", "--grid_file", gridFile, "--mask_file", kmtFile, hgrid, mask); err != nil {
		t.Errorf("verify with larger tolerance: %v", err)
	}
}

func TestRunNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	hgrid, _, err := gridtest.WriteInputs(dir, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "other")
	if err := os.Mkdir(other, 0755); err != nil {
		t.Fatal(err)
	}
	_, wrongMask, err := gridtest.WriteInputs(other, 4, 5)
	if err != nil {
		t.Fatal(err)
	}
	gridFile := filepath.Join(dir, "grid.nc")
	kmtFile := filepath.Join(dir, "kmt.nc")
	writeFile(t, kmtFile, "previous")

	tests := []struct {
		name        string
		hgrid, mask string
	}{
		{"mask shape", hgrid, wrongMask},
		{"missing super-grid", filepath.Join(dir, "missing.nc"), wrongMask},
		{"missing mask", hgrid, filepath.Join(dir, "missing_mask.nc")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := execute("-g", gridFile, "-m", kmtFile, test.hgrid, test.mask); err == nil {
				t.Fatal("want error")
			}
			if _, err := os.Stat(gridFile); !os.IsNotExist(err) {
				t.Errorf("grid file created: %v", err)
			}
			b, err := os.ReadFile(kmtFile)
			if err != nil || string(b) != "previous" {
				t.Errorf("mask file changed: %q %v", b, err)
			}
			matches, _ := filepath.Glob(filepath.Join(dir, ".*.nc.*"))
			if len(matches) != 0 {
				t.Errorf("temporary files left behind: %v", matches)
			}
		})
	}
}

func TestRunBlobOutput(t *testing.T) {
	dir := t.TempDir()
	hgrid, mask, err := gridtest.WriteInputs(dir, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	bucket := filepath.Join(dir, "bucket")
	if err := os.Mkdir(bucket, 0755); err != nil {
		t.Fatal(err)
	}
	gridURL := "file://" + bucket + "/grid.nc"
	kmtURL := "file://" + bucket + "/kmt.nc"
	if out, err := execute("--grid_file", gridURL, "--mask_file", kmtURL, hgrid, "file://"+mask); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	d := openGrid(t, filepath.Join(bucket, "kmt.nc"))
	p, err := d.Provenance()
	if err != nil {
		t.Fatal(err)
	}
	if p.InputFile != "file://"+mask {
		t.Errorf("inputfile = %s, want the location as given", p.InputFile)
	}
	if out, err := execute("verify", "--grid_file", gridURL, "--mask_file", kmtURL, hgrid, "file://"+mask); err != nil {
		t.Errorf("verify: %v\n%s", err, out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	hgrid, mask, err := gridtest.WriteInputs(dir, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "cicegrid.toml")
	f, err := os.Create(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := toml.NewEncoder(f).Encode(map[string]string{
		"grid_file": filepath.Join(dir, "from_config_grid.nc"),
		"log_level": "warn",
	}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	t.Setenv("CICEGRID_MASK_FILE", filepath.Join(dir, "from_env_kmt.nc"))
	out, err := execute("--config", cfgPath, hgrid, mask)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	for _, name := range []string{"from_config_grid.nc", "from_env_kmt.nc"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
	if strings.Contains(out, "level=info") {
		t.Errorf("info messages printed at log_level warn: %s", out)
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	hgrid, mask, err := gridtest.WriteInputs(dir, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	grid := filepath.Join(dir, "grid.nc")
	tests := []struct {
		name string
		args []string
	}{
		{"projected crs", []string{"--crs_proj4", "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +ellps=WGS84", "-g", grid, hgrid, mask}},
		{"missing directory", []string{"-g", filepath.Join(dir, "nodir", "grid.nc"), hgrid, mask}},
		{"same output", []string{"-g", grid, "-m", grid, hgrid, mask}},
		{"log level", []string{"--log_level", "loud", "-g", grid, hgrid, mask}},
		{"one argument", []string{"-g", grid, hgrid}},
		{"missing config", []string{"--config", filepath.Join(dir, "none.toml"), hgrid, mask}},
		{"negative rtol", []string{"verify", "--rtol=-1", "-g", grid, hgrid, mask}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := execute(test.args...); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestDebugOptions(t *testing.T) {
	dir := t.TempDir()
	hgrid, mask, err := gridtest.WriteInputs(dir, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	out, err := execute("--log_level", "debug",
		"-g", filepath.Join(dir, "grid.nc"), "-m", filepath.Join(dir, "kmt.nc"), hgrid, mask)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	for _, want := range []string{"level=debug", "GridFile", "Proj4"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output is missing %q: %s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute("version")
	if err != nil {
		t.Fatal(err)
	}
	if want := "cicegrid v" + om3utils.Version + "\n"; out != want {
		t.Errorf("have %q, want %q", out, want)
	}
}
