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

package cice

import (
	"fmt"

	"github.com/COSIMA/om3utils"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Dataset is an open CICE grid or mask file.
type Dataset struct {
	f *cdf.File
}

// Open reads the header of the CICE file in rw.
func Open(rw cdf.ReaderWriterAt) (*Dataset, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("cice: opening file: %v", err)
	}
	return &Dataset{f: f}, nil
}

// HasVariable reports whether the file contains variable name.
func (d *Dataset) HasVariable(name string) bool {
	for _, v := range d.f.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// Attribute returns the text attribute a of variable v, or the global
// attribute a if v is empty.
func (d *Dataset) Attribute(v, a string) (string, bool) {
	s, ok := d.f.Header.GetAttribute(v, a).(string)
	return s, ok
}

// Provenance returns the provenance recorded in the global attributes.
func (d *Dataset) Provenance() (*om3utils.Provenance, error) {
	p := new(om3utils.Provenance)
	for _, a := range []struct {
		name string
		dst  *string
	}{
		{AttrInputFile, &p.InputFile},
		{AttrInputFileMD5, &p.InputFileMD5},
		{AttrHistoryCommand, &p.HistoryCommand},
	} {
		v, ok := d.Attribute("", a.name)
		if !ok {
			return nil, fmt.Errorf("cice: global attribute %s is missing", a.name)
		}
		*a.dst = v
	}
	return p, nil
}

// CheckAttributes returns an error for every attribute in vars that is
// missing from the file or has a different value, and for a missing or
// incomplete crs variable.
func (d *Dataset) CheckAttributes(vars []Variable) []error {
	var errs []error
	if v, _ := d.Attribute("", "Conventions"); v != Conventions {
		errs = append(errs, fmt.Errorf("cice: Conventions is %q, want %q", v, Conventions))
	}
	for _, v := range vars {
		if !d.HasVariable(v.Name) {
			errs = append(errs, fmt.Errorf("cice: variable %s is missing", v.Name))
			continue
		}
		for _, a := range v.Attributes {
			have, ok := d.Attribute(v.Name, a.Name)
			if !ok {
				errs = append(errs, fmt.Errorf("cice: %s:%s is missing", v.Name, a.Name))
			} else if have != a.Value {
				errs = append(errs, fmt.Errorf("cice: %s:%s is %q, want %q",
					v.Name, a.Name, have, a.Value))
			}
		}
	}
	if !d.HasVariable(CRSVariable) {
		return append(errs, fmt.Errorf("cice: variable %s is missing", CRSVariable))
	}
	for _, a := range []string{"grid_mapping_name", "crs_wkt", "proj4"} {
		if _, ok := d.Attribute(CRSVariable, a); !ok {
			errs = append(errs, fmt.Errorf("cice: %s:%s is missing", CRSVariable, a))
		}
	}
	return errs
}

// Float64 reads the double precision variable name.
func (d *Dataset) Float64(name string) (*sparse.DenseArray, error) {
	dims := d.f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, fmt.Errorf("cice: variable %s is not in file", name)
	}
	r := d.f.Reader(name, nil, nil)
	buf, ok := r.Zero(-1).([]float64)
	if !ok {
		return nil, fmt.Errorf("cice: variable %s is not double precision", name)
	}
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("cice: reading variable %s: %v", name, err)
	}
	out := sparse.ZerosDense(dims...)
	copy(out.Elements, buf)
	return out, nil
}

// Int32 reads the integer variable name and its shape.
func (d *Dataset) Int32(name string) ([]int32, []int, error) {
	dims := d.f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, nil, fmt.Errorf("cice: variable %s is not in file", name)
	}
	r := d.f.Reader(name, nil, nil)
	buf, ok := r.Zero(-1).([]int32)
	if !ok {
		return nil, nil, fmt.Errorf("cice: variable %s is not an integer", name)
	}
	if _, err := r.Read(buf); err != nil {
		return nil, nil, fmt.Errorf("cice: reading variable %s: %v", name, err)
	}
	return buf, dims, nil
}

// Grid reads the grid variables.
func (d *Dataset) Grid() (*om3utils.CICEGrid, error) {
	dims := d.f.Header.Lengths("")
	if len(dims) != 2 {
		return nil, fmt.Errorf("cice: file has %d dimensions, want 2", len(dims))
	}
	g := &om3utils.CICEGrid{Ny: dims[0], Nx: dims[1]}
	for _, v := range []struct {
		name string
		dst  **sparse.DenseArray
	}{
		{"ulat", &g.ULat},
		{"ulon", &g.ULon},
		{"tlat", &g.TLat},
		{"tlon", &g.TLon},
		{"htn", &g.HTN},
		{"hte", &g.HTE},
		{"angle", &g.Angle},
		{"angleT", &g.AngleT},
		{"tarea", &g.TArea},
		{"uarea", &g.UArea},
	} {
		var err error
		if *v.dst, err = d.Float64(v.name); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Mask reads the kmt variable.
func (d *Dataset) Mask() (*om3utils.Mask, error) {
	kmt, dims, err := d.Int32(KMTVariable.Name)
	if err != nil {
		return nil, err
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("cice: %s has %d dimensions, want 2", KMTVariable.Name, len(dims))
	}
	ocean := make([]bool, len(kmt))
	for i, v := range kmt {
		ocean[i] = v != 0
	}
	return om3utils.NewMask(dims[0], dims[1], ocean)
}
