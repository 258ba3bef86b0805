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
	"context"
	"fmt"
	"os"

	"github.com/COSIMA/om3utils"
	"github.com/COSIMA/om3utils/cice"
	"github.com/COSIMA/om3utils/mom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Verify derives the CICE grid from the inputs of o and checks the
// existing files at o.GridFile and o.MaskFile against it. Every mismatch
// is logged, and an error is returned if there are any.
func Verify(ctx context.Context, log logrus.FieldLogger, o *Options, rtol float64) error {
	var d downloader
	defer d.cleanup()
	req, err := o.request(ctx, &d)
	if err != nil {
		return err
	}
	want, err := om3utils.Prepare(mom.Reader{}, req)
	if err != nil {
		return err
	}

	var problems []string
	report := func(file string, err error) {
		log.WithField("file", file).Error(err)
		problems = append(problems, err.Error())
	}

	grid, closeGrid, err := openOutput(ctx, &d, o.GridFile)
	if err != nil {
		return err
	}
	defer closeGrid()
	for _, err := range checkGrid(grid, want.Grid, rtol) {
		report(o.GridFile, err)
	}
	for _, err := range grid.CheckAttributes(cice.GridVariables) {
		report(o.GridFile, err)
	}
	if err := checkProvenance(grid, want.GridProvenance); err != nil {
		report(o.GridFile, err)
	}

	mask, closeMask, err := openOutput(ctx, &d, o.MaskFile)
	if err != nil {
		return err
	}
	defer closeMask()
	if err := checkMask(mask, want.Mask); err != nil {
		report(o.MaskFile, err)
	}
	for _, err := range mask.CheckAttributes([]cice.Variable{cice.KMTVariable}) {
		report(o.MaskFile, err)
	}
	if err := checkProvenance(mask, want.MaskProvenance); err != nil {
		report(o.MaskFile, err)
	}

	if len(problems) > 0 {
		return fmt.Errorf("cicegrid: verification failed with %d problems; the first is: %s",
			len(problems), problems[0])
	}
	log.WithFields(logrus.Fields{
		"grid_file": o.GridFile,
		"mask_file": o.MaskFile,
		"rtol":      rtol,
	}).Info("CICE grid verified")
	return nil
}

func openOutput(ctx context.Context, d *downloader, loc string) (*cice.Dataset, func(), error) {
	path, err := d.maybeDownload(ctx, loc)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cicegrid: opening %s: %v", loc, err)
	}
	ds, err := cice.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("cicegrid: %s: %v", loc, err)
	}
	return ds, func() { f.Close() }, nil
}

// checkGrid compares every grid variable in ds with want.
func checkGrid(ds *cice.Dataset, want *om3utils.CICEGrid, rtol float64) []error {
	var errs []error
	for _, f := range want.Fields() {
		have, err := ds.Float64(f.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(have.Elements) != len(f.Data.Elements) {
			errs = append(errs, fmt.Errorf("%s has shape %v, want %v", f.Name, have.Shape, f.Data.Shape))
			continue
		}
		var bad, first int
		for i, v := range f.Data.Elements {
			if !floats.EqualWithinAbsOrRel(have.Elements[i], v, 0, rtol) {
				if bad == 0 {
					first = i
				}
				bad++
			}
		}
		if bad > 0 {
			errs = append(errs, fmt.Errorf("%s differs at %d points; at index %d it is %g, want %g",
				f.Name, bad, first, have.Elements[first], f.Data.Elements[first]))
		}
	}
	return errs
}

func checkMask(ds *cice.Dataset, want *om3utils.Mask) error {
	have, err := ds.Mask()
	if err != nil {
		return err
	}
	if err := have.Validate(want.Ny, want.Nx); err != nil {
		return err
	}
	var bad int
	for i, ocean := range want.Ocean {
		if have.Ocean[i] != ocean {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("kmt differs at %d points", bad)
	}
	return nil
}

func checkProvenance(ds *cice.Dataset, want *om3utils.Provenance) error {
	have, err := ds.Provenance()
	if err != nil {
		return err
	}
	if have.InputFileMD5 != want.InputFileMD5 {
		return fmt.Errorf("%s is %s but %s has checksum %s", cice.AttrInputFileMD5,
			have.InputFileMD5, want.InputFile, want.InputFileMD5)
	}
	return nil
}
