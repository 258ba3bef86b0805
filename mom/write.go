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

package mom

import (
	"fmt"

	"github.com/COSIMA/om3utils"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// WriteSuperGrid writes sg to w in the layout of a MOM ocean_hgrid.nc file.
func WriteSuperGrid(w cdf.ReaderWriterAt, sg *om3utils.SuperGrid) error {
	if err := sg.Validate(); err != nil {
		return err
	}
	nyp, nxp := sg.X.Shape[0], sg.X.Shape[1]
	h := cdf.NewHeader([]string{"nyp", "nxp", "ny", "nx"}, []int{nyp, nxp, nyp - 1, nxp - 1})
	h.AddAttribute("", "history", "written by om3utils v"+om3utils.Version)

	vars := []struct {
		name, units string
		dims        []string
		data        *sparse.DenseArray
	}{
		{"x", "degrees", []string{"nyp", "nxp"}, sg.X},
		{"y", "degrees", []string{"nyp", "nxp"}, sg.Y},
		{"dx", "meters", []string{"nyp", "nx"}, sg.Dx},
		{"dy", "meters", []string{"ny", "nxp"}, sg.Dy},
		{"area", "m2", []string{"ny", "nx"}, sg.Area},
		{"angle_dx", "degrees", []string{"nyp", "nxp"}, sg.AngleDx},
	}
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, []float64{0})
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("mom: creating super-grid file: %v", err)
	}
	for _, v := range vars {
		if err := writeVar(f, v.name, v.data.Elements); err != nil {
			return err
		}
	}
	return nil
}

// WriteMask writes m to w as variable varName in the layout of a MOM
// ocean_mask.nc file, with 1 for ocean and 0 for land.
func WriteMask(w cdf.ReaderWriterAt, m *om3utils.Mask, varName string) error {
	if err := m.Validate(m.Ny, m.Nx); err != nil {
		return err
	}
	h := cdf.NewHeader([]string{"ny", "nx"}, []int{m.Ny, m.Nx})
	h.AddVariable(varName, []string{"ny", "nx"}, []float64{0})
	h.AddAttribute(varName, "standard_name", "sea_binary_mask")
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("mom: creating mask file: %v", err)
	}
	data := make([]float64, len(m.Ocean))
	for i, ocean := range m.Ocean {
		if ocean {
			data[i] = 1
		}
	}
	return writeVar(f, varName, data)
}

func writeVar(f *cdf.File, name string, data interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(data); err != nil {
		return fmt.Errorf("mom: writing variable %s: %v", name, err)
	}
	return nil
}
