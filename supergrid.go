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

package om3utils

import "github.com/ctessum/sparse"

// SuperGrid holds a MOM super-grid. The super-grid has twice the resolution
// of the model grid, so that for a model grid of nx by ny cells the point
// arrays have nyp = 2*ny+1 rows and nxp = 2*nx+1 columns. Points with odd
// indices are cell centers and points with even indices are cell corners.
//
// All arrays are indexed [row, column], i.e. [y, x].
type SuperGrid struct {
	X       *sparse.DenseArray // longitude [degrees], (nyp, nxp)
	Y       *sparse.DenseArray // latitude [degrees], (nyp, nxp)
	Dx      *sparse.DenseArray // east-west edge length [m], (nyp, nxp-1)
	Dy      *sparse.DenseArray // north-south edge length [m], (nyp-1, nxp)
	Area    *sparse.DenseArray // cell area [m²], (nyp-1, nxp-1)
	AngleDx *sparse.DenseArray // angle of the x axis from true east [degrees], (nyp, nxp)
}

// Nx returns the number of model grid cells in the x direction.
func (sg *SuperGrid) Nx() int { return (sg.X.Shape[1] - 1) / 2 }

// Ny returns the number of model grid cells in the y direction.
func (sg *SuperGrid) Ny() int { return (sg.X.Shape[0] - 1) / 2 }

// Validate checks that all fields are present and that their shapes are
// consistent with a super-grid of a whole number of model cells.
func (sg *SuperGrid) Validate() error {
	if sg == nil {
		return invalid("super-grid", "no super-grid given")
	}
	fields := []struct {
		name string
		data *sparse.DenseArray
	}{
		{"x", sg.X}, {"y", sg.Y}, {"dx", sg.Dx}, {"dy", sg.Dy},
		{"area", sg.Area}, {"angle_dx", sg.AngleDx},
	}
	for _, f := range fields {
		if f.data == nil {
			return invalid(f.name, "variable is missing")
		}
		if len(f.data.Shape) != 2 {
			return invalid(f.name, "should have 2 dimensions but has %d", len(f.data.Shape))
		}
		if n := f.data.Shape[0] * f.data.Shape[1]; len(f.data.Elements) != n {
			return invalid(f.name, "shape %v requires %d elements but there are %d",
				f.data.Shape, n, len(f.data.Elements))
		}
	}

	nyp, nxp := sg.X.Shape[0], sg.X.Shape[1]
	if nxp < 3 || nxp%2 != 1 {
		return invalid("x", "nxp=%d is not of the form 2*nx+1 with nx>0", nxp)
	}
	if nyp < 3 || nyp%2 != 1 {
		return invalid("x", "nyp=%d is not of the form 2*ny+1 with ny>0", nyp)
	}

	want := []struct {
		name     string
		data     *sparse.DenseArray
		ny, nx   int
		dimNames string
	}{
		{"y", sg.Y, nyp, nxp, "(nyp, nxp)"},
		{"angle_dx", sg.AngleDx, nyp, nxp, "(nyp, nxp)"},
		{"dx", sg.Dx, nyp, nxp - 1, "(nyp, nx)"},
		{"dy", sg.Dy, nyp - 1, nxp, "(ny, nxp)"},
		{"area", sg.Area, nyp - 1, nxp - 1, "(ny, nx)"},
	}
	for _, w := range want {
		if w.data.Shape[0] != w.ny || w.data.Shape[1] != w.nx {
			return invalid(w.name, "shape is %v but should be %s = [%d %d]",
				w.data.Shape, w.dimNames, w.ny, w.nx)
		}
	}
	return nil
}
