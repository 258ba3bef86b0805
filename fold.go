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

// WrapFold rearranges the super-grid cell areas so that every 2×2 block of
// the result holds the four quarter cells surrounding one model grid corner
// (U point).
//
// The grid is periodic in longitude, so the columns are rotated left by one
// and the first column becomes the last. The northern boundary is a tripolar
// fold, so the first row is dropped and a row built from the last row
// visited across the fold is appended: columns C-2 down to 1, followed by
// columns C-1 and 0. The result has the same shape as area.
func WrapFold(area *sparse.DenseArray) (*sparse.DenseArray, error) {
	if len(area.Shape) != 2 {
		return nil, &ShapeError{Field: "area", Axis: 0, Length: -1}
	}
	ny, nx := area.Shape[0], area.Shape[1]
	if ny < 2 || ny%2 != 0 {
		return nil, &ShapeError{Field: "area", Axis: 0, Length: ny}
	}
	if nx < 2 || nx%2 != 0 {
		return nil, &ShapeError{Field: "area", Axis: 1, Length: nx}
	}

	folded := sparse.ZerosDense(ny, nx)
	for j := 1; j < ny; j++ {
		for i := 0; i < nx; i++ {
			folded.Set(area.Get(j, (i+1)%nx), j-1, i)
		}
	}
	top := foldRow(area)
	for i, v := range top {
		folded.Set(v, ny-1, i)
	}
	return folded, nil
}

// foldRow returns the continuation of the last row of area across the
// tripolar fold.
func foldRow(area *sparse.DenseArray) []float64 {
	ny, nx := area.Shape[0], area.Shape[1]
	last := ny - 1
	row := make([]float64, 0, nx)
	for i := nx - 2; i > 0; i-- {
		row = append(row, area.Get(last, i))
	}
	return append(row, area.Get(last, nx-1), area.Get(last, 0))
}
