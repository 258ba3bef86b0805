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

// subsample returns the elements of the 2-D array a in rows
// rowStart, rowStart+rowStride, ... and columns colStart, colStart+colStride, ...
func subsample(a *sparse.DenseArray, rowStart, rowStride, colStart, colStride int) *sparse.DenseArray {
	ny := count(a.Shape[0], rowStart, rowStride)
	nx := count(a.Shape[1], colStart, colStride)
	o := sparse.ZerosDense(ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			o.Set(a.Get(rowStart+j*rowStride, colStart+i*colStride), j, i)
		}
	}
	return o
}

// count returns the number of indices in [start, n) with the given stride.
func count(n, start, stride int) int {
	if start >= n {
		return 0
	}
	return (n - start + stride - 1) / stride
}

// sumPairs sums disjoint pairs of adjacent elements of the 2-D array a
// along the given axis (0 for rows, 1 for columns), halving that axis.
func sumPairs(field string, a *sparse.DenseArray, axis int) (*sparse.DenseArray, error) {
	if len(a.Shape) != 2 || axis < 0 || axis > 1 {
		return nil, &ShapeError{Field: field, Axis: axis, Length: -1}
	}
	if n := a.Shape[axis]; n == 0 || n%2 != 0 {
		return nil, &ShapeError{Field: field, Axis: axis, Length: n}
	}
	ny, nx := a.Shape[0], a.Shape[1]
	if axis == 0 {
		ny /= 2
	} else {
		nx /= 2
	}
	o := sparse.ZerosDense(ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if axis == 0 {
				o.Set(a.Get(2*j, i)+a.Get(2*j+1, i), j, i)
			} else {
				o.Set(a.Get(j, 2*i)+a.Get(j, 2*i+1), j, i)
			}
		}
	}
	return o, nil
}

// blockSum sums a in disjoint 2×2 blocks. Row pairs are summed before
// column pairs, so each output element is (a[0,0]+a[1,0]) + (a[0,1]+a[1,1]).
func blockSum(field string, a *sparse.DenseArray) (*sparse.DenseArray, error) {
	rows, err := sumPairs(field, a, 0)
	if err != nil {
		return nil, err
	}
	return sumPairs(field, rows, 1)
}
