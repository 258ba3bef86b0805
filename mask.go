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

// Mask is a land/sea mask on the model grid. Ocean is stored in row-major
// order with shape (Ny, Nx); true marks an ocean cell.
type Mask struct {
	Ny, Nx int
	Ocean  []bool
}

// NewMask returns a mask of shape (ny, nx) holding the given values.
func NewMask(ny, nx int, ocean []bool) (*Mask, error) {
	if ny <= 0 || nx <= 0 {
		return nil, invalid("mask", "shape [%d %d] is empty", ny, nx)
	}
	if len(ocean) != ny*nx {
		return nil, invalid("mask", "shape [%d %d] requires %d values but there are %d",
			ny, nx, ny*nx, len(ocean))
	}
	return &Mask{Ny: ny, Nx: nx, Ocean: ocean}, nil
}

// Validate checks that the mask matches a model grid of shape (ny, nx).
func (m *Mask) Validate(ny, nx int) error {
	if m == nil {
		return invalid("mask", "no mask given")
	}
	if m.Ny != ny || m.Nx != nx {
		return invalid("mask", "shape is [%d %d] but the grid derived from the "+
			"super-grid is [%d %d]", m.Ny, m.Nx, ny, nx)
	}
	if len(m.Ocean) != ny*nx {
		return invalid("mask", "shape [%d %d] requires %d values but there are %d",
			ny, nx, ny*nx, len(m.Ocean))
	}
	return nil
}

// KMT returns the mask in the CICE level count convention: 1 for ocean
// cells and 0 for land cells.
func (m *Mask) KMT() []int32 {
	kmt := make([]int32, len(m.Ocean))
	for i, ocean := range m.Ocean {
		if ocean {
			kmt[i] = 1
		}
	}
	return kmt
}
