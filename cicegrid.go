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

import (
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// CICEGrid is the horizontal grid of the CICE sea ice model. T points are
// cell centers and U points are the north-east corners of the cells. All
// fields have shape (Ny, Nx).
type CICEGrid struct {
	Nx, Ny int

	ULat, ULon *sparse.DenseArray // U point coordinates [radians]
	TLat, TLon *sparse.DenseArray // T point coordinates [radians]

	HTN *sparse.DenseArray // length of the northern edge of each T cell [cm]
	HTE *sparse.DenseArray // length of the eastern edge of each T cell [cm]

	Angle  *sparse.DenseArray // rotation of the grid from east at U points [radians]
	AngleT *sparse.DenseArray // rotation of the grid from east at T points [radians]

	TArea *sparse.DenseArray // T cell area [m²]
	UArea *sparse.DenseArray // area of the cell centered on each U point [m²]
}

// Field is a named CICE grid variable.
type Field struct {
	Name string
	Data *sparse.DenseArray
}

// Fields returns the grid variables in the order they are written,
// using the CICE variable names.
func (g *CICEGrid) Fields() []Field {
	return []Field{
		{"ulat", g.ULat},
		{"ulon", g.ULon},
		{"tlat", g.TLat},
		{"tlon", g.TLon},
		{"htn", g.HTN},
		{"hte", g.HTE},
		{"angle", g.Angle},
		{"angleT", g.AngleT},
		{"tarea", g.TArea},
		{"uarea", g.UArea},
	}
}

// NewCICEGrid derives the CICE grid from sg. sg is validated first and
// nothing is computed if it is invalid.
func NewCICEGrid(sg *SuperGrid) (*CICEGrid, error) {
	if err := sg.Validate(); err != nil {
		return nil, err
	}
	g := &CICEGrid{
		Nx:     sg.Nx(),
		Ny:     sg.Ny(),
		ULat:   degToRad(ExtractCorners(sg.Y)),
		ULon:   degToRad(ExtractCorners(sg.X)),
		TLat:   degToRad(ExtractCenters(sg.Y)),
		TLon:   degToRad(ExtractCenters(sg.X)),
		Angle:  degToRad(ExtractCorners(sg.AngleDx)),
		AngleT: degToRad(ExtractCenters(sg.AngleDx)),
	}
	var err error
	if g.HTN, err = EdgeLengthTop(sg.Dx); err != nil {
		return nil, err
	}
	if g.HTE, err = EdgeLengthEast(sg.Dy); err != nil {
		return nil, err
	}
	if g.TArea, err = CellArea(sg.Area); err != nil {
		return nil, err
	}
	if g.UArea, err = CornerArea(sg.Area); err != nil {
		return nil, err
	}
	return g, nil
}

// ExtractCorners returns the U point (cell corner) values of a super-grid
// point field: rows and columns 2, 4, ..., 2n.
func ExtractCorners(field *sparse.DenseArray) *sparse.DenseArray {
	return subsample(field, 2, 2, 2, 2)
}

// ExtractCenters returns the T point (cell center) values of a super-grid
// point field: rows and columns 1, 3, ..., 2n-1.
func ExtractCenters(field *sparse.DenseArray) *sparse.DenseArray {
	return subsample(field, 1, 2, 1, 2)
}

// EdgeLengthTop returns HTN, the length of the northern edge of each T cell
// in cm, from the super-grid x-direction edge lengths dx [m].
func EdgeLengthTop(dx *sparse.DenseArray) (*sparse.DenseArray, error) {
	top := subsample(dx, 2, 2, 0, 1)
	htn, err := sumPairs("dx", top, 1)
	if err != nil {
		return nil, err
	}
	floats.Scale(CentimetresPerMetre, htn.Elements)
	return htn, nil
}

// EdgeLengthEast returns HTE, the length of the eastern edge of each T cell
// in cm, from the super-grid y-direction edge lengths dy [m].
func EdgeLengthEast(dy *sparse.DenseArray) (*sparse.DenseArray, error) {
	east := subsample(dy, 0, 1, 2, 2)
	hte, err := sumPairs("dy", east, 0)
	if err != nil {
		return nil, err
	}
	floats.Scale(CentimetresPerMetre, hte.Elements)
	return hte, nil
}

// CellArea returns TArea, the sum of the four super-grid cells making up
// each model cell.
func CellArea(area *sparse.DenseArray) (*sparse.DenseArray, error) {
	return blockSum("area", area)
}

// CornerArea returns UArea, the area of the cell centered on each U point.
// See WrapFold for how the cells across the periodic and folded boundaries
// are found.
func CornerArea(area *sparse.DenseArray) (*sparse.DenseArray, error) {
	folded, err := WrapFold(area)
	if err != nil {
		return nil, err
	}
	return blockSum("area_folded", folded)
}

func degToRad(a *sparse.DenseArray) *sparse.DenseArray {
	floats.Scale(DegToRad, a.Elements)
	return a
}
