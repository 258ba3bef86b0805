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

import "fmt"

// GridLoader reads the inputs of a conversion.
type GridLoader interface {
	LoadSuperGrid(path string) (*SuperGrid, error)
	LoadMask(path string) (*Mask, error)
}

// DatasetWriter writes the outputs of a conversion.
type DatasetWriter interface {
	WriteGrid(path string, g *CICEGrid, p *Provenance) error
	WriteKMT(path string, m *Mask, p *Provenance) error
}

// ConvertRequest specifies one conversion.
type ConvertRequest struct {
	HGrid Input // MOM super-grid file
	Mask  Input // MOM ocean mask file

	GridFile string // location of the CICE grid file to create
	KMTFile  string // location of the CICE mask file to create

	// History is the command line recorded in both outputs.
	History string
}

// Result holds everything computed by a conversion.
type Result struct {
	Grid *CICEGrid
	Mask *Mask

	GridProvenance *Provenance
	MaskProvenance *Provenance
}

// Prepare loads and validates the inputs of req and derives the CICE grid
// without writing anything.
func Prepare(l GridLoader, req *ConvertRequest) (*Result, error) {
	sg, err := l.LoadSuperGrid(req.HGrid.LocalPath())
	if err != nil {
		return nil, fmt.Errorf("om3utils: loading super-grid %s: %w", req.HGrid.Name, err)
	}
	mask, err := l.LoadMask(req.Mask.LocalPath())
	if err != nil {
		return nil, fmt.Errorf("om3utils: loading mask %s: %w", req.Mask.Name, err)
	}
	grid, err := NewCICEGrid(sg)
	if err != nil {
		return nil, err
	}
	if err := mask.Validate(grid.Ny, grid.Nx); err != nil {
		return nil, err
	}
	r := &Result{Grid: grid, Mask: mask}
	if r.GridProvenance, err = NewProvenance(req.HGrid, req.History); err != nil {
		return nil, err
	}
	if r.MaskProvenance, err = NewProvenance(req.Mask, req.History); err != nil {
		return nil, err
	}
	return r, nil
}

// Convert prepares req and writes the grid file followed by the mask file.
// Nothing is written unless every input is valid.
func Convert(l GridLoader, w DatasetWriter, req *ConvertRequest) (*Result, error) {
	r, err := Prepare(l, req)
	if err != nil {
		return nil, err
	}
	if err := w.WriteGrid(req.GridFile, r.Grid, r.GridProvenance); err != nil {
		return nil, fmt.Errorf("om3utils: writing grid file: %w", err)
	}
	if err := w.WriteKMT(req.KMTFile, r.Mask, r.MaskProvenance); err != nil {
		return nil, fmt.Errorf("om3utils: writing mask file: %w", err)
	}
	return r, nil
}
