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
	"io"
	"os"

	"github.com/COSIMA/om3utils"
	"github.com/ctessum/cdf"
)

var dims = []string{"ny", "nx"}

// Writer creates CICE grid and mask files. It satisfies
// om3utils.DatasetWriter.
type Writer struct {
	CRS CRS
}

// WriteGrid creates the grid file at path.
func (w Writer) WriteGrid(path string, g *om3utils.CICEGrid, p *om3utils.Provenance) error {
	return create(path, func(f *os.File) error { return w.EncodeGrid(f, g, p) })
}

// WriteKMT creates the mask file at path.
func (w Writer) WriteKMT(path string, m *om3utils.Mask, p *om3utils.Provenance) error {
	return create(path, func(f *os.File) error { return w.EncodeKMT(f, m, p) })
}

// create writes a file at path using encode. Nothing is left at path
// if encoding fails.
func create(path string, encode func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cice: creating output file: %v", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("cice: closing %s: %v", path, err)
	}
	return nil
}

// EncodeGrid writes g to rw as a CICE grid file.
func (w Writer) EncodeGrid(rw cdf.ReaderWriterAt, g *om3utils.CICEGrid, p *om3utils.Provenance) error {
	fields := g.Fields()
	for _, fld := range fields {
		if fld.Data == nil {
			return fmt.Errorf("cice: grid variable %s is missing", fld.Name)
		}
		if len(fld.Data.Shape) != 2 || fld.Data.Shape[0] != g.Ny || fld.Data.Shape[1] != g.Nx {
			return fmt.Errorf("cice: grid variable %s has shape %v but the grid is [%d %d]",
				fld.Name, fld.Data.Shape, g.Ny, g.Nx)
		}
	}

	h := cdf.NewHeader(dims, []int{g.Ny, g.Nx})
	h.AddAttribute("", "title", "CICE grid file")
	addGlobal(h, p)
	for _, fld := range fields {
		v, ok := gridVariable(fld.Name)
		if !ok {
			return fmt.Errorf("cice: no metadata for grid variable %s", fld.Name)
		}
		h.AddVariable(v.Name, dims, []float64{0})
		addAttributes(h, v)
	}
	w.CRS.define(h)
	h.Define()

	f, err := cdf.Create(rw, h) // writes the header to rw
	if err != nil {
		return fmt.Errorf("cice: creating grid file: %v", err)
	}
	for _, fld := range fields {
		if err := writeVar(f, fld.Name, fld.Data.Elements); err != nil {
			return err
		}
	}
	return w.CRS.write(f)
}

// EncodeKMT writes m to rw as a CICE mask file.
func (w Writer) EncodeKMT(rw cdf.ReaderWriterAt, m *om3utils.Mask, p *om3utils.Provenance) error {
	if err := m.Validate(m.Ny, m.Nx); err != nil {
		return err
	}
	h := cdf.NewHeader(dims, []int{m.Ny, m.Nx})
	h.AddAttribute("", "title", "CICE mask file")
	addGlobal(h, p)
	h.AddVariable(KMTVariable.Name, dims, []int32{0})
	addAttributes(h, KMTVariable)
	w.CRS.define(h)
	h.Define()

	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("cice: creating mask file: %v", err)
	}
	if err := writeVar(f, KMTVariable.Name, m.KMT()); err != nil {
		return err
	}
	return w.CRS.write(f)
}

func addGlobal(h *cdf.Header, p *om3utils.Provenance) {
	h.AddAttribute("", "Conventions", Conventions)
	if p == nil {
		return
	}
	h.AddAttribute("", AttrInputFile, p.InputFile)
	h.AddAttribute("", AttrInputFileMD5, p.InputFileMD5)
	h.AddAttribute("", AttrHistoryCommand, p.HistoryCommand)
}

func addAttributes(h *cdf.Header, v Variable) {
	for _, a := range v.Attributes {
		h.AddAttribute(v.Name, a.Name, a.Value)
	}
}

func writeVar(f *cdf.File, name string, data interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(data); err != nil && err != io.EOF {
		return fmt.Errorf("cice: writing variable %s: %v", name, err)
	}
	return nil
}
