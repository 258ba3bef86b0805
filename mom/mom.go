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

// Package mom reads the horizontal super-grid and ocean mask files of the
// MOM ocean model.
//
// Only the NetCDF classic and 64-bit offset formats can be read; NetCDF-4
// files can be converted with "nccopy -k 64-bit offset".
package mom

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/COSIMA/om3utils"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Reader loads MOM grid files. The zero value uses the standard variable
// names.
type Reader struct {
	// MaskVariable is the name of the mask variable in the mask file.
	// If empty, "mask" is used.
	MaskVariable string
}

// LoadSuperGrid reads the super-grid file at path.
func (rd Reader) LoadSuperGrid(path string) (*om3utils.SuperGrid, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSuperGrid(f)
}

// LoadMask reads the ocean mask file at path.
func (rd Reader) LoadMask(path string) (*om3utils.Mask, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v := rd.MaskVariable
	if v == "" {
		v = "mask"
	}
	return ReadMask(f, v)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &om3utils.ValidationError{Field: path, Reason: err.Error()}
	}
	return f, nil
}

// ReadSuperGrid reads a super-grid from the NetCDF data in rw.
// The super-grid is not validated.
func ReadSuperGrid(rw cdf.ReaderWriterAt) (*om3utils.SuperGrid, error) {
	f, err := openCDF(rw, "super-grid")
	if err != nil {
		return nil, err
	}
	sg := new(om3utils.SuperGrid)
	for _, v := range []struct {
		name string
		dst  **sparse.DenseArray
	}{
		{"x", &sg.X},
		{"y", &sg.Y},
		{"dx", &sg.Dx},
		{"dy", &sg.Dy},
		{"area", &sg.Area},
		{"angle_dx", &sg.AngleDx},
	} {
		if *v.dst, err = readVar(f, v.name); err != nil {
			return nil, err
		}
	}
	return sg, nil
}

// ReadMask reads the mask variable varName from the NetCDF data in rw.
// Non-zero values are ocean; zero and NaN values are land.
func ReadMask(rw cdf.ReaderWriterAt, varName string) (*om3utils.Mask, error) {
	f, err := openCDF(rw, "mask")
	if err != nil {
		return nil, err
	}
	data, err := readVar(f, varName)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 2 {
		return nil, &om3utils.ValidationError{
			Field:  varName,
			Reason: fmt.Sprintf("should have 2 dimensions but has %d", len(data.Shape)),
		}
	}
	ocean := make([]bool, len(data.Elements))
	for i, v := range data.Elements {
		ocean[i] = v != 0 && !math.IsNaN(v)
	}
	return om3utils.NewMask(data.Shape[0], data.Shape[1], ocean)
}

// hdf5Signature begins every NetCDF-4 file.
var hdf5Signature = []byte("\x89HDF\r\n\x1a\n")

func openCDF(rw cdf.ReaderWriterAt, what string) (*cdf.File, error) {
	f, err := cdf.Open(rw)
	if err == nil {
		return f, nil
	}
	sig := make([]byte, len(hdf5Signature))
	if _, rerr := rw.ReadAt(sig, 0); rerr == nil && bytes.Equal(sig, hdf5Signature) {
		return nil, fmt.Errorf("mom: %s is a NetCDF-4 file, which cannot be read; "+
			"convert it with \"nccopy -k '64-bit offset' in.nc out.nc\"", what)
	}
	return nil, fmt.Errorf("mom: opening %s: %v", what, err)
}

// readVar reads the whole of variable name from f, converting it
// to float64.
func readVar(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, &om3utils.ValidationError{Field: name, Reason: "variable is not in file"}
	}
	for _, d := range dims {
		if d == 0 {
			return nil, &om3utils.ValidationError{
				Field:  name,
				Reason: fmt.Sprintf("record variables are not supported (dimensions %v)", dims),
			}
		}
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("mom: reading variable %s: %v", name, err)
	}
	data := sparse.ZerosDense(dims...)
	n := lenOf(buf)
	if n < 0 {
		return nil, &om3utils.ValidationError{
			Field:  name,
			Reason: fmt.Sprintf("unsupported data type %T", buf),
		}
	}
	if n != len(data.Elements) {
		return nil, fmt.Errorf("mom: variable %s: dims are %v but array length is %d", name, dims, n)
	}
	switch b := buf.(type) {
	case []float64:
		copy(data.Elements, b)
	case []float32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []int32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []uint8:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	}
	return data, nil
}

func lenOf(buf interface{}) int {
	switch b := buf.(type) {
	case []float64:
		return len(b)
	case []float32:
		return len(b)
	case []int32:
		return len(b)
	case []int16:
		return len(b)
	case []uint8:
		return len(b)
	}
	return -1
}
