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
	"fmt"

	"github.com/COSIMA/om3utils/internal/hash"
)

// HashAlgorithm is the digest used for the inputfile_md5 attribute.
const HashAlgorithm = "md5"

// Provenance records where an output file came from. It is written to the
// output file once, when the file is created.
type Provenance struct {
	// InputFile is the input location exactly as it was given.
	InputFile string

	// InputFileMD5 is the hexadecimal MD5 digest of the raw input file bytes.
	InputFileMD5 string

	// HistoryCommand is the command that created the output file.
	HistoryCommand string
}

// Input is an input file location.
type Input struct {
	// Name is the location as the user gave it, which may be a URL.
	// It is the value recorded as the provenance input file.
	Name string

	// Path is the local copy of the file. If it is empty, Name is used.
	Path string
}

// LocalPath returns the location the input should be read from.
func (in Input) LocalPath() string {
	if in.Path != "" {
		return in.Path
	}
	return in.Name
}

// NewProvenance hashes the local copy of in and returns its provenance.
func NewProvenance(in Input, history string) (*Provenance, error) {
	sum, err := hash.MD5File(in.LocalPath())
	if err != nil {
		return nil, &ValidationError{
			Field:  in.Name,
			Reason: fmt.Sprintf("computing %s checksum: %v", HashAlgorithm, err),
		}
	}
	return &Provenance{
		InputFile:      in.Name,
		InputFileMD5:   sum,
		HistoryCommand: history,
	}, nil
}
