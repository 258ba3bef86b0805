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

// ValidationError is returned when an input does not satisfy the
// preconditions of the grid derivation, for example when the super-grid
// dimensions are not of the form 2n+1 or the mask does not match the
// derived grid.
type ValidationError struct {
	Field  string // the offending input field
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("om3utils: invalid %s: %s", e.Field, e.Reason)
}

// ShapeError signals that a block summation or fold was attempted on an
// axis that cannot be split into pairs. Validation should make this
// impossible, so a ShapeError means a precondition check is missing.
type ShapeError struct {
	Field  string
	Axis   int
	Length int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("om3utils: internal error: axis %d of %s has length %d, "+
		"which cannot be divided into pairs", e.Axis, e.Field, e.Length)
}

func invalid(field, format string, a ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}
