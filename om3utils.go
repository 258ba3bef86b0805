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

// Package om3utils converts a MOM ocean model super-grid into the grid and
// land mask description used by the CICE sea ice model.
//
// The derivation functions in this package operate on in-memory arrays only.
// Reading the MOM files and writing the CICE files is done by the mom and
// cice subpackages, which satisfy the GridLoader and DatasetWriter
// interfaces declared here.
package om3utils

import "math"

// Version gives the version number.
const Version = "0.2.0"

const (
	// DegToRad converts degrees to radians.
	DegToRad = math.Pi / 180

	// CentimetresPerMetre converts the super-grid edge lengths, which are
	// in metres, to the centimetres CICE expects.
	CentimetresPerMetre = 100.0
)
