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

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom/proj"
)

const (
	// GridMappingName is the grid_mapping_name of the crs variable.
	GridMappingName = "tripolar_latitude_longitude"

	// CRSWKT is WGS 84 (EPSG:4326) with angles in radians.
	CRSWKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["radians",1,AUTHORITY["EPSG","9122"]],AXIS["Latitude",NORTH],AXIS["Longitude",EAST],AUTHORITY["EPSG","4326"]]`

	// DefaultProj4 is the PROJ.4 form of the coordinate reference system.
	DefaultProj4 = "+proj=longlat +datum=WGS84 +no_defs"

	// CRSVariable is the name of the coordinate reference system variable.
	CRSVariable = "crs"
)

// CRS is the coordinate reference system marker written to every output
// file.
type CRS struct {
	Proj4 string
}

// NewCRS returns a CRS described by the PROJ.4 string proj4, which must
// be a geographic (longitude/latitude) system.
func NewCRS(proj4 string) (CRS, error) {
	sr, err := proj.Parse(proj4)
	if err != nil {
		return CRS{}, fmt.Errorf("cice: parsing coordinate reference system %q: %v", proj4, err)
	}
	if sr.Name != "longlat" {
		return CRS{}, fmt.Errorf("cice: coordinate reference system %q is projection %q "+
			"but CICE grids are geographic (longlat)", proj4, sr.Name)
	}
	return CRS{Proj4: proj4}, nil
}

// DefaultCRS returns the WGS 84 coordinate reference system.
func DefaultCRS() CRS { return CRS{Proj4: DefaultProj4} }

// define adds the crs variable to h.
func (c CRS) define(h *cdf.Header) {
	h.AddVariable(CRSVariable, []string{}, []int32{0})
	h.AddAttribute(CRSVariable, "grid_mapping_name", GridMappingName)
	h.AddAttribute(CRSVariable, "crs_wkt", CRSWKT)
	proj4 := c.Proj4
	if proj4 == "" {
		proj4 = DefaultProj4
	}
	h.AddAttribute(CRSVariable, "proj4", proj4)
}

// write writes the (meaningless) value of the crs variable so that the
// file has its full length.
func (c CRS) write(f *cdf.File) error {
	// The writer reports io.EOF once the variable is full.
	if _, err := f.Writer(CRSVariable, nil, nil).Write([]int32{0}); err != nil && err != io.EOF {
		return fmt.Errorf("cice: writing variable %s: %v", CRSVariable, err)
	}
	return nil
}
