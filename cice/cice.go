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

// Package cice writes and reads the grid and mask (kmt) files of the CICE
// sea ice model, annotated with CF metadata.
package cice

// Conventions is the metadata convention the files follow.
const Conventions = "CF-1.6"

// Global attribute names.
const (
	AttrInputFile      = "inputfile"
	AttrInputFileMD5   = "inputfile_md5"
	AttrHistoryCommand = "history_command"
)

// Attribute is a text attribute of a variable.
type Attribute struct {
	Name, Value string
}

// Variable describes a data variable of a CICE file.
type Variable struct {
	Name       string
	Attributes []Attribute
}

// Attribute returns the value of the named attribute.
func (v Variable) Attribute(name string) (string, bool) {
	for _, a := range v.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// GridVariables are the variables of the grid file, in the order they
// are written.
var GridVariables = []Variable{
	{"ulat", []Attribute{
		{"long_name", "U grid center latitude"},
		{"standard_name", "latitude"},
		{"units", "radians"},
	}},
	{"ulon", []Attribute{
		{"long_name", "U grid center longitude"},
		{"standard_name", "longitude"},
		{"units", "radians"},
	}},
	{"tlat", []Attribute{
		{"long_name", "T grid center latitude"},
		{"standard_name", "latitude"},
		{"units", "radians"},
	}},
	{"tlon", []Attribute{
		{"long_name", "T grid center longitude"},
		{"standard_name", "longitude"},
		{"units", "radians"},
	}},
	{"htn", []Attribute{
		{"long_name", "T cell width on North side"},
		{"units", "cm"},
		{"grid_mapping", CRSVariable},
		{"coordinates", "ulat tlon"},
	}},
	{"hte", []Attribute{
		{"long_name", "T cell width on East side"},
		{"units", "cm"},
		{"grid_mapping", CRSVariable},
		{"coordinates", "tlat ulon"},
	}},
	{"angle", []Attribute{
		{"long_name", "angle grid makes with latitude line on U grid"},
		{"standard_name", "angle_of_rotation_from_east_to_x"},
		{"units", "radians"},
		{"grid_mapping", CRSVariable},
		{"coordinates", "ulat ulon"},
	}},
	{"angleT", []Attribute{
		{"long_name", "angle grid makes with latitude line on T grid"},
		{"standard_name", "angle_of_rotation_from_east_to_x"},
		{"units", "radians"},
		{"grid_mapping", CRSVariable},
		{"coordinates", "tlat tlon"},
	}},
	{"tarea", []Attribute{
		{"long_name", "area of T grid cells"},
		{"standard_name", "cell_area"},
		{"units", "m^2"},
		{"grid_mapping", CRSVariable},
		{"coordinates", "tlat tlon"},
	}},
	{"uarea", []Attribute{
		{"long_name", "area of U grid cells"},
		{"standard_name", "cell_area"},
		{"units", "m^2"},
		{"grid_mapping", CRSVariable},
		{"coordinates", "ulat ulon"},
	}},
}

// KMTVariable is the variable of the mask file.
var KMTVariable = Variable{"kmt", []Attribute{
	{"long_name", "ocean mask"},
	{"units", "1"},
	{"grid_mapping", CRSVariable},
	{"coordinates", "tlat tlon"},
}}

// gridVariable returns the description of grid file variable name.
func gridVariable(name string) (Variable, bool) {
	for _, v := range GridVariables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
