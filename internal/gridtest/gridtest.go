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

// Package gridtest creates synthetic MOM grids for tests.
package gridtest

import (
	"math"
	"os"
	"path/filepath"

	"github.com/COSIMA/om3utils"
	"github.com/COSIMA/om3utils/mom"
	"github.com/ctessum/sparse"
)

const earthRadius = 6371e3 // m

// SuperGrid returns a regular longitude/latitude super-grid of ny by nx
// model cells covering 0-360°E and 80°S-80°N. The edge lengths and areas
// are computed on a sphere, and the grid angle varies smoothly so that
// no two points share the same value.
func SuperGrid(ny, nx int) *om3utils.SuperGrid {
	nyp, nxp := 2*ny+1, 2*nx+1
	dlon := 360 / float64(nxp-1)
	dlat := 160 / float64(nyp-1)
	lon := func(i int) float64 { return float64(i) * dlon }
	lat := func(j int) float64 { return -80 + float64(j)*dlat }
	rad := math.Pi / 180

	sg := &om3utils.SuperGrid{
		X:       sparse.ZerosDense(nyp, nxp),
		Y:       sparse.ZerosDense(nyp, nxp),
		AngleDx: sparse.ZerosDense(nyp, nxp),
		Dx:      sparse.ZerosDense(nyp, nxp-1),
		Dy:      sparse.ZerosDense(nyp-1, nxp),
		Area:    sparse.ZerosDense(nyp-1, nxp-1),
	}
	for j := 0; j < nyp; j++ {
		for i := 0; i < nxp; i++ {
			sg.X.Set(lon(i), j, i)
			sg.Y.Set(lat(j), j, i)
			sg.AngleDx.Set(math.Sin(float64(j)*0.7)+math.Cos(float64(i)*0.3)/3, j, i)
			if i < nxp-1 {
				sg.Dx.Set(earthRadius*math.Cos(lat(j)*rad)*dlon*rad, j, i)
			}
			if j < nyp-1 {
				sg.Dy.Set(earthRadius*dlat*rad, j, i)
			}
			if i < nxp-1 && j < nyp-1 {
				a := earthRadius * earthRadius * dlon * rad *
					(math.Sin(lat(j+1)*rad) - math.Sin(lat(j)*rad))
				sg.Area.Set(a, j, i)
			}
		}
	}
	return sg
}

// Mask returns a mask of ny by nx cells with land in a diagonal band.
func Mask(ny, nx int) *om3utils.Mask {
	ocean := make([]bool, ny*nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			ocean[j*nx+i] = (i+j)%3 != 0
		}
	}
	m, err := om3utils.NewMask(ny, nx, ocean)
	if err != nil {
		panic(err)
	}
	return m
}

// WriteInputs writes a super-grid file and a mask file for a grid of ny by
// nx cells to dir and returns their paths.
func WriteInputs(dir string, ny, nx int) (hgrid, mask string, err error) {
	hgrid = filepath.Join(dir, "ocean_hgrid.nc")
	mask = filepath.Join(dir, "ocean_mask.nc")

	f, err := os.Create(hgrid)
	if err != nil {
		return "", "", err
	}
	if err = mom.WriteSuperGrid(f, SuperGrid(ny, nx)); err != nil {
		f.Close()
		return "", "", err
	}
	if err = f.Close(); err != nil {
		return "", "", err
	}

	f, err = os.Create(mask)
	if err != nil {
		return "", "", err
	}
	if err = mom.WriteMask(f, Mask(ny, nx), "mask"); err != nil {
		f.Close()
		return "", "", err
	}
	return hgrid, mask, f.Close()
}
