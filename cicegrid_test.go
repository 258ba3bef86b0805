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
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/kr/pretty"
	"gonum.org/v1/gonum/floats"
)

const rtol = 1e-13

// denseFunc returns a (ny, nx) array with elements f(j, i).
func denseFunc(ny, nx int, f func(j, i int) float64) *sparse.DenseArray {
	a := sparse.ZerosDense(ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a.Set(f(j, i), j, i)
		}
	}
	return a
}

// testSuperGrid returns a super-grid for a model grid of ny by nx cells
// where every element encodes its own indices.
func testSuperGrid(ny, nx int) *SuperGrid {
	nyp, nxp := 2*ny+1, 2*nx+1
	return &SuperGrid{
		X:       denseFunc(nyp, nxp, func(j, i int) float64 { return float64(i)*5 - 180 }),
		Y:       denseFunc(nyp, nxp, func(j, i int) float64 { return float64(j)*4 - 80 }),
		Dx:      denseFunc(nyp, nxp-1, func(j, i int) float64 { return float64(j*10 + i) }),
		Dy:      denseFunc(nyp-1, nxp, func(j, i int) float64 { return float64(j*10 + i) }),
		Area:    denseFunc(nyp-1, nxp-1, func(j, i int) float64 { return float64(j*(nxp-1) + i + 1) }),
		AngleDx: denseFunc(nyp, nxp, func(j, i int) float64 { return float64(j+i) * 0.5 }),
	}
}

// randomSuperGrid returns a super-grid with random positive values.
func randomSuperGrid(ny, nx int, seed int64) *SuperGrid {
	r := rand.New(rand.NewSource(seed))
	rnd := func(scale float64) func(j, i int) float64 {
		return func(j, i int) float64 { return r.Float64() * scale }
	}
	nyp, nxp := 2*ny+1, 2*nx+1
	return &SuperGrid{
		X:       denseFunc(nyp, nxp, rnd(360)),
		Y:       denseFunc(nyp, nxp, rnd(90)),
		Dx:      denseFunc(nyp, nxp-1, rnd(1e5)),
		Dy:      denseFunc(nyp-1, nxp, rnd(1e5)),
		Area:    denseFunc(nyp-1, nxp-1, rnd(1e10)),
		AngleDx: denseFunc(nyp, nxp, rnd(30)),
	}
}

func checkArray(t *testing.T, name string, have *sparse.DenseArray, want [][]float64) {
	t.Helper()
	if len(have.Shape) != 2 || have.Shape[0] != len(want) || have.Shape[1] != len(want[0]) {
		t.Fatalf("%s: shape %v, want [%d %d]", name, have.Shape, len(want), len(want[0]))
	}
	for j, row := range want {
		for i, w := range row {
			if h := have.Get(j, i); !floats.EqualWithinAbsOrRel(h, w, 0, rtol) {
				t.Errorf("%s[%d,%d] = %g, want %g", name, j, i, h, w)
			}
		}
	}
}

func TestCICEGrid2x2(t *testing.T) {
	sg := testSuperGrid(2, 2)
	g, err := NewCICEGrid(sg)
	if err != nil {
		t.Fatal(err)
	}
	if g.Nx != 2 || g.Ny != 2 {
		t.Fatalf("grid size %dx%d, want 2x2", g.Ny, g.Nx)
	}

	t.Run("coordinates", func(t *testing.T) {
		d := DegToRad
		checkArray(t, "ulat", g.ULat, [][]float64{{-72 * d, -72 * d}, {-64 * d, -64 * d}})
		checkArray(t, "ulon", g.ULon, [][]float64{{-170 * d, -160 * d}, {-170 * d, -160 * d}})
		checkArray(t, "tlat", g.TLat, [][]float64{{-76 * d, -76 * d}, {-68 * d, -68 * d}})
		checkArray(t, "tlon", g.TLon, [][]float64{{-175 * d, -165 * d}, {-175 * d, -165 * d}})
		checkArray(t, "angle", g.Angle, [][]float64{{2 * d, 3 * d}, {3 * d, 4 * d}})
		checkArray(t, "angleT", g.AngleT, [][]float64{{1 * d, 2 * d}, {2 * d, 3 * d}})
	})
	t.Run("edges", func(t *testing.T) {
		// htn = (dx[2j+2, 2i] + dx[2j+2, 2i+1]) * 100
		checkArray(t, "htn", g.HTN, [][]float64{{4100, 4500}, {8100, 8500}})
		// hte = (dy[2j, 2i+2] + dy[2j+1, 2i+2]) * 100
		checkArray(t, "hte", g.HTE, [][]float64{{1400, 1800}, {5400, 5800}})
	})
	t.Run("tarea", func(t *testing.T) {
		// area is 1..16 in row-major order.
		checkArray(t, "tarea", g.TArea, [][]float64{{1 + 5 + 2 + 6, 3 + 7 + 4 + 8}, {9 + 13 + 10 + 14, 11 + 15 + 12 + 16}})
	})
	t.Run("uarea", func(t *testing.T) {
		// The interior corner at super-grid point (2, 2) is surrounded by
		// area[1,1], area[1,2], area[2,1] and area[2,2].
		interior := sg.Area.Get(1, 1) + sg.Area.Get(1, 2) + sg.Area.Get(2, 1) + sg.Area.Get(2, 2)
		if interior != 34 {
			t.Fatalf("hand calculation: %g", interior)
		}
		// The corner at (2, 4) wraps around to column 0.
		wrapped := sg.Area.Get(1, 3) + sg.Area.Get(2, 3) + sg.Area.Get(1, 0) + sg.Area.Get(2, 0)
		// The northern corners include the fold row 15, 14, 16, 13.
		checkArray(t, "uarea", g.UArea, [][]float64{{interior, wrapped}, {14 + 15 + 15 + 14, 16 + 16 + 13 + 13}})
	})
}

func TestWrapFold(t *testing.T) {
	area := denseFunc(4, 4, func(j, i int) float64 { return float64(j*4 + i + 1) })
	folded, err := WrapFold(area)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{
		6, 7, 8, 5,
		10, 11, 12, 9,
		14, 15, 16, 13,
		15, 14, 16, 13,
	}
	if diff := pretty.Diff(folded.Elements, want); len(diff) > 0 {
		t.Errorf("folded area: %v", diff)
	}
	if diff := pretty.Diff(folded.Shape, area.Shape); len(diff) > 0 {
		t.Errorf("shape: %v", diff)
	}
}

func TestWrapFoldShapes(t *testing.T) {
	for _, shape := range [][2]int{{2, 2}, {2, 6}, {8, 4}, {10, 12}} {
		ny, nx := shape[0], shape[1]
		area := denseFunc(ny, nx, func(j, i int) float64 { return float64(j*nx + i) })
		folded, err := WrapFold(area)
		if err != nil {
			t.Fatalf("%v: %v", shape, err)
		}
		if folded.Shape[0] != ny || folded.Shape[1] != nx {
			t.Errorf("%v: folded shape %v", shape, folded.Shape)
		}
		// Every value appears exactly once except the last row, whose
		// values all appear twice.
		seen := make(map[float64]int)
		for _, v := range folded.Elements {
			seen[v]++
		}
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				want := 1
				if j == 0 {
					want = 0
				} else if j == ny-1 {
					want = 2
				}
				if n := seen[area.Get(j, i)]; n != want {
					t.Errorf("%v: area[%d,%d] appears %d times, want %d", shape, j, i, n, want)
				}
			}
		}
	}
}

func TestWrapFoldOddShape(t *testing.T) {
	_, err := WrapFold(sparse.ZerosDense(4, 3))
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("want ShapeError, got %v", err)
	}
	if se.Axis != 1 || se.Length != 3 {
		t.Errorf("error context: %+v", se)
	}
}

// referenceUArea computes the U cell area by looking up the four quarter
// cells around each corner directly.
func referenceUArea(area *sparse.DenseArray) *sparse.DenseArray {
	ny, nx := area.Shape[0]/2, area.Shape[1]/2
	C := area.Shape[1]
	last := area.Shape[0] - 1
	// Across the fold, column c of the row above the last row is column
	// C-1-c of the last row, except for the first and last columns.
	above := func(c int) float64 {
		if c == 0 || c == C-1 {
			return area.Get(last, c)
		}
		return area.Get(last, C-1-c)
	}
	return denseFunc(ny, nx, func(j, i int) float64 {
		c0, c1 := (2*i+1)%C, (2*i+2)%C
		south0, south1 := area.Get(2*j+1, c0), area.Get(2*j+1, c1)
		var north0, north1 float64
		if j < ny-1 {
			north0, north1 = area.Get(2*j+2, c0), area.Get(2*j+2, c1)
		} else {
			north0, north1 = above(c0), above(c1)
		}
		return (south0 + north0) + (south1 + north1)
	})
}

func TestCornerAreaReference(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {2, 2}, {3, 5}, {12, 16}} {
		sg := randomSuperGrid(size[0], size[1], int64(size[0]*100+size[1]))
		have, err := CornerArea(sg.Area)
		if err != nil {
			t.Fatal(err)
		}
		want := referenceUArea(sg.Area)
		for k, h := range have.Elements {
			if !floats.EqualWithinAbsOrRel(h, want.Elements[k], 0, rtol) {
				t.Errorf("%v: element %d: %g != %g", size, k, h, want.Elements[k])
			}
		}
	}
}

func TestCellAreaConservesTotal(t *testing.T) {
	sg := randomSuperGrid(6, 10, 1)
	tarea, err := CellArea(sg.Area)
	if err != nil {
		t.Fatal(err)
	}
	uarea, err := CornerArea(sg.Area)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 6; j++ {
		for i := 0; i < 10; i++ {
			want := (sg.Area.Get(2*j, 2*i) + sg.Area.Get(2*j+1, 2*i)) +
				(sg.Area.Get(2*j, 2*i+1) + sg.Area.Get(2*j+1, 2*i+1))
			if have := tarea.Get(j, i); have != want {
				t.Errorf("tarea[%d,%d] = %g, want %g", j, i, have, want)
			}
		}
	}
	total := floats.Sum(sg.Area.Elements)
	if !floats.EqualWithinAbsOrRel(floats.Sum(tarea.Elements), total, 0, 1e-12) {
		t.Errorf("tarea total %g != %g", floats.Sum(tarea.Elements), total)
	}
	// Away from the fold, the U cells tile the same area as the T cells.
	uInterior := floats.Sum(uarea.Elements[:5*10])
	sInterior := floats.Sum(sg.Area.Elements[1*20 : 11*20])
	if !floats.EqualWithinAbsOrRel(uInterior, sInterior, 0, 1e-12) {
		t.Errorf("uarea interior total %g != %g", uInterior, sInterior)
	}
}

func TestIndexSetsDisjoint(t *testing.T) {
	const ny, nx = 3, 4
	nyp, nxp := 2*ny+1, 2*nx+1
	index := denseFunc(nyp, nxp, func(j, i int) float64 { return float64(j*nxp + i) })
	seen := make(map[float64]string)
	for name, a := range map[string]*sparse.DenseArray{
		"corners": ExtractCorners(index),
		"centers": ExtractCenters(index),
	} {
		if a.Shape[0] != ny || a.Shape[1] != nx {
			t.Errorf("%s shape %v", name, a.Shape)
		}
		for _, v := range a.Elements {
			if other, ok := seen[v]; ok {
				t.Errorf("point %g selected by both %s and %s", v, other, name)
			}
			seen[v] = name
		}
	}
	if len(seen) != 2*ny*nx {
		t.Errorf("%d points selected, want %d", len(seen), 2*ny*nx)
	}
	for v, name := range seen {
		j, i := int(v)/nxp, int(v)%nxp
		odd := j%2 == 1 && i%2 == 1
		even := j%2 == 0 && i%2 == 0 && j > 0 && i > 0
		if (name == "centers" && !odd) || (name == "corners" && !even) {
			t.Errorf("%s selected point (%d, %d)", name, j, i)
		}
	}
}

func TestDegToRad(t *testing.T) {
	sg := randomSuperGrid(4, 4, 2)
	g, err := NewCICEGrid(sg)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			want := sg.Y.Get(2*j+2, 2*i+2) * (math.Pi / 180)
			if have := g.ULat.Get(j, i); have != want {
				t.Errorf("ulat[%d,%d] = %g, want %g", j, i, have, want)
			}
		}
	}
}

func TestNewCICEGridDeterministic(t *testing.T) {
	a, err := NewCICEGrid(randomSuperGrid(5, 7, 3))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewCICEGrid(randomSuperGrid(5, 7, 3))
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(a, b); len(diff) > 0 {
		t.Errorf("results differ: %v", diff)
	}
	for _, f := range a.Fields() {
		if f.Data.Shape[0] != 5 || f.Data.Shape[1] != 7 {
			t.Errorf("%s shape %v", f.Name, f.Data.Shape)
		}
	}
}

func TestSuperGridValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(sg *SuperGrid)
		field  string
	}{
		{
			name:   "even nxp",
			modify: func(sg *SuperGrid) { sg.X = sparse.ZerosDense(5, 6) },
			field:  "x",
		},
		{
			name:   "even nyp",
			modify: func(sg *SuperGrid) { sg.X = sparse.ZerosDense(4, 5) },
			field:  "x",
		},
		{
			name:   "too small",
			modify: func(sg *SuperGrid) { sg.X = sparse.ZerosDense(1, 1) },
			field:  "x",
		},
		{
			name:   "missing area",
			modify: func(sg *SuperGrid) { sg.Area = nil },
			field:  "area",
		},
		{
			name:   "dx shape",
			modify: func(sg *SuperGrid) { sg.Dx = sparse.ZerosDense(5, 5) },
			field:  "dx",
		},
		{
			name:   "dy shape",
			modify: func(sg *SuperGrid) { sg.Dy = sparse.ZerosDense(5, 5) },
			field:  "dy",
		},
		{
			name:   "area 3-d",
			modify: func(sg *SuperGrid) { sg.Area = sparse.ZerosDense(1, 4, 4) },
			field:  "area",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sg := testSuperGrid(2, 2)
			test.modify(sg)
			_, err := NewCICEGrid(sg)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Field != test.field {
				t.Errorf("field %q, want %q (%v)", ve.Field, test.field, err)
			}
		})
	}
	if err := testSuperGrid(3, 1).Validate(); err != nil {
		t.Errorf("valid grid: %v", err)
	}
}

func TestEdgeLengthShapeError(t *testing.T) {
	_, err := EdgeLengthTop(sparse.ZerosDense(5, 3))
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("want ShapeError, got %v", err)
	}
	if se.Field != "dx" || se.Axis != 1 || se.Length != 3 {
		t.Errorf("error context: %+v", se)
	}
}
