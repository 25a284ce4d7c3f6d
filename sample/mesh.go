// SPDX-License-Identifier: MIT

package sample

import (
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
)

// Gauss returns the n-point Gauss–Legendre rule on [0, 1], points ascending.
// The rule integrates polynomials of degree 2n-1 exactly.
func Gauss(n int) (points, weights []float64, err error) {
	if n < 1 {
		return nil, nil, sampleErrorf("Gauss", ErrBadMesh)
	}
	points = make([]float64, n)
	weights = make([]float64, n)
	quad.Legendre{}.FixedLocations(points, weights, 0, 1)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return points[order[a]] < points[order[b]] })
	xs, ws := make([]float64, n), make([]float64, n)
	for i, k := range order {
		xs[i], ws[i] = points[k], weights[k]
	}

	return xs, ws, nil
}

// Line meshes [a, b] with n equal elements sampled at gauss Gauss points each.
func Line(n int, a, b float64, gauss int) (*Sample, error) {
	if n < 1 {
		return nil, sampleErrorf("Line", ErrBadMesh)
	}
	xs, ws, err := Gauss(gauss)
	if err != nil {
		return nil, sampleErrorf("Line", err)
	}
	h := (b - a) / float64(n)
	elems := make([]Element, n)
	for e := range elems {
		el := Element{Transform: Affine{Offset: []float64{a + float64(e)*h}, Linear: [][]float64{{h}}}}
		for i, x := range xs {
			el.Coords = append(el.Coords, []float64{x})
			el.Weights = append(el.Weights, ws[i]*h)
		}
		elems[e] = el
	}

	return New(1, elems)
}

// LineVertices meshes [a, b] with n equal elements sampled at their two
// vertices with trapezoidal weights. Neighbouring elements share the vertex
// between them, so the sample has n+1 points.
func LineVertices(n int, a, b float64) (*Sample, error) {
	if n < 1 {
		return nil, sampleErrorf("LineVertices", ErrBadMesh)
	}
	h := (b - a) / float64(n)
	elems := make([]Element, n)
	index := make([][]int, n)
	for e := range elems {
		elems[e] = Element{
			Coords:    [][]float64{{0}, {1}},
			Weights:   []float64{h / 2, h / 2},
			Transform: Affine{Offset: []float64{a + float64(e)*h}, Linear: [][]float64{{h}}},
		}
		index[e] = []int{e, e + 1}
	}

	return NewIndexed(1, elems, index)
}

// Rectilinear meshes the box [x0, x1] × [y0, y1] with nx × ny equal
// elements, row-major in x, each sampled with a gauss × gauss tensor rule.
func Rectilinear(nx, ny int, box [2][2]float64, gauss int) (*Sample, error) {
	if nx < 1 || ny < 1 {
		return nil, sampleErrorf("Rectilinear", ErrBadMesh)
	}
	xs, ws, err := Gauss(gauss)
	if err != nil {
		return nil, sampleErrorf("Rectilinear", err)
	}
	hx := (box[0][1] - box[0][0]) / float64(nx)
	hy := (box[1][1] - box[1][0]) / float64(ny)
	elems := make([]Element, 0, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			el := Element{Transform: Affine{
				Offset: []float64{box[0][0] + float64(i)*hx, box[1][0] + float64(j)*hy},
				Linear: [][]float64{{hx, 0}, {0, hy}},
			}}
			for p, x := range xs {
				for q, y := range xs {
					el.Coords = append(el.Coords, []float64{x, y})
					el.Weights = append(el.Weights, ws[p]*ws[q]*hx*hy)
				}
			}
			elems = append(elems, el)
		}
	}

	return New(2, elems)
}
