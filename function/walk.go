// SPDX-License-Identifier: MIT

package function

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/quadsparse/tensor"
)

// children returns the direct operands of n in a fixed order.
func children(n Node) []Node {
	switch v := n.(type) {
	case *InsertAxis:
		return []Node{v.arg}
	case *Sum:
		return []Node{v.arg}
	case *Neg:
		return []Node{v.arg}
	case *Scale:
		return []Node{v.arg}
	case *Sin:
		return []Node{v.arg}
	case *Cos:
		return []Node{v.arg}
	case *Inflate:
		return []Node{v.arg}
	case *Transpose:
		return []Node{v.arg}
	case *Add:
		return []Node{v.a, v.b}
	case *Mul:
		return []Node{v.a, v.b}
	}

	return nil
}

// rebuild returns n with its operands replaced by kids (same order as
// children). Leaves are returned unchanged.
func rebuild(n Node, kids []Node) Node {
	switch v := n.(type) {
	case *InsertAxis:
		return NewInsertAxis(kids[0], v.axis, v.length)
	case *Sum:
		return NewSum(kids[0], v.axis)
	case *Neg:
		return NewNeg(kids[0])
	case *Scale:
		return NewScale(kids[0], v.factor)
	case *Sin:
		return NewSin(kids[0])
	case *Cos:
		return NewCos(kids[0])
	case *Inflate:
		return NewInflate(kids[0], v.dofs, v.length, v.axis)
	case *Transpose:
		return NewTranspose(kids[0], v.perm...)
	case *Add:
		return NewAdd(kids[0], kids[1])
	case *Mul:
		return NewMul(kids[0], kids[1])
	}

	return n
}

// transform rewrites f bottom-up: fn sees every node after its operands
// have been rewritten. Unchanged sub-trees keep their identity.
func transform(f Node, fn func(Node) (Node, error)) (Node, error) {
	kids := children(f)
	if len(kids) > 0 {
		changed := false
		next := make([]Node, len(kids))
		for i, k := range kids {
			nk, err := transform(k, fn)
			if err != nil {
				return nil, err
			}
			next[i] = nk
			changed = changed || nk != k
		}
		if changed {
			f = rebuild(f, next)
		}
	}

	return fn(f)
}

// Substitute replaces every Argument named in bindings by a constant.
//
// Errors:
//   - ErrShapeMismatch if a bound value does not have the argument's shape.
func Substitute(f Node, bindings map[string]*tensor.Array) (Node, error) {
	if len(bindings) == 0 {
		return f, nil
	}

	return transform(f, func(n Node) (Node, error) {
		a, ok := n.(*Argument)
		if !ok {
			return n, nil
		}
		v, ok := bindings[a.name]
		if !ok {
			return n, nil
		}
		if !tensor.SameShape(v.Shape(), a.shape) {
			return nil, functionErrorf("Substitute "+a.name, ErrShapeMismatch)
		}
		return NewConstant(v), nil
	})
}

// Contains reports whether an Argument called name occurs in f.
func Contains(f Node, name string) bool {
	_, err := ArgShape(f, name)

	return err == nil
}

// ArgShape returns the shape of the Argument called name.
//
// Errors:
//   - ErrUnknownTarget if no such argument occurs in f.
func ArgShape(f Node, name string) ([]int, error) {
	if a, ok := f.(*Argument); ok && a.name == name {
		return a.Shape(), nil
	}
	for _, k := range children(f) {
		if s, err := ArgShape(k, name); err == nil {
			return s, nil
		}
	}

	return nil, functionErrorf("ArgShape "+name, ErrUnknownTarget)
}

// Arguments returns the names of all arguments in f, first occurrence first.
func Arguments(f Node) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Node)
	walk = func(n Node) {
		if a, ok := n.(*Argument); ok && !seen[a.name] {
			seen[a.name] = true
			names = append(names, a.name)
		}
		for _, k := range children(n) {
			walk(k)
		}
	}
	walk(f)

	return names
}

// Key returns a string that is equal for structurally equal expressions.
// Constant values and dof maps enter through a 64-bit hash.
func Key(f Node) string {
	var sb strings.Builder
	writeKey(&sb, f)

	return sb.String()
}

func writeKey(sb *strings.Builder, f Node) {
	switch n := f.(type) {
	case *Argument:
		fmt.Fprintf(sb, "arg(%s%v:%s)", n.name, n.shape, n.vtype)
		return
	case *Constant:
		fmt.Fprintf(sb, "const(%v:%016x)", n.shape, hashFloats(n.value.Data()))
		return
	case *Zeros:
		fmt.Fprintf(sb, "zeros(%v:%s)", n.shape, n.vtype)
		return
	case *LocalCoords:
		fmt.Fprintf(sb, "local(%d)", n.shape[0])
		return
	case *Coords:
		fmt.Fprintf(sb, "coords(%d)", n.shape[0])
		return
	case *InsertAxis:
		fmt.Fprintf(sb, "insert[%d,%d](", n.axis, n.length)
	case *Sum:
		fmt.Fprintf(sb, "sum[%d](", n.axis)
	case *Neg:
		sb.WriteString("neg(")
	case *Scale:
		sb.WriteString("scale[" + strconv.FormatFloat(n.factor, 'g', -1, 64) + "](")
	case *Sin:
		sb.WriteString("sin(")
	case *Cos:
		sb.WriteString("cos(")
	case *Add:
		sb.WriteString("add(")
	case *Mul:
		sb.WriteString("mul(")
	case *Inflate:
		fmt.Fprintf(sb, "inflate[%d,%d,%016x](", n.axis, n.length, hashDofs(n.dofs))
	case *Transpose:
		fmt.Fprintf(sb, "transpose%v(", n.perm)
	}
	for i, k := range children(f) {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeKey(sb, k)
	}
	sb.WriteByte(')')
}

func hashFloats(vs []float64) uint64 {
	buf := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return xxhash.Sum64(buf)
}

func hashDofs(dofs [][]int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, row := range dofs {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(row)))
		_, _ = d.Write(buf[:])
		for _, i := range row {
			binary.LittleEndian.PutUint64(buf[:], uint64(i))
			_, _ = d.Write(buf[:])
		}
	}

	return d.Sum64()
}
