// SPDX-License-Identifier: MIT

package function

// IsZero reports whether f simplifies to an identically zero expression.
func IsZero(f Node) bool {
	_, ok := Simplify(f).(*Zeros)

	return ok
}

// Simplify propagates zeros and drops neutral operations:
//
//	x + 0 -> x        x * 0 -> 0         -0 -> 0
//	0 * c -> 0        1 * x -> x         sin(0) -> 0
//
// and any structural operation on a zero becomes a zero of the result shape.
// Shape and value type are preserved.
func Simplify(f Node) Node {
	out, _ := transform(f, func(n Node) (Node, error) {
		return simplifyNode(n), nil
	})

	return out
}

func simplifyNode(n Node) Node {
	zero := func(x Node) bool {
		_, ok := x.(*Zeros)
		return ok
	}
	asZero := func() Node { return NewZeros(n.Shape(), n.Type()) }

	switch v := n.(type) {
	case *Add:
		switch {
		case zero(v.a) && zero(v.b):
			return asZero()
		case zero(v.a) && v.b.Type() == v.vtype:
			return v.b
		case zero(v.b) && v.a.Type() == v.vtype:
			return v.a
		}

	case *Mul:
		if zero(v.a) || zero(v.b) {
			return asZero()
		}

	case *Scale:
		if v.factor == 0 || zero(v.arg) {
			return asZero()
		}
		if v.factor == 1 && v.arg.Type() == v.vtype {
			return v.arg
		}

	case *Neg:
		if zero(v.arg) {
			return asZero()
		}
		if inner, ok := v.arg.(*Neg); ok {
			return inner.arg
		}

	case *Sin, *InsertAxis, *Sum, *Inflate, *Transpose:
		if zero(children(n)[0]) {
			return asZero()
		}
	}

	return n
}
