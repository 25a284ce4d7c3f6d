// SPDX-License-Identifier: MIT

package sparse

import (
	"math"

	"github.com/katalvlaran/quadsparse/tensor"
)

// ValueType is the declared scalar type of record values.
//
// Values are carried as float64 and cast to the declared type on every
// write: integers wrap to their width, Float32 rounds, Bool maps non-zero to 1.
// Integer values are exact within ±2^53.
type ValueType uint8

const (
	Bool ValueType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Float32
	Float64
)

var valueTypeNames = [...]string{
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Float32: "float32",
	Float64: "float64",
}

var valueTypeSizes = [...]int{
	Bool: 1, Int8: 1, Int16: 2, Int32: 4, Int64: 8,
	Uint8: 1, Uint16: 2, Uint32: 4, Float32: 4, Float64: 8,
}

// Valid reports whether t is one of the declared constants.
func (t ValueType) Valid() bool { return t <= Float64 }

// String returns the lower-case Go name of the type.
func (t ValueType) String() string {
	if !t.Valid() {
		return "invalid"
	}

	return valueTypeNames[t]
}

// Size is the byte width of the value in the exchange record layout.
func (t ValueType) Size() int {
	if !t.Valid() {
		return 0
	}

	return valueTypeSizes[t]
}

// IsFloat reports whether t is a floating-point type.
func (t ValueType) IsFloat() bool { return t == Float32 || t == Float64 }

// IsSigned reports whether t is a signed integer type.
func (t ValueType) IsSigned() bool { return t >= Int8 && t <= Int64 }

// IsUnsigned reports whether t is an unsigned integer type.
func (t ValueType) IsUnsigned() bool { return t >= Uint8 && t <= Uint32 }

// Zero returns the type's zero value.
func (t ValueType) Zero() float64 { return 0 }

// Cast converts v to the representable value of type t.
func (t ValueType) Cast(v float64) float64 {
	switch t {
	case Bool:
		if v != 0 {
			return 1
		}
		return 0
	case Int8:
		return float64(int8(toInt64(v)))
	case Int16:
		return float64(int16(toInt64(v)))
	case Int32:
		return float64(int32(toInt64(v)))
	case Int64:
		return float64(toInt64(v))
	case Uint8:
		return float64(uint8(toInt64(v)))
	case Uint16:
		return float64(uint16(toInt64(v)))
	case Uint32:
		return float64(uint32(toInt64(v)))
	case Float32:
		return float64(float32(v))
	default:
		return v
	}
}

// toInt64 truncates toward zero; non-finite input maps to 0.
func toInt64(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return int64(v)
}

// Promote returns the smallest type both a and b widen to without loss,
// following the usual array-library conventions:
//   - bool is below every numeric type;
//   - signed with signed, unsigned with unsigned: the wider one;
//   - signed with unsigned: the narrowest signed type holding both
//     (Uint32 with any signed type gives Int64);
//   - integers of width <= 16 with Float32 give Float32, otherwise
//     any float involvement gives Float64 unless both are Float32.
func Promote(a, b ValueType) ValueType {
	if a == b {
		return a
	}
	if a == Bool {
		return b
	}
	if b == Bool {
		return a
	}
	if a.IsFloat() || b.IsFloat() {
		return promoteFloat(a, b)
	}
	if a.IsSigned() == b.IsSigned() {
		if a.Size() >= b.Size() {
			return a
		}
		return b
	}
	s, u := a, b
	if b.IsSigned() {
		s, u = b, a
	}
	if s.Size() > u.Size() {
		return s
	}
	switch u {
	case Uint8:
		return Int16
	case Uint16:
		return Int32
	default:
		return Int64
	}
}

func promoteFloat(a, b ValueType) ValueType {
	if a.IsFloat() && b.IsFloat() {
		if a == Float64 || b == Float64 {
			return Float64
		}
		return Float32
	}
	f, i := a, b
	if b.IsFloat() {
		f, i = b, a
	}
	if f == Float32 && i.Size() <= 2 {
		return Float32
	}

	return Float64
}

// Descriptor is the metadata of a sparse collection: rank, per-axis extents
// and value type. It is a value type; Shape returns a copy.
type Descriptor struct {
	shape []int
	vtype ValueType
}

// Describe builds a Descriptor.
//
// Errors:
//   - ErrBadShape if an extent is negative.
//   - ErrValueType if vt is not a declared ValueType.
func Describe(shape []int, vt ValueType) (Descriptor, error) {
	if _, err := tensor.SizeOf(shape); err != nil {
		return Descriptor{}, sparseErrorf("Describe", ErrBadShape)
	}
	if !vt.Valid() {
		return Descriptor{}, sparseErrorf("Describe", ErrValueType)
	}

	return Descriptor{shape: append([]int(nil), shape...), vtype: vt}, nil
}

// MustDescribe is Describe for statically valid arguments; it panics otherwise.
func MustDescribe(shape []int, vt ValueType) Descriptor {
	d, err := Describe(shape, vt)
	if err != nil {
		panic(err)
	}

	return d
}

// Rank returns the number of index axes.
func (d Descriptor) Rank() int { return len(d.shape) }

// Shape returns a copy of the per-axis extents.
func (d Descriptor) Shape() []int { return append([]int(nil), d.shape...) }

// Extent returns the extent of axis ax.
func (d Descriptor) Extent(ax int) int { return d.shape[ax] }

// Type returns the declared value type.
func (d Descriptor) Type() ValueType { return d.vtype }

// WithType returns a copy of d with a different value type.
func (d Descriptor) WithType(vt ValueType) Descriptor {
	return Descriptor{shape: d.Shape(), vtype: vt}
}

// Equal reports whether two descriptors agree on shape and value type.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.vtype == o.vtype && tensor.SameShape(d.shape, o.shape)
}

// IndexWidth returns the byte width of the smallest unsigned integer able to
// hold every index of axis ax (1, 2, 4 or 8).
func (d Descriptor) IndexWidth(ax int) int {
	n := uint64(0)
	if d.shape[ax] > 0 {
		n = uint64(d.shape[ax] - 1)
	}
	switch {
	case n <= math.MaxUint8:
		return 1
	case n <= math.MaxUint16:
		return 2
	case n <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// ItemSize returns the byte size of one exchange record
// (index_0, ..., index_{d-1}, value). The chunk budget of Dedup is
// expressed in multiples of it.
func (d Descriptor) ItemSize() int {
	n := d.vtype.Size()
	for ax := range d.shape {
		n += d.IndexWidth(ax)
	}

	return n
}

// IsSparseDescriptor reports whether v is a sparse Descriptor.
func IsSparseDescriptor(v any) bool {
	switch v.(type) {
	case Descriptor, *Descriptor:
		return true
	default:
		return false
	}
}
