package bmi

import "fmt"

// VarType tags the numeric kind of an exchanged quantity.
type VarType int

const (
	TypeFloat64 VarType = iota
	TypeFloat32
	TypeInt32
	TypeInt64
)

func (t VarType) String() string {
	switch t {
	case TypeFloat64:
		return "float64"
	case TypeFloat32:
		return "float32"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	}
	return "unknown"
}

// ItemSize returns the size in bytes of one item of this type.
func (t VarType) ItemSize() int {
	switch t {
	case TypeFloat32, TypeInt32:
		return 4
	default:
		return 8
	}
}

// Value is a typed variant over the supported numeric kinds: exactly one arm
// is populated, matching Type. It replaces the raw type-tagged buffers of
// the coupling boundary.
type Value struct {
	Type VarType
	F64  []float64
	F32  []float32
	I32  []int32
	I64  []int64
}

// Float64s wraps a float64 buffer.
func Float64s(vs ...float64) Value { return Value{Type: TypeFloat64, F64: vs} }

// Len returns the number of items in the populated arm.
func (v *Value) Len() int {
	switch v.Type {
	case TypeFloat64:
		return len(v.F64)
	case TypeFloat32:
		return len(v.F32)
	case TypeInt32:
		return len(v.I32)
	default:
		return len(v.I64)
	}
}

// clone deep-copies the populated arm.
func (v *Value) clone() Value {
	c := Value{Type: v.Type}
	switch v.Type {
	case TypeFloat64:
		c.F64 = append([]float64(nil), v.F64...)
	case TypeFloat32:
		c.F32 = append([]float32(nil), v.F32...)
	case TypeInt32:
		c.I32 = append([]int32(nil), v.I32...)
	default:
		c.I64 = append([]int64(nil), v.I64...)
	}
	return c
}

// copyAt copies src items into v at the given indices.
func (v *Value) copyAt(inds []int, src *Value) error {
	if src.Type != v.Type {
		return fmt.Errorf("bmi: type mismatch: %s buffer assigned %s value", v.Type, src.Type)
	}
	if src.Len() < len(inds) {
		return fmt.Errorf("bmi: source holds %d items for %d indices", src.Len(), len(inds))
	}
	for i, ix := range inds {
		if ix < 0 || ix >= v.Len() {
			return fmt.Errorf("bmi: index %d out of range [0, %d)", ix, v.Len())
		}
		switch v.Type {
		case TypeFloat64:
			v.F64[ix] = src.F64[i]
		case TypeFloat32:
			v.F32[ix] = src.F32[i]
		case TypeInt32:
			v.I32[ix] = src.I32[i]
		default:
			v.I64[ix] = src.I64[i]
		}
	}
	return nil
}

// sliceAt extracts the items at the given indices into a fresh Value.
func (v *Value) sliceAt(inds []int) (Value, error) {
	out := Value{Type: v.Type}
	for _, ix := range inds {
		if ix < 0 || ix >= v.Len() {
			return out, fmt.Errorf("bmi: index %d out of range [0, %d)", ix, v.Len())
		}
		switch v.Type {
		case TypeFloat64:
			out.F64 = append(out.F64, v.F64[ix])
		case TypeFloat32:
			out.F32 = append(out.F32, v.F32[ix])
		case TypeInt32:
			out.I32 = append(out.I32, v.I32[ix])
		default:
			out.I64 = append(out.I64, v.I64[ix])
		}
	}
	return out, nil
}
