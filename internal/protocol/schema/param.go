package schema

import "fmt"

// Kind is the closed set of parameter encodings: Int, CString, Octets, Flag.
type Kind interface {
	kind() string
}

// Int is a big-endian unsigned integer of Width bytes.
type Int struct {
	Width int
}

// CString is a NUL-terminated string. Max counts the terminator. A
// non-empty value shorter than Min-1 bytes is rejected.
type CString struct {
	Max int
	Min int
}

// Octets is a raw byte string sized by exactly one of: a fixed Size, a
// LengthField naming an earlier Int, or a Min/Max bound. Max also caps a
// LengthField-governed string.
type Octets struct {
	Size        int
	Min         int
	Max         int
	LengthField string
}

// Flag is a zero-width presence marker. Optional parameters only.
type Flag struct{}

func (Int) kind() string     { return "int" }
func (CString) kind() string { return "cstring" }
func (Octets) kind() string  { return "octets" }
func (Flag) kind() string    { return "flag" }

// Param is one named parameter of a command body.
type Param struct {
	Name string
	Kind Kind
}

func (p Param) String() string {
	if p.Kind == nil {
		return p.Name + ":<nil>"
	}
	return fmt.Sprintf("%s:%s", p.Name, p.Kind.kind())
}

func I(name string, width int) Param {
	return Param{Name: name, Kind: Int{Width: width}}
}

func C(name string, max int) Param {
	return Param{Name: name, Kind: CString{Max: max}}
}

func O(name string, o Octets) Param {
	return Param{Name: name, Kind: o}
}

func F(name string) Param {
	return Param{Name: name, Kind: Flag{}}
}

func checkParam(p Param, optional bool) string {
	switch k := p.Kind.(type) {
	case Int:
		if k.Width < 1 || k.Width > 4 {
			return fmt.Sprintf("int width %d out of range 1..4", k.Width)
		}
	case CString:
		if k.Max < 1 {
			return "cstring max must be at least 1"
		}
		if k.Min < 0 || k.Min > k.Max {
			return fmt.Sprintf("cstring min %d outside 0..%d", k.Min, k.Max)
		}
	case Octets:
		modes := 0
		if k.Size > 0 {
			modes++
		}
		if k.LengthField != "" {
			modes++
		}
		if k.Size == 0 && k.LengthField == "" && k.Max > 0 {
			modes++
		}
		if modes != 1 {
			return "octets need exactly one of size, length field or min/max"
		}
		if k.Size > 0 && (k.Min != 0 || k.Max != 0) {
			return "fixed-size octets cannot carry min/max"
		}
		if k.LengthField != "" && k.Min != 0 {
			return "length-field octets cannot carry min"
		}
		if k.Min < 0 || (k.Max > 0 && k.Min > k.Max) {
			return fmt.Sprintf("octets min %d exceeds max %d", k.Min, k.Max)
		}
		if !optional && k.Size == 0 && k.LengthField == "" {
			return "mandatory octets need a size or a length field"
		}
		if optional && k.LengthField != "" {
			return "optional octets cannot use a length field"
		}
	case Flag:
		if !optional {
			return "flag is optional-only"
		}
	case nil:
		return "missing encoding kind"
	default:
		return fmt.Sprintf("unsupported kind %T", k)
	}
	return ""
}
