package ply

// PropertyType is the scalar type of a property. Only fixed width types are supported.
type PropertyType int

const (
	Float32 PropertyType = iota
	Int32
	UInt8
)

// header tokens for the supported types
var propertyTypeTokens = map[string]PropertyType{
	"float": Float32,
	"int":   Int32,
	"uchar": UInt8,
}

// Width returns the byte width of one encoded value of the given type
func (t PropertyType) Width() int {
	switch t {
	case Float32, Int32:
		return 4
	case UInt8:
		return 1
	}
	panic("ply: invalid property type")
}

func (t PropertyType) String() string {
	switch t {
	case Float32:
		return "float"
	case Int32:
		return "int"
	case UInt8:
		return "uchar"
	}
	return "invalid"
}

// ParsePropertyType maps a header type token to a PropertyType.
// List declarations and any other token are rejected.
func ParsePropertyType(token string) (PropertyType, error) {
	if t, ok := propertyTypeTokens[token]; ok {
		return t, nil
	}
	return 0, &UnknownPropertyTypeError{Token: token}
}

// A named scalar field of an element record
type Property struct {
	Name string
	Type PropertyType
}
