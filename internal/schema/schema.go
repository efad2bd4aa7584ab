// Package schema declares and validates the input shape of every dispatched
// operation. Shapes are registered alongside handlers at startup; validation
// is pure and never touches a store.
package schema

// Type is the declared type of a field.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeUUID    Type = "uuid"
	TypeEnum    Type = "enum"
	TypeObject  Type = "object"
	TypeList    Type = "list"
	TypeAny     Type = "any"
)

// Field declares one named field of a shape.
type Field struct {
	Name     string
	Type     Type
	Required bool
	Values   []string // enum members when Type == TypeEnum
	Fields   []Field  // nested shape when Type == TypeObject
	Elem     *Field   // element shape when Type == TypeList
}

// Optional returns a copy of the field marked optional.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// Shape is the declared input of an operation: a set of named fields.
// Validation is strict; fields not declared here are rejected.
type Shape struct {
	Fields []Field
}

// NewShape builds a shape from its fields.
func NewShape(fields ...Field) Shape {
	return Shape{Fields: fields}
}

// String declares a required string field.
func String(name string) Field {
	return Field{Name: name, Type: TypeString, Required: true}
}

// Integer declares a required integer field.
func Integer(name string) Field {
	return Field{Name: name, Type: TypeInteger, Required: true}
}

// Number declares a required numeric field.
func Number(name string) Field {
	return Field{Name: name, Type: TypeNumber, Required: true}
}

// Boolean declares a required boolean field.
func Boolean(name string) Field {
	return Field{Name: name, Type: TypeBoolean, Required: true}
}

// UUID declares a required UUID-formatted string field.
func UUID(name string) Field {
	return Field{Name: name, Type: TypeUUID, Required: true}
}

// Enum declares a required field restricted to the given values.
func Enum(name string, values ...string) Field {
	return Field{Name: name, Type: TypeEnum, Required: true, Values: values}
}

// Object declares a required nested object field with its own shape.
func Object(name string, fields ...Field) Field {
	return Field{Name: name, Type: TypeObject, Required: true, Fields: fields}
}

// List declares a required list field whose elements match elem.
func List(name string, elem Field) Field {
	return Field{Name: name, Type: TypeList, Required: true, Elem: &elem}
}

// Any declares a required field of unconstrained type, used for free-form
// property bags.
func Any(name string) Field {
	return Field{Name: name, Type: TypeAny, Required: true}
}
