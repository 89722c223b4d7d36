package load

import (
	"fmt"
	"slices"
)

// Kind classifies a discovered type declaration.
type Kind int

const (
	// KindStruct is a struct type that is not a variant of a sum type.
	KindStruct Kind = iota
	// KindVariant is a struct type implementing a sum type.
	KindVariant
	// KindEnum is a named integer or string type with declared constants.
	KindEnum
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindVariant:
		return "variant"
	case KindEnum:
		return "enum"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Schema holds the type shapes discovered in one Go package.
type Schema struct {
	Path    string     `json:"path"`
	Name    string     `json:"name"`
	Dir     string     `json:"dir,omitempty"`
	Types   []*Type    `json:"types,omitempty"`
	Sums    []*Sum     `json:"sums,omitempty"`
	Skipped []*Skipped `json:"skipped,omitempty"`
}

// Type is a type declaration that receives a generated GenCode method.
type Type struct {
	Name   string   `json:"name"`
	Kind   Kind     `json:"kind"`
	Pos    string   `json:"-"`
	Fields []*Field `json:"fields,omitempty"` // struct and variant kinds, in declaration order
	Sum    string   `json:"sum,omitempty"`    // variant kind: the implemented sum type
	Values []*Value `json:"values,omitempty"` // enum kind, in declaration order
}

// Field is a struct field.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Embedded bool   `json:"embedded,omitempty"`
}

// Value is a typed constant of an enum type.
type Value struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Sum is an interface type closed by an unexported marker method.
type Sum struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// Skipped records a type declaration that gets no generated method.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Type returns the type declaration with the given name, or nil.
func (s *Schema) Type(name string) *Type {
	i := slices.IndexFunc(s.Types, func(t *Type) bool { return t.Name == name })
	if i < 0 {
		return nil
	}
	return s.Types[i]
}

// Sum returns the sum type with the given name, or nil.
func (s *Schema) Sum(name string) *Sum {
	i := slices.IndexFunc(s.Sums, func(t *Sum) bool { return t.Name == name })
	if i < 0 {
		return nil
	}
	return s.Sums[i]
}
