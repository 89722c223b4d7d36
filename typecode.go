package structdump

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"
)

// TypeCode returns the Go type expression of t.
func TypeCode(t reflect.Type) *jen.Statement {
	if t.Name() != "" {
		return namedType(t.PkgPath(), t.Name())
	}
	switch t.Kind() {
	case reflect.Pointer:
		return jen.Op("*").Add(TypeCode(t.Elem()))
	case reflect.Slice:
		if isBytes(t) {
			return jen.Index().Byte()
		}
		return jen.Index().Add(TypeCode(t.Elem()))
	case reflect.Array:
		return jen.Index(jen.Lit(t.Len())).Add(TypeCode(t.Elem()))
	case reflect.Map:
		return jen.Map(TypeCode(t.Key())).Add(TypeCode(t.Elem()))
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return jen.Op("<-").Chan().Add(TypeCode(t.Elem()))
		case reflect.SendDir:
			return jen.Chan().Op("<-").Add(TypeCode(t.Elem()))
		}
		return jen.Chan().Add(TypeCode(t.Elem()))
	case reflect.Func:
		return funcType(t)
	case reflect.Struct:
		return structType(t)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return jen.Any()
		}
		methods := make([]jen.Code, 0, t.NumMethod())
		for i := range t.NumMethod() {
			m := t.Method(i)
			methods = append(methods, jen.Id(m.Name).Add(signature(m.Type, 0)))
		}
		return jen.Interface(methods...)
	}
	// Predeclared types always carry a name; this is only reached for
	// kinds reflect reports without one.
	return jen.Id(t.String())
}

func funcType(t reflect.Type) *jen.Statement {
	return jen.Func().Add(signature(t, 0))
}

// signature renders the parameter and result lists of a function type,
// skipping the first skip inputs.
func signature(t reflect.Type, skip int) *jen.Statement {
	params := make([]jen.Code, 0, t.NumIn())
	for i := skip; i < t.NumIn(); i++ {
		in := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			params = append(params, jen.Op("...").Add(TypeCode(in.Elem())))
			continue
		}
		params = append(params, TypeCode(in))
	}
	results := make([]jen.Code, 0, t.NumOut())
	for i := range t.NumOut() {
		results = append(results, TypeCode(t.Out(i)))
	}
	s := jen.Params(params...)
	switch len(results) {
	case 0:
	case 1:
		s.Add(results[0])
	default:
		s.Params(results...)
	}
	return s
}

func structType(t reflect.Type) *jen.Statement {
	fields := make([]jen.Code, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		var field *jen.Statement
		if f.Anonymous {
			field = TypeCode(f.Type)
		} else {
			field = jen.Id(f.Name).Add(TypeCode(f.Type))
		}
		if f.Tag != "" {
			field.Id(rawTag(string(f.Tag)))
		}
		fields = append(fields, field)
	}
	return jen.Struct(fields...)
}

// rawTag renders a struct tag verbatim. Struct tags are part of the type
// identity, so they must not be reordered or normalized.
func rawTag(tag string) string {
	if !strings.Contains(tag, "`") {
		return "`" + tag + "`"
	}
	return strconv.Quote(tag)
}

// namedType renders a defined type, including instantiated generic types
// whose reflect names carry fully qualified type arguments, for example
// "Tuple2[string,github.com/org/pkg.Point]".
func namedType(pkgPath, name string) *jen.Statement {
	base, args := name, ""
	if i := strings.IndexByte(name, '['); i >= 0 && strings.HasSuffix(name, "]") {
		base, args = name[:i], name[i+1:len(name)-1]
	}
	var s *jen.Statement
	if pkgPath == "" {
		s = jen.Id(base)
	} else {
		s = jen.Qual(pkgPath, base)
	}
	if args == "" {
		return s
	}
	list := splitTypeList(args)
	types := make([]jen.Code, 0, len(list))
	for _, arg := range list {
		types = append(types, parseTypeName(arg))
	}
	return s.Types(types...)
}

// parseTypeName parses a type as it appears inside reflect's rendering of
// generic type arguments.
func parseTypeName(s string) *jen.Statement {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "*"):
		return jen.Op("*").Add(parseTypeName(s[1:]))
	case strings.HasPrefix(s, "[]"):
		return jen.Index().Add(parseTypeName(s[2:]))
	case strings.HasPrefix(s, "["):
		if end := strings.IndexByte(s, ']'); end > 0 {
			if n, err := strconv.Atoi(s[1:end]); err == nil {
				return jen.Index(jen.Lit(n)).Add(parseTypeName(s[end+1:]))
			}
		}
	case strings.HasPrefix(s, "map["):
		if end := matchBracket(s, len("map")); end > 0 {
			return jen.Map(parseTypeName(s[len("map["):end])).Add(parseTypeName(s[end+1:]))
		}
	case s == "interface {}":
		return jen.Any()
	case strings.HasPrefix(s, "func(") || strings.HasPrefix(s, "struct {") ||
		strings.HasPrefix(s, "interface {") || strings.HasPrefix(s, "chan ") ||
		strings.HasPrefix(s, "<-chan "):
		// Literal types render the same way in source.
		return jen.Id(s)
	}
	name, args := s, ""
	if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
		name, args = s[:i], s[i:]
	}
	path := ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		path, name = name[:i], name[i+1:]
	}
	return namedType(path, name+args)
}

// splitTypeList splits a comma separated list of types at the top level.
func splitTypeList(s string) []string {
	var (
		list  []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				list = append(list, s[start:i])
				start = i + 1
			}
		}
	}
	return append(list, s[start:])
}

// matchBracket returns the index of the bracket closing the one at open.
func matchBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
