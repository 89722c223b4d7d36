package structdump_test

import (
	"go/parser"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/structdump"
)

const testPkg = "github.com/syssam/structdump_test"

type Point struct {
	X int32
	Y int32
}

type Node struct {
	Name string
	Next *Node
}

type record struct {
	id    int
	Label string
}

// dumpString renders v as if the output lived in this package and checks
// that the result parses as a Go expression.
func dumpString(t *testing.T, v any, opts ...structdump.Option) string {
	t.Helper()
	opts = append([]structdump.Option{structdump.WithPackage(testPkg)}, opts...)
	out, err := structdump.DumpString(v, opts...)
	require.NoError(t, err)
	_, err = parser.ParseExpr(out)
	require.NoError(t, err, out)
	return out
}

func TestDumpScalars(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"int32", int32(42), "int32(42)"},
		{"int", 42, "42"},
		{"negative int", -7, "-7"},
		{"uint8", uint8(7), "uint8(7)"},
		{"uint64", uint64(math.MaxUint64), "uint64(18446744073709551615)"},
		{"bool", true, "true"},
		{"float64", 1.5, "1.5"},
		{"integral float64", 2.0, "2.0"},
		{"large float64", 1e21, "1e+21"},
		{"float32", float32(1.5), "float32(1.5)"},
		{"complex128", complex(1, 2), "complex(1.0, 2.0)"},
		{"complex64", complex64(complex(1, -1)), "complex64(complex(1.0, -1.0))"},
		{"named", time.Duration(5), "time.Duration(5)"},
		{"nan", math.NaN(), "math.NaN()"},
		{"positive infinity", math.Inf(1), "math.Inf(1)"},
		{"negative infinity", float32(math.Inf(-1)), "float32(math.Inf(-1))"},
		{"negative zero", math.Copysign(0, -1), "math.Copysign(0, -1)"},
		{"nil", nil, "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dumpString(t, tt.v))
		})
	}
}

func TestDumpScenarios(t *testing.T) {
	t.Run("32-bit scalar is inline", func(t *testing.T) {
		assert.Equal(t, "int32(42)", dumpString(t, int32(42)))
	})

	t.Run("tuple of equal strings binds the string once", func(t *testing.T) {
		out := dumpString(t, structdump.Tuple2[string, string]{V0: "ab", V1: "ab"})

		want := "func() structdump.Tuple2[string, string] {\n" +
			"\tcode0 := \"ab\"\n" +
			"\tcode1 := structdump.Tuple2[string, string]{code0, code0}\n" +
			"\treturn code1\n" +
			"}()"
		assert.Equal(t, want, out)
		assert.Equal(t, 1, strings.Count(out, `"ab"`))
	})

	t.Run("empty sequence is inline", func(t *testing.T) {
		assert.Equal(t, "[]bool{}", dumpString(t, []bool{}))
	})

	t.Run("absent optional is inline", func(t *testing.T) {
		assert.Equal(t, "structdump.None[int32]()", dumpString(t, structdump.None[int32]()))
	})

	t.Run("equal composites share one binding", func(t *testing.T) {
		out := dumpString(t, []Point{{X: 1, Y: 2}, {X: 1, Y: 2}})

		want := "func() []Point {\n" +
			"\tcode0 := Point{X: int32(1), Y: int32(2)}\n" +
			"\tcode1 := []Point{code0, code0}\n" +
			"\treturn code1\n" +
			"}()"
		assert.Equal(t, want, out)
	})
}

func TestDumpText(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		out := dumpString(t, "hi")
		assert.Equal(t, "func() string {\n\tcode0 := \"hi\"\n\treturn code0\n}()", out)
	})

	t.Run("bytes bind the literal and the conversion", func(t *testing.T) {
		out := dumpString(t, []byte("hi"))

		want := "func() []byte {\n" +
			"\tcode0 := \"hi\"\n" +
			"\tcode1 := []byte(code0)\n" +
			"\treturn code1\n" +
			"}()"
		assert.Equal(t, want, out)
	})

	t.Run("nil bytes", func(t *testing.T) {
		assert.Equal(t, "([]byte)(nil)", dumpString(t, []byte(nil)))
	})

	t.Run("without an output package", func(t *testing.T) {
		out, err := structdump.DumpString([]string{"a"})
		require.NoError(t, err)

		want := "func() []string {\n" +
			"\tcode0 := \"a\"\n" +
			"\tcode1 := []string{code0}\n" +
			"\treturn code1\n" +
			"}()"
		assert.Equal(t, want, out)
	})

	t.Run("quoting", func(t *testing.T) {
		out := dumpString(t, []string{"a\"b\n"})
		assert.Contains(t, out, `code0 := "a\"b\n"`)
	})
}

func TestDumpSequences(t *testing.T) {
	t.Run("nil slice", func(t *testing.T) {
		assert.Equal(t, "([]int)(nil)", dumpString(t, []int(nil)))
	})

	t.Run("scalar elements stay inline", func(t *testing.T) {
		out := dumpString(t, []int{1, 2, 3})
		assert.Equal(t, "func() []int {\n\tcode0 := []int{1, 2, 3}\n\treturn code0\n}()", out)
	})

	t.Run("array", func(t *testing.T) {
		out := dumpString(t, [2]int8{1, 2})
		assert.Contains(t, out, "code0 := [2]int8{int8(1), int8(2)}")
	})

	t.Run("empty array", func(t *testing.T) {
		assert.Equal(t, "[0]int{}", dumpString(t, [0]int{}))
	})

	t.Run("nested equal slices", func(t *testing.T) {
		out := dumpString(t, [][]int{{1}, {1}, {2}})

		assert.Contains(t, out, "code0 := []int{1}")
		assert.Contains(t, out, "code1 := []int{2}")
		assert.Contains(t, out, "code2 := [][]int{code0, code0, code1}")
	})

	t.Run("interface elements", func(t *testing.T) {
		out := dumpString(t, []any{"a", 1, nil})
		assert.Contains(t, out, "code1 := []any{code0, 1, nil}")
	})
}

func TestDumpMaps(t *testing.T) {
	t.Run("keys are sorted", func(t *testing.T) {
		out := dumpString(t, map[string]int{"b": 2, "a": 1, "c": 3})

		assert.Contains(t, out, "code0 := \"a\"")
		assert.Contains(t, out, "code1 := \"b\"")
		assert.Contains(t, out, "code2 := \"c\"")
		assert.Contains(t, out, "code3 := map[string]int{code0: 1, code1: 2, code2: 3}")
	})

	t.Run("integer keys", func(t *testing.T) {
		out := dumpString(t, map[int]bool{10: true, -1: false, 3: true})
		assert.Contains(t, out, "map[int]bool{-1: false, 3: true, 10: true}")
	})

	t.Run("struct keys", func(t *testing.T) {
		out := dumpString(t, map[Point]int{{X: 2}: 1, {X: 1, Y: 5}: 2})
		assert.Less(t, strings.Index(out, "Point{X: int32(1), Y: int32(5)}"), strings.Index(out, "Point{X: int32(2), Y: int32(0)}"))
	})

	t.Run("nil and empty", func(t *testing.T) {
		assert.Equal(t, "(map[string]int)(nil)", dumpString(t, map[string]int(nil)))
		assert.Equal(t, "map[string]int{}", dumpString(t, map[string]int{}))
	})

	t.Run("deterministic", func(t *testing.T) {
		m := make(map[string][]int)
		for i := range 50 {
			m[strings.Repeat("k", i+1)] = []int{i % 3}
		}
		first := dumpString(t, m)
		for range 5 {
			assert.Equal(t, first, dumpString(t, m))
		}
	})
}

func TestDumpPointers(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, "(*Point)(nil)", dumpString(t, (*Point)(nil)))
	})

	t.Run("composite pointee is addressed directly", func(t *testing.T) {
		out := dumpString(t, &Point{X: 1, Y: 2})
		assert.Equal(t, "func() *Point {\n\tcode0 := &Point{X: int32(1), Y: int32(2)}\n\treturn code0\n}()", out)
	})

	t.Run("scalar pointee is copied into a variable", func(t *testing.T) {
		n := 5
		out := dumpString(t, &n)

		want := "func() *int {\n" +
			"\tcode0 := func() *int {\n" +
			"\t\tv := 5\n" +
			"\t\treturn &v\n" +
			"\t}()\n" +
			"\treturn code0\n" +
			"}()"
		assert.Equal(t, want, out)
	})

	t.Run("equal scalar pointees share one binding", func(t *testing.T) {
		a, b := "x", "x"
		out := dumpString(t, []*string{&a, &b})

		assert.Contains(t, out, "code0 := func() *string {\n\t\tv := \"x\"\n\t\treturn &v\n\t}()")
		assert.Contains(t, out, "code1 := []*string{code0, code0}")
	})

	t.Run("pointer to pointer", func(t *testing.T) {
		n := 5
		p := &n
		out := dumpString(t, &p)

		want := "func() **int {\n" +
			"\tcode0 := func() **int {\n" +
			"\t\tv := func() *int {\n" +
			"\t\t\tv := 5\n" +
			"\t\t\treturn &v\n" +
			"\t\t}()\n" +
			"\t\treturn &v\n" +
			"\t}()\n" +
			"\treturn code0\n" +
			"}()"
		assert.Equal(t, want, out)
	})

	t.Run("pointee gets no binding of its own", func(t *testing.T) {
		out := dumpString(t, []*string{new(string)})
		assert.NotContains(t, out, "code0 := \"\"")
	})

	t.Run("equal pointees share by content", func(t *testing.T) {
		a, b := &Point{X: 1, Y: 2}, &Point{X: 1, Y: 2}
		out := dumpString(t, []*Point{a, b})

		assert.Contains(t, out, "code0 := &Point{X: int32(1), Y: int32(2)}")
		assert.Contains(t, out, "code1 := []*Point{code0, code0}")
	})

	t.Run("pointer identity keeps allocations apart", func(t *testing.T) {
		a, b := &Point{X: 1, Y: 2}, &Point{X: 1, Y: 2}
		out := dumpString(t, []*Point{a, b, a}, structdump.WithPointerIdentity())

		assert.Contains(t, out, "code0 := &Point{X: int32(1), Y: int32(2)}")
		assert.Contains(t, out, "code1 := &Point{X: int32(1), Y: int32(2)}")
		assert.Contains(t, out, "code2 := []*Point{code0, code1, code0}")
	})

	t.Run("pointer identity binds pointers inside a pointee", func(t *testing.T) {
		n := 5
		p := &n
		out := dumpString(t, &p, structdump.WithPointerIdentity())

		assert.Contains(t, out, "code0 := func() *int {\n\t\tv := 5\n\t\treturn &v\n\t}()")
		assert.Contains(t, out, "code1 := func() **int {\n\t\tv := code0\n\t\treturn &v\n\t}()")
	})

	t.Run("shared node in a graph", func(t *testing.T) {
		tail := &Node{Name: "tail"}
		out := dumpString(t, []*Node{{Name: "a", Next: tail}, {Name: "b", Next: tail}}, structdump.WithPointerIdentity())

		assert.Equal(t, 1, strings.Count(out, `Name: "tail"`))
	})
}

func TestDumpStructs(t *testing.T) {
	t.Run("unexported fields of the output package", func(t *testing.T) {
		out := dumpString(t, record{id: 3, Label: "x"})
		assert.Contains(t, out, "record{id: 3, Label: code0}")
	})

	t.Run("unexported fields outside the output package", func(t *testing.T) {
		out, err := structdump.DumpString(record{id: 3}, structdump.WithPackage("example.com/other"))

		require.NoError(t, err)
		assert.Contains(t, out, `panic("structdump: unexported field`)
	})

	t.Run("zero unexported fields are omitted", func(t *testing.T) {
		out, err := structdump.DumpString(record{Label: "x"}, structdump.WithPackage("example.com/other"))

		require.NoError(t, err)
		assert.NotContains(t, out, "panic")
		assert.Contains(t, out, "record{Label: code0}")
	})

	t.Run("anonymous struct", func(t *testing.T) {
		out := dumpString(t, struct {
			A int
			B string `json:"b"`
		}{A: 1, B: "x"})
		assert.Contains(t, out, "struct {\n\t\tA int\n\t\tB string `json:\"b\"`\n\t}{A: 1, B: code0}")
	})

	t.Run("time", func(t *testing.T) {
		out := dumpString(t, time.Date(2024, time.March, 5, 10, 30, 0, 7, time.UTC))
		assert.Contains(t, out, "code0 := time.Date(2024, time.March, 5, 10, 30, 0, 7, time.UTC)")
	})

	t.Run("zero time", func(t *testing.T) {
		assert.Equal(t, "time.Time{}", dumpString(t, time.Time{}))
	})
}

func TestDumpUnsupported(t *testing.T) {
	t.Run("channel", func(t *testing.T) {
		out := dumpString(t, make(chan int))
		assert.Equal(t, "func() chan int {\n\tpanic(\"structdump: chan values are not supported\")\n}()", out)
	})

	t.Run("nil function", func(t *testing.T) {
		assert.Equal(t, "(func(int) error)(nil)", dumpString(t, (func(int) error)(nil)))
	})

	t.Run("function field", func(t *testing.T) {
		out := dumpString(t, struct{ F func() }{F: func() {}})
		assert.Contains(t, out, `panic("structdump: func values are not supported")`)
	})
}

func TestDumpErrors(t *testing.T) {
	t.Run("pointer cycle", func(t *testing.T) {
		n := &Node{Name: "loop"}
		n.Next = n
		_, err := structdump.Dump(n)

		require.Error(t, err)
		assert.True(t, structdump.IsCycle(err))
	})

	t.Run("map cycle", func(t *testing.T) {
		m := map[string]any{}
		m["self"] = m
		_, err := structdump.Dump(m)

		assert.ErrorIs(t, err, structdump.ErrCycle)
	})

	t.Run("repeated value is not a cycle", func(t *testing.T) {
		p := &Point{X: 1}
		_, err := structdump.Dump([]*Point{p, p})
		assert.NoError(t, err)
	})

	t.Run("depth limit", func(t *testing.T) {
		_, err := structdump.Dump([][]int{{1}}, structdump.WithMaxDepth(2))

		require.Error(t, err)
		assert.True(t, structdump.IsDepth(err))
	})

	t.Run("within depth limit", func(t *testing.T) {
		_, err := structdump.Dump([][]int{{1}}, structdump.WithMaxDepth(3))
		assert.NoError(t, err)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := structdump.Dump(1, structdump.WithPrefix(""))
		assert.ErrorIs(t, err, structdump.ErrInvalidConfig)
	})
}

func TestDumpUniqueSubtree(t *testing.T) {
	e := structdump.NewEmitter(nil)
	c := e.Value([]string{"a", "a"}, true)

	assert.Zero(t, e.Len())
	assert.Equal(t, `[]string{"a", "a"}`, c.Expr().GoString())
}

func TestDumpTypeFunc(t *testing.T) {
	fn := func(e *structdump.Emitter, v reflect.Value, unique bool) structdump.Code {
		return structdump.NewCode(jen.Qual("time", "Second").Op("*").Lit(int(v.Int()/int64(time.Second))), jen.Qual("time", "Duration"))
	}
	out := dumpString(t, 3*time.Second, structdump.WithTypeFunc(time.Duration(0), fn))
	assert.Equal(t, "time.Second * 3", out)
}

func TestDumpImportNames(t *testing.T) {
	qual := func(path, name string) structdump.TypeFunc {
		return func(e *structdump.Emitter, v reflect.Value, unique bool) structdump.Code {
			return structdump.NewCode(jen.Qual(path, name).Call(), jen.Qual(path, name))
		}
	}
	out := dumpString(t, []any{int8(1), int16(2)},
		structdump.WithTypeFunc(int8(0), qual("example.com/a/model", "A")),
		structdump.WithTypeFunc(int16(0), qual("example.com/b/model", "B")),
	)
	assert.Contains(t, out, "[]any{model.A(), model1.B()}")
}

func TestDumpDeterministic(t *testing.T) {
	v := map[string][]Point{
		"a": {{X: 1}, {X: 2}},
		"b": {{X: 1}},
	}
	first := dumpString(t, v)
	second := dumpString(t, v)
	assert.Equal(t, first, second)
}
