package gen

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/structdump"
	"github.com/syssam/structdump/compiler/gen/testdata/fixture"
)

// dumper prints values by content. The generated program declares the
// same configuration.
var dumper = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

const roundTripMain = `package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

func main() {
	dumper := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	for _, v := range []any{%s} {
		fmt.Print(dumper.Sdump(v))
	}
}
`

func roundTripTargets() []Target {
	n, m := 5, 7
	p := &n
	level := fixture.High
	shared := &fixture.Node{Name: "tail"}
	targets := []Target{
		{Name: "Numbers", Value: fixture.Numbers{
			Int:      -3,
			Int8:     8,
			Uint64:   math.MaxUint64,
			Float32:  1.5,
			Float64:  0.1,
			NaN:      math.NaN(),
			Inf:      math.Inf(-1),
			NegZero:  math.Copysign(0, -1),
			Complex:  complex(1, -2),
			Bool:     true,
			Text:     "a\"b\n",
			Duration: 3 * time.Second,
		}},
		{Name: "Bytes", Value: []byte("hi\x00\xff")},
		{Name: "Options", Value: []structdump.Optional[string]{
			structdump.Some("a"), structdump.None[string](), structdump.Some("a"),
		}},
		{Name: "Tuples", Value: structdump.Tuple2[structdump.Tuple2[int, string], structdump.Tuple3[bool, []int, string]]{
			V0: structdump.Tuple2[int, string]{V0: 1, V1: "x"},
			V1: structdump.Tuple3[bool, []int, string]{V0: true, V1: []int{1, 2}, V2: "x"},
		}},
		{Name: "StructKeys", Value: map[fixture.Key]string{{ID: 2, Name: "b"}: "x", {ID: 1, Name: "a"}: "x"}},
		{Name: "ArrayKeys", Value: map[[2]int]bool{{1, 2}: true, {0, 9}: false}},
		{Name: "Pointers", Value: []*int{p, p, &m}},
		{Name: "PointerToPointer", Value: &p},
		{Name: "Levels", Value: []*fixture.Level{&level}},
		{Name: "Times", Value: []time.Time{
			time.Date(2024, time.March, 5, 10, 30, 0, 7, time.UTC),
			time.Date(2024, time.January, 2, 3, 4, 5, 0, time.FixedZone("EST", -5*3600)),
			{},
		}},
		{Name: "ID", Value: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		{Name: "List", Value: []*fixture.Node{{Name: "a", Next: shared}, {Name: "b", Next: shared}}},
		{Name: "Nested", Value: map[string][][]string{"a": {{"x"}, {"x"}}, "b": {}}},
	}
	if loc, err := time.LoadLocation("Europe/Berlin"); err == nil {
		targets = append(targets, Target{Name: "Zone", Value: loc})
	}
	return targets
}

func TestRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs a program")
	}
	gobin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not available")
	}

	// The program imports packages of this module, so it has to live inside it.
	dir, err := os.MkdirTemp("testdata", "roundtrip")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	targets := roundTripTargets()
	cfg := MustNewConfig(
		WithPackage("github.com/syssam/structdump/compiler/gen/testdata/"+filepath.Base(dir)),
		WithPackageName("main"),
		WithOutput(filepath.Join(dir, "values.go")),
	)
	require.NoError(t, Generate(context.Background(), cfg, targets...))

	names := make([]string, len(targets))
	var want strings.Builder
	for i, tg := range targets {
		names[i] = tg.Name
		want.WriteString(dumper.Sdump(tg.Value))
	}
	prog := fmt.Sprintf(roundTripMain, strings.Join(names, ", "))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(prog), 0o644))

	cmd := exec.Command(gobin, "run", ".")
	cmd.Dir = dir
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	require.NoError(t, err, stderr.String())
	assert.Equal(t, want.String(), string(out))
}
