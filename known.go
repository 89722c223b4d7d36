package structdump

import (
	"reflect"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"
)

// knownTypes holds the renderers of library types whose fields cannot be
// set from another package. Every new Config starts with a copy.
var knownTypes = map[reflect.Type]TypeFunc{
	reflect.TypeFor[time.Time]():      timeCode,
	reflect.TypeFor[*time.Location](): locationCode,
	reflect.TypeFor[uuid.UUID]():      uuidCode,
}

// timeCode renders a time.Time as a time.Date call. Monotonic clock
// readings are dropped. Zones other than UTC and Local are rendered as
// fixed zones with the offset in effect at that instant.
func timeCode(e *Emitter, v reflect.Value, unique bool) Code {
	typ := jen.Qual("time", "Time")
	t := v.Interface().(time.Time)
	if t.IsZero() && t.Location() == time.UTC {
		return literalCode(jen.Qual("time", "Time").Values(), typ)
	}
	expr := jen.Qual("time", "Date").Call(
		jen.Lit(t.Year()),
		jen.Qual("time", t.Month().String()),
		jen.Lit(t.Day()),
		jen.Lit(t.Hour()),
		jen.Lit(t.Minute()),
		jen.Lit(t.Second()),
		jen.Lit(t.Nanosecond()),
		zoneCode(t),
	)
	return e.AddCode(NewCode(expr, typ), nil, unique)
}

func zoneCode(t time.Time) *jen.Statement {
	switch t.Location() {
	case time.UTC:
		return jen.Qual("time", "UTC")
	case time.Local:
		return jen.Qual("time", "Local")
	}
	name, offset := t.Zone()
	return jen.Qual("time", "FixedZone").Call(jen.Lit(name), jen.Lit(offset))
}

// locationCode renders a *time.Location by name. Zones known to the local
// zone database are loaded again when the output runs; others become fixed
// zones with their current offset.
func locationCode(e *Emitter, v reflect.Value, unique bool) Code {
	typ := jen.Op("*").Qual("time", "Location")
	if v.IsNil() {
		return NewCode(jen.Parens(typ.Clone()).Call(jen.Nil()), typ)
	}
	loc := v.Interface().(*time.Location)
	switch loc {
	case time.UTC:
		return NewCode(jen.Qual("time", "UTC"), typ)
	case time.Local:
		return NewCode(jen.Qual("time", "Local"), typ)
	}
	name := loc.String()
	if _, err := time.LoadLocation(name); err != nil {
		_, offset := time.Now().In(loc).Zone()
		return e.AddCode(NewCode(jen.Qual("time", "FixedZone").Call(jen.Lit(name), jen.Lit(offset)), typ), nil, unique)
	}
	expr := jen.Func().Params().Add(typ.Clone()).Block(
		jen.List(jen.Id("loc"), jen.Err()).Op(":=").Qual("time", "LoadLocation").Call(jen.Lit(name)),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err())),
		jen.Return(jen.Id("loc")),
	).Call()
	return e.AddCode(NewCode(expr, typ), nil, unique)
}

// uuidCode renders a uuid.UUID through its canonical text form.
func uuidCode(e *Emitter, v reflect.Value, unique bool) Code {
	typ := jen.Qual("github.com/google/uuid", "UUID")
	id := v.Interface().(uuid.UUID)
	if id == uuid.Nil {
		return NewCode(jen.Qual("github.com/google/uuid", "Nil"), typ)
	}
	expr := jen.Qual("github.com/google/uuid", "MustParse").Call(jen.Lit(id.String()))
	return e.AddCode(NewCode(expr, typ), nil, unique)
}
