package shapes

import "time"

// Point is a plain struct.
type Point struct {
	X, Y int
	_    struct{}
}

// Shape is closed by its marker method.
type Shape interface {
	isShape()
	Area() float64
}

type Circle struct {
	Center Point
	Radius float64
}

func (Circle) isShape()      {}
func (Circle) Area() float64 { return 0 }

type Polygon struct {
	Points []Point
	closed bool
}

func (*Polygon) isShape()      {}
func (*Polygon) Area() float64 { return 0 }

// Color is an enum.
type Color int

const (
	Red Color = iota + 1
	Green
	Blue
	Crimson = Red
)

// Unit is an enum backed by strings.
type Unit string

const (
	Meter Unit = "m"
	Foot  Unit = "ft"
)

// Stamped embeds another struct.
type Stamped struct {
	Point
	At time.Time
}

// Custom renders itself.
type Custom struct{ v int }

func (Custom) GenCode() {}

// Pair is generic.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Ratio has no constants.
type Ratio float64

// ID has no constants either.
type ID int

// Alias is not a declaration of its own.
type Alias = Point

// Stringer is an open interface.
type Stringer interface {
	String() string
}
