package palette

// Tone is an enum.
type Tone int

const (
	Light Tone = iota
	Dark
)

// Swatch is a plain struct.
type Swatch struct {
	Name string
	Tone Tone
	Tags []string
}

// Empty has no fields.
type Empty struct{}

// Fill is a sum type.
type Fill interface {
	isFill()
}

type Solid struct {
	Swatch Swatch
}

func (Solid) isFill() {}

type Clear struct{}

func (Clear) isFill() {}
