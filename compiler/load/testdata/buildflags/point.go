package buildflags

type Point struct {
	X, Y int
}
