package stale

type Model struct {
	Name string
}
