//go:build extra

package buildflags

type Extra struct {
	Name string
}
