package failure

type Broken struct {
	Field Missing
}
