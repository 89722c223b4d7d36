// Package fixture declares the types of the values generated by the
// round trip tests.
package fixture

import "time"

// Numbers covers the scalar kinds.
type Numbers struct {
	Int      int
	Int8     int8
	Uint64   uint64
	Float32  float32
	Float64  float64
	NaN      float64
	Inf      float64
	NegZero  float64
	Complex  complex128
	Bool     bool
	Text     string
	Duration time.Duration
}

// Key is a struct used as a map key.
type Key struct {
	ID   int
	Name string
}

// Node is a linked list element.
type Node struct {
	Name string
	Next *Node
}

// Level is an enum-like named integer.
type Level uint8

const (
	Low Level = iota
	High
)
