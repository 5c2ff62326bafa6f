package graph

import (
	"fmt"
)

// UnknownTagError is returned when a tag was never registered
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag: %q", e.Tag)
}

// UnknownIdentifierError is returned when an identifier is out of range
type UnknownIdentifierError struct {
	ID int
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown tag identifier: %d", e.ID)
}

// InvalidEdgeError is returned when an edge would connect a node to itself
type InvalidEdgeError struct {
	A, B int
	Tag  string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid edge {%d,%d}: self-loop on tag %q", e.A, e.B, e.Tag)
}

// EmptyRecordError is returned when a record carries no tags
type EmptyRecordError struct {
	Index int
}

func (e *EmptyRecordError) Error() string {
	return fmt.Sprintf("record %d has no tags", e.Index)
}

// EmptyTagError is returned when a record contains an empty tag string
type EmptyTagError struct {
	Record   int
	Position int
}

func (e *EmptyTagError) Error() string {
	return fmt.Sprintf("record %d: empty tag at position %d", e.Record, e.Position)
}
