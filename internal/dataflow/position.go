package dataflow

import "fmt"

// Position is the engine's own source-location type. It mirrors
// ast.Position field-for-field so an IR provider can convert without
// loss, but the dataflow package never imports the AST: it must stay
// usable against any language's IR.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
