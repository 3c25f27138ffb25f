package ast

// Hand-written in place of `go generate ./internal/ast` (stringer isn't
// available in this build environment). Keep in sync with assign_types.go.

var assignTypeNames = map[AssignType]string{
	ILLEGAL_ASSIGN: "ILLEGAL_ASSIGN",
	ASSIGN:         "ASSIGN",
	PLUS_ASSIGN:    "PLUS_ASSIGN",
	MINUS_ASSIGN:   "MINUS_ASSIGN",
	STAR_ASSIGN:    "STAR_ASSIGN",
	SLASH_ASSIGN:   "SLASH_ASSIGN",
	PERCENT_ASSIGN: "PERCENT_ASSIGN",
}

func (a AssignType) String() string {
	if name, ok := assignTypeNames[a]; ok {
		return name
	}
	return "AssignType(unknown)"
}
