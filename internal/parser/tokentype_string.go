package parser

// Hand-written in place of `go generate ./internal/parser` (stringer
// isn't available in this build environment). Keep in sync with the
// TokenType const block in types.go.

var tokenTypeNames = map[TokenType]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	IDENTIFIER:    "IDENTIFIER",
	NUMBER:        "NUMBER",
	HEX_NUMBER:    "HEX_NUMBER",
	STRING:        "STRING",
	FN:            "FN",
	FUN:           "FUN",
	LET:           "LET",
	IF:            "IF",
	ELSE:          "ELSE",
	RETURN:        "RETURN",
	MODULE:        "MODULE",
	CONTRACT:      "CONTRACT",
	ASSERT:        "ASSERT",
	REQUIRE:       "REQUIRE",
	USE:           "USE",
	STRUCT:        "STRUCT",
	WRITES:        "WRITES",
	READS:         "READS",
	PUBLIC:        "PUBLIC",
	EXT:           "EXT",
	MUT:           "MUT",
	PLUS:          "PLUS",
	INCREMENT:     "INCREMENT",
	MINUS:         "MINUS",
	DECREMENT:     "DECREMENT",
	STAR:          "STAR",
	STAR_STAR:     "STAR_STAR",
	SLASH:         "SLASH",
	BANG:          "BANG",
	BANG_EQUAL:    "BANG_EQUAL",
	EQUAL:         "EQUAL",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	AND:           "AND",
	AMPERSAND:     "AMPERSAND",
	OR:            "OR",
	PIPE:          "PIPE",
	ARROW:         "ARROW",
	PERCENT:       "PERCENT",
	PLUS_EQUAL:    "PLUS_EQUAL",
	MINUS_EQUAL:   "MINUS_EQUAL",
	STAR_EQUAL:    "STAR_EQUAL",
	SLASH_EQUAL:   "SLASH_EQUAL",
	PERCENT_EQUAL: "PERCENT_EQUAL",
	COMMA:         "COMMA",
	DOT:           "DOT",
	SEMICOLON:     "SEMICOLON",
	COLON:         "COLON",
	DOUBLE_COLON:  "DOUBLE_COLON",
	LEFT_PAREN:    "LEFT_PAREN",
	RIGHT_PAREN:   "RIGHT_PAREN",
	LEFT_BRACE:    "LEFT_BRACE",
	RIGHT_BRACE:   "RIGHT_BRACE",
	LEFT_BRACKET:  "LEFT_BRACKET",
	RIGHT_BRACKET: "RIGHT_BRACKET",
	POUND:         "POUND",
	COMMENT:       "COMMENT",
	DOC_COMMENT:   "DOC_COMMENT",
	BLOCK_COMMENT: "BLOCK_COMMENT",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "TokenType(unknown)"
}
