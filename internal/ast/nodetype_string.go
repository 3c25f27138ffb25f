package ast

// Hand-written in place of `go generate ./internal/ast` (stringer isn't
// available in this build environment). Keep in sync with the NodeType
// const block in types.go.

var nodeTypeNames = map[NodeType]string{
	ILLEGAL:              "ILLEGAL",
	BAD_CONTRACT_ITEM:    "BAD_CONTRACT_ITEM",
	BAD_MODULE_ITEM:      "BAD_MODULE_ITEM",
	BAD_EXPR:             "BAD_EXPR",
	DOC_COMMENT:          "DOC_COMMENT",
	COMMENT:              "COMMENT",
	MODULE:               "MODULE",
	CONTRACT:             "CONTRACT",
	ATTRIBUTE:            "ATTRIBUTE",
	USE:                  "USE",
	NAMESPACE:            "NAMESPACE",
	IMPORT_ITEM:          "IMPORT_ITEM",
	STRUCT:               "STRUCT",
	STRUCT_FIELD:         "STRUCT_FIELD",
	TYPE:                 "TYPE",
	REF_TYPE:             "REF_TYPE",
	IDENT:                "IDENT",
	FUNCTION:             "FUNCTION",
	FUNCTION_PARAM:       "FUNCTION_PARAM",
	FUNCTION_BLOCK:       "FUNCTION_BLOCK",
	EXPR_STMT:            "EXPR_STMT",
	RETURN_STMT:          "RETURN_STMT",
	LET_STMT:             "LET_STMT",
	ASSIGN_STMT:          "ASSIGN_STMT",
	REQUIRE_STMT:         "REQUIRE_STMT",
	ASSERT_STMT:          "ASSERT_STMT",
	IF_STMT:              "IF_STMT",
	BINARY_EXPR:          "BINARY_EXPR",
	UNARY_EXPR:           "UNARY_EXPR",
	CALL_EXPR:            "CALL_EXPR",
	FIELD_ACCESS_EXPR:    "FIELD_ACCESS_EXPR",
	INDEX_EXPR:           "INDEX_EXPR",
	STRUCT_LITERAL_EXPR:  "STRUCT_LITERAL_EXPR",
	LITERAL_EXPR:         "LITERAL_EXPR",
	IDENT_EXPR:           "IDENT_EXPR",
	CALLEE_PATH:          "CALLEE_PATH",
	STRUCT_LITERAL_FIELD: "STRUCT_LITERAL_FIELD",
	PAREN_EXPR:           "PAREN_EXPR",
	TUPLE_EXPR:           "TUPLE_EXPR",
}

func (n NodeType) String() string {
	if name, ok := nodeTypeNames[n]; ok {
		return name
	}
	return "NodeType(unknown)"
}
