package token

// kindNames holds the debug-dump name of every kind.
var kindNames = [kindCount]string{
	EOF:       "EOF",
	TOMBSTONE: "TOMBSTONE",
	ERROR:     "ERROR",

	WHITESPACE: "WHITESPACE",
	COMMENT:    "COMMENT",

	IDENT:           "IDENT",
	LIFETIME:        "LIFETIME",
	INT_NUMBER:      "INT_NUMBER",
	FLOAT_NUMBER:    "FLOAT_NUMBER",
	CHAR:            "CHAR",
	BYTE:            "BYTE",
	STRING:          "STRING",
	BYTE_STRING:     "BYTE_STRING",
	RAW_STRING:      "RAW_STRING",
	RAW_BYTE_STRING: "RAW_BYTE_STRING",

	SEMI:       "SEMI",
	COMMA:      "COMMA",
	DOT:        "DOT",
	L_PAREN:    "L_PAREN",
	R_PAREN:    "R_PAREN",
	L_CURLY:    "L_CURLY",
	R_CURLY:    "R_CURLY",
	L_BRACK:    "L_BRACK",
	R_BRACK:    "R_BRACK",
	L_ANGLE:    "L_ANGLE",
	R_ANGLE:    "R_ANGLE",
	AT:         "AT",
	POUND:      "POUND",
	TILDE:      "TILDE",
	QUESTION:   "QUESTION",
	DOLLAR:     "DOLLAR",
	AMP:        "AMP",
	PIPE:       "PIPE",
	PLUS:       "PLUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	CARET:      "CARET",
	PERCENT:    "PERCENT",
	UNDERSCORE: "UNDERSCORE",
	COLON:      "COLON",
	EQ:         "EQ",
	EXCL:       "EXCL",
	MINUS:      "MINUS",
	QUOTE:      "QUOTE",

	DOTDOT:     "DOTDOT",
	DOTDOTDOT:  "DOTDOTDOT",
	DOTDOTEQ:   "DOTDOTEQ",
	COLONCOLON: "COLONCOLON",
	THIN_ARROW: "THIN_ARROW",
	FAT_ARROW:  "FAT_ARROW",
	EQEQ:       "EQEQ",
	NEQ:        "NEQ",
	LTEQ:       "LTEQ",
	GTEQ:       "GTEQ",
	AMPAMP:     "AMPAMP",
	PIPEPIPE:   "PIPEPIPE",
	PLUSEQ:     "PLUSEQ",
	MINUSEQ:    "MINUSEQ",
	STAREQ:     "STAREQ",
	SLASHEQ:    "SLASHEQ",
	CARETEQ:    "CARETEQ",
	PERCENTEQ:  "PERCENTEQ",
	AMPEQ:      "AMPEQ",
	PIPEEQ:     "PIPEEQ",
	SHL:        "SHL",
	SHR:        "SHR",
	SHLEQ:      "SHLEQ",
	SHREQ:      "SHREQ",

	AS_KW:        "AS_KW",
	ASYNC_KW:     "ASYNC_KW",
	AWAIT_KW:     "AWAIT_KW",
	BOX_KW:       "BOX_KW",
	BREAK_KW:     "BREAK_KW",
	CONST_KW:     "CONST_KW",
	CONTINUE_KW:  "CONTINUE_KW",
	CRATE_KW:     "CRATE_KW",
	DYN_KW:       "DYN_KW",
	ELSE_KW:      "ELSE_KW",
	ENUM_KW:      "ENUM_KW",
	EXTERN_KW:    "EXTERN_KW",
	FALSE_KW:     "FALSE_KW",
	FN_KW:        "FN_KW",
	FOR_KW:       "FOR_KW",
	IF_KW:        "IF_KW",
	IMPL_KW:      "IMPL_KW",
	IN_KW:        "IN_KW",
	LET_KW:       "LET_KW",
	LOOP_KW:      "LOOP_KW",
	MATCH_KW:     "MATCH_KW",
	MOD_KW:       "MOD_KW",
	MOVE_KW:      "MOVE_KW",
	MUT_KW:       "MUT_KW",
	PUB_KW:       "PUB_KW",
	REF_KW:       "REF_KW",
	RETURN_KW:    "RETURN_KW",
	SELF_KW:      "SELF_KW",
	SELF_TYPE_KW: "SELF_TYPE_KW",
	STATIC_KW:    "STATIC_KW",
	STRUCT_KW:    "STRUCT_KW",
	SUPER_KW:     "SUPER_KW",
	TRAIT_KW:     "TRAIT_KW",
	TRUE_KW:      "TRUE_KW",
	TYPE_KW:      "TYPE_KW",
	UNSAFE_KW:    "UNSAFE_KW",
	USE_KW:       "USE_KW",
	WHERE_KW:     "WHERE_KW",
	WHILE_KW:     "WHILE_KW",

	SOURCE_FILE: "SOURCE_FILE",
	MACRO_STMTS: "MACRO_STMTS",
	MACRO_ITEMS: "MACRO_ITEMS",
	FRAGMENT:    "FRAGMENT",

	FN:                "FN",
	STRUCT:            "STRUCT",
	UNION:             "UNION",
	ENUM:              "ENUM",
	TRAIT:             "TRAIT",
	IMPL:              "IMPL",
	MODULE:            "MODULE",
	USE:               "USE",
	USE_TREE:          "USE_TREE",
	USE_TREE_LIST:     "USE_TREE_LIST",
	CONST:             "CONST",
	STATIC:            "STATIC",
	TYPE_ALIAS:        "TYPE_ALIAS",
	EXTERN_CRATE:      "EXTERN_CRATE",
	EXTERN_BLOCK:      "EXTERN_BLOCK",
	ABI:               "ABI",
	RENAME:            "RENAME",
	MACRO_CALL:        "MACRO_CALL",
	TOKEN_TREE:        "TOKEN_TREE",
	ITEM_LIST:         "ITEM_LIST",
	ASSOC_ITEM_LIST:   "ASSOC_ITEM_LIST",
	EXTERN_ITEM_LIST:  "EXTERN_ITEM_LIST",
	VARIANT_LIST:      "VARIANT_LIST",
	VARIANT:           "VARIANT",
	RECORD_FIELD_LIST: "RECORD_FIELD_LIST",
	RECORD_FIELD:      "RECORD_FIELD",
	TUPLE_FIELD_LIST:  "TUPLE_FIELD_LIST",
	TUPLE_FIELD:       "TUPLE_FIELD",
	ATTR:              "ATTR",
	META:              "META",
	VISIBILITY:        "VISIBILITY",
	NAME:              "NAME",
	NAME_REF:          "NAME_REF",

	GENERIC_PARAM_LIST: "GENERIC_PARAM_LIST",
	TYPE_PARAM:         "TYPE_PARAM",
	LIFETIME_PARAM:     "LIFETIME_PARAM",
	CONST_PARAM:        "CONST_PARAM",
	GENERIC_ARG_LIST:   "GENERIC_ARG_LIST",
	TYPE_ARG:           "TYPE_ARG",
	LIFETIME_ARG:       "LIFETIME_ARG",
	CONST_ARG:          "CONST_ARG",
	ASSOC_TYPE_ARG:     "ASSOC_TYPE_ARG",
	TYPE_BOUND_LIST:    "TYPE_BOUND_LIST",
	TYPE_BOUND:         "TYPE_BOUND",
	WHERE_CLAUSE:       "WHERE_CLAUSE",
	WHERE_PRED:         "WHERE_PRED",

	PARAM_LIST: "PARAM_LIST",
	PARAM:      "PARAM",
	SELF_PARAM: "SELF_PARAM",
	RET_TYPE:   "RET_TYPE",

	PATH:         "PATH",
	PATH_SEGMENT: "PATH_SEGMENT",

	PATH_TYPE:       "PATH_TYPE",
	REF_TYPE:        "REF_TYPE",
	PTR_TYPE:        "PTR_TYPE",
	TUPLE_TYPE:      "TUPLE_TYPE",
	PAREN_TYPE:      "PAREN_TYPE",
	ARRAY_TYPE:      "ARRAY_TYPE",
	SLICE_TYPE:      "SLICE_TYPE",
	NEVER_TYPE:      "NEVER_TYPE",
	INFER_TYPE:      "INFER_TYPE",
	FN_PTR_TYPE:     "FN_PTR_TYPE",
	IMPL_TRAIT_TYPE: "IMPL_TRAIT_TYPE",
	DYN_TRAIT_TYPE:  "DYN_TRAIT_TYPE",

	LET_STMT:  "LET_STMT",
	EXPR_STMT: "EXPR_STMT",

	LITERAL:                "LITERAL",
	PATH_EXPR:              "PATH_EXPR",
	RECORD_EXPR:            "RECORD_EXPR",
	RECORD_EXPR_FIELD_LIST: "RECORD_EXPR_FIELD_LIST",
	RECORD_EXPR_FIELD:      "RECORD_EXPR_FIELD",
	PAREN_EXPR:             "PAREN_EXPR",
	TUPLE_EXPR:             "TUPLE_EXPR",
	ARRAY_EXPR:             "ARRAY_EXPR",
	BLOCK_EXPR:             "BLOCK_EXPR",
	IF_EXPR:                "IF_EXPR",
	LET_EXPR:               "LET_EXPR",
	WHILE_EXPR:             "WHILE_EXPR",
	LOOP_EXPR:              "LOOP_EXPR",
	FOR_EXPR:               "FOR_EXPR",
	MATCH_EXPR:             "MATCH_EXPR",
	MATCH_ARM_LIST:         "MATCH_ARM_LIST",
	MATCH_ARM:              "MATCH_ARM",
	MATCH_GUARD:            "MATCH_GUARD",
	RETURN_EXPR:            "RETURN_EXPR",
	BREAK_EXPR:             "BREAK_EXPR",
	CONTINUE_EXPR:          "CONTINUE_EXPR",
	CLOSURE_EXPR:           "CLOSURE_EXPR",
	CALL_EXPR:              "CALL_EXPR",
	METHOD_CALL_EXPR:       "METHOD_CALL_EXPR",
	FIELD_EXPR:             "FIELD_EXPR",
	AWAIT_EXPR:             "AWAIT_EXPR",
	INDEX_EXPR:             "INDEX_EXPR",
	TRY_EXPR:               "TRY_EXPR",
	CAST_EXPR:              "CAST_EXPR",
	REF_EXPR:               "REF_EXPR",
	PREFIX_EXPR:            "PREFIX_EXPR",
	RANGE_EXPR:             "RANGE_EXPR",
	BIN_EXPR:               "BIN_EXPR",
	ARG_LIST:               "ARG_LIST",
	LABEL:                  "LABEL",

	IDENT_PAT:             "IDENT_PAT",
	WILDCARD_PAT:          "WILDCARD_PAT",
	LITERAL_PAT:           "LITERAL_PAT",
	PATH_PAT:              "PATH_PAT",
	TUPLE_STRUCT_PAT:      "TUPLE_STRUCT_PAT",
	RECORD_PAT:            "RECORD_PAT",
	RECORD_PAT_FIELD_LIST: "RECORD_PAT_FIELD_LIST",
	RECORD_PAT_FIELD:      "RECORD_PAT_FIELD",
	TUPLE_PAT:             "TUPLE_PAT",
	SLICE_PAT:             "SLICE_PAT",
	REF_PAT:               "REF_PAT",
	REST_PAT:              "REST_PAT",
	RANGE_PAT:             "RANGE_PAT",
	OR_PAT:                "OR_PAT",
}
