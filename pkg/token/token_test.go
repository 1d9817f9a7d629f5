package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "MACRO_CALL", MACRO_CALL.String())
	assert.Equal(t, "FAT_ARROW", FAT_ARROW.String())
	assert.Equal(t, "IDENT", IDENT.String())
	assert.Equal(t, "KIND(65535)", Kind(65535).String())
}

func TestEveryKindHasName(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		assert.NotEmpty(t, kindNames[k], "kind %d has no name", k)
	}
}

func TestKindClasses(t *testing.T) {
	assert.True(t, WHITESPACE.IsTrivia())
	assert.True(t, COMMENT.IsTrivia())
	assert.False(t, IDENT.IsTrivia())

	assert.True(t, FN_KW.IsKeyword())
	assert.False(t, IDENT.IsKeyword())

	assert.True(t, SEMI.IsPunct())
	assert.True(t, QUOTE.IsPunct())
	assert.False(t, COLONCOLON.IsPunct())
	assert.True(t, COLONCOLON.IsComposite())

	assert.True(t, STRING.IsLiteral())
	assert.True(t, TRUE_KW.IsLiteral())
	assert.False(t, IDENT.IsLiteral())

	assert.True(t, SOURCE_FILE.IsNode())
	assert.True(t, OR_PAT.IsNode())
	assert.False(t, WHILE_KW.IsNode())
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"fn", FN_KW},
		{"Self", SELF_TYPE_KW},
		{"self", SELF_KW},
		{"_", UNDERSCORE},
		{"macro_rules", IDENT},
		{"union", IDENT},
		{"foo", IDENT},
	}
	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestCompositeParts(t *testing.T) {
	assert.Equal(t, []Kind{R_ANGLE, R_ANGLE, EQ}, CompositeParts(SHREQ))
	assert.Equal(t, []Kind{COLON, COLON}, CompositeParts(COLONCOLON))
	assert.Nil(t, CompositeParts(SEMI))

	for _, k := range Composites() {
		assert.True(t, k.IsComposite(), k.String())
		assert.NotEmpty(t, CompositeParts(k), k.String())
	}
	// Longest first
	prev := 3
	for _, k := range Composites() {
		n := len(CompositeParts(k))
		assert.LessOrEqual(t, n, prev, k.String())
		prev = n
	}
}

func TestTextRange(t *testing.T) {
	r := TextRange{Start: 2, End: 7}
	assert.Equal(t, 5, r.Len())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(7))
	assert.Equal(t, "[2; 7)", r.String())
}
