package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCheckExpressionGreaterEqual(t *testing.T) {
	p := ParseCheckExpression("(age >= 18)")
	require.NotNil(t, p)
	assert.Equal(t, ParsedCheckColumnOpLiteral, p.Kind)
	assert.Equal(t, "age", p.Column)
	assert.Equal(t, OpGE, p.Op)
	assert.Equal(t, 18.0, p.Literal)
}

func TestParseCheckExpressionGreaterThan(t *testing.T) {
	p := ParseCheckExpression("price > 0")
	require.NotNil(t, p)
	assert.Equal(t, OpGT, p.Op)
	assert.Equal(t, "price", p.Column)
}

func TestParseCheckExpressionLessEqual(t *testing.T) {
	p := ParseCheckExpression("discount <= 100")
	require.NotNil(t, p)
	assert.Equal(t, OpLE, p.Op)
}

func TestParseCheckExpressionColumnLessColumn(t *testing.T) {
	p := ParseCheckExpression("start_date < end_date")
	require.NotNil(t, p)
	assert.Equal(t, ParsedCheckColumnLessColumn, p.Kind)
	assert.Equal(t, "start_date", p.LeftColumn)
	assert.Equal(t, "end_date", p.RightColumn)
}

func TestParseCheckExpressionLength(t *testing.T) {
	p := ParseCheckExpression("(length(username) > 3)")
	require.NotNil(t, p)
	assert.Equal(t, ParsedCheckLengthGreater, p.Kind)
	assert.Equal(t, "username", p.LengthColumn)
	assert.Equal(t, 3, p.LengthBound)
}

func TestParseCheckExpressionCharLength(t *testing.T) {
	p := ParseCheckExpression("char_length(code) > 5")
	require.NotNil(t, p)
	assert.Equal(t, "code", p.LengthColumn)
}

func TestParseCheckExpressionBetween(t *testing.T) {
	p := ParseCheckExpression("rating between 1 and 5")
	require.NotNil(t, p)
	assert.Equal(t, ParsedCheckBetween, p.Kind)
	assert.Equal(t, "rating", p.BetweenColumn)
	assert.Equal(t, 1.0, p.BetweenLow)
	assert.Equal(t, 5.0, p.BetweenHigh)
}

func TestParseCheckExpressionIn(t *testing.T) {
	p := ParseCheckExpression("status IN ('active', 'inactive', 'pending')")
	require.NotNil(t, p)
	assert.Equal(t, ParsedCheckIn, p.Kind)
	assert.Equal(t, "status", p.InColumn)
	assert.Equal(t, []string{"active", "inactive", "pending"}, p.InValues)
}

func TestParseCheckExpressionUnrecognized(t *testing.T) {
	assert.Nil(t, ParseCheckExpression("some_function(a, b) = 'x'"))
}
