package value

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSQLLiteral_BoolDialects(t *testing.T) {
	assert.Equal(t, "1", Bool(true).ToSQLLiteral(DialectMySQL))
	assert.Equal(t, "0", Bool(false).ToSQLLiteral(DialectMySQL))
	assert.Equal(t, "TRUE", Bool(true).ToSQLLiteral(DialectPostgreSQL))
	assert.Equal(t, "FALSE", Bool(false).ToSQLLiteral(DialectSQLite))
}

func TestToSQLLiteral_FloatEdgeCases(t *testing.T) {
	assert.Equal(t, "'NaN'", Float(nan()).ToSQLLiteral(DialectPostgreSQL))
	assert.Equal(t, "'Infinity'", Float(posInf()).ToSQLLiteral(DialectPostgreSQL))
	assert.Equal(t, "'-Infinity'", Float(negInf()).ToSQLLiteral(DialectPostgreSQL))
}

func TestToSQLLiteral_StringEscaping(t *testing.T) {
	assert.Equal(t, "'it''s'", String("it's").ToSQLLiteral(DialectPostgreSQL))
}

func TestToSQLLiteral_Bytes(t *testing.T) {
	b := Bytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	assert.Equal(t, "'\\xdeadbeef'", b.ToSQLLiteral(DialectPostgreSQL))
	assert.Equal(t, "X'deadbeef'", b.ToSQLLiteral(DialectMySQL))
	assert.Equal(t, "X'deadbeef'", b.ToSQLLiteral(DialectSQLite))
}

func TestToUniqueKey_NullSentinel(t *testing.T) {
	assert.Equal(t, "__NULL__", Null().ToUniqueKey())
	assert.NotEqual(t, Null().ToUniqueKey(), String("").ToUniqueKey())
}

func TestToUniqueKey_FloatFixedPrecision(t *testing.T) {
	assert.Equal(t, Float(1.5).ToUniqueKey(), Float(1.5).ToUniqueKey())
	require.Equal(t, "1.5000000000", Float(1.5).ToUniqueKey())
}

func TestToJSONValue_TimestampFormat(t *testing.T) {
	ts := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
	got, ok := Timestamp(ts).ToJSONValue().(string)
	require.True(t, ok)
	assert.Equal(t, "2025-06-15T12:30:00.000Z", got)
}

func TestToJSONValue_BytesBase64(t *testing.T) {
	got, ok := Bytes([]byte("hi")).ToJSONValue().(string)
	require.True(t, ok)
	assert.Equal(t, "aGk=", got)
}

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	v := UUID(id)
	assert.Equal(t, id.String(), v.ToCSVScalar())
	assert.Equal(t, "'"+id.String()+"'", v.ToSQLLiteral(DialectPostgreSQL))
}

func TestIsNull(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.False(t, Int(0).IsNull())
}

func nan() float64    { var z float64; return z / z }
func posInf() float64 { var z float64; return 1 / z }
func negInf() float64 { var z float64; return -1 / z }
