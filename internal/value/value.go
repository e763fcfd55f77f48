// Package value implements the tagged-union cell value produced by the
// generation engine for a single database column, along with its three
// wire encodings: SQL literal, CSV scalar, and uniqueness key.
package value

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTimestamp
	KindDate
	KindTime
	KindUUID
	KindJSON
	KindBytes
)

// Dialect names the SQL dialect a Value is rendered for.
type Dialect int

const (
	DialectPostgreSQL Dialect = iota
	DialectMySQL
	DialectSQLite
)

// Value is a generated cell. The zero Value is Null.
//
// The String variant is held directly as a Go string. Go strings are
// immutable views over their backing bytes, so a provider returning a
// package-level string literal (e.g. a status constant) never allocates,
// exactly like the borrowed form the original implementation distinguished
// explicitly — callers of Value cannot observe whether a given String came
// from a literal or from a formatted, heap-allocated string.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	t     time.Time
	u     uuid.UUID
	j     json.RawMessage
	bytes []byte
}

func Null() Value              { return Value{kind: KindNull} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t} }
func Date(t time.Time) Value    { return Value{kind: KindDate, t: t} }
func Time(t time.Time) Value    { return Value{kind: KindTime, t: t} }
func UUID(u uuid.UUID) Value    { return Value{kind: KindUUID, u: u} }
func JSON(raw json.RawMessage) Value { return Value{kind: KindJSON, j: raw} }
func Bytes(b []byte) Value      { return Value{kind: KindBytes, bytes: b} }

func (v Value) Kind() Kind  { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the wrapped int64 and true, or (0, false) for any other kind.
func (v Value) AsInt() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// AsString returns the wrapped string and true, or ("", false) for any other kind.
func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

const timestampLayout = "2006-01-02 15:04:05"
const dateLayout = "2006-01-02"
const timeLayout = "15:04:05"

// ToSQLLiteral renders v as a literal suitable for an INSERT statement in
// the given dialect.
func (v Value) ToSQLLiteral(dialect Dialect) string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		if dialect == DialectMySQL {
			if v.b {
				return "1"
			}
			return "0"
		}
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) {
			return "'NaN'"
		}
		if math.IsInf(v.f, 1) {
			return "'Infinity'"
		}
		if math.IsInf(v.f, -1) {
			return "'-Infinity'"
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return "'" + escapeSingleQuotes(v.s) + "'"
	case KindTimestamp:
		return "'" + v.t.Format(timestampLayout) + "'"
	case KindDate:
		return "'" + v.t.Format(dateLayout) + "'"
	case KindTime:
		return "'" + v.t.Format(timeLayout) + "'"
	case KindUUID:
		return "'" + v.u.String() + "'"
	case KindJSON:
		return "'" + escapeSingleQuotes(string(v.j)) + "'"
	case KindBytes:
		if dialect == DialectPostgreSQL {
			return "'\\x" + hexEncode(v.bytes) + "'"
		}
		return "X'" + hexEncode(v.bytes) + "'"
	}
	return "NULL"
}

// ToCSVScalar renders v as a bare scalar; delimiter/quote escaping is the
// CSV writer's responsibility, not the Value's.
func (v Value) ToCSVScalar() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t.Format(timestampLayout)
	case KindDate:
		return v.t.Format(dateLayout)
	case KindTime:
		return v.t.Format(timeLayout)
	case KindUUID:
		return v.u.String()
	case KindJSON:
		return string(v.j)
	case KindBytes:
		return hexEncode(v.bytes)
	}
	return ""
}

// nullUniqueKeySentinel marks Null in uniqueness-tracking sets, since the
// empty string is a legitimate non-null uniqueness key for an empty string
// column value.
const nullUniqueKeySentinel = "__NULL__"

// ToUniqueKey renders a canonical string used for collision detection
// across rows of a unique constraint. Floats are fixed to 10 fractional
// digits so that values equal up to float formatting noise collide.
func (v Value) ToUniqueKey() string {
	switch v.kind {
	case KindNull:
		return nullUniqueKeySentinel
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', 10, 64)
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t.Format(timestampLayout)
	case KindDate:
		return v.t.Format(dateLayout)
	case KindTime:
		return v.t.Format(timeLayout)
	case KindUUID:
		return v.u.String()
	case KindJSON:
		return string(v.j)
	case KindBytes:
		return hexEncode(v.bytes)
	}
	return nullUniqueKeySentinel
}

// ToJSONValue renders v for the JSON writer: timestamps as
// YYYY-MM-DDTHH:MM:SS.sssZ, bytes as standard padded base64, everything
// else as its native JSON representation.
func (v Value) ToJSONValue() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t.UTC().Format("2006-01-02T15:04:05.000Z")
	case KindDate:
		return v.t.Format(dateLayout)
	case KindTime:
		return v.t.Format(timeLayout)
	case KindUUID:
		return v.u.String()
	case KindJSON:
		var decoded any
		if err := json.Unmarshal(v.j, &decoded); err == nil {
			return decoded
		}
		return string(v.j)
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.bytes)
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	default:
		return v.ToCSVScalar()
	}
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func hexEncode(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0f]
	}
	return string(out)
}
