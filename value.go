/*
Package respkit implements a non-blocking client library for a
Redis-compatible server speaking the Redis Serialization Protocol (RESP2)
over a byte-stream transport (TCP, Unix socket, or anything else satisfying
Transport).

This file defines RESPValue, the tagged value at the center of the wire
protocol. Every byte the Decoder produces and every byte the Encoder
consumes passes through this type.

RESP2 Value Forms:
- SimpleString: +OK\r\n
- Error:        -ERR message\r\n
- Integer:      :42\r\n
- BulkString:   $6\r\nhello!\r\n  (or $-1\r\n for the null bulk)
- Array:        *2\r\n$3\r\nGET\r\n$3\r\nkey\r\n  (or *-1\r\n for the null array)

Null handling:
The wire distinguishes a null bulk string from a null array, but nothing in
this library's consumers cares about that distinction once a value has been
typed-decoded — both collapse to IsNull() == true. The two forms are kept
separate on RESPValue itself (the BulkNull vs ArrayNull flags, disambiguated
by Type) purely so the codec round-trip property in spec §8 holds bit-for-bit.
*/
package respkit

import "strconv"

// ValueType identifies which RESP2 wire form a RESPValue carries.
type ValueType uint8

const (
	SimpleString ValueType = iota
	Error
	Integer
	BulkString
	Array
)

// String renders the ValueType's name, used in error messages and tests.
func (t ValueType) String() string {
	switch t {
	case SimpleString:
		return "SimpleString"
	case Error:
		return "Error"
	case Integer:
		return "Integer"
	case BulkString:
		return "BulkString"
	case Array:
		return "Array"
	default:
		return "ValueType(" + strconv.Itoa(int(t)) + ")"
	}
}

// RESPValue is the immutable tagged union of every value RESP2 can carry.
//
// Exactly one of the fields below is meaningful for a given Type:
//
//	Type          | field holding the payload
//	--------------|--------------------------------------------
//	SimpleString  | Str
//	Error         | Str (the error text, without the leading '-')
//	Integer       | Int
//	BulkString    | Bulk, or Bulk == nil && !BulkNull is impossible:
//	              | BulkNull distinguishes "" from the null bulk
//	Array         | Items, or ArrayNull for the null array
//
// A RESPValue is never mutated after construction by the Decoder; encoder
// callers are expected to treat values they build the same way. Bulk
// payloads preserve exact bytes (they are not assumed to be valid UTF-8) and
// Items preserves array order.
type RESPValue struct {
	Type ValueType

	Str string // SimpleString text, or Error text
	Int int64  // Integer value

	Bulk     []byte // BulkString payload; nil + BulkNull == wire null bulk
	BulkNull bool

	Items     []RESPValue // Array elements; nil + ArrayNull == wire null array
	ArrayNull bool
}

// Str builds a SimpleString value.
func Str(s string) RESPValue { return RESPValue{Type: SimpleString, Str: s} }

// Err builds an Error value from server-error text (no leading '-').
func Err(text string) RESPValue { return RESPValue{Type: Error, Str: text} }

// Int64 builds an Integer value.
func Int64(n int64) RESPValue { return RESPValue{Type: Integer, Int: n} }

// BulkBytes builds a BulkString value from bytes. A nil slice is NOT the same as
// NullBulk() — it produces a zero-length bulk string ("$0\r\n\r\n"). Use
// NullBulk for the wire null.
func BulkBytes(b []byte) RESPValue {
	if b == nil {
		b = []byte{}
	}
	return RESPValue{Type: BulkString, Bulk: b}
}

// BulkStr builds a BulkString value from a string; see BulkBytes.
func BulkStr(s string) RESPValue { return RESPValue{Type: BulkString, Bulk: []byte(s)} }

// NullBulk builds the RESP2 null-bulk sentinel ($-1\r\n).
func NullBulk() RESPValue { return RESPValue{Type: BulkString, BulkNull: true} }

// ArrayOf builds an Array value from its elements. A nil/empty slice
// produces an empty array ("*0\r\n"), distinct from NullArray.
func ArrayOf(items ...RESPValue) RESPValue {
	if items == nil {
		items = []RESPValue{}
	}
	return RESPValue{Type: Array, Items: items}
}

// NullArray builds the RESP2 null-array sentinel (*-1\r\n).
func NullArray() RESPValue { return RESPValue{Type: Array, ArrayNull: true} }

// IsNull reports whether v is either flavor of wire null. The two flavors
// are indistinguishable from here on: callers that need to tell a null
// bulk from a null array apart must inspect Type and the *Null flag
// directly, which nothing in this library's decode layer does (per
// spec §3, the two nulls "collectively represent the server-side notion of
// 'null'").
func (v RESPValue) IsNull() bool {
	switch v.Type {
	case BulkString:
		return v.BulkNull
	case Array:
		return v.ArrayNull
	default:
		return false
	}
}

// ToRESP renders a Go value as the bulk-string argument RESP2 commands are
// built from. Every Command argument is a bulk string on the wire — this is
// the contract ClientFacade verb builders use to turn typed parameters into
// argv elements.
type ToRESP interface {
	ToRESP() RESPValue
}

// stringArg / intArg / floatArg / bytesArg let command builders accept
// ordinary Go values without requiring every call site to wrap them.

type stringArg string

func (s stringArg) ToRESP() RESPValue { return BulkStr(string(s)) }

type bytesArg []byte

func (b bytesArg) ToRESP() RESPValue { return BulkBytes([]byte(b)) }

type intArg int64

func (i intArg) ToRESP() RESPValue { return BulkStr(strconv.FormatInt(int64(i), 10)) }

// floatArg stringifies a float64 in canonical decimal form (no exponent
// notation) the way Redis's own float parser expects, using the smallest
// number of digits that round-trips.
type floatArg float64

func (f floatArg) ToRESP() RESPValue {
	return BulkStr(strconv.FormatFloat(float64(f), 'f', -1, 64))
}

// Arg adapts a Go value to ToRESP for use as a command argument. Supported
// kinds: string, []byte, int/int64, float64, and anything already
// implementing ToRESP.
func Arg(v any) ToRESP {
	switch x := v.(type) {
	case ToRESP:
		return x
	case string:
		return stringArg(x)
	case []byte:
		return bytesArg(x)
	case int:
		return intArg(int64(x))
	case int64:
		return intArg(x)
	case float64:
		return floatArg(x)
	default:
		return stringArg("")
	}
}
