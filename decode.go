/*
TypedDecode (component C4) turns a RESPValue produced by the Decoder into
the domain type a caller actually wants — an int64, a string, a slice, a
map, or (in stream_decode.go) one of the Stream-domain aggregates.

Design note (spec §9): "dynamic-dispatched decoder chosen at call site" is
implemented here as a value of type Decode[T], never as a single generic
function picking behavior by reflecting on T — each concrete decoder
(DecodeInt64, DecodeString, ...) is its own named, total function value.
Aggregate helpers (DecodeSlice, DecodeMap, DecodeOptional) take a Decode[T]
as a parameter rather than switching on T themselves, which is what keeps
"different XREAD return shapes" representable as distinct call sites
instead of overload resolution.
*/
package respkit

import (
	"strconv"

	"github.com/pkg/errors"
)

// Decode is a total decoding capability: given a RESPValue it always
// produces a T or fails with a *DecodeError (spec §4.3 "Decode<T>").
type Decode[T any] func(RESPValue) (T, error)

// DecodeInt64 accepts Integer directly, or a SimpleString/BulkString whose
// contents parse as a base-10 signed integer.
var DecodeInt64 Decode[int64] = func(v RESPValue) (int64, error) {
	switch v.Type {
	case Integer:
		return v.Int, nil
	case SimpleString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return 0, errComposite("int64", v.Type, err)
		}
		return n, nil
	case BulkString:
		if v.BulkNull {
			return 0, errTypeMismatch("int64", v.Type)
		}
		n, err := strconv.ParseInt(string(v.Bulk), 10, 64)
		if err != nil {
			return 0, errComposite("int64", v.Type, err)
		}
		return n, nil
	default:
		return 0, errTypeMismatch("int64", v.Type)
	}
}

// DecodeString accepts SimpleString directly, or BulkString interpreted as
// UTF-8 (spec §4.3).
var DecodeString Decode[string] = func(v RESPValue) (string, error) {
	switch v.Type {
	case SimpleString:
		return v.Str, nil
	case BulkString:
		if v.BulkNull {
			return "", errTypeMismatch("string", v.Type)
		}
		return string(v.Bulk), nil
	default:
		return "", errTypeMismatch("string", v.Type)
	}
}

// DecodeBytes accepts only BulkString, returned without a UTF-8 check —
// the raw-bytes decoding target from spec §4.3's built-in decodings table.
var DecodeBytes Decode[[]byte] = func(v RESPValue) ([]byte, error) {
	if v.Type != BulkString || v.BulkNull {
		return nil, errTypeMismatch("[]byte", v.Type)
	}
	return v.Bulk, nil
}

// DecodeBool accepts Integer(1)->true, Integer(0)->false, and
// SimpleString("OK") -> true for acknowledgment-style replies (spec §4.3).
var DecodeBool Decode[bool] = func(v RESPValue) (bool, error) {
	switch v.Type {
	case Integer:
		switch v.Int {
		case 1:
			return true, nil
		case 0:
			return false, nil
		default:
			return false, errTypeMismatch("bool", v.Type)
		}
	case SimpleString:
		if v.Str == "OK" {
			return true, nil
		}
		return false, errTypeMismatch("bool", v.Type)
	default:
		return false, errTypeMismatch("bool", v.Type)
	}
}

// DecodeFloat64 accepts a string-encoded decimal (SimpleString or
// BulkString), the wire form Redis uses for every float-valued reply.
var DecodeFloat64 Decode[float64] = func(v RESPValue) (float64, error) {
	s, err := DecodeString(v)
	if err != nil {
		return 0, errComposite("float64", v.Type, err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errComposite("float64", v.Type, err)
	}
	return f, nil
}

// DecodeSlice decodes an Array element-wise with elem (spec §4.3
// "Sequence<T>").
func DecodeSlice[T any](v RESPValue, elem Decode[T]) ([]T, error) {
	if v.Type != Array || v.ArrayNull {
		return nil, errTypeMismatch("[]T", v.Type)
	}
	out := make([]T, len(v.Items))
	for i, item := range v.Items {
		t, err := elem(item)
		if err != nil {
			return nil, errComposite("[]T", v.Type, err)
		}
		out[i] = t
	}
	return out, nil
}

// DecodeMap decodes an even-length Array of alternating key/value pairs
// into a map[string]T (spec §4.3 "Mapping from string to T").
func DecodeMap[T any](v RESPValue, elem Decode[T]) (map[string]T, error) {
	if v.Type != Array || v.ArrayNull {
		return nil, errTypeMismatch("map[string]T", v.Type)
	}
	if len(v.Items)%2 != 0 {
		return nil, errComposite("map[string]T", v.Type, errors.New("odd-length array"))
	}
	out := make(map[string]T, len(v.Items)/2)
	for i := 0; i < len(v.Items); i += 2 {
		key, err := DecodeString(v.Items[i])
		if err != nil {
			return nil, errComposite("map[string]T", v.Type, err)
		}
		val, err := elem(v.Items[i+1])
		if err != nil {
			return nil, errComposite("map[string]T", v.Type, err)
		}
		out[key] = val
	}
	return out, nil
}

// DecodeOptional wraps a Decode[T] so that either flavor of wire null
// (BulkString(None) or Array(None)) decodes to (nil, nil) instead of an
// error — spec §4.3's "DecodeOptional<T>" contract, and the design note in
// §9 insisting that absence-of-value and decode-failure never be
// conflated.
func DecodeOptional[T any](v RESPValue, d Decode[T]) (*T, error) {
	if v.IsNull() {
		return nil, nil
	}
	t, err := d(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// decodeLabelledField reads the (key, value) pair at items[offset],
// items[offset+1] and enforces key == expected, failing KeyMismatch
// otherwise (spec §4.3 "Labelled-response decoding"). This underpins every
// stream-info decoder in stream_decode.go.
func decodeLabelledField[T any](items []RESPValue, offset int, expected string, elem Decode[T]) (T, error) {
	var zero T
	if offset+1 >= len(items) {
		return zero, errIndexOutOfRange(offset+1, len(items))
	}
	key, err := DecodeString(items[offset])
	if err != nil {
		return zero, errComposite("labelled field", items[offset].Type, err)
	}
	if key != expected {
		return zero, errKeyMismatch(expected, key)
	}
	return elem(items[offset+1])
}
