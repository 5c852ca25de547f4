package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"

	"reglagen/pkg/schema"
)

// The reconciliation engine derives Header labels from the order in which
// keys appear in the model's Regla JSON. encoding/json maps drop that order,
// so Regla is re-parsed into this minimal ordered tree.

type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

type jsonValue struct {
	kind    valueKind
	str     string
	num     json.Number
	boolean bool
	arr     []jsonValue
	members []jsonMember
}

type jsonMember struct {
	key   string
	value jsonValue
}

func (v jsonValue) isScalar() bool {
	switch v.kind {
	case kindNull, kindBool, kindNumber, kindString:
		return true
	}
	return false
}

// scalarArray reports whether v is an array whose elements are all scalars.
// Empty arrays count: a catalog with no values is still a catalog.
func (v jsonValue) scalarArray() bool {
	if v.kind != kindArray {
		return false
	}
	for _, elem := range v.arr {
		if !elem.isScalar() {
			return false
		}
	}
	return true
}

// lookup finds an object member by fold-insensitive key comparison, so
// "reglas especifica" also matches "Reglas Específica" or
// "reglas_especifica".
func (v jsonValue) lookup(key string) (jsonValue, bool) {
	want := schema.FoldLabel(normalizeSeparators(key))
	for _, m := range v.members {
		if schema.FoldLabel(normalizeSeparators(m.key)) == want {
			return m.value, true
		}
	}
	return jsonValue{}, false
}

func normalizeSeparators(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			out[i] = ' '
		} else {
			out[i] = s[i]
		}
	}
	return string(out)
}

// parseJSONTree decodes raw JSON into an ordered tree. Unlike a plain
// map[string]any round-trip it preserves object key order.
func parseJSONTree(raw []byte) (jsonValue, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return jsonValue{}, err
	}

	// Trailing garbage after the first value is malformed input.
	if _, err := dec.Token(); err == nil {
		return jsonValue{}, fmt.Errorf("unexpected trailing content")
	}

	return value, nil
}

func decodeValue(dec *json.Decoder) (jsonValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return jsonValue{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return jsonValue{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return jsonValue{kind: kindString, str: t}, nil
	case json.Number:
		return jsonValue{kind: kindNumber, num: t}, nil
	case bool:
		return jsonValue{kind: kindBool, boolean: t}, nil
	case nil:
		return jsonValue{kind: kindNull}, nil
	default:
		return jsonValue{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (jsonValue, error) {
	obj := jsonValue{kind: kindObject}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return jsonValue{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return jsonValue{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return jsonValue{}, err
		}
		obj.members = append(obj.members, jsonMember{key: key, value: value})
	}

	// consume '}'
	if _, err := dec.Token(); err != nil {
		return jsonValue{}, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (jsonValue, error) {
	arr := jsonValue{kind: kindArray}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return jsonValue{}, err
		}
		arr.arr = append(arr.arr, value)
	}

	// consume ']'
	if _, err := dec.Token(); err != nil {
		return jsonValue{}, err
	}
	return arr, nil
}
