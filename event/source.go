package event

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

type sourceKind uint8

const (
	fromPayloadKey sourceKind = iota
	fromTopLevelKey
	wholePayload
)

// Source says where a field lives in a raw message.
type Source struct {
	kind sourceKind
	key  string
}

// PayloadKey looks the key up in the payload object first and falls back to
// the top-level message.
func PayloadKey(key string) Source { return Source{kind: fromPayloadKey, key: key} }

// TopLevelKey reads a sibling of the payload, such as the room slug "s".
func TopLevelKey(key string) Source { return Source{kind: fromTopLevelKey, key: key} }

// WholePayload takes "p" as is, whatever its shape.
var WholePayload = Source{kind: wholePayload}

func (s Source) String() string {
	switch s.kind {
	case fromPayloadKey:
		return "p." + s.key
	case fromTopLevelKey:
		return s.key
	default:
		return "p"
	}
}

func (s Source) resolve(msg, payload gjson.Result) (gjson.Result, bool) {
	switch s.kind {
	case wholePayload:
		return payload, payload.Exists()
	case fromPayloadKey:
		if payload.IsObject() {
			if r := payload.Get(s.key); r.Exists() {
				return r, true
			}
		}
		fallthrough
	default:
		r := msg.Get(s.key)
		return r, r.Exists()
	}
}

// Field binds a variant field name to its wire source.
type Field struct {
	Name   string
	Source Source
}

// values holds the resolved fields of one message, keyed by field name.
type values map[string]gjson.Result

// integer parses the literal text of r. Fractions, exponents and values
// outside int64 are refused rather than rounded.
func integer(r gjson.Result) (int64, error) {
	if r.Type != gjson.Number {
		return 0, fmt.Errorf("want number, got %s", r.Type)
	}
	n, err := strconv.ParseInt(r.Raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("want integer, got %s", r.Raw)
	}
	return n, nil
}

func (v values) int64(name string) (int64, error) {
	n, err := integer(v[name])
	if err != nil {
		return 0, &fieldError{field: name, err: err}
	}
	return n, nil
}

func (v values) int(name string) (int, error) {
	n, err := v.int64(name)
	if err != nil {
		return 0, err
	}
	if int64(int(n)) != n {
		return 0, &fieldError{field: name, err: fmt.Errorf("%d overflows int", n)}
	}
	return int(n), nil
}

func (v values) string(name string) (string, error) {
	r := v[name]
	if r.Type != gjson.String {
		return "", &fieldError{field: name, err: fmt.Errorf("want string, got %s", r.Type)}
	}
	return r.Str, nil
}

func (v values) int64s(name string) ([]int64, error) {
	r := v[name]
	if !r.IsArray() {
		return nil, &fieldError{field: name, err: fmt.Errorf("want list, got %s", r.Type)}
	}
	items := r.Array()
	out := make([]int64, 0, len(items))
	for i, item := range items {
		n, err := integer(item)
		if err != nil {
			return nil, &fieldError{field: name, err: fmt.Errorf("element %d: %w", i, err)}
		}
		out = append(out, n)
	}
	return out, nil
}

// object decodes the named object into dst and returns a copy of its source
// text, so keys dst has no field for are not lost.
func (v values) object(name string, dst any) (json.RawMessage, error) {
	r := v[name]
	if !r.IsObject() {
		return nil, &fieldError{field: name, err: fmt.Errorf("want object, got %s", r.Type)}
	}
	if err := json.Unmarshal([]byte(r.Raw), dst); err != nil {
		return nil, &fieldError{field: name, err: err}
	}
	return json.RawMessage(r.Raw), nil
}
