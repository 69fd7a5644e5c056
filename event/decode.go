package event

import (
	"encoding/json"
	"errors"
	"slices"

	"github.com/tidwall/gjson"
)

// Decode turns one raw socket message into an Event.
//
// Messages whose kind has no variant decode to Unknown and never fail. A
// message of a known kind missing any declared field fails with a
// *MalformedEventError; callers are expected to log it and move on to the
// next message.
func Decode(raw []byte) (Event, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &MalformedEventError{Raw: clone(raw), Err: errInvalidJSON}
	}
	msg := gjson.ParseBytes(raw)
	if !msg.IsObject() {
		return nil, &MalformedEventError{Raw: clone(raw), Err: errNotAnObject}
	}

	wireKind := msg.Get("a").String()
	v, ok := variants[Kind(wireKind)]
	if !ok {
		return Unknown{WireKind: wireKind, Raw: clone(raw)}, nil
	}

	kind := Kind(wireKind)
	payload := msg.Get("p")
	vals := make(values, len(v.fields))
	for _, f := range v.fields {
		r, ok := f.Source.resolve(msg, payload)
		if !ok {
			return nil, &MalformedEventError{Kind: kind, Field: f.Name, Raw: clone(raw), Err: errMissingField}
		}
		vals[f.Name] = r
	}

	ev, err := v.build(vals)
	if err != nil {
		merr := &MalformedEventError{Kind: kind, Raw: clone(raw), Err: err}
		var ferr *fieldError
		if errors.As(err, &ferr) {
			merr.Field = ferr.field
			merr.Err = ferr.err
		}
		return nil, merr
	}
	return ev, nil
}

func clone(raw []byte) json.RawMessage {
	return json.RawMessage(slices.Clone(raw))
}
