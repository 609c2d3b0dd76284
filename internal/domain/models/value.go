// internal/domain/models/value.go
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies which payload of a Value is populated.
type Kind string

const (
	KindNull   Kind = "null"
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindObject Kind = "object"
)

// Value is a tagged union for settings values and page content.
// Exactly one payload field is meaningful, selected by Kind.
type Value struct {
	Kind   Kind           `bson:"kind" json:"kind"`
	String string         `bson:"string,omitempty" json:"string,omitempty"`
	Number float64        `bson:"number,omitempty" json:"number,omitempty"`
	Bool   bool           `bson:"bool,omitempty" json:"bool,omitempty"`
	Object map[string]any `bson:"object,omitempty" json:"object,omitempty"`
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// NumberValue returns a number Value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ObjectValue returns an object Value.
func ObjectValue(o map[string]any) Value { return Value{Kind: KindObject, Object: o} }

// NullValue returns the empty Value.
func NullValue() Value { return Value{Kind: KindNull} }

// IsZero reports whether v carries no payload.
func (v Value) IsZero() bool {
	return v.Kind == "" || v.Kind == KindNull
}

// AsString renders the value as text. Objects are rendered as compact JSON.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.String
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindObject:
		b, err := json.Marshal(v.Object)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// AsBool interprets the value as a flag. Strings "true", "1", "yes" and "on"
// are true; non-zero numbers are true.
func (v Value) AsBool() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0
	case KindString:
		switch v.String {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

// Validate checks that Kind is known and matches the populated payload.
func (v Value) Validate() error {
	switch v.Kind {
	case KindNull, KindString, KindNumber, KindBool:
		return nil
	case KindObject:
		if v.Object == nil {
			return fmt.Errorf("object value has no payload")
		}
		return nil
	case "":
		return fmt.Errorf("value kind is required")
	default:
		return fmt.Errorf("unknown value kind %q", v.Kind)
	}
}

// ErrListValue rejects a bare JSON array; store lists inside an object.
var ErrListValue = errors.New(`lists are not a setting value; wrap them in an object such as {"items": [...]}`)

// UnmarshalJSON accepts the tagged form ({"kind": ...}) or a bare JSON
// scalar or object, in which case the kind is inferred. Arrays fail with
// ErrListValue.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = NullValue()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	case '{':
		var obj map[string]any
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if k, ok := obj["kind"].(string); ok && isKnownKind(Kind(k)) {
			type tagged Value
			var t tagged
			if err := json.Unmarshal(trimmed, &t); err != nil {
				return err
			}
			*v = Value(t)
			return v.Validate()
		}
		*v = ObjectValue(obj)
		return nil
	case '[':
		return ErrListValue
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("unsupported value: %w", err)
		}
		*v = NumberValue(n)
		return nil
	}
}

func isKnownKind(k Kind) bool {
	switch k {
	case KindNull, KindString, KindNumber, KindBool, KindObject:
		return true
	}
	return false
}
