package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// FieldKind is the declared type of a custom field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindDecimal  FieldKind = "decimal"
	KindDate     FieldKind = "date"
	KindDateTime FieldKind = "datetime"
	KindBoolean  FieldKind = "boolean"
	KindDropdown FieldKind = "dropdown"
	KindURL      FieldKind = "url"
	KindEmail    FieldKind = "email"
	KindPhone    FieldKind = "phone"
	KindIP       FieldKind = "ip"
	KindMAC      FieldKind = "mac"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

var allKinds = []FieldKind{
	KindText, KindTextarea, KindNumber, KindDecimal, KindDate, KindDateTime, KindBoolean,
	KindDropdown, KindURL, KindEmail, KindPhone, KindIP, KindMAC,
}

// FieldKinds lists every supported kind in display order.
func FieldKinds() []FieldKind {
	out := make([]FieldKind, len(allKinds))
	copy(out, allKinds)
	return out
}

func (k FieldKind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// TextLike kinds accept a regex pattern constraint.
func (k FieldKind) TextLike() bool { return k == KindText || k == KindTextarea }

// Numeric kinds accept min/max bounds.
func (k FieldKind) Numeric() bool { return k == KindNumber || k == KindDecimal }

func (k FieldKind) temporal() bool { return k == KindDate || k == KindDateTime }

// Value is a validated custom-field value. Exactly one payload is meaningful,
// selected by Kind: text-like kinds (including dropdown, url, email, phone, ip, mac)
// carry a string, numeric kinds a float64, boolean a bool, date/datetime a time.
type Value struct {
	kind FieldKind
	str  string
	num  float64
	b    bool
	t    time.Time
}

func StringValue(kind FieldKind, s string) Value { return Value{kind: kind, str: s} }

func NumberValue(kind FieldKind, f float64) Value { return Value{kind: kind, num: f} }

func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

func TimeValue(kind FieldKind, t time.Time) Value {
	if kind == KindDate {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return Value{kind: kind, t: t}
}

func (v Value) Kind() FieldKind { return v.kind }

func (v Value) Float() (float64, bool) { return v.num, v.kind.Numeric() }

func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBoolean }

func (v Value) Time() (time.Time, bool) { return v.t, v.kind.temporal() }

// Text returns the string payload for string-backed kinds.
func (v Value) Text() (string, bool) {
	switch {
	case v.kind.Numeric(), v.kind.temporal(), v.kind == KindBoolean, v.kind == "":
		return "", false
	}
	return v.str, true
}

// String renders the value for display and export.
func (v Value) String() string {
	switch {
	case v.kind.Numeric():
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case v.kind == KindBoolean:
		return strconv.FormatBool(v.b)
	case v.kind == KindDate:
		return v.t.Format(DateLayout)
	case v.kind == KindDateTime:
		return v.t.Format(DateTimeLayout)
	}
	return v.str
}

// Interface returns the plain JSON-compatible payload.
func (v Value) Interface() any {
	switch {
	case v.kind.Numeric():
		return v.num
	case v.kind == KindBoolean:
		return v.b
	case v.kind.temporal():
		return v.String()
	}
	return v.str
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind.temporal() {
		return v.t.Equal(other.t)
	}
	return v.str == other.str && v.num == other.num && v.b == other.b
}

type taggedValue struct {
	Kind  FieldKind       `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(v.Interface())
	if err != nil {
		return nil, err
	}
	return json.Marshal(taggedValue{Kind: v.kind, Value: raw})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var tv taggedValue
	if err := json.Unmarshal(data, &tv); err != nil {
		return err
	}
	if !tv.Kind.Valid() {
		return fmt.Errorf("unknown field kind %q", tv.Kind)
	}

	switch {
	case tv.Kind.Numeric():
		var f float64
		if err := json.Unmarshal(tv.Value, &f); err != nil {
			return err
		}
		*v = NumberValue(tv.Kind, f)
	case tv.Kind == KindBoolean:
		var b bool
		if err := json.Unmarshal(tv.Value, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case tv.Kind.temporal():
		var s string
		if err := json.Unmarshal(tv.Value, &s); err != nil {
			return err
		}
		layout := DateTimeLayout
		if tv.Kind == KindDate {
			layout = DateLayout
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return err
		}
		*v = TimeValue(tv.Kind, t)
	default:
		var s string
		if err := json.Unmarshal(tv.Value, &s); err != nil {
			return err
		}
		*v = StringValue(tv.Kind, s)
	}
	return nil
}

// FieldValues maps field slugs to validated values. Stored as a single JSON column.
type FieldValues map[string]Value

// Clone returns a shallow copy; Value is immutable so this is a full copy.
func (fv FieldValues) Clone() FieldValues {
	out := make(FieldValues, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}

func (fv FieldValues) Value() (driver.Value, error) {
	if fv == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]Value(fv))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (fv *FieldValues) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*fv = FieldValues{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal field values: ", src))
	}

	out := FieldValues{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, (*map[string]Value)(&out)); err != nil {
			return err
		}
	}
	*fv = out
	return nil
}

func (FieldValues) GormDataType() string { return "json" }

func (FieldValues) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql", "sqlite":
		return "JSON"
	}
	return ""
}
