package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValues_StorageRoundTrip(t *testing.T) {
	installed := time.Date(2023, 5, 17, 15, 4, 5, 0, time.UTC)
	fv := FieldValues{
		"power_status":  StringValue(KindDropdown, "maintenance"),
		"cpu_cores":     NumberValue(KindNumber, 16),
		"under_support": BoolValue(true),
		"purchased":     TimeValue(KindDate, installed),
		"installed_at":  TimeValue(KindDateTime, installed),
	}

	raw, err := fv.Value()
	require.NoError(t, err)

	var back FieldValues
	require.NoError(t, back.Scan(raw))
	require.Len(t, back, len(fv))
	for slug, want := range fv {
		assert.True(t, want.Equal(back[slug]), "slug %s", slug)
	}

	assert.Equal(t, "2023-05-17", back["purchased"].String())
	cores, ok := back["cpu_cores"].Float()
	assert.True(t, ok)
	assert.Equal(t, float64(16), cores)
}

func TestFieldValues_ScanEmpty(t *testing.T) {
	var fv FieldValues
	require.NoError(t, fv.Scan(nil))
	assert.NotNil(t, fv)
	assert.Empty(t, fv)

	require.NoError(t, fv.Scan([]byte("{}")))
	assert.Empty(t, fv)

	assert.Error(t, fv.Scan(42))
}

func TestValue_UnmarshalRejectsUnknownKind(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"kind":"color","value":"red"}`), &v)
	assert.Error(t, err)
}

func TestValue_Accessors(t *testing.T) {
	v := StringValue(KindEmail, "ops@example.com")
	s, ok := v.Text()
	assert.True(t, ok)
	assert.Equal(t, "ops@example.com", s)

	_, ok = v.Float()
	assert.False(t, ok)

	n := NumberValue(KindDecimal, 2.5)
	_, ok = n.Text()
	assert.False(t, ok)
	assert.Equal(t, 2.5, n.Interface())

	assert.False(t, StringValue(KindText, "1").Equal(NumberValue(KindNumber, 1)))
}

func TestFieldKind(t *testing.T) {
	assert.True(t, KindDropdown.Valid())
	assert.False(t, FieldKind("color").Valid())
	assert.True(t, KindTextarea.TextLike())
	assert.False(t, KindEmail.TextLike())
	assert.True(t, KindDecimal.Numeric())
	assert.Len(t, FieldKinds(), 13)
}
