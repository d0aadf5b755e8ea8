package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_Text(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain text", "Female"},
		{"empty string passes through", ""},
		{"whitespace preserved", "  Accra Mall  "},
		{"numeric-looking text", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, Coerce(KindText, tt.input))
		})
	}
}

func TestCoerce_Integer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected interface{}
	}{
		{"plain integer", "34", int64(34)},
		{"negative", "-5", int64(-5)},
		{"integral decimal", "34.0", int64(34)},
		{"fractional is null", "4.7", nil},
		{"surrounding whitespace", " 34 ", int64(34)},
		{"words are null", "thirty", nil},
		{"empty is null", "", nil},
		{"mixed is null", "34 years", nil},
		{"overflow is null", "1e300", nil},
		{"huge digits are null", "9999999999999999999999", nil},
		{"negative overflow is null", "-1e300", nil},
		{"nan is null", "NaN", nil},
		{"inf is null", "Inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Coerce(KindInteger, tt.input))
		})
	}
}

func TestCoerce_BigInt(t *testing.T) {
	assert.Equal(t, int64(412345678901), Coerce(KindBigInt, "412345678901"))
	assert.Nil(t, Coerce(KindBigInt, "not-an-id"))
}

func TestCoerce_Timestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "RFC3339 with zone",
			input:    "2024-01-03T10:00:00Z",
			expected: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339 with offset",
			input:    "2024-01-03T10:00:00+01:00",
			expected: time.Date(2024, 1, 3, 10, 0, 0, 0, time.FixedZone("", 3600)),
		},
		{
			name:     "zone-less T form",
			input:    "2024-01-03T10:00:00",
			expected: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "space-separated form",
			input:    "2024-01-03 10:00:00",
			expected: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "date only",
			input:    "2024-01-03",
			expected: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Coerce(KindTimestamp, tt.input)
			ts, ok := v.(time.Time)
			require.True(t, ok, "expected time.Time, got %T", v)
			assert.True(t, tt.expected.Equal(ts), "expected %v, got %v", tt.expected, ts)
		})
	}
}

func TestCoerce_Timestamp_Unparsable(t *testing.T) {
	tests := []string{"yesterday", "03/01/2024x", "", "n/a"}
	for _, input := range tests {
		assert.Nil(t, Coerce(KindTimestamp, input), "input %q", input)
	}
}

func TestCoerce_Date_TruncatesToCalendarDate(t *testing.T) {
	v := Coerce(KindDate, "2024-01-03T10:30:45Z")
	ts, ok := v.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), ts)

	assert.Nil(t, Coerce(KindDate, "not a date"))
}

// Coercion must be total: no input for a typed column may panic or error,
// it either parses or becomes nil.
func TestCoerce_Total(t *testing.T) {
	inputs := []string{"", " ", "NaN", "∞", "9999999999999999999999", "\x00", "2024-13-45", "--1"}
	kinds := []Kind{KindText, KindTimestamp, KindDate, KindInteger, KindBigInt}

	for _, kind := range kinds {
		for _, input := range inputs {
			assert.NotPanics(t, func() { Coerce(kind, input) })
		}
	}
}
