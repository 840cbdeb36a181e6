package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseScalar(t *testing.T) {
	tests := []struct {
		value    string
		expected interface{}
	}{
		{"12.5f", 12.5},
		{"3f", float64(3)},
		{".5f", 0.5},
		{"f", "f"},
		{".f", ".f"},
		{"12.5", "12.5"},
		{"draft", "draft"},
		{"", ""},
	}
	for _, tt := range tests {
		actual, err := ParseScalar(tt.value)
		assert.Nil(t, err)
		assert.Equalf(t, tt.expected, actual, "parse %q mismatch", tt.value)
	}
}

func TestFormatScalar(t *testing.T) {
	assert.Equal(t, "12.5f", FormatScalar(12.5))
	assert.Equal(t, "3f", FormatScalar(float64(3)))
	assert.Equal(t, "draft", FormatScalar("draft"))
	assert.Equal(t, "true", FormatScalar(true))
	assert.Equal(t, "", FormatScalar(nil))
}

func TestParseTypedValues(t *testing.T) {
	b, err := ParseBool(" true")
	assert.Nil(t, err)
	assert.True(t, b)
	_, err = ParseBool("yes")
	assert.NotNil(t, err)
	i, err := ParseInt("")
	assert.Nil(t, err)
	assert.Equal(t, int64(0), i)
	_, err = ParseInt("1.5")
	assert.NotNil(t, err)
	d, err := ParseDate("2021-04-01T10:00:00Z")
	assert.Nil(t, err)
	assert.Equal(t, time.Date(2021, 4, 1, 10, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2021-04-01T10:00:00Z", FormatDate(d))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestKeyValues(t *testing.T) {
	m, err := ParseKeyValues("department=Legal&budget=1200.5f&broken&a=b=c")
	assert.Nil(t, err)
	assert.Equal(t, map[string]interface{}{"department": "Legal", "budget": 1200.5}, m)
	assert.Equal(t, "budget=1200.5f&department=Legal", FormatKeyValues(m, []string{"budget", "missing", "department"}))
	empty, err := ParseKeyValues("")
	assert.Nil(t, err)
	assert.Empty(t, empty)
}

func TestKeyValues_Escaping(t *testing.T) {
	values := map[string]interface{}{
		"customer": "Smith & Sons",
		"formula":  "a=b",
		"code":     "12f",
		"discount": "50%",
		"r&d":      "x",
		"budget":   1200.5,
	}
	keys := []string{"budget", "code", "customer", "discount", "formula", "r&d"}

	formatted := FormatKeyValues(values, keys)
	parsed, err := ParseKeyValues(formatted)

	assert.Equal(t, "budget=1200.5f&code=12%66&customer=Smith %26 Sons&discount=50%25&formula=a%3Db&r%26d=x", formatted)
	assert.Nil(t, err)
	assert.Equal(t, values, parsed)
	handWritten, err := ParseKeyValues("discount=50%&note=100%zz")
	assert.Nil(t, err)
	assert.Equalf(t, map[string]interface{}{"discount": "50%", "note": "100%zz"}, handWritten, "stray percent signs must be kept")
}

func TestFormatDate_FractionalSeconds(t *testing.T) {
	d := time.Date(2021, 4, 1, 10, 0, 0, 123456789, time.UTC)

	formatted := FormatDate(d)
	parsed, err := ParseDate(formatted)

	assert.Equal(t, "2021-04-01T10:00:00.123456789Z", formatted)
	assert.Nil(t, err)
	assert.True(t, d.Equal(parsed))
}
