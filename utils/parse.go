package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FloatMarker is the suffix that marks a free-form value as a decimal number.
const FloatMarker = "f"

// DateLayout is the layout date values of a row are parsed with. Fractional seconds are
// accepted.
const DateLayout = time.RFC3339

// dateFormatLayout keeps the fractional seconds of formatted dates.
const dateFormatLayout = time.RFC3339Nano

// escapedFloatMarker replaces the float marker of text values that would otherwise read back as
// decimals.
const escapedFloatMarker = "%66"

// keyValueEscaper escapes the characters that delimit key-value pairs.
var keyValueEscaper = strings.NewReplacer("%", "%25", "&", "%26", "=", "%3D")

// floatValueRegex matches a series of digits with an optional decimal part followed by the
// float marker, e.g. "12.5f", "3f" or ".5f".
var floatValueRegex = regexp.MustCompile(`^[0-9]*\.?[0-9]*f$`)

// ParseScalar converts a free-form value into a float64 if it carries the float marker and
// returns it as text otherwise.
func ParseScalar(value string) (interface{}, error) {
	if !isDecimal(value) {
		return value, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, FloatMarker), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal value %q: %v", value, err)
	}
	return f, nil
}

// isDecimal reports whether ParseScalar reads the value as a decimal.
func isDecimal(value string) bool {
	if value == FloatMarker || !floatValueRegex.MatchString(value) {
		return false
	}
	return strings.TrimSuffix(value, FloatMarker) != "."
}

// FormatScalar is the inverse of ParseScalar: decimals get the float marker appended.
func FormatScalar(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64) + FloatMarker
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32) + FloatMarker
	case int:
		return strconv.Itoa(v) + FloatMarker
	case int64:
		return strconv.FormatInt(v, 10) + FloatMarker
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseBool parses a boolean column value. An empty value is false.
func ParseBool(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(value))
}

// ParseInt parses an integer column value. An empty value is 0.
func ParseInt(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// ParseDate parses a date column value. An empty value is the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// FormatDate formats a date column value. The zero time is rendered as an empty value.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormatLayout)
}

// FormatInt formats an integer column value.
func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// ParseKeyValues parses "key=value&key2=value2" pairs. Values go through ParseScalar and
// percent-escaped keys and text values are unescaped; pairs without exactly one "=" are skipped.
func ParseKeyValues(s string) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	if s == "" {
		return result, nil
	}
	for _, pair := range strings.Split(s, "&") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			continue
		}
		v, err := ParseScalar(kv[1])
		if err != nil {
			return nil, err
		}
		if text, ok := v.(string); ok {
			v = unescapeKeyValue(text)
		}
		result[unescapeKeyValue(kv[0])] = v
	}
	return result, nil
}

// FormatKeyValues renders a map back to "key=value&key2=value2" with keys in the given order.
// Delimiters inside keys and text values are percent-escaped and text that looks like a decimal
// gets its float marker escaped, so ParseKeyValues restores the exact map.
func FormatKeyValues(m map[string]interface{}, keys []string) string {
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			pairs = append(pairs, keyValueEscaper.Replace(k)+"="+formatKeyValue(v))
		}
	}
	return strings.Join(pairs, "&")
}

func formatKeyValue(v interface{}) string {
	text, ok := v.(string)
	if !ok {
		return FormatScalar(v)
	}
	text = keyValueEscaper.Replace(text)
	if isDecimal(text) {
		return strings.TrimSuffix(text, FloatMarker) + escapedFloatMarker
	}
	return text
}

// unescapeKeyValue reverts the percent escapes. Values with a stray "%" that isn't an escape,
// e.g. a hand-written "50%", are kept as they are.
func unescapeKeyValue(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	unescaped, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return unescaped
}
