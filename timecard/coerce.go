package timecard

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number coerces a loosely typed persisted value to a finite number.
// Numbers pass through, numeric strings are parsed, booleans become 1 or 0,
// and anything else (missing, null, NaN, ±Inf, garbage) becomes 0.
func Number(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		return parseNumber(string(x))
	case string:
		return parseNumber(x)
	case bool:
		if x {
			return 1
		}
		return 0
	}
	return 0
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Text renders a loosely typed persisted scalar as a string. Numbers use the
// shortest representation so a numeric job number 1042 reads "1042".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}

// firstNonEmpty returns the first value that is not the empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// object is a decoded JSON object whose members are read leniently.
type object map[string]json.RawMessage

func decodeObject(b []byte) object {
	var o object
	if err := json.Unmarshal(b, &o); err != nil {
		return object{}
	}
	return o
}

// isObject reports whether key holds a JSON object; false, 0, "" and null do not count.
func (o object) isObject(key string) bool {
	raw, ok := o[key]
	if !ok {
		return false
	}
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func (o object) value(key string) any {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func (o object) text(key string) string {
	return Text(o.value(key))
}

func (o object) number(key string) float64 {
	return Number(o.value(key))
}

// elements splits an array member into raw elements; a missing or non-array
// member yields nil.
func (o object) elements(key string) []json.RawMessage {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// rest returns the members not listed in known, for pass-through on marshal.
func (o object) rest(known map[string]bool) map[string]json.RawMessage {
	var extra map[string]json.RawMessage
	for k, v := range o {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra
}
