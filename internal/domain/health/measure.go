package health

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Measure is an optional numeric reading. Absent and malformed values are
// both represented as !Valid; absence is never zero.
type Measure struct {
	Value float64
	Valid bool
}

func Some(v float64) Measure { return Measure{Value: v, Valid: true} }

func (m Measure) Get() (float64, bool) { return m.Value, m.Valid }

// UnmarshalJSON never fails: a non-numeric payload decodes as absent.
func (m *Measure) UnmarshalJSON(b []byte) error {
	*m = Measure{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*m = Some(f)
	return nil
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid || math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'f', -1, 64)), nil
}

// Text is a free-form annotation. Like Measure it never fails to decode: a
// non-string payload reads as empty.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}
