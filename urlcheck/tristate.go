package urlcheck

import "encoding/json"

// TriState distinguishes "checked and passed", "checked and failed" and
// "not checked / check did not complete". The zero value is Unknown so a
// freshly built CheckSet starts with every external signal undecided.
type TriState int

const (
	Unknown TriState = iota
	Pass
	Fail
)

func (t TriState) String() string {
	switch t {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalJSON renders Pass/Fail as booleans and Unknown as null, so the
// checks object in the response reads as nullable booleans.
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Pass:
		return []byte("true"), nil
	case Fail:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	switch {
	case b == nil:
		*t = Unknown
	case *b:
		*t = Pass
	default:
		*t = Fail
	}
	return nil
}
