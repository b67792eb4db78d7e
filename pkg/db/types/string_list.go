package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list of strings persisted as a JSON array.
//
// Reads tolerate rows written before the column was structured: a legacy
// comma-separated scalar like "A,B,C" scans as ["A","B","C"], so callers
// always observe a list regardless of how old the row is.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("StringList: unsupported Scan type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*l = StringList{}
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return fmt.Errorf("StringList: parse %q: %w", raw, err)
		}
		if parsed == nil {
			parsed = []string{}
		}
		*l = StringList(parsed)
		return nil
	}

	*l = splitLegacy(raw)
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("StringList: encode: %w", err)
	}
	return string(encoded), nil
}

// splitLegacy converts a pre-migration comma-separated scalar into list
// elements, trimming whitespace and dropping empty entries.
func splitLegacy(raw string) StringList {
	parts := strings.Split(raw, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GormDataType keeps GORM from guessing a column type for the list.
func (StringList) GormDataType() string {
	return "jsonb"
}
