package asset

import (
	"fmt"
	"strconv"
	"strings"
)

// GUID is the 64-bit identifier of an asset record.
type GUID uint64

// IsZero reports whether g is the null GUID.
func (g GUID) IsZero() bool {
	return g == 0
}

// String renders g as "0x" followed by uppercase hex digits.
// This is the form used for export file names and manifest lines.
func (g GUID) String() string {
	return fmt.Sprintf("0x%X", uint64(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(text []byte) error {
	parsed, err := ParseGUID(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGUID parses a hexadecimal GUID with or without a "0x" prefix.
func ParseGUID(s string) (GUID, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" {
		return 0, fmt.Errorf("parse guid %q: empty", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse guid %q: %w", s, err)
	}
	return GUID(v), nil
}
