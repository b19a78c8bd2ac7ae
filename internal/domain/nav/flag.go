package nav

import (
	"fmt"
	"strings"
)

// Flag is a feature signal that may not have resolved yet. The zero value is
// FlagUnknown, and only FlagEnabled counts as on.
type Flag uint8

const (
	FlagUnknown Flag = iota
	FlagDisabled
	FlagEnabled
)

// FlagOf converts a resolved boolean.
func FlagOf(b bool) Flag {
	if b {
		return FlagEnabled
	}
	return FlagDisabled
}

// Enabled reports whether the flag is known to be on.
func (f Flag) Enabled() bool { return f == FlagEnabled }

// Known reports whether the flag has resolved.
func (f Flag) Known() bool { return f == FlagEnabled || f == FlagDisabled }

func (f Flag) String() string {
	switch f {
	case FlagEnabled:
		return "enabled"
	case FlagDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ParseFlag accepts true/false style values and "unknown".
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "enabled", "on", "yes", "1":
		return FlagEnabled, nil
	case "false", "disabled", "off", "no", "0":
		return FlagDisabled, nil
	case "", "unknown", "pending":
		return FlagUnknown, nil
	default:
		return FlagUnknown, fmt.Errorf("invalid flag value %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Flag) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flag) UnmarshalText(text []byte) error {
	v, err := ParseFlag(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
