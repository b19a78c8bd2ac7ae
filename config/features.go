package config

import (
	"fmt"
	"strings"
)

// Edition identifies the licensed feature tier of the build.
type Edition string

const (
	// EditionCommunity is the community edition.
	EditionCommunity Edition = "CE"
	// EditionBusiness is the business edition.
	EditionBusiness Edition = "BE"
)

// UnmarshalText implements encoding.TextUnmarshaler for Edition.
func (e *Edition) UnmarshalText(text []byte) error {
	v := Edition(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case EditionCommunity, EditionBusiness:
		*e = v
		return nil
	default:
		return fmt.Errorf("invalid Edition: %q (valid options: CE, BE)", string(text))
	}
}

// FeaturesConfig holds process-wide feature signals. They are read once at
// startup and never change while the process runs.
type FeaturesConfig struct {
	// Edition selects the help link and, unless overridden, business features.
	Edition Edition `env:"EDITION" envDefault:"CE"`

	// BusinessEdition forces business features on or off independently of Edition.
	// When unset it follows Edition.
	BusinessEdition *bool `env:"BUSINESS_EDITION"`

	// EmbeddedHost marks a process running inside a desktop host extension.
	EmbeddedHost bool `env:"EMBEDDED_HOST" envDefault:"false"`
}

// Sanitize fills derived values.
func (f *FeaturesConfig) Sanitize() {
	if f.Edition == "" {
		f.Edition = EditionCommunity
	}
}

// Validate checks the edition value.
func (f *FeaturesConfig) Validate() error {
	switch f.Edition {
	case EditionCommunity, EditionBusiness:
		return nil
	default:
		return fmt.Errorf("invalid edition %q", f.Edition)
	}
}

// IsBusinessEdition reports whether business features are enabled.
func (f FeaturesConfig) IsBusinessEdition() bool {
	if f.BusinessEdition != nil {
		return *f.BusinessEdition
	}
	return f.Edition == EditionBusiness
}
