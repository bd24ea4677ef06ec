package alert

import (
	"fmt"
	"strings"
)

// legacySeparator splits "Name|Number" entries written by older clients.
const legacySeparator = "|"

// Contact is one entry of the important contacts allow-list.
type Contact struct {
	// DisplayName is the name the user saw when picking the contact.
	DisplayName string `json:"display_name" yaml:"display_name"`
	// RawNumber is the number as delivered by the contact picker, unnormalized.
	RawNumber string `json:"number" yaml:"number"`
}

// ParseLegacyContact decodes the "Name|Number" form. The name ends at the
// first separator.
func ParseLegacyContact(s string) (Contact, error) {
	name, number, ok := strings.Cut(s, legacySeparator)
	if !ok {
		return Contact{}, fmt.Errorf("contact %q has no separator: %w", s, ErrInvalidRecord)
	}

	number = strings.TrimSpace(number)
	if number == "" {
		return Contact{}, fmt.Errorf("contact %q has no number: %w", s, ErrInvalidRecord)
	}

	return Contact{
		DisplayName: strings.TrimSpace(name),
		RawNumber:   number,
	}, nil
}

// Validate reports whether the contact can take part in matching.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.RawNumber) == "" {
		return fmt.Errorf("contact %q has no number: %w", c.DisplayName, ErrInvalidRecord)
	}

	return nil
}
