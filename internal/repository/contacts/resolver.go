package contacts

import (
	"context"
	"strings"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/phone"
)

// Loader is anything that can list the contacts.
type Loader interface {
	Load(ctx context.Context) ([]alert.Contact, error)
}

// Resolver looks display names up in a contact list.
type Resolver struct {
	loader Loader
}

// NewResolver creates a resolver backed by loader.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Lookup returns the display name of the first contact matching number.
// Load failures and nameless matches report false.
func (r *Resolver) Lookup(ctx context.Context, number string) (string, bool) {
	contacts, err := r.loader.Load(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Contact lookup failed", "error", err)

		return "", false
	}

	contact, ok := phone.Match(number, contacts)
	if !ok {
		return "", false
	}

	name := strings.TrimSpace(contact.DisplayName)

	return name, name != ""
}
