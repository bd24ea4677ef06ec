package orchestrator

import (
	"context"
	"strings"

	"github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/phone"
	"github.com/oshokin/alert-override/internal/service/decision"
)

const (
	callTitlePrefix = "Important Call: "
	smsTitlePrefix  = "Important SMS: "
	callBody        = "Silent mode overridden for incoming call"

	// maxSmsPreview is the number of message characters kept in the body.
	maxSmsPreview = 100
	ellipsis      = "..."
)

func (o *Orchestrator) notification(ctx context.Context, d *decision.Decision) alert.Notification {
	name := o.displayName(ctx, d)

	if d.Event.Kind == alert.KindSms {
		return alert.Notification{
			EventID:  d.Event.ID,
			Title:    smsTitlePrefix + name,
			Body:     preview(d.Event.Body),
			Priority: alert.PriorityMax,
			Category: alert.CategoryMessage,
		}
	}

	return alert.Notification{
		EventID:  d.Event.ID,
		Title:    callTitlePrefix + name,
		Body:     callBody,
		Priority: alert.PriorityMax,
		Category: alert.CategoryCall,
	}
}

// displayName prefers the resolver, then the matched contact, then the raw number.
func (o *Orchestrator) displayName(ctx context.Context, d *decision.Decision) string {
	if o.resolver != nil {
		if name, ok := o.resolver.Lookup(ctx, phone.Normalize(d.Event.Number)); ok {
			return name
		}
	}

	if d.Contact != nil {
		if name := strings.TrimSpace(d.Contact.DisplayName); name != "" {
			return name
		}
	}

	return d.Event.Number
}

// preview shortens a message body to maxSmsPreview characters plus an ellipsis.
func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= maxSmsPreview {
		return body
	}

	return string(runes[:maxSmsPreview]) + ellipsis
}
