// Package notify delivers quote events to the people and systems that act on
// them. Publishing happens after the transition is committed; a failed
// publish is logged by the caller and never undoes the transition.
package notify

import (
	"context"
	"errors"
	"fmt"

	"quote-negotiation-backend/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event domain.QuoteEvent, rental *domain.Rental) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event domain.QuoteEvent, rental *domain.Rental) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event, rental); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, domain.QuoteEvent, *domain.Rental) error { return nil }
