// internal/app/features/payments/processor.go
package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Intent is a payment the processor is prepared to collect. The client
// completes it out of band and posts the resulting transaction back.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	AmountMinor  int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Processor abstracts the external payment provider so tests and local
// development run without network credentials.
type Processor interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (Intent, error)
}

// StubProcessor issues locally generated intents. It stands in for a real
// provider in development and tests.
type StubProcessor struct{}

func (StubProcessor) CreateIntent(_ context.Context, amountMinor int64, currency string) (Intent, error) {
	id := uuid.NewString()
	return Intent{
		ID:           "pi_" + id,
		ClientSecret: fmt.Sprintf("pi_%s_secret_%s", id, uuid.NewString()),
		AmountMinor:  amountMinor,
		Currency:     currency,
	}, nil
}
