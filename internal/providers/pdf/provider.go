package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

type Provider interface {
	GeneratePayoutReceipt(ctx context.Context, data PayoutReceiptData) (io.Reader, error)
}

type marotoProvider struct{}

func New() Provider {
	return &marotoProvider{}
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
