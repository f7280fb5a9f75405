package payment

import (
	"github.com/imigpt/foodzippy-backend/internal/payment/repository"
	"github.com/imigpt/foodzippy-backend/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
