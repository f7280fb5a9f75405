package rateconfig

import (
	"github.com/imigpt/foodzippy-backend/internal/rateconfig/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rateconfig.service",
	fx.Provide(service.New),
)
