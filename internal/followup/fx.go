package followup

import (
	"github.com/imigpt/foodzippy-backend/internal/followup/service"
	"go.uber.org/fx"
)

var Module = fx.Module("followup.service",
	fx.Provide(service.New),
)
