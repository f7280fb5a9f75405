package audit

import (
	"github.com/imigpt/foodzippy-backend/internal/audit/repository"
	"github.com/imigpt/foodzippy-backend/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
