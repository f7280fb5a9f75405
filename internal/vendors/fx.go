package vendors

import (
	"github.com/imigpt/foodzippy-backend/internal/vendors/repository"
	"github.com/imigpt/foodzippy-backend/internal/vendors/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vendors.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
