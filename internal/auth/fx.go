package auth

import (
	"github.com/imigpt/foodzippy-backend/internal/auth/repository"
	"github.com/imigpt/foodzippy-backend/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
