package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/internal/auth/repository"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:authsvc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &Service{
		db:    db,
		log:   zaptest.NewLogger(t),
		genID: node,
		cfg:   config.Config{AuthJWTSecret: "test-secret", AuthTokenTTLMin: 60},
		clock: clock.NewFakeClock(time.Now().UTC()),
		repo:  repository.Provide(),
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterUserRequest{
		Name:     "Field Agent",
		Email:    "Agent@Example.Com",
		Password: "secret123",
		Role:     domain.RoleAgent,
	})
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", user.Email)
	assert.Equal(t, domain.RoleAgent, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	resp, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "agent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	actor, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, domain.RoleAgent, actor.Role)
	assert.False(t, actor.IsAdmin())
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserRequest{
		Name:     "Field Agent",
		Email:    "agent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "agent@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserRequest{Email: "a@b.c", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Register(ctx, domain.RegisterUserRequest{Name: "A", Email: "not-an-email", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(ctx, domain.RegisterUserRequest{Name: "A", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = svc.Register(ctx, domain.RegisterUserRequest{Name: "A", Email: "a@b.c", Password: "secret123", Role: "owner"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserRequest{
		Name:     "Field Agent",
		Email:    "agent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterUserRequest{
		Name:     "Another Agent",
		Email:    "agent@example.com",
		Password: "secret456",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestListAgentsExcludesAdmins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserRequest{
		Name: "Field Agent", Email: "agent@example.com", Password: "secret123", Role: domain.RoleAgent,
	})
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.RegisterUserRequest{
		Name: "Boss", Email: "admin@example.com", Password: "secret123", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)

	agents, err := svc.ListAgents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "agent@example.com", agents[0].Email)
}
