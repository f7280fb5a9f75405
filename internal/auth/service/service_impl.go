package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/internal/auth/password"
	"github.com/imigpt/foodzippy-backend/internal/auth/token"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/config"
	"github.com/imigpt/foodzippy-backend/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cfg   config.Config
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	cfg   config.Config
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		genID: p.GenID,
		cfg:   p.Cfg,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	ttl := time.Duration(s.cfg.AuthTokenTTLMin) * time.Minute
	signed, err := token.Sign(s.cfg.AuthJWTSecret, user.ID, user.Name, string(user.Role), ttl, s.clock.Now())
	if err != nil {
		return domain.LoginResponse{}, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))

	return domain.LoginResponse{Token: signed, User: *user}, nil
}

func (s *Service) Register(ctx context.Context, req domain.RegisterUserRequest) (domain.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.User{}, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return domain.User{}, domain.ErrInvalidPassword
	}
	role := req.Role
	if role == "" {
		role = domain.RoleAgent
	}
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, err
	}

	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, raw string) (domain.Actor, error) {
	_ = ctx
	claims, err := token.Parse(s.cfg.AuthJWTSecret, raw)
	if err != nil {
		return domain.Actor{}, domain.ErrInvalidToken
	}

	id, err := snowflake.ParseString(claims.Subject)
	if err != nil || id == 0 {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Actor{}, domain.ErrInvalidToken
	}

	return domain.Actor{ID: id, Name: claims.Name, Role: role}, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.User, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.User{}, domain.ErrInvalidID
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *user, nil
}

func (s *Service) ListAgents(ctx context.Context) ([]domain.User, error) {
	items, err := s.repo.ListByRole(ctx, s.db, domain.RoleAgent)
	if err != nil {
		return nil, err
	}

	agents := make([]domain.User, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		agents = append(agents, *item)
	}
	return agents, nil
}
