package domain

import (
	"context"
	"errors"

	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
)

// Queue splits an agent's scheduled follow-ups by urgency. Due entries
// are at or past their follow-up date, upcoming entries fall inside the
// configured window.
type Queue struct {
	Due      []vendordomain.Vendor `json:"due"`
	Upcoming []vendordomain.Vendor `json:"upcoming"`
}

type GetQueueRequest struct {
	Actor   authdomain.Actor
	AgentID string
}

type Service interface {
	GetQueue(context.Context, GetQueueRequest) (Queue, error)
}

var (
	ErrInvalidAgentID = errors.New("invalid_agent_id")
	ErrForbidden      = errors.New("forbidden")
)
