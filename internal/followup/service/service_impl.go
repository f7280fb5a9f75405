package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/config"
	"github.com/imigpt/foodzippy-backend/internal/followup/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Repo   vendordomain.Repository
	Holder *config.FollowUpConfigHolder
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	repo   vendordomain.Repository
	holder *config.FollowUpConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("followup.service"),
		clock:  p.Clock,
		repo:   p.Repo,
		holder: p.Holder,
	}
}

func (s *Service) GetQueue(ctx context.Context, req domain.GetQueueRequest) (domain.Queue, error) {
	agentID, err := snowflake.ParseString(strings.TrimSpace(req.AgentID))
	if err != nil || agentID == 0 {
		return domain.Queue{}, domain.ErrInvalidAgentID
	}
	// Agents only see their own queue.
	if !req.Actor.IsAdmin() && req.Actor.ID != agentID {
		return domain.Queue{}, domain.ErrForbidden
	}

	vendors, err := s.repo.ListScheduledByAgent(ctx, s.db, agentID)
	if err != nil {
		return domain.Queue{}, err
	}

	cfg := s.holder.Get()
	now := s.clock.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	graceStart := endOfToday.AddDate(0, 0, -cfg.DueGraceDays-1)
	upcomingEnd := endOfToday.AddDate(0, 0, cfg.UpcomingWindowDays)

	queue := domain.Queue{
		Due:      []vendordomain.Vendor{},
		Upcoming: []vendordomain.Vendor{},
	}
	for _, vendor := range vendors {
		date := scheduledDate(vendor)
		if date == nil {
			continue
		}
		switch {
		case !date.After(endOfToday) && date.After(graceStart):
			queue.Due = append(queue.Due, *vendor)
		case date.After(endOfToday) && !date.After(upcomingEnd):
			queue.Upcoming = append(queue.Upcoming, *vendor)
		}
	}
	return queue, nil
}

// scheduledDate picks the date that drives the vendor's next visit.
func scheduledDate(vendor *vendordomain.Vendor) *time.Time {
	switch vendor.VisitStatus {
	case vendordomain.StatusVisitedFollowUpScheduled:
		return vendor.FollowUpDate
	case vendordomain.StatusFollowUpSecondScheduled:
		return vendor.SecondFollowUpDate
	}
	return nil
}
