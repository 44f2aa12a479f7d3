package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"owltrack/internal/domain/application"
)

// Pusher delivers an event to a user's live connections.
type Pusher interface {
	SendToUser(userID int64, event *Event)
}

type Service struct {
	repo   *Repository
	pusher Pusher
	log    *slog.Logger
	now    func() time.Time
}

func NewService(repo *Repository, pusher Pusher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, pusher: pusher, log: log, now: time.Now}
}

// Create stores a notification and pushes it to any open connection.
func (s *Service) Create(ctx context.Context, userID int64, t Type, title, message string, data map[string]any) (*Notification, error) {
	n := &Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode notification data: %w", err)
		}
		n.Data = datatypes.JSON(raw)
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	if s.pusher != nil {
		s.pusher.SendToUser(userID, &Event{Type: EventNotification, Payload: n})
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.log.Warn("count unread notifications failed", "user_id", userID, "error", err)
		unread = 0
	}
	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID, s.now())
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID, s.now())
}

// ApplicationDecided tells the applicant about the stored decision.
func (s *Service) ApplicationDecided(ctx context.Context, app *application.Application, requested application.Status) error {
	title, message := decisionText(app)
	_, err := s.Create(ctx, app.UserID, TypeApplicationDecided, title, message, map[string]any{
		"application_id": app.ID,
		"kind":           app.Kind.Name,
		"target_id":      app.TargetID,
		"requested":      requested,
		"status":         app.Status,
	})
	return err
}

func decisionText(app *application.Application) (string, string) {
	target := app.TargetTitle
	if target == "" {
		target = app.TargetID
	}
	switch app.Status {
	case application.StatusCompleted:
		return "Work accepted", fmt.Sprintf("Your submission for %q has been accepted.", target)
	case application.StatusResubmit:
		return "Changes requested", fmt.Sprintf("Your submission for %q needs changes. Please resubmit.", target)
	case application.StatusApproved:
		return "Application approved", fmt.Sprintf("Your application for %q has been approved.", target)
	case application.StatusRejected:
		return "Application rejected", fmt.Sprintf("Your application for %q has been rejected.", target)
	default:
		return "Application updated", fmt.Sprintf("Your application for %q is now %s.", target, app.Status)
	}
}
