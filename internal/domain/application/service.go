package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"owltrack/internal/pkg/authctx"
	"owltrack/internal/pkg/metrics"
)

const unknownProjectTitle = "Unknown Project"

// ResumeStore is the part of the blob store the lifecycle needs.
type ResumeStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, stored string) error
}

// TargetResolver looks up a project's title by its public or numeric id.
type TargetResolver interface {
	ProjectTitle(ctx context.Context, ref string) (string, bool, error)
}

// StatusNotifier is told about every stored decision.
type StatusNotifier interface {
	ApplicationDecided(ctx context.Context, app *Application, requested Status) error
}

type Resume struct {
	Name string
	Body io.Reader
}

type CreateInput struct {
	TargetID       string
	TargetTitle    string
	ApplicantName  string
	ApplicantEmail string
	Resume         *Resume
}

type SubmitInput struct {
	GitHubURL string
	LiveURL   string
	DocsURL   string
	Notes     string
}

// Mine groups the caller's applications of both kinds.
type Mine struct {
	Internships []Application
	Projects    []Application
}

type Service struct {
	store    Store
	resumes  ResumeStore
	targets  TargetResolver
	notifier StatusNotifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(store Store, resumes ResumeStore, targets TargetResolver, notifier StatusNotifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		resumes:  resumes,
		targets:  targets,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create records a new application in status in_process. A resume is saved
// before the insert and removed again if the insert fails.
func (s *Service) Create(ctx context.Context, ac authctx.AuthContext, kind Kind, in CreateInput) (*Application, error) {
	in.TargetID = strings.TrimSpace(in.TargetID)
	in.TargetTitle = strings.TrimSpace(in.TargetTitle)
	in.ApplicantName = strings.TrimSpace(in.ApplicantName)
	in.ApplicantEmail = strings.TrimSpace(in.ApplicantEmail)

	if in.ApplicantName == "" || in.ApplicantEmail == "" || in.TargetID == "" {
		return nil, fmt.Errorf("%w: name, email and %s are required", ErrInvalidInput, kind.RefField)
	}
	if kind.Name == KindInternship.Name && in.TargetTitle == "" {
		return nil, fmt.Errorf("%w: internship title is required", ErrInvalidInput)
	}

	title := in.TargetTitle
	if kind.Name == KindProject.Name {
		resolved, err := s.projectTitle(ctx, in.TargetID)
		if err != nil {
			return nil, err
		}
		title = resolved
	}

	app := &Application{
		Kind:           kind,
		UserID:         ac.UserID,
		TargetID:       in.TargetID,
		TargetTitle:    title,
		ApplicantName:  in.ApplicantName,
		ApplicantEmail: in.ApplicantEmail,
		Status:         StatusInProcess,
		CreatedAt:      s.now(),
	}

	if in.Resume != nil && in.Resume.Body != nil && s.resumes != nil {
		stored, err := s.resumes.Save(ctx, in.Resume.Name, in.Resume.Body)
		if err != nil {
			return nil, fmt.Errorf("save resume: %w", err)
		}
		app.ResumeName = stored
	}

	id, err := s.store.Insert(ctx, kind, app)
	if err != nil {
		if app.ResumeName != "" {
			if delErr := s.resumes.Delete(ctx, app.ResumeName); delErr != nil {
				s.log.Error("failed to remove orphaned resume", "resume", app.ResumeName, "error", delErr)
			}
		}
		return nil, err
	}
	app.ID = id

	metrics.ApplicationsCreated.WithLabelValues(kind.Name).Inc()
	s.log.Info("application created", "kind", kind.Name, "id", id, "user_id", ac.UserID)
	return app, nil
}

func (s *Service) projectTitle(ctx context.Context, ref string) (string, error) {
	if s.targets == nil {
		return unknownProjectTitle, nil
	}
	title, ok, err := s.targets.ProjectTitle(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve project: %w", err)
	}
	if !ok || title == "" {
		return unknownProjectTitle, nil
	}
	return title, nil
}

// Submit replaces the owner's submission and moves the record to submitted,
// whatever its current status.
func (s *Service) Submit(ctx context.Context, ac authctx.AuthContext, kind Kind, id string, in SubmitInput) (*Application, error) {
	sub := &Submission{Notes: strings.TrimSpace(in.Notes)}
	if kind.Accepts(LinkGitHub) {
		sub.GitHubURL = NormalizeURL(in.GitHubURL)
	}
	if kind.Accepts(LinkLive) {
		sub.LiveURL = NormalizeURL(in.LiveURL)
	}
	if kind.Accepts(LinkDocs) {
		sub.DocsURL = NormalizeURL(in.DocsURL)
	}

	hasLink := false
	for _, l := range kind.Links {
		if sub.link(l) != nil {
			hasLink = true
			break
		}
	}
	if !hasLink {
		return nil, fmt.Errorf("%w: at least one link is required", ErrInvalidInput)
	}

	app, err := s.store.FindOne(ctx, kind, Filter{ID: id, UserID: ac.UserID})
	if err != nil {
		return nil, err
	}

	sub.SubmittedAt = s.now()
	status := StatusSubmitted
	matched, err := s.store.UpdateFields(ctx, kind, app.ID, Fields{Status: &status, Submission: sub})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}

	app.Status = status
	app.Submission = sub

	metrics.SubmissionsSaved.WithLabelValues(kind.Name).Inc()
	s.log.Info("submission saved", "kind", kind.Name, "id", app.ID, "user_id", ac.UserID)
	return app, nil
}

// Decide stores an admin decision after remapping it against the current
// status.
func (s *Service) Decide(ctx context.Context, ac authctx.AuthContext, kind Kind, id string, requested Status) (*Application, error) {
	if !ac.IsAdmin {
		return nil, ErrUnauthorized
	}
	if !requested.IsDecision() {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrInvalidInput)
	}

	app, err := s.store.FindOne(ctx, kind, Filter{ID: id})
	if err != nil {
		return nil, err
	}

	final := Remap(app.Status, requested)
	if app.Status == StatusCompleted && final != StatusCompleted {
		s.log.Warn("completed application moved back by admin decision",
			"kind", kind.Name, "id", app.ID, "final", final, "admin_id", ac.UserID)
	}

	matched, err := s.store.UpdateFields(ctx, kind, app.ID, Fields{Status: &final})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	app.Status = final

	metrics.Decisions.WithLabelValues(kind.Name, string(requested), string(final)).Inc()
	s.log.Info("application decided", "kind", kind.Name, "id", app.ID, "requested", requested, "final", final)

	if s.notifier != nil {
		if err := s.notifier.ApplicationDecided(ctx, app, requested); err != nil {
			s.log.Error("failed to notify applicant", "id", app.ID, "user_id", app.UserID, "error", err)
		}
	}
	return app, nil
}

func (s *Service) ListMine(ctx context.Context, ac authctx.AuthContext, kind Kind) ([]Application, error) {
	return s.store.Find(ctx, kind, Filter{UserID: ac.UserID})
}

// ListAll returns every record to admins and the caller's own otherwise.
func (s *Service) ListAll(ctx context.Context, ac authctx.AuthContext, kind Kind) ([]Application, error) {
	if !ac.IsAdmin {
		return s.ListMine(ctx, ac, kind)
	}
	return s.store.Find(ctx, kind, Filter{})
}

func (s *Service) ListMineAllKinds(ctx context.Context, ac authctx.AuthContext) (*Mine, error) {
	internships, err := s.ListMine(ctx, ac, KindInternship)
	if err != nil {
		return nil, err
	}
	projects, err := s.ListMine(ctx, ac, KindProject)
	if err != nil {
		return nil, err
	}
	return &Mine{Internships: internships, Projects: projects}, nil
}
