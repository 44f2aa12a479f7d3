package opportunity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/datatypes"

	"owltrack/internal/pkg/validator"
)

type Service struct {
	repo *Repository
	log  *slog.Logger
}

func NewService(repo *Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context, t Type) ([]*Opportunity, error) {
	return s.repo.List(ctx, t)
}

func (s *Service) Get(ctx context.Context, t Type, ref string) (*Opportunity, error) {
	return s.repo.FindByRef(ctx, t, strings.TrimSpace(ref))
}

func (s *Service) Create(ctx context.Context, t Type, req CreateRequest) (*Opportunity, error) {
	req.Slug = strings.TrimSpace(req.Slug)
	req.Title = strings.TrimSpace(req.Title)
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, errs)
	}
	details, err := parseDetails(req.Details)
	if err != nil {
		return nil, err
	}

	o := &Opportunity{
		Type:        t,
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Details:     details,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("opportunity created", "type", t, "id", o.Slug)
	return o, nil
}

func (s *Service) Update(ctx context.Context, t Type, slug string, req UpdateRequest) (*Opportunity, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, errs)
	}

	updates := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(req.Details) > 0 {
		details, err := parseDetails(req.Details)
		if err != nil {
			return nil, err
		}
		updates["details"] = details
	}

	matched, err := s.repo.Update(ctx, t, slug, updates)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	return s.repo.FindByRef(ctx, t, slug)
}

func (s *Service) Delete(ctx context.Context, t Type, slug string) error {
	deleted, err := s.repo.Delete(ctx, t, slug)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info("opportunity deleted", "type", t, "id", slug)
	return nil
}

// ProjectTitle resolves a project reference to its title.
func (s *Service) ProjectTitle(ctx context.Context, ref string) (string, bool, error) {
	o, err := s.Get(ctx, TypeProject, ref)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return o.Title, true, nil
}

func parseDetails(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, ErrDetailsFormat
	}
	return datatypes.JSON(trimmed), nil
}
