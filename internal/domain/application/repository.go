package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter is an equality filter; zero fields match anything.
type Filter struct {
	ID     string
	UserID int64
}

// Fields lists the mutable columns of an application. Nil means unchanged.
type Fields struct {
	Status     *Status
	Submission *Submission
}

// Store is the persistence contract the lifecycle depends on.
type Store interface {
	Insert(ctx context.Context, kind Kind, app *Application) (string, error)
	FindOne(ctx context.Context, kind Kind, f Filter) (*Application, error)
	Find(ctx context.Context, kind Kind, f Filter) ([]Application, error)
	UpdateFields(ctx context.Context, kind Kind, id string, fields Fields) (bool, error)
}

type applicationRow struct {
	ID             string     `gorm:"column:id;primaryKey;size:36"`
	UserID         int64      `gorm:"column:user_id;not null"`
	TargetID       string     `gorm:"column:target_id;size:128;not null"`
	TargetTitle    string     `gorm:"column:target_title;size:255"`
	ApplicantName  string     `gorm:"column:applicant_name;size:255;not null"`
	ApplicantEmail string     `gorm:"column:applicant_email;size:255;not null"`
	ResumeName     *string    `gorm:"column:resume_name;size:255"`
	Status         string     `gorm:"column:status;size:20;not null"`
	GitHubURL      *string    `gorm:"column:submission_github_url"`
	LiveURL        *string    `gorm:"column:submission_live_url"`
	DocsURL        *string    `gorm:"column:submission_docs_url"`
	Notes          *string    `gorm:"column:submission_notes"`
	SubmittedAt    *time.Time `gorm:"column:submission_submitted_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates one table per kind. Indexes are created by hand because
// gorm derives index names from the model, which both tables share.
func (r *Repository) Migrate() error {
	for _, k := range Kinds {
		if err := r.db.Table(k.Table).AutoMigrate(&applicationRow{}); err != nil {
			return fmt.Errorf("migrate %s: %w", k.Table, err)
		}
		for _, col := range []string{"user_id", "target_id"} {
			stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", k.Table, col, k.Table, col)
			if err := r.db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index %s.%s: %w", k.Table, col, err)
			}
		}
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, kind Kind, app *Application) (string, error) {
	if !app.Status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, app.Status)
	}
	row := toRow(app)
	row.ID = uuid.New().String()
	if err := r.db.WithContext(ctx).Table(kind.Table).Create(row).Error; err != nil {
		return "", fmt.Errorf("insert %s application: %w", kind.Name, err)
	}
	return row.ID, nil
}

func (r *Repository) FindOne(ctx context.Context, kind Kind, f Filter) (*Application, error) {
	var row applicationRow
	err := r.scoped(ctx, kind, f).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s application: %w", kind.Name, err)
	}
	return toDomain(kind, &row), nil
}

func (r *Repository) Find(ctx context.Context, kind Kind, f Filter) ([]Application, error) {
	var rows []applicationRow
	if err := r.scoped(ctx, kind, f).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s applications: %w", kind.Name, err)
	}
	out := make([]Application, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomain(kind, &rows[i]))
	}
	return out, nil
}

func (r *Repository) UpdateFields(ctx context.Context, kind Kind, id string, fields Fields) (bool, error) {
	updates := map[string]any{}
	if fields.Status != nil {
		if !fields.Status.Valid() {
			return false, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *fields.Status)
		}
		updates["status"] = string(*fields.Status)
	}
	if s := fields.Submission; s != nil {
		updates["submission_github_url"] = nullable(s.GitHubURL)
		updates["submission_live_url"] = nullable(s.LiveURL)
		updates["submission_docs_url"] = nullable(s.DocsURL)
		updates["submission_notes"] = s.Notes
		updates["submission_submitted_at"] = s.SubmittedAt
	}
	if len(updates) == 0 {
		var count int64
		err := r.db.WithContext(ctx).Table(kind.Table).Where("id = ?", id).Count(&count).Error
		return count > 0, err
	}

	res := r.db.WithContext(ctx).Table(kind.Table).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update %s application: %w", kind.Name, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) scoped(ctx context.Context, kind Kind, f Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Table(kind.Table)
	if f.ID != "" {
		q = q.Where("id = ?", f.ID)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	return q
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func toRow(a *Application) *applicationRow {
	row := &applicationRow{
		ID:             a.ID,
		UserID:         a.UserID,
		TargetID:       a.TargetID,
		TargetTitle:    a.TargetTitle,
		ApplicantName:  a.ApplicantName,
		ApplicantEmail: a.ApplicantEmail,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
	}
	if a.ResumeName != "" {
		name := a.ResumeName
		row.ResumeName = &name
	}
	if s := a.Submission; s != nil {
		notes := s.Notes
		submittedAt := s.SubmittedAt
		row.GitHubURL = s.GitHubURL
		row.LiveURL = s.LiveURL
		row.DocsURL = s.DocsURL
		row.Notes = &notes
		row.SubmittedAt = &submittedAt
	}
	return row
}

func toDomain(kind Kind, row *applicationRow) *Application {
	a := &Application{
		ID:             row.ID,
		Kind:           kind,
		UserID:         row.UserID,
		TargetID:       row.TargetID,
		TargetTitle:    row.TargetTitle,
		ApplicantName:  row.ApplicantName,
		ApplicantEmail: row.ApplicantEmail,
		Status:         Status(row.Status),
		CreatedAt:      row.CreatedAt,
	}
	if row.ResumeName != nil {
		a.ResumeName = *row.ResumeName
	}
	if row.SubmittedAt != nil {
		s := &Submission{
			GitHubURL:   row.GitHubURL,
			LiveURL:     row.LiveURL,
			DocsURL:     row.DocsURL,
			SubmittedAt: *row.SubmittedAt,
		}
		if row.Notes != nil {
			s.Notes = *row.Notes
		}
		a.Submission = s
	}
	return a
}
