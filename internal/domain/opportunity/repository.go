package opportunity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type opportunityModel struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	Type        string         `gorm:"column:type;size:20;not null;uniqueIndex:idx_opportunities_type_slug"`
	Slug        string         `gorm:"column:slug;size:128;not null;uniqueIndex:idx_opportunities_type_slug"`
	Title       string         `gorm:"column:title;size:255;not null"`
	Description string         `gorm:"column:description"`
	Details     datatypes.JSON `gorm:"column:details"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (opportunityModel) TableName() string { return "opportunities" }

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&opportunityModel{})
}

func toDomain(m opportunityModel) *Opportunity {
	return &Opportunity{
		ID:          m.ID,
		Type:        Type(m.Type),
		Slug:        m.Slug,
		Title:       m.Title,
		Description: m.Description,
		Details:     m.Details,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toModel(o *Opportunity) opportunityModel {
	return opportunityModel{
		ID:          o.ID,
		Type:        string(o.Type),
		Slug:        strings.TrimSpace(o.Slug),
		Title:       strings.TrimSpace(o.Title),
		Description: o.Description,
		Details:     o.Details,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, o *Opportunity) error {
	m := toModel(o)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create opportunity: %w", err)
	}
	*o = *toDomain(m)
	return nil
}

func (r *Repository) List(ctx context.Context, t Type) ([]*Opportunity, error) {
	var models []opportunityModel
	if err := r.db.WithContext(ctx).Where("type = ?", string(t)).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	out := make([]*Opportunity, 0, len(models))
	for _, m := range models {
		out = append(out, toDomain(m))
	}
	return out, nil
}

// FindByRef matches the slug, or the numeric key when ref is a number.
func (r *Repository) FindByRef(ctx context.Context, t Type, ref string) (*Opportunity, error) {
	q := r.db.WithContext(ctx).Where("type = ?", string(t))
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		q = q.Where("slug = ? OR id = ?", ref, id)
	} else {
		q = q.Where("slug = ?", ref)
	}

	var m opportunityModel
	err := q.Order("id ASC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return toDomain(m), nil
}

func (r *Repository) Update(ctx context.Context, t Type, slug string, updates map[string]any) (bool, error) {
	if len(updates) == 0 {
		var count int64
		err := r.db.WithContext(ctx).Model(&opportunityModel{}).
			Where("type = ? AND slug = ?", string(t), slug).Count(&count).Error
		return count > 0, err
	}
	res := r.db.WithContext(ctx).Model(&opportunityModel{}).
		Where("type = ? AND slug = ?", string(t), slug).Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update opportunity: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) Delete(ctx context.Context, t Type, slug string) (bool, error) {
	res := r.db.WithContext(ctx).Where("type = ? AND slug = ?", string(t), slug).Delete(&opportunityModel{})
	if res.Error != nil {
		return false, fmt.Errorf("delete opportunity: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
