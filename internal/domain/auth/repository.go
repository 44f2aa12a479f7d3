package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Username     *string   `gorm:"column:username;size:64;uniqueIndex"`
	Name         string    `gorm:"column:name;size:255"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;size:20;not null;default:user"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func (r *UserRepository) Migrate() error {
	return r.db.AutoMigrate(&userModel{})
}

func toDomainUser(m userModel) *User {
	var username string
	if m.Username != nil {
		username = *m.Username
	}
	return &User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *User) userModel {
	var username *string
	if v := strings.TrimSpace(u.Username); v != "" {
		username = &v
	}
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return userModel{
		ID:           u.ID,
		Email:        normalizeEmail(u.Email),
		Username:     username,
		Name:         strings.TrimSpace(u.Name),
		PasswordHash: u.PasswordHash,
		Role:         string(role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.first(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *UserRepository) List(ctx context.Context) ([]*User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*User, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainUser(m))
	}
	return out, nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return toDomainUser(m), nil
}

// isUniqueViolation covers drivers that gorm does not translate.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
