package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := UserModel{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles, err := lookupRoles(tx, user.Roles)
		if err != nil {
			return err
		}
		m.Roles = roles
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, translateUserError(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	u, err := r.FindByUsername(ctx, usernameOrEmail)
	if !errors.Is(err, domain.ErrUserNotFound) {
		return u, err
	}
	return r.first(ctx, "LOWER(email) = LOWER(?)", usernameOrEmail)
}

func (r *UserRepository) RoleNamesFor(ctx context.Context, user *domain.User) ([]string, error) {
	var roles []RoleModel
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", user.ID).
		Order("roles.name").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return roleNames(roles), nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) SetRoles(ctx context.Context, username string, names []string) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).First(&m).Error; err != nil {
			return err
		}
		roles, err := lookupRoles(tx, names)
		if err != nil {
			return err
		}
		if err := tx.Model(&m).Association("Roles").Replace(roles); err != nil {
			return err
		}
		m.Roles = roles
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set roles: %w", err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where(query, args...).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func lookupRoles(tx *gorm.DB, names []string) ([]RoleModel, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var roles []RoleModel
	if err := tx.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	if len(roles) != len(names) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRole, names)
	}
	return roles, nil
}

func translateUserError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}
	if errors.Is(err, domain.ErrInvalidRole) {
		return err
	}
	return fmt.Errorf("insert user: %w", err)
}

func toDomainUser(m UserModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.Password,
		Roles:        roleNames(m.Roles),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func roleNames(roles []RoleModel) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Name)
	}
	return out
}
