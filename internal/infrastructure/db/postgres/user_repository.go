package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// UserRepository implements ports.UserRepository with gorm.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := userFromDomain(u)
	if err := conn(ctx, r.db).Create(m).Error; err != nil {
		return translate("create user", err, nil)
	}
	u.ID = m.ID
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	res := conn(ctx, r.db).Model(&userModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"role":          string(u.Role),
		"is_active":     u.IsActive,
		"updated_at":    u.UpdatedAt,
	})
	if res.Error != nil {
		return translate("update user", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&userModel{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete user", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "find user", "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "find user by username", "username = ?", username)
}

func (r *UserRepository) FindByTokenDigest(ctx context.Context, digest string) (*domain.User, error) {
	return r.findOne(ctx, "find user by token", "api_token = ? AND is_active", digest)
}

func (r *UserRepository) findOne(ctx context.Context, op, query string, args ...any) (*domain.User, error) {
	var m userModel
	if err := conn(ctx, r.db).Where(query, args...).Take(&m).Error; err != nil {
		return nil, translate(op, err, domain.ErrUserNotFound)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) SetTokenDigest(ctx context.Context, id int64, digest string) error {
	res := conn(ctx, r.db).Model(&userModel{}).Where("id = ?", id).Update("api_token", nullable(digest))
	if res.Error != nil {
		return translate("set api token", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	if err := conn(ctx, r.db).Order("username").Find(&models).Error; err != nil {
		return nil, translate("list users", err, nil)
	}
	users := make([]domain.User, len(models))
	for i := range models {
		users[i] = *models[i].toDomain()
	}
	return users, nil
}
