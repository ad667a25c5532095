package ports

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// CreateUserInput carries an admin-created account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UserService is account administration. Every operation requires the admin
// capability.
type UserService interface {
	List(ctx context.Context, actor *domain.User) ([]domain.User, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.User, error)
	Create(ctx context.Context, actor *domain.User, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor *domain.User, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
	IssueTokenFor(ctx context.Context, actor *domain.User, id int64) (string, error)
	RevokeTokenFor(ctx context.Context, actor *domain.User, id int64) error
	Audit(ctx context.Context, actor *domain.User, filter AuditFilter) ([]domain.AuditEvent, error)
}
