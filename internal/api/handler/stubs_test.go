package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/middleware"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

var (
	testNow    = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	adminUser  = &domain.User{ID: 1, Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true}
	supervisor = &domain.User{ID: 2, Username: "sup", Email: "sup@example.com", Role: domain.RoleSupervisor, IsActive: true}
	employee   = &domain.User{ID: 3, Username: "emp", Email: "emp@example.com", Role: domain.RoleEmployee, IsActive: true}
)

// newContext builds an echo context for a JSON request, optionally
// authenticated as user.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetUser(c, user)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

type stubIdentityService struct {
	ports.IdentityService
	authenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	issueTokenFn   func(ctx context.Context, user *domain.User) (string, error)
	revokeTokenFn  func(ctx context.Context, user *domain.User) error
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
}

func (s *stubIdentityService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubIdentityService) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	return s.issueTokenFn(ctx, user)
}

func (s *stubIdentityService) RevokeToken(ctx context.Context, user *domain.User) error {
	return s.revokeTokenFn(ctx, user)
}

func (s *stubIdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

type stubWorkmanService struct {
	ports.WorkmanService
	createFn    func(ctx context.Context, actor *domain.User, in ports.CreateWorkmanInput) (*domain.Workman, error)
	updateFn    func(ctx context.Context, actor *domain.User, trn string, patch domain.WorkmanPatch) (*domain.Workman, error)
	deleteFn    func(ctx context.Context, actor *domain.User, trn string) error
	getFn       func(ctx context.Context, actor *domain.User, trn string) (*ports.WorkmanDetail, error)
	searchFn    func(ctx context.Context, actor *domain.User, query string) ([]ports.WorkmanView, error)
	locationsFn func(ctx context.Context, actor *domain.User) ([]ports.LocationGroup, error)
}

func (s *stubWorkmanService) Create(ctx context.Context, actor *domain.User, in ports.CreateWorkmanInput) (*domain.Workman, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubWorkmanService) Update(ctx context.Context, actor *domain.User, trn string, patch domain.WorkmanPatch) (*domain.Workman, error) {
	return s.updateFn(ctx, actor, trn, patch)
}

func (s *stubWorkmanService) Delete(ctx context.Context, actor *domain.User, trn string) error {
	return s.deleteFn(ctx, actor, trn)
}

func (s *stubWorkmanService) Get(ctx context.Context, actor *domain.User, trn string) (*ports.WorkmanDetail, error) {
	return s.getFn(ctx, actor, trn)
}

func (s *stubWorkmanService) Search(ctx context.Context, actor *domain.User, query string) ([]ports.WorkmanView, error) {
	return s.searchFn(ctx, actor, query)
}

func (s *stubWorkmanService) Locations(ctx context.Context, actor *domain.User) ([]ports.LocationGroup, error) {
	return s.locationsFn(ctx, actor)
}

type stubClockService struct {
	ports.ClockService
	clockInFn  func(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error)
	clockOutFn func(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error)
	historyFn  func(ctx context.Context, actor *domain.User, trn string) (*ports.TimeHistory, error)
}

func (s *stubClockService) ClockIn(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error) {
	return s.clockInFn(ctx, actor, trn, notes)
}

func (s *stubClockService) ClockOut(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error) {
	return s.clockOutFn(ctx, actor, trn, notes)
}

func (s *stubClockService) History(ctx context.Context, actor *domain.User, trn string) (*ports.TimeHistory, error) {
	return s.historyFn(ctx, actor, trn)
}

type stubUserService struct {
	ports.UserService
	listFn   func(ctx context.Context, actor *domain.User) ([]domain.User, error)
	updateFn func(ctx context.Context, actor *domain.User, id int64, patch domain.UserPatch) (*domain.User, error)
	deleteFn func(ctx context.Context, actor *domain.User, id int64) error
	issueFn  func(ctx context.Context, actor *domain.User, id int64) (string, error)
	auditFn  func(ctx context.Context, actor *domain.User, filter ports.AuditFilter) ([]domain.AuditEvent, error)
}

func (s *stubUserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) Update(ctx context.Context, actor *domain.User, id int64, patch domain.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubUserService) IssueTokenFor(ctx context.Context, actor *domain.User, id int64) (string, error) {
	return s.issueFn(ctx, actor, id)
}

func (s *stubUserService) Audit(ctx context.Context, actor *domain.User, filter ports.AuditFilter) ([]domain.AuditEvent, error) {
	return s.auditFn(ctx, actor, filter)
}
