package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

type account struct {
	user     *domain.User
	password string
}

type stubIdentity struct {
	ports.IdentityService
	accounts map[string]*account
}

func newStubIdentity() *stubIdentity {
	return &stubIdentity{accounts: map[string]*account{
		"admin": {user: &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin, IsActive: true}, password: "adminpw"},
		"sup":   {user: &domain.User{ID: 2, Username: "sup", Role: domain.RoleSupervisor, IsActive: true}, password: "suppw1"},
		"emp":   {user: &domain.User{ID: 3, Username: "emp", Role: domain.RoleEmployee, IsActive: true}, password: "emppw1"},
		"gone":  {user: &domain.User{ID: 4, Username: "gone", Role: domain.RoleEmployee, IsActive: false}, password: "gonepw"},
	}}
}

func (s *stubIdentity) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	a, ok := s.accounts[username]
	if !ok || a.password != password {
		return nil, domain.ErrInvalidCredentials
	}
	if !a.user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	return a.user, nil
}

func (s *stubIdentity) FindActive(ctx context.Context, id int64) (*domain.User, error) {
	for _, a := range s.accounts {
		if a.user.ID == id && a.user.IsActive {
			return a.user, nil
		}
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubIdentity) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if _, ok := s.accounts[in.Username]; ok {
		return nil, domain.ErrUserExists
	}
	u := &domain.User{ID: int64(len(s.accounts) + 1), Username: in.Username, Email: in.Email, Role: domain.RoleEmployee, IsActive: true}
	s.accounts[in.Username] = &account{user: u, password: in.Password}
	return u, nil
}

type stubWorkmen struct {
	ports.WorkmanService
	workmen map[string]domain.Workman
}

func newStubWorkmen() *stubWorkmen {
	return &stubWorkmen{workmen: map[string]domain.Workman{
		"T100": {TRN: "T100", Name: "Jane Doe", Company: "Acme", Location: "Site A"},
	}}
}

func (s *stubWorkmen) Search(ctx context.Context, actor *domain.User, query string) ([]ports.WorkmanView, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	var out []ports.WorkmanView
	for _, w := range s.workmen {
		if strings.Contains(strings.ToLower(w.Name), strings.ToLower(query)) {
			out = append(out, ports.WorkmanView{Workman: w, Status: domain.StatusClockedOut})
		}
	}
	return out, nil
}

func (s *stubWorkmen) Get(ctx context.Context, actor *domain.User, trn string) (*ports.WorkmanDetail, error) {
	w, ok := s.workmen[trn]
	if !ok {
		return nil, domain.ErrWorkmanNotFound
	}
	return &ports.WorkmanDetail{WorkmanView: ports.WorkmanView{Workman: w, Status: domain.StatusClockedOut}}, nil
}

func (s *stubWorkmen) Create(ctx context.Context, actor *domain.User, in ports.CreateWorkmanInput) (*domain.Workman, error) {
	if err := authz.Require(actor, authz.ManageWorkmen); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Required("name")
	}
	if _, ok := s.workmen[in.TRN]; ok {
		return nil, domain.ErrWorkmanExists
	}
	w := domain.Workman{TRN: in.TRN, Name: in.Name, Company: in.Company, Location: in.Location}
	s.workmen[in.TRN] = w
	return &w, nil
}

type stubClock struct {
	ports.ClockService
	clockInErr  error
	clockOutErr error
	clockedIn   []string
}

func (s *stubClock) ClockIn(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error) {
	if s.clockInErr != nil {
		return nil, s.clockInErr
	}
	s.clockedIn = append(s.clockedIn, trn)
	return &domain.TimeEntry{ID: 1, WorkmanTRN: trn, ClockIn: testNow, Notes: notes}, nil
}

func (s *stubClock) ClockOut(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error) {
	if s.clockOutErr != nil {
		return nil, s.clockOutErr
	}
	out := testNow.Add(time.Hour)
	return &domain.TimeEntry{ID: 1, WorkmanTRN: trn, ClockIn: testNow, ClockOut: &out, Notes: notes}, nil
}

type stubUsers struct {
	ports.UserService
	identity *stubIdentity
}

func (s *stubUsers) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(s.identity.accounts))
	for _, a := range s.identity.accounts {
		out = append(out, *a.user)
	}
	return out, nil
}

type stubReports struct {
	lastFilter ports.ReportFilter
}

func (s *stubReports) Report(ctx context.Context, actor *domain.User, f ports.ReportFilter) (*ports.Report, error) {
	s.lastFilter = f
	if f.StartDate == "bad" {
		return nil, &domain.ValidationError{Field: "start_date", Reason: "must be a date in YYYY-MM-DD format"}
	}
	out := testNow.Add(90 * time.Minute)
	rows := []ports.ReportRow{{TimeEntry: domain.TimeEntry{ID: 1, WorkmanTRN: "T100", ClockIn: testNow, ClockOut: &out}, WorkmanName: "Jane Doe"}}
	entries := []domain.TimeEntry{rows[0].TimeEntry}
	return &ports.Report{
		Filter:    f,
		Entries:   rows,
		Summary:   domain.Aggregate(entries),
		ByWorkman: []ports.WorkmanStats{{TRN: "T100", Name: "Jane Doe", Sessions: 1, CompletedSessions: 1, TotalHours: 1.5}},
	}, nil
}

type fixture struct {
	e        *echo.Echo
	identity *stubIdentity
	workmen  *stubWorkmen
	clock    *stubClock
	reports  *stubReports
	now      *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		e:        echo.New(),
		identity: newStubIdentity(),
		workmen:  newStubWorkmen(),
		clock:    &stubClock{},
		reports:  &stubReports{},
		now:      clockwork.NewFakeClockAt(time.Now()),
	}
	err := Register(f.e, Deps{
		Identity:      f.identity,
		Workmen:       f.workmen,
		Clock:         f.clock,
		Users:         &stubUsers{identity: f.identity},
		Reports:       f.reports,
		SessionSecret: "test-session-secret-0123456789abcdef",
		JWTSecret:     "test-jwt-secret",
		RememberMeTTL: time.Hour,
		Now:           f.now,
		Logger:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return f
}

// browser keeps cookies between requests like a user agent would.
type browser struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func (f *fixture) browser(t *testing.T) *browser {
	return &browser{t: t, e: f.e, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

// post submits form with the CSRF token, fetching one first if needed.
func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if _, ok := b.cookies["_csrf"]; !ok {
		b.get("/auth/login")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", b.cookies["_csrf"].Value)
	return b.do(http.MethodPost, target, form)
}

func (b *browser) login(username, password string) {
	b.t.Helper()
	rec := b.post("/auth/login", url.Values{"username": {username}, "password": {password}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		b.t.Fatalf("login as %s failed: %d %s", username, rec.Code, rec.Header().Get("Location"))
	}
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}
