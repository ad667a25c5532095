package handler

import (
	"time"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email"    validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
}

type userResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	HasToken  bool        `json:"has_token"`
	CreatedAt time.Time   `json:"created_at"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type meResponse struct {
	userResponse
	Permissions authz.Permissions `json:"permissions"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		HasToken:  u.HasToken(),
		CreatedAt: u.CreatedAt,
	}
}

// --- Workmen ---

type createWorkmanRequest struct {
	TRN      string `json:"trn"      validate:"required,max=50"`
	Name     string `json:"name"     validate:"required,max=100"`
	Company  string `json:"company"  validate:"required,max=100"`
	Location string `json:"location" validate:"required,max=100"`
}

type updateWorkmanRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=100"`
	Company  *string `json:"company"  validate:"omitempty,max=100"`
	Location *string `json:"location" validate:"omitempty,max=100"`
}

type workmenResponse struct {
	Workmen []ports.WorkmanView `json:"workmen"`
}

type workmanResponse struct {
	Message string            `json:"message"`
	Workman ports.WorkmanView `json:"workman"`
}

type locationsResponse struct {
	Locations []ports.LocationGroup `json:"locations"`
}

// --- Time entries ---

type clockRequest struct {
	Notes string `json:"notes"`
}

type timeEntryResponse struct {
	ID                int64      `json:"id"`
	WorkmanTRN        string     `json:"workman_trn"`
	ClockIn           time.Time  `json:"clock_in"`
	ClockOut          *time.Time `json:"clock_out"`
	DurationHours     *float64   `json:"duration_hours"`
	DurationFormatted string     `json:"duration_formatted"`
	Notes             string     `json:"notes"`
}

func toTimeEntryResponse(e *domain.TimeEntry) timeEntryResponse {
	resp := timeEntryResponse{
		ID:                e.ID,
		WorkmanTRN:        e.WorkmanTRN,
		ClockIn:           e.ClockIn,
		ClockOut:          e.ClockOut,
		DurationFormatted: e.DurationFormatted(),
		Notes:             e.Notes,
	}
	if h, ok := e.DurationHours(); ok {
		resp.DurationHours = &h
	}
	return resp
}

type clockResponse struct {
	Message   string               `json:"message"`
	Status    domain.WorkmanStatus `json:"status"`
	TimeEntry timeEntryResponse    `json:"time_entry"`
}

type workmanRef struct {
	TRN  string `json:"trn"`
	Name string `json:"name"`
}

type historyResponse struct {
	Workman     workmanRef          `json:"workman"`
	TimeEntries []timeEntryResponse `json:"time_entries"`
	Summary     domain.Summary      `json:"summary"`
}

// --- Admin ---

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email"    validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin supervisor employee"`
}

type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=3,max=80"`
	Email    *string `json:"email"     validate:"omitempty,email,max=120"`
	Role     *string `json:"role"      validate:"omitempty,oneof=admin supervisor employee"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"  validate:"omitempty,min=6"`
}

type usersResponse struct {
	Users []userResponse `json:"users"`
}

type userMessageResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type issuedTokenResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

type auditResponse struct {
	Events []domain.AuditEvent `json:"events"`
}

// --- Reports ---

type reportEntryResponse struct {
	timeEntryResponse
	WorkmanName string `json:"workman_name"`
}

type reportResponse struct {
	Filter    ports.ReportFilter    `json:"filter"`
	Entries   []reportEntryResponse `json:"entries"`
	Summary   domain.Summary        `json:"summary"`
	ByWorkman []ports.WorkmanStats  `json:"by_workman"`
}
