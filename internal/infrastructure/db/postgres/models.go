package postgres

import (
	"time"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

type userModel struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	Username     string  `gorm:"column:username"`
	Email        string  `gorm:"column:email"`
	PasswordHash string  `gorm:"column:password_hash"`
	Role         string  `gorm:"column:role"`
	IsActive     bool    `gorm:"column:is_active"`
	APIToken     *string `gorm:"column:api_token"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	u := &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if m.APIToken != nil {
		u.TokenDigest = *m.APIToken
	}
	return u
}

func userFromDomain(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		APIToken:     nullable(u.TokenDigest),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type workmanModel struct {
	TRN       string `gorm:"column:trn;primaryKey"`
	Name      string `gorm:"column:name"`
	Company   string `gorm:"column:company"`
	Location  string `gorm:"column:location"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (workmanModel) TableName() string { return "workmen" }

func (m *workmanModel) toDomain() domain.Workman {
	return domain.Workman{
		TRN:       m.TRN,
		Name:      m.Name,
		Company:   m.Company,
		Location:  m.Location,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type timeEntryModel struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	WorkmanTRN string     `gorm:"column:workman_trn"`
	ClockIn    time.Time  `gorm:"column:clock_in"`
	ClockOut   *time.Time `gorm:"column:clock_out"`
	Notes      *string    `gorm:"column:notes"`
}

func (timeEntryModel) TableName() string { return "time_entries" }

func (m *timeEntryModel) toDomain() domain.TimeEntry {
	e := domain.TimeEntry{
		ID:         m.ID,
		WorkmanTRN: m.WorkmanTRN,
		ClockIn:    m.ClockIn.UTC(),
	}
	if m.ClockOut != nil {
		out := m.ClockOut.UTC()
		e.ClockOut = &out
	}
	if m.Notes != nil {
		e.Notes = *m.Notes
	}
	return e
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
