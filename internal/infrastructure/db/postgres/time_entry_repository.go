package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// TimeEntryRepository implements ports.TimeEntryRepository with gorm.
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(ctx context.Context, e *domain.TimeEntry) error {
	m := timeEntryModel{
		WorkmanTRN: e.WorkmanTRN,
		ClockIn:    e.ClockIn,
		ClockOut:   e.ClockOut,
		Notes:      nullable(e.Notes),
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return translate("create time entry", err, nil)
	}
	e.ID = m.ID
	return nil
}

// Close only touches a row that is still open, so a concurrent clock-out
// cannot close the same session twice.
func (r *TimeEntryRepository) Close(ctx context.Context, id int64, clockOut time.Time, notes string) error {
	res := conn(ctx, r.db).Model(&timeEntryModel{}).
		Where("id = ? AND clock_out IS NULL", id).
		Updates(map[string]any{"clock_out": clockOut, "notes": nullable(notes)})
	if res.Error != nil {
		return translate("close time entry", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotClockedIn
	}
	return nil
}

func (r *TimeEntryRepository) FindOpen(ctx context.Context, trn string) (*domain.TimeEntry, error) {
	return r.first(ctx, "find open entry", conn(ctx, r.db).Where("workman_trn = ? AND clock_out IS NULL", trn))
}

func (r *TimeEntryRepository) Latest(ctx context.Context, trn string) (*domain.TimeEntry, error) {
	return r.first(ctx, "latest entry", conn(ctx, r.db).Where("workman_trn = ?", trn))
}

func (r *TimeEntryRepository) LatestClosed(ctx context.Context, trn string) (*domain.TimeEntry, error) {
	return r.first(ctx, "latest closed entry", conn(ctx, r.db).Where("workman_trn = ? AND clock_out IS NOT NULL", trn))
}

func (r *TimeEntryRepository) first(ctx context.Context, op string, q *gorm.DB) (*domain.TimeEntry, error) {
	var m timeEntryModel
	err := q.Order("clock_in DESC").Order("id DESC").Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(op, err, nil)
	}
	e := m.toDomain()
	return &e, nil
}

func (r *TimeEntryRepository) ListByWorkman(ctx context.Context, trn string) ([]domain.TimeEntry, error) {
	var models []timeEntryModel
	err := conn(ctx, r.db).
		Where("workman_trn = ?", trn).
		Order("clock_in DESC").Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, translate("list time entries", err, nil)
	}
	out := make([]domain.TimeEntry, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}
	return out, nil
}

func (r *TimeEntryRepository) DeleteByWorkman(ctx context.Context, trn string) error {
	err := conn(ctx, r.db).Where("workman_trn = ?", trn).Delete(&timeEntryModel{}).Error
	return translate("delete time entries", err, nil)
}
