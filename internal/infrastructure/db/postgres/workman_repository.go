package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// WorkmanRepository implements ports.WorkmanRepository with gorm.
type WorkmanRepository struct {
	db *gorm.DB
}

func NewWorkmanRepository(db *gorm.DB) *WorkmanRepository {
	return &WorkmanRepository{db: db}
}

func (r *WorkmanRepository) Create(ctx context.Context, w *domain.Workman) error {
	m := workmanModel{
		TRN:       w.TRN,
		Name:      w.Name,
		Company:   w.Company,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	return translate("create workman", conn(ctx, r.db).Create(&m).Error, nil)
}

func (r *WorkmanRepository) Update(ctx context.Context, w *domain.Workman) error {
	res := conn(ctx, r.db).Model(&workmanModel{}).Where("trn = ?", w.TRN).Updates(map[string]any{
		"name":       w.Name,
		"company":    w.Company,
		"location":   w.Location,
		"updated_at": w.UpdatedAt,
	})
	if res.Error != nil {
		return translate("update workman", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrWorkmanNotFound
	}
	return nil
}

func (r *WorkmanRepository) Delete(ctx context.Context, trn string) error {
	res := conn(ctx, r.db).Delete(&workmanModel{}, "trn = ?", trn)
	if res.Error != nil {
		return translate("delete workman", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrWorkmanNotFound
	}
	return nil
}

func (r *WorkmanRepository) FindByTRN(ctx context.Context, trn string) (*domain.Workman, error) {
	var m workmanModel
	if err := conn(ctx, r.db).Where("trn = ?", trn).Take(&m).Error; err != nil {
		return nil, translate("find workman", err, domain.ErrWorkmanNotFound)
	}
	w := m.toDomain()
	return &w, nil
}

// LockByTRN issues SELECT ... FOR UPDATE; it must run inside WithinTx for the
// lock to outlive the statement.
func (r *WorkmanRepository) LockByTRN(ctx context.Context, trn string) (*domain.Workman, error) {
	var m workmanModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("trn = ?", trn).
		Take(&m).Error
	if err != nil {
		return nil, translate("lock workman", err, domain.ErrWorkmanNotFound)
	}
	w := m.toDomain()
	return &w, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *WorkmanRepository) Search(ctx context.Context, query string) ([]domain.Workman, error) {
	q := conn(ctx, r.db).Model(&workmanModel{})
	if query != "" {
		q = q.Where(`name ILIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(query)+"%")
	}
	var models []workmanModel
	if err := q.Order("name").Order("trn").Find(&models).Error; err != nil {
		return nil, translate("search workmen", err, nil)
	}
	out := make([]domain.Workman, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}
	return out, nil
}

type openRow struct {
	WorkmanTRN string `gorm:"column:workman_trn"`
	Open       bool   `gorm:"column:open"`
}

// Statuses reads the latest entry of every TRN with DISTINCT ON.
func (r *WorkmanRepository) Statuses(ctx context.Context, trns []string) (map[string]domain.WorkmanStatus, error) {
	out := make(map[string]domain.WorkmanStatus, len(trns))
	if len(trns) == 0 {
		return out, nil
	}
	var rows []openRow
	err := conn(ctx, r.db).Raw(`
		SELECT DISTINCT ON (workman_trn) workman_trn, clock_out IS NULL AS open
		FROM time_entries
		WHERE workman_trn IN ?
		ORDER BY workman_trn, clock_in DESC, id DESC`, trns).
		Scan(&rows).Error
	if err != nil {
		return nil, translate("workman statuses", err, nil)
	}
	for _, trn := range trns {
		out[trn] = domain.StatusClockedOut
	}
	for _, row := range rows {
		if row.Open {
			out[row.WorkmanTRN] = domain.StatusClockedIn
		}
	}
	return out, nil
}
