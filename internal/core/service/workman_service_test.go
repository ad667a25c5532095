package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

func newWorkmanSvc(f *fixture) *WorkmanService {
	return NewWorkmanService(memWorkmen{f.store}, memEntries{f.store}, f.tx, f.audit, f.clock, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestWorkmanService_Create(t *testing.T) {
	f := newFixture()
	svc := newWorkmanSvc(f)

	w, err := svc.Create(context.Background(), admin, ports.CreateWorkmanInput{TRN: " T100 ", Name: " Jane Doe", Company: "Acme", Location: "Site A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.TRN != "T100" || w.Name != "Jane Doe" {
		t.Fatalf("expected trimmed fields, got %+v", w)
	}
	if _, ok := f.store.workmen["T100"]; !ok {
		t.Fatalf("expected workman to be stored")
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != domain.AuditWorkmanCreated {
		t.Fatalf("unexpected audit trail %v", got)
	}
}

func TestWorkmanService_Create_Validation(t *testing.T) {
	svc := newWorkmanSvc(newFixture())
	valid := ports.CreateWorkmanInput{TRN: "T1", Name: "Ann", Company: "Acme", Location: "Site A"}

	tests := []struct {
		name  string
		edit  func(in *ports.CreateWorkmanInput)
		field string
	}{
		{"blank trn", func(in *ports.CreateWorkmanInput) { in.TRN = "  " }, "trn"},
		{"long trn", func(in *ports.CreateWorkmanInput) { in.TRN = strings.Repeat("x", domain.MaxTRNLength+1) }, "trn"},
		{"blank name", func(in *ports.CreateWorkmanInput) { in.Name = "" }, "name"},
		{"blank company", func(in *ports.CreateWorkmanInput) { in.Company = "" }, "company"},
		{"long location", func(in *ports.CreateWorkmanInput) { in.Location = strings.Repeat("y", domain.MaxFieldLength+1) }, "location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := svc.Create(context.Background(), admin, in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestWorkmanService_Create_Duplicate(t *testing.T) {
	f := newFixture()
	f.seedWorkman("T1", "Ann", "Acme", "Site A")

	_, err := newWorkmanSvc(f).Create(context.Background(), admin, ports.CreateWorkmanInput{TRN: "T1", Name: "Bob", Company: "Acme", Location: "Site B"})
	if !errors.Is(err, domain.ErrWorkmanExists) {
		t.Fatalf("expected ErrWorkmanExists, got %v", err)
	}
}

func TestWorkmanService_TRNIsCaseSensitive(t *testing.T) {
	f := newFixture()
	f.seedWorkman("t1", "Ann", "Acme", "Site A")

	if _, err := newWorkmanSvc(f).Create(context.Background(), admin, ports.CreateWorkmanInput{TRN: "T1", Name: "Bob", Company: "Acme", Location: "Site B"}); err != nil {
		t.Fatalf("T1 and t1 are distinct TRNs: %v", err)
	}
}

func TestWorkmanService_Authorization(t *testing.T) {
	f := newFixture()
	f.seedWorkman("T1", "Ann", "Acme", "Site A")
	svc := newWorkmanSvc(f)
	ctx := context.Background()
	in := ports.CreateWorkmanInput{TRN: "T2", Name: "Bob", Company: "Acme", Location: "Site B"}

	if _, err := svc.Create(ctx, employee, in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("employee create: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, employee, "T1", domain.WorkmanPatch{Name: strPtr("X")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("employee update: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, employee, "T1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("employee delete: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Search(ctx, nil, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous search: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Search(ctx, employee, ""); err != nil {
		t.Fatalf("employee search: %v", err)
	}
	if _, err := svc.Create(ctx, supervisor, in); err != nil {
		t.Fatalf("supervisor create: %v", err)
	}
}

func TestWorkmanService_Update(t *testing.T) {
	f := newFixture()
	f.seedWorkman("T1", "Ann", "Acme", "Site A")
	svc := newWorkmanSvc(f)
	f.clock.Advance(time.Hour)

	w, err := svc.Update(context.Background(), supervisor, "T1", domain.WorkmanPatch{Location: strPtr(" Site B ")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if w.TRN != "T1" || w.Name != "Ann" || w.Location != "Site B" {
		t.Fatalf("unexpected workman %+v", w)
	}
	if !w.UpdatedAt.Equal(testStart.Add(time.Hour)) {
		t.Fatalf("expected updated_at bump, got %v", w.UpdatedAt)
	}
	if f.audit.events[0].Details["location"] != "Site B" {
		t.Fatalf("expected changed field in audit details, got %+v", f.audit.events[0].Details)
	}

	_, err = svc.Update(context.Background(), supervisor, "T1", domain.WorkmanPatch{Name: strPtr("   ")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected blank name to fail validation, got %v", err)
	}
	if _, err := svc.Update(context.Background(), supervisor, "NOPE", domain.WorkmanPatch{}); !errors.Is(err, domain.ErrWorkmanNotFound) {
		t.Fatalf("expected ErrWorkmanNotFound, got %v", err)
	}
}

func TestWorkmanService_DeleteCascades(t *testing.T) {
	f := newFixture()
	f.seedWorkman("T1", "Ann", "Acme", "Site A")
	f.seedWorkman("T2", "Bob", "Acme", "Site A")
	clock := newClockSvc(f)
	ctx := context.Background()
	_, _ = clock.ClockIn(ctx, employee, "T1", "")
	_, _ = clock.ClockOut(ctx, employee, "T1", "")
	_, _ = clock.ClockIn(ctx, employee, "T1", "")
	_, _ = clock.ClockIn(ctx, employee, "T2", "")

	svc := newWorkmanSvc(f)
	if err := svc.Delete(ctx, admin, "T1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if total, _ := f.store.entryCount("T1"); total != 0 {
		t.Fatalf("expected entries of T1 to be removed, %d left", total)
	}
	if total, _ := f.store.entryCount("T2"); total != 1 {
		t.Fatalf("entries of other workmen must be kept")
	}
	if _, err := svc.Get(ctx, admin, "T1"); !errors.Is(err, domain.ErrWorkmanNotFound) {
		t.Fatalf("expected ErrWorkmanNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, admin, "T1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}

func TestWorkmanService_Get(t *testing.T) {
	f := newFixture()
	f.seedWorkman("T1", "Ann", "Acme", "Site A")
	clock := newClockSvc(f)
	svc := newWorkmanSvc(f)
	ctx := context.Background()

	d, err := svc.Get(ctx, employee, "T1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Status != domain.StatusClockedOut || d.LatestClockIn != nil || d.LatestClockOut != nil {
		t.Fatalf("unexpected fresh detail %+v", d)
	}

	_, _ = clock.ClockIn(ctx, employee, "T1", "")
	f.clock.Advance(time.Hour)
	_, _ = clock.ClockOut(ctx, employee, "T1", "")
	f.clock.Advance(time.Hour)
	_, _ = clock.ClockIn(ctx, employee, "T1", "")

	d, err = svc.Get(ctx, employee, "T1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Status != domain.StatusClockedIn {
		t.Fatalf("expected clocked_in, got %s", d.Status)
	}
	if d.LatestClockIn == nil || !d.LatestClockIn.Equal(testStart.Add(2*time.Hour)) {
		t.Fatalf("unexpected latest clock in %v", d.LatestClockIn)
	}
	if d.LatestClockOut == nil || !d.LatestClockOut.Equal(testStart.Add(time.Hour)) {
		t.Fatalf("unexpected latest clock out %v", d.LatestClockOut)
	}
}

func TestWorkmanService_Search(t *testing.T) {
	f := newFixture()
	f.seedWorkman("T3", "Zoe Walker", "Acme", "Site B")
	f.seedWorkman("T1", "Jane Doe", "Acme", "Site A")
	f.seedWorkman("T2", "John Doe", "Acme", "Site A")
	_, _ = newClockSvc(f).ClockIn(context.Background(), employee, "T2", "")
	svc := newWorkmanSvc(f)

	got, err := svc.Search(context.Background(), employee, "DOE")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Jane Doe" || got[1].Name != "John Doe" {
		t.Fatalf("expected case-insensitive match ordered by name, got %+v", got)
	}
	if got[0].Status != domain.StatusClockedOut || got[1].Status != domain.StatusClockedIn {
		t.Fatalf("unexpected statuses %+v", got)
	}

	all, err := svc.Search(context.Background(), employee, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("empty query must return all, got %d, %v", len(all), err)
	}

	none, err := svc.Search(context.Background(), employee, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected an empty, non-nil result, got %#v, %v", none, err)
	}
}

func TestWorkmanService_Locations(t *testing.T) {
	f := newFixture()
	f.seedWorkman("T1", "Mia", "Acme", "Site B")
	f.seedWorkman("T2", "Abe", "Acme", "Site B")
	f.seedWorkman("T3", "Lou", "Acme", "Depot")

	groups, err := newWorkmanSvc(f).Locations(context.Background(), employee)
	if err != nil {
		t.Fatalf("locations: %v", err)
	}
	if len(groups) != 2 || groups[0].Location != "Depot" || groups[1].Location != "Site B" {
		t.Fatalf("expected locations sorted, got %+v", groups)
	}
	site := groups[1].Workmen
	if len(site) != 2 || site[0].Name != "Abe" || site[1].Name != "Mia" {
		t.Fatalf("expected workmen sorted by name, got %+v", site)
	}
}
