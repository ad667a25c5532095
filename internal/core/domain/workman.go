package domain

import "time"

// WorkmanStatus is the derived clock state of a workman.
type WorkmanStatus string

const (
	StatusClockedIn  WorkmanStatus = "clocked_in"
	StatusClockedOut WorkmanStatus = "clocked_out"
)

// Field length limits mirrored by the schema.
const (
	MaxTRNLength   = 50
	MaxFieldLength = 100
)

// Workman is a tracked worker keyed by its tax-registration number.
type Workman struct {
	TRN       string    `json:"trn"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkmanPatch carries the mutable fields of a workman; nil means unchanged.
type WorkmanPatch struct {
	Name     *string
	Company  *string
	Location *string
}

// StatusOf derives the status from the most recent entry by clock-in.
// A nil latest entry means the workman has never clocked in.
func StatusOf(latest *TimeEntry) WorkmanStatus {
	if latest != nil && latest.Open() {
		return StatusClockedIn
	}
	return StatusClockedOut
}
