package domain

import "time"

// Stage is an ordered phase within a project, grouping top-level tasks.
// OrderIndex is the position within the project-wide stage list.
type Stage struct {
	ID         string
	ProjectID  string
	Name       string
	OrderIndex int
	StartDate  *time.Time
	EndDate    *time.Time
	Complete   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StagePatch is a partial update. Pointer fields overwrite when non-nil;
// Clear* flags write an explicit null. A field that is neither set nor
// cleared is left untouched, which distinguishes "clear this date" from
// "don't touch this date".
type StagePatch struct {
	Name           *string
	StartDate      *time.Time
	ClearStartDate bool
	EndDate        *time.Time
	ClearEndDate   bool
	Complete       *bool
}

// Apply writes the patch onto the stage.
func (p StagePatch) Apply(s *Stage) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	switch {
	case p.ClearStartDate:
		s.StartDate = nil
	case p.StartDate != nil:
		s.StartDate = p.StartDate
	}
	switch {
	case p.ClearEndDate:
		s.EndDate = nil
	case p.EndDate != nil:
		s.EndDate = p.EndDate
	}
	if p.Complete != nil {
		s.Complete = *p.Complete
	}
}
