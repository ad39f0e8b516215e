package domain

import "time"

// AccountingPeriod is a contiguous, inclusive date range that can be locked
// against new postings.
type AccountingPeriod struct {
	PeriodID       string     `json:"period_id"`
	OrganizationID string     `json:"organization_id"`
	PeriodStart    time.Time  `json:"period_start"`
	PeriodEnd      time.Time  `json:"period_end"`
	IsLocked       bool       `json:"is_locked"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`
	LockedBy       *string    `json:"locked_by,omitempty"`
	AuditFields
}

// Contains reports whether date falls within the period, edges included.
func (p AccountingPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(p.PeriodStart) && !d.After(p.PeriodEnd)
}

// Overlaps reports whether [start, end] intersects the period.
func (p AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !DateOnly(start).After(p.PeriodEnd) && !DateOnly(end).Before(p.PeriodStart)
}
