package dto

import (
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// CreatePeriodRequest defines the inclusive range of a new accounting period.
type CreatePeriodRequest struct {
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" binding:"required,datetime=2006-01-02"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID    string     `json:"id"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`
	IsLocked    bool       `json:"is_locked"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	LockedBy    *string    `json:"locked_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:    p.PeriodID,
		PeriodStart: p.PeriodStart.Format(domain.DateLayout),
		PeriodEnd:   p.PeriodEnd.Format(domain.DateLayout),
		IsLocked:    p.IsLocked,
		LockedAt:    p.LockedAt,
		LockedBy:    p.LockedBy,
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
	}
}

// ListPeriodsResponse wraps the list of periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// ToListPeriodsResponse converts a slice of periods.
func ToListPeriodsResponse(periods []domain.AccountingPeriod) ListPeriodsResponse {
	res := ListPeriodsResponse{Periods: make([]PeriodResponse, len(periods))}
	for i := range periods {
		res.Periods[i] = ToPeriodResponse(&periods[i])
	}
	return res
}

// DateLockedResponse answers whether a date falls in a locked period.
type DateLockedResponse struct {
	Date     string `json:"date"`
	IsLocked bool   `json:"is_locked"`
}
