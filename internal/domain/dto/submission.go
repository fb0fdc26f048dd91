package dto

import (
	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
)

type CreateSubmissionRequest struct {
	ServiceID int64  `json:"service_id" validate:"required,gt=0"`
	Count     *int64 `json:"count" validate:"required,gte=0"`
}

// UpdateSubmissionRequest never carries the verified flag; verification has its own endpoint.
type UpdateSubmissionRequest struct {
	ID        int64  `param:"id" json:"-" validate:"required,gt=0"`
	ServiceID *int64 `json:"service_id,omitempty" validate:"omitempty,gt=0"`
	Count     *int64 `json:"count,omitempty" validate:"omitempty,gte=0"`
}

type SubmissionIDRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

type SubmissionItem struct {
	ID         int64                   `json:"id"`
	ServiceID  int64                   `json:"service_id"`
	CategoryID *int64                  `json:"category_id"`
	Category   string                  `json:"category"`
	Service    string                  `json:"service"`
	Count      int64                   `json:"count"`
	Date       string                  `json:"date"`
	Time       string                  `json:"time"`
	Verified   bool                    `json:"verified"`
	Status     domain.SubmissionStatus `json:"status"`
}

func NewSubmissionItem(r *domain.SubmissionRow) SubmissionItem {
	item := SubmissionItem{
		ID:         r.ID,
		ServiceID:  r.ServiceID,
		CategoryID: r.CategoryID,
		Category:   r.Category(),
		Service:    r.Service(),
		Count:      r.Count,
		Time:       shortTime(r.Time),
		Verified:   r.Verified,
		Status:     r.Status(),
	}
	if !r.Date.IsZero() {
		item.Date = r.Date.Format("2006-01-02")
	}
	return item
}

// shortTime keeps HH:MM of an HH:MM:SS value.
func shortTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
