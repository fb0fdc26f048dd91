package domain

import "time"

// Unresolved is rendered in place of a service or category name that no longer exists.
const Unresolved = "N/A"

type SubmissionStatus string

const (
	StatusUnverified SubmissionStatus = "unverified"
	StatusVerified   SubmissionStatus = "verified"
)

// Submission is one reported batch of persons processed for a service (ajuan).
type Submission struct {
	ID        int64     `db:"id" json:"id"`
	ServiceID int64     `db:"id_jenis_data" json:"service_id"`
	Count     int64     `db:"jumlah" json:"count"`
	Date      time.Time `db:"tanggal" json:"date"`
	Time      string    `db:"jam" json:"time"`
	Verified  bool      `db:"is_verified" json:"verified"`
}

func (s *Submission) Status() SubmissionStatus {
	if s.Verified {
		return StatusVerified
	}
	return StatusUnverified
}

// SubmissionRow is a submission joined to its service and category for list display.
type SubmissionRow struct {
	Submission
	ServiceName  *string `db:"service_name" json:"-"`
	CategoryID   *int64  `db:"category_id" json:"category_id"`
	CategoryName *string `db:"category_name" json:"-"`
}

func (r *SubmissionRow) Service() string {
	if r.ServiceName == nil || *r.ServiceName == "" {
		return Unresolved
	}
	return *r.ServiceName
}

func (r *SubmissionRow) Category() string {
	if r.CategoryName == nil || *r.CategoryName == "" {
		return Unresolved
	}
	return *r.CategoryName
}
