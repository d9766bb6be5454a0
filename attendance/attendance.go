// Package attendance tracks employee check-ins and check-outs in a remote
// document collection and aggregates monthly summaries client-side.
package attendance

import (
	"context"
	"errors"
	"time"
)

// DateLayout is the calendar-day key format for attendance records
const DateLayout = "2006-01-02"

// MonthLayout keys monthly summaries
const MonthLayout = "2006-01"

var (
	// ErrAlreadyCheckedIn means the employee already has a record for the day
	ErrAlreadyCheckedIn = errors.New("already checked in for this date")
	// ErrNotCheckedIn means check-out arrived without a prior check-in
	ErrNotCheckedIn = errors.New("no check-in record for this date")
)

// Record is one employee-day of attendance
type Record struct {
	EmployeeID string     `bson:"employeeId" json:"employeeId"`
	Date       string     `bson:"date" json:"date"`
	CheckIn    time.Time  `bson:"checkIn" json:"checkIn"`
	CheckOut   *time.Time `bson:"checkOut,omitempty" json:"checkOut,omitempty"`
	Note       string     `bson:"note,omitempty" json:"note,omitempty"`
}

// Summary is the client-side monthly aggregation of an employee's records
type Summary struct {
	EmployeeID   string  `json:"employeeId"`
	Month        string  `json:"month"`
	DaysPresent  int     `json:"daysPresent"`
	TotalHours   float64 `json:"totalHours"`
	OpenSessions int     `json:"openSessions"`
}

// Repository persists attendance records. Insert is insert-if-absent per
// (employeeId, date).
type Repository interface {
	Insert(ctx context.Context, rec Record) error
	SetCheckOut(ctx context.Context, employeeID, date string, at time.Time) (*Record, error)
	ListMonth(ctx context.Context, employeeID, month string) ([]Record, error)
}
