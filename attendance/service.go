package attendance

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ticketing-payments/logging"
)

// Service implements check-in/check-out and monthly summaries on top of a
// Repository. Aggregation happens here, not in the database.
type Service struct {
	tracer trace.Tracer
	repo   Repository
	now    func() time.Time
}

// NewService creates the attendance service
func NewService(tracer trace.Tracer, repo Repository) *Service {
	return &Service{tracer: tracer, repo: repo, now: time.Now}
}

// CheckIn opens today's attendance record for the employee
func (s *Service) CheckIn(ctx context.Context, employeeID, note string) (*Record, error) {
	ctx, span := s.tracer.Start(ctx, "attendance_check_in")
	defer span.End()

	now := s.now().UTC()
	rec := Record{
		EmployeeID: employeeID,
		Date:       now.Format(DateLayout),
		CheckIn:    now,
		Note:       note,
	}
	span.SetAttributes(
		attribute.String("attendance.employee_id", employeeID),
		attribute.String("attendance.date", rec.Date),
	)

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, err
	}

	logging.WithTraceContext(span).Info("Employee checked in",
		zap.String("employee_id", employeeID),
		zap.String("date", rec.Date),
	)
	return &rec, nil
}

// CheckOut closes today's open record
func (s *Service) CheckOut(ctx context.Context, employeeID string) (*Record, error) {
	ctx, span := s.tracer.Start(ctx, "attendance_check_out")
	defer span.End()

	now := s.now().UTC()
	date := now.Format(DateLayout)
	span.SetAttributes(
		attribute.String("attendance.employee_id", employeeID),
		attribute.String("attendance.date", date),
	)

	rec, err := s.repo.SetCheckOut(ctx, employeeID, date, now)
	if err != nil {
		return nil, err
	}

	logging.WithTraceContext(span).Info("Employee checked out",
		zap.String("employee_id", employeeID),
		zap.String("date", date),
	)
	return rec, nil
}

// ListMonth returns the employee's records for a month ("2006-01")
func (s *Service) ListMonth(ctx context.Context, employeeID, month string) ([]Record, error) {
	ctx, span := s.tracer.Start(ctx, "attendance_list_month")
	defer span.End()

	span.SetAttributes(
		attribute.String("attendance.employee_id", employeeID),
		attribute.String("attendance.month", month),
	)
	return s.repo.ListMonth(ctx, employeeID, month)
}

// Summarize aggregates a month of records into days present and worked hours.
// Records without a check-out count as present but contribute no hours.
func (s *Service) Summarize(ctx context.Context, employeeID, month string) (*Summary, error) {
	records, err := s.ListMonth(ctx, employeeID, month)
	if err != nil {
		return nil, err
	}

	summary := &Summary{EmployeeID: employeeID, Month: month}
	var total time.Duration
	for _, rec := range records {
		summary.DaysPresent++
		if rec.CheckOut == nil {
			summary.OpenSessions++
			continue
		}
		worked := rec.CheckOut.Sub(rec.CheckIn)
		if worked > 0 {
			total += worked
		}
	}
	summary.TotalHours = total.Hours()
	return summary, nil
}
