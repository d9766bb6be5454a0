package attendance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// fakeRepo keeps records in a map keyed by employeeId|date
type fakeRepo struct {
	records map[string]Record
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]Record)}
}

func (r *fakeRepo) Insert(_ context.Context, rec Record) error {
	key := rec.EmployeeID + "|" + rec.Date
	if _, ok := r.records[key]; ok {
		return ErrAlreadyCheckedIn
	}
	r.records[key] = rec
	return nil
}

func (r *fakeRepo) SetCheckOut(_ context.Context, employeeID, date string, at time.Time) (*Record, error) {
	key := employeeID + "|" + date
	rec, ok := r.records[key]
	if !ok {
		return nil, ErrNotCheckedIn
	}
	rec.CheckOut = &at
	r.records[key] = rec
	return &rec, nil
}

func (r *fakeRepo) ListMonth(_ context.Context, employeeID, month string) ([]Record, error) {
	var out []Record
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && strings.HasPrefix(rec.Date, month) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newTestService(repo Repository, now time.Time) *Service {
	svc := NewService(noop.NewTracerProvider().Tracer("test"), repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCheckInOnceADay(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	rec, err := svc.CheckIn(context.Background(), "emp_1", "on site")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", rec.Date)
	assert.Equal(t, "on site", rec.Note)

	_, err = svc.CheckIn(context.Background(), "emp_1", "")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC))

	_, err := svc.CheckOut(context.Background(), "emp_1")
	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestCheckOutStampsTime(t *testing.T) {
	repo := newFakeRepo()
	morning := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, morning)

	_, err := svc.CheckIn(context.Background(), "emp_1", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return morning.Add(8 * time.Hour) }
	rec, err := svc.CheckOut(context.Background(), "emp_1")
	require.NoError(t, err)
	require.NotNil(t, rec.CheckOut)
	assert.Equal(t, 8*time.Hour, rec.CheckOut.Sub(rec.CheckIn))
}

func TestSummarize(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, time.Now())

	day := func(d int, hours float64) {
		in := time.Date(2026, 8, d, 9, 0, 0, 0, time.UTC)
		out := in.Add(time.Duration(hours * float64(time.Hour)))
		repo.records["emp_1|"+in.Format(DateLayout)] = Record{
			EmployeeID: "emp_1",
			Date:       in.Format(DateLayout),
			CheckIn:    in,
			CheckOut:   &out,
		}
	}
	day(3, 8)
	day(4, 7.5)
	// open session, no check-out
	in := time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC)
	repo.records["emp_1|2026-08-05"] = Record{EmployeeID: "emp_1", Date: "2026-08-05", CheckIn: in}
	// another employee, must not leak in
	repo.records["emp_2|2026-08-03"] = Record{EmployeeID: "emp_2", Date: "2026-08-03", CheckIn: in}

	summary, err := svc.Summarize(context.Background(), "emp_1", "2026-08")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.DaysPresent)
	assert.Equal(t, 1, summary.OpenSessions)
	assert.InDelta(t, 15.5, summary.TotalHours, 1e-9)
}
