package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restobook/table-reservation/internal/booking"
	"github.com/restobook/table-reservation/internal/model"
	"github.com/restobook/table-reservation/internal/repository"
)

// recordingNotifier captures lifecycle events in order.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) ReservationConfirmed(_ context.Context, r *model.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, "confirmed:"+r.Ref)
}

func (n *recordingNotifier) ReservationCancelled(_ context.Context, r *model.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, "cancelled:"+r.Ref)
}

func newTestService(store *memStore) *booking.Service {
	checker := booking.NewChecker(store, &fakeTables{}, 0)
	return booking.NewService(store, checker, nil)
}

func newReservation(tableID uint64, date, start, end string) *model.Reservation {
	return &model.Reservation{
		TableID:      tableID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		GuestCount:   2,
		CustomerName: gofakeit.Name(),
		Phone:        gofakeit.Phone(),
		Email:        gofakeit.Email(),
	}
}

func TestServiceBookingSequence(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	first := newReservation(7, "2026-09-01", "19:00", "21:00")
	require.NoError(t, svc.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.NotEmpty(t, first.Ref)
	assert.Equal(t, model.StatusPending, first.Status)

	// Overlapping window on the same table and date is refused.
	err := svc.Create(ctx, newReservation(7, "2026-09-01", "20:00", "22:00"))
	assert.ErrorIs(t, err, repository.ErrConflict)

	// The adjacent sitting right after is fine.
	require.NoError(t, svc.Create(ctx, newReservation(7, "2026-09-01", "21:00", "23:00")))

	// Cancelling frees the slot for a new booking.
	_, err = svc.Cancel(ctx, first.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Create(ctx, newReservation(7, "2026-09-01", "19:30", "20:30")))
}

func TestServiceCreateFailsClosed(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection reset")
	svc := newTestService(store)

	err := svc.Create(context.Background(), newReservation(7, "2026-09-01", "19:00", "21:00"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrConflict)
}

func TestServiceUpdateMovesReservation(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	r := newReservation(7, "2026-09-01", "19:00", "21:00")
	require.NoError(t, svc.Create(ctx, r))

	// Shifting within its own original window must not self-conflict.
	moved := newReservation(7, "2026-09-01", "19:30", "21:30")
	moved.ID = r.ID
	got, err := svc.Update(ctx, moved)
	require.NoError(t, err)
	assert.Equal(t, "19:30", got.StartTime)
	assert.Equal(t, "21:30", got.EndTime)
	assert.Equal(t, r.Ref, got.Ref, "the reference code survives edits")

	stored, err := store.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "19:30", stored.StartTime)
}

func TestServiceUpdateConflicts(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	a := newReservation(7, "2026-09-01", "19:00", "21:00")
	require.NoError(t, svc.Create(ctx, a))
	b := newReservation(7, "2026-09-01", "21:00", "23:00")
	require.NoError(t, svc.Create(ctx, b))

	clash := newReservation(7, "2026-09-01", "20:30", "22:00")
	clash.ID = b.ID
	_, err := svc.Update(ctx, clash)
	assert.ErrorIs(t, err, repository.ErrConflict)

	// The failed edit left the row untouched.
	stored, err := store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "21:00", stored.StartTime)
}

func TestServiceUpdateRejectsCancelled(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	r := newReservation(7, "2026-09-01", "19:00", "21:00")
	require.NoError(t, svc.Create(ctx, r))
	_, err := svc.Cancel(ctx, r.ID)
	require.NoError(t, err)

	edit := newReservation(7, "2026-09-01", "18:00", "20:00")
	edit.ID = r.ID
	_, err = svc.Update(ctx, edit)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestServiceUpdateUnknownID(t *testing.T) {
	svc := newTestService(newMemStore())
	edit := newReservation(7, "2026-09-01", "18:00", "20:00")
	edit.ID = 99
	_, err := svc.Update(context.Background(), edit)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

func TestServiceStatusTransitions(t *testing.T) {
	store := newMemStore()
	notify := &recordingNotifier{}
	checker := booking.NewChecker(store, &fakeTables{}, 0)
	svc := booking.NewService(store, checker, notify)
	ctx := context.Background()

	r := newReservation(7, "2026-09-01", "19:00", "21:00")
	require.NoError(t, svc.Create(ctx, r))

	confirmed, err := svc.Confirm(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)

	// Confirming twice is an invalid transition.
	_, err = svc.Confirm(ctx, r.ID)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)

	cancelled, err := svc.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// Cancelled is terminal.
	_, err = svc.Cancel(ctx, r.ID)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	_, err = svc.Confirm(ctx, r.ID)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)

	assert.Equal(t, []string{"confirmed:" + r.Ref, "cancelled:" + r.Ref}, notify.events)
}

func TestServiceConfirmUnknownID(t *testing.T) {
	svc := newTestService(newMemStore())
	_, err := svc.Confirm(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
}

// Hammering one slot from many goroutines must admit exactly one
// booking.
func TestServiceCreateSerializesPerSlot(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Create(context.Background(), newReservation(7, "2026-09-01", "19:00", "21:00"))
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, repository.ErrConflict)
		}
	}
	assert.Equal(t, 1, won)
}
