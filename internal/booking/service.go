package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/restobook/table-reservation/internal/model"
	"github.com/restobook/table-reservation/internal/repository"
)

// ReservationStore is the persistence boundary the service writes
// through. The MySQL repository satisfies it; tests plug in an
// in-memory fake.
type ReservationStore interface {
	ReservationSource
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Update(ctx context.Context, r *model.Reservation) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
}

// Notifier receives lifecycle events after a status change has been
// persisted. The RabbitMQ publisher implements it; a nil Notifier
// disables notifications.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, r *model.Reservation)
	ReservationCancelled(ctx context.Context, r *model.Reservation)
}

// Service owns the booking workflow: check availability, persist,
// transition status, notify. Check-then-insert is serialized per
// (table, date) through a keyed mutex so two concurrent requests for
// the same slot cannot both pass the availability check. That guards
// a single process; running several instances additionally needs the
// database-side exclusion documented in DESIGN.md.
type Service struct {
	store   ReservationStore
	checker *Checker
	notify  Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService builds a Service. notify may be nil.
func NewService(store ReservationStore, checker *Checker, notify Notifier) *Service {
	return &Service{
		store:   store,
		checker: checker,
		notify:  notify,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Checker exposes the underlying availability checker for read-only
// queries (the available-tables endpoint).
func (s *Service) Checker() *Checker { return s.checker }

// slotLock returns the mutex guarding one (table, date) pair. Locks
// are created on first use and kept for the process lifetime; the map
// is bounded by tables x active dates.
func (s *Service) slotLock(tableID uint64, date string) *sync.Mutex {
	key := fmt.Sprintf("%d|%s", tableID, date)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Create books a table. The reservation comes in validated at the
// boundary (well-formed times, positive guest count); Create assigns
// the reference code and PENDING status, verifies the window is free
// and persists. Returns repository.ErrConflict when the slot is
// taken and fails closed on store errors.
func (s *Service) Create(ctx context.Context, r *model.Reservation) error {
	l := s.slotLock(r.TableID, r.Date)
	l.Lock()
	defer l.Unlock()

	free, err := s.checker.IsTableAvailable(ctx, r.TableID, r.Date, r.StartTime, r.EndTime, 0)
	if err != nil {
		return err
	}
	if !free {
		return repository.ErrConflict
	}
	if r.Ref == "" {
		r.Ref = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = model.StatusPending
	}
	return s.store.Create(ctx, r)
}

// Update rewrites the mutable fields of an existing reservation and
// re-validates availability with the reservation excluded so it does
// not conflict with itself. Cancelled reservations cannot be edited.
func (s *Service) Update(ctx context.Context, r *model.Reservation) (*model.Reservation, error) {
	current, err := s.store.GetByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if !current.Active() {
		return nil, repository.ErrInvalidTransition
	}

	l := s.slotLock(r.TableID, r.Date)
	l.Lock()
	defer l.Unlock()

	free, err := s.checker.IsTableAvailable(ctx, r.TableID, r.Date, r.StartTime, r.EndTime, r.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, repository.ErrConflict
	}

	current.TableID = r.TableID
	current.Date = r.Date
	current.StartTime = r.StartTime
	current.EndTime = r.EndTime
	current.GuestCount = r.GuestCount
	current.CustomerName = r.CustomerName
	current.Phone = r.Phone
	current.Email = r.Email
	current.Notes = r.Notes
	if err := s.store.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Confirm moves a PENDING reservation to CONFIRMED and notifies.
func (s *Service) Confirm(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := s.transition(ctx, id, model.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify.ReservationConfirmed(ctx, r)
	}
	return r, nil
}

// Cancel soft-deletes a reservation by moving it to CANCELLED. The
// row stays in the store and stops counting against availability.
func (s *Service) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := s.transition(ctx, id, model.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify.ReservationCancelled(ctx, r)
	}
	return r, nil
}

// transition applies the status state machine and persists the new
// status. Illegal moves return repository.ErrInvalidTransition and
// change nothing.
func (s *Service) transition(ctx context.Context, id uint64, to string) (*model.Reservation, error) {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(r.Status, to) {
		return nil, repository.ErrInvalidTransition
	}
	if err := s.store.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	r.Status = to
	return r, nil
}
