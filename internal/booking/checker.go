package booking

import (
	"context"
	"fmt"
	"sort"

	"github.com/restobook/table-reservation/internal/model"
)

// DefaultDiningMinutes is the assumed length of a sitting when a
// guest asks "what is free at 19:00" without naming an end time.
const DefaultDiningMinutes = 120

// ReservationSource lists the reservations that still occupy a table
// on a given date. Implementations must exclude cancelled rows.
type ReservationSource interface {
	ActiveByTableAndDate(ctx context.Context, tableID uint64, date string) ([]model.Reservation, error)
}

// TableSource lists the bookable tables of the restaurant.
type TableSource interface {
	ListActive(ctx context.Context) ([]model.Table, error)
}

// Checker answers availability questions against whatever backend
// implements the source interfaces. It holds no state of its own and
// is safe for concurrent use.
type Checker struct {
	Reservations  ReservationSource
	Tables        TableSource
	DiningMinutes int // window length for AvailableTables; 0 means DefaultDiningMinutes
}

// NewChecker constructs a Checker over the given sources.
func NewChecker(res ReservationSource, tables TableSource, diningMinutes int) *Checker {
	if diningMinutes <= 0 {
		diningMinutes = DefaultDiningMinutes
	}
	return &Checker{Reservations: res, Tables: tables, DiningMinutes: diningMinutes}
}

// IsTableAvailable reports whether the table can take a reservation
// for [start, end) on the given date. excludeID names a reservation
// to ignore so an update does not conflict with itself; pass 0 when
// creating. The check fails closed: if the source cannot be read the
// table is reported unavailable along with the error, never available.
func (c *Checker) IsTableAvailable(ctx context.Context, tableID uint64, date, start, end string, excludeID uint64) (bool, error) {
	want, err := ParseInterval(start, end)
	if err != nil {
		return false, err
	}
	existing, err := c.Reservations.ActiveByTableAndDate(ctx, tableID, date)
	if err != nil {
		return false, fmt.Errorf("list reservations for table %d on %s: %w", tableID, date, err)
	}
	for i := range existing {
		r := &existing[i]
		if r.ID == excludeID && excludeID != 0 {
			continue
		}
		have, err := ParseInterval(r.StartTime, r.EndTime)
		if err != nil {
			// A malformed stored row cannot be proven conflict-free.
			return false, fmt.Errorf("stored reservation %d: %w", r.ID, err)
		}
		if Overlaps(want, have) {
			return false, nil
		}
	}
	return true, nil
}

// AvailableTables returns the tables that seat at least partySize
// guests and are free for a DiningMinutes-long window anchored at the
// given HH:MM time, ordered by table number ascending. A window that
// runs past midnight stays attached to the requested date.
func (c *Checker) AvailableTables(ctx context.Context, date, at string, partySize int) ([]model.Table, error) {
	startMin, err := ParseClock(at)
	if err != nil {
		return nil, err
	}
	start := FormatClock(startMin)
	end := FormatClock(startMin + c.DiningMinutes)

	tables, err := c.Tables.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	free := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if t.Capacity < partySize {
			continue
		}
		ok, err := c.IsTableAvailable(ctx, t.ID, date, start, end, 0)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, t)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Number < free[j].Number })
	return free, nil
}
