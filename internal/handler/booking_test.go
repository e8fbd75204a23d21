package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restobook/table-reservation/internal/booking"
	"github.com/restobook/table-reservation/internal/handler"
	"github.com/restobook/table-reservation/internal/model"
	"github.com/restobook/table-reservation/internal/repository"
)

type stubStore struct {
	mu   sync.Mutex
	next uint64
	rows map[uint64]model.Reservation
}

func newStubStore() *stubStore { return &stubStore{rows: make(map[uint64]model.Reservation)} }

func (s *stubStore) ActiveByTableAndDate(_ context.Context, tableID uint64, date string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.rows {
		if r.TableID == tableID && r.Date == date && r.Status != model.StatusCancelled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) Create(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	r.ID = s.next
	s.rows[r.ID] = *r
	return nil
}

func (s *stubStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	return &r, nil
}

func (s *stubStore) Update(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	s.rows[r.ID] = *r
	return nil
}

func (s *stubStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	r.Status = status
	s.rows[id] = r
	return nil
}

// stubTables serves both the checker's TableSource and the handler's
// TableStore.
type stubTables struct {
	tables map[uint64]model.Table
}

func (s *stubTables) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	t, ok := s.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	return &t, nil
}

func (s *stubTables) ListActive(context.Context) ([]model.Table, error) {
	out := make([]model.Table, 0, len(s.tables))
	for _, t := range s.tables {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubCustomers struct {
	upserts int
}

func (s *stubCustomers) UpsertByPhone(_ context.Context, name, phone, email string) (*model.Customer, error) {
	s.upserts++
	return &model.Customer{ID: 1, Name: name, Phone: phone, Email: email}, nil
}

func newTestHandler() (*handler.BookingHandler, *stubStore, *stubCustomers) {
	store := newStubStore()
	tables := &stubTables{tables: map[uint64]model.Table{
		3: {ID: 3, Number: 3, Capacity: 4, IsActive: true},
		5: {ID: 5, Number: 5, Capacity: 2, IsActive: true},
		9: {ID: 9, Number: 9, Capacity: 4, IsActive: false},
	}}
	customers := &stubCustomers{}
	svc := booking.NewService(store, booking.NewChecker(store, tables, 0), nil)
	return handler.NewBookingHandler(svc, tables, customers), store, customers
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m["error"]
}

const createBody = `{"tableId":3,"customerName":"Ada Quinn","customerPhone":"+15550123","email":"ada@example.com","date":"2026-09-01","startTime":"19:00","endTime":"21:00","guestCount":2}`

func TestAvailableTablesValidation(t *testing.T) {
	h, _, _ := newTestHandler()
	cases := []string{
		"/api/tables/available?date=tomorrow&time=19:00&guests=2",
		"/api/tables/available?date=2026-09-01&time=7pm&guests=2",
		"/api/tables/available?date=2026-09-01&time=19:00&guests=0",
		"/api/tables/available?date=2026-09-01&time=19:00&guests=two",
	}
	for _, target := range cases {
		rec := doJSON(t, h.AvailableTables, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestAvailableTables(t *testing.T) {
	h, _, _ := newTestHandler()

	// Book table 3 so only the two-seater could remain, and the party
	// of four filters that out too.
	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.AvailableTables, http.MethodGet, "/api/tables/available?date=2026-09-01&time=19:30&guests=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var free []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &free))
	assert.Empty(t, free)

	// A party of two still gets table 5.
	rec = doJSON(t, h.AvailableTables, http.MethodGet, "/api/tables/available?date=2026-09-01&time=19:30&guests=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &free))
	require.Len(t, free, 1)
	assert.Equal(t, float64(5), free[0]["number"])
}

func TestCreateReservation(t *testing.T) {
	h, _, customers := newTestHandler()

	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PENDING", resp["status"])
	assert.NotEmpty(t, resp["ref"])
	assert.Equal(t, float64(3), resp["tableId"])
	assert.Equal(t, 1, customers.upserts)

	// Same slot again answers conflict.
	rec = doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorBody(t, rec))
}

func TestCreateReservationUnknownTable(t *testing.T) {
	h, _, _ := newTestHandler()
	body := strings.Replace(createBody, `"tableId":3`, `"tableId":99`, 1)
	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReservationDeactivatedTable(t *testing.T) {
	h, store, _ := newTestHandler()
	body := strings.Replace(createBody, `"tableId":3`, `"tableId":9`, 1)
	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.rows, "no reservation may be written for a deactivated table")
}

func TestUpdateReservationDeactivatedTable(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Moving the booking onto the deactivated table is refused.
	body := `{"id":1,"tableId":9,"customerName":"Ada Quinn","customerPhone":"+15550123","date":"2026-09-01","startTime":"19:00","endTime":"21:00","guestCount":2}`
	rec = doJSON(t, h.UpdateReservation, http.MethodPut, "/api/reservations", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	stored, err := h.Svc.Checker().Reservations.ActiveByTableAndDate(context.Background(), 3, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, uint64(3), stored[0].TableID, "the booking stays on its original table")
}

func TestCreateReservationValidation(t *testing.T) {
	h, _, _ := newTestHandler()
	cases := map[string]string{
		"missing name":  strings.Replace(createBody, `"customerName":"Ada Quinn"`, `"customerName":""`, 1),
		"missing phone": strings.Replace(createBody, `"customerPhone":"+15550123"`, `"customerPhone":""`, 1),
		"bad date":      strings.Replace(createBody, `"date":"2026-09-01"`, `"date":"01/09/2026"`, 1),
		"bad time":      strings.Replace(createBody, `"startTime":"19:00"`, `"startTime":"7pm"`, 1),
		"empty window":  strings.Replace(createBody, `"endTime":"21:00"`, `"endTime":"19:00"`, 1),
		"zero guests":   strings.Replace(createBody, `"guestCount":2`, `"guestCount":0`, 1),
		"no table":      strings.Replace(createBody, `"tableId":3`, `"tableId":0`, 1),
		"not json":      `guests=2`,
	}
	for name, body := range cases {
		rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestUpdateReservation(t *testing.T) {
	h, store, _ := newTestHandler()

	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Shift the booking; its old window must not count against it.
	body := `{"id":1,"tableId":3,"customerName":"Ada Quinn","customerPhone":"+15550123","date":"2026-09-01","startTime":"20:00","endTime":"22:00","guestCount":3}`
	rec = doJSON(t, h.UpdateReservation, http.MethodPut, "/api/reservations", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "20:00", resp["startTime"])
	assert.Equal(t, float64(3), resp["guestCount"])

	stored, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "20:00", stored.StartTime)
}

func TestUpdateReservationConflict(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := strings.Replace(createBody, `"startTime":"19:00","endTime":"21:00"`, `"startTime":"21:00","endTime":"23:00"`, 1)
	rec = doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", second)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := `{"id":2,"tableId":3,"customerName":"Ada Quinn","customerPhone":"+15550123","date":"2026-09-01","startTime":"20:30","endTime":"22:00","guestCount":2}`
	rec = doJSON(t, h.UpdateReservation, http.MethodPut, "/api/reservations", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorBody(t, rec))
}

func TestUpdateReservationErrors(t *testing.T) {
	h, _, _ := newTestHandler()

	// No id in the body.
	body := strings.Replace(createBody, `{"tableId":3`, `{"id":0,"tableId":3`, 1)
	rec := doJSON(t, h.UpdateReservation, http.MethodPut, "/api/reservations", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown id.
	body = strings.Replace(createBody, `{"tableId":3`, `{"id":42,"tableId":3`, 1)
	rec = doJSON(t, h.UpdateReservation, http.MethodPut, "/api/reservations", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCancelledReservation(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h.CancelReservation, http.MethodDelete, "/api/reservations?id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := strings.Replace(createBody, `{"tableId":3`, `{"id":1,"tableId":3`, 1)
	rec = doJSON(t, h.UpdateReservation, http.MethodPut, "/api/reservations", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "reservation is cancelled", errorBody(t, rec))
}

func TestCancelReservation(t *testing.T) {
	h, store, _ := newTestHandler()

	rec := doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.CancelReservation, http.MethodDelete, "/api/reservations?id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp["status"])

	// Soft delete: the row is still there.
	stored, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)

	// And the slot is bookable again.
	rec = doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCancelReservationErrors(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(t, h.CancelReservation, http.MethodDelete, "/api/reservations?id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.CancelReservation, http.MethodDelete, "/api/reservations?id=42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h.CreateReservation, http.MethodPost, "/api/reservations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, h.CancelReservation, http.MethodDelete, "/api/reservations?id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h.CancelReservation, http.MethodDelete, "/api/reservations?id=1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already cancelled", errorBody(t, rec))
}
