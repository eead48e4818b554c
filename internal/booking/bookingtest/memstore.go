// Package bookingtest provides an in-memory booking.Store for tests.  It
// models the MySQL store's guarantees: row locks held until commit and
// writes invisible to other transactions until commit.
package bookingtest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iliyamo/court-booking/internal/booking"
	"github.com/iliyamo/court-booking/internal/model"
)

// MemStore is safe for concurrent use.
type MemStore struct {
	mu       sync.Mutex
	courts   map[uint64]uint64 // court id -> owner id
	bookings map[uint64]model.Booking
	nextID   uint64

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	orderMu   sync.Mutex
	lockOrder []string

	txCount atomic.Int64
	// FailCommit, when set, makes the next commit fail with this error.
	FailCommit error
}

func NewMemStore() *MemStore {
	return &MemStore{
		courts:   make(map[uint64]uint64),
		bookings: make(map[uint64]model.Booking),
		locks:    make(map[string]*sync.Mutex),
	}
}

var _ booking.Store = (*MemStore)(nil)

// AddCourt registers a court owned by ownerID.
func (s *MemStore) AddCourt(courtID, ownerID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courts[courtID] = ownerID
}

// Seed stores b as committed and returns it with an assigned ID.
func (s *MemStore) Seed(b model.Booking) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.bookings[b.ID] = b
	return b
}

// Transactions reports how many times WithTx was entered.
func (s *MemStore) Transactions() int { return int(s.txCount.Load()) }

// Bookings returns committed bookings ordered by id.
func (s *MemStore) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetByID, ListByCourt and ListByUser mirror the read side of the MySQL
// repository.

func (s *MemStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

func (s *MemStore) ListByCourt(_ context.Context, courtID uint64, f model.BookingFilter) ([]model.Booking, error) {
	s.mu.Lock()
	_, ok := s.courts[courtID]
	s.mu.Unlock()
	if !ok {
		return nil, booking.ErrCourtNotFound
	}
	out := []model.Booking{}
	for _, b := range s.Bookings() {
		if b.CourtID != courtID {
			continue
		}
		if !f.From.IsZero() && b.StartTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && b.EndTime.After(f.To) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *MemStore) ListByUser(_ context.Context, userID uint64) ([]model.BookingDetail, error) {
	out := []model.BookingDetail{}
	for _, b := range s.Bookings() {
		if b.UserID == userID {
			out = append(out, model.BookingDetail{Booking: b})
		}
	}
	return out, nil
}

// LockOrder returns the row keys ("court:N", "booking:N") in the order
// transactions asked for them.
func (s *MemStore) LockOrder() []string {
	s.orderMu.Lock()
	defer s.orderMu.Unlock()
	return append([]string(nil), s.lockOrder...)
}

func (s *MemStore) recordLock(key string) {
	s.orderMu.Lock()
	s.lockOrder = append(s.lockOrder, key)
	s.orderMu.Unlock()
}

func (s *MemStore) rowLock(key string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *MemStore) WithTx(ctx context.Context, fn func(q booking.Querier) error) error {
	s.txCount.Add(1)
	tx := &memTx{s: s, held: map[string]*sync.Mutex{}, staged: map[uint64]model.Booking{}}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommit != nil {
		err := s.FailCommit
		s.FailCommit = nil
		return err
	}
	now := time.Now().UTC()
	for id, b := range tx.staged {
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		b.UpdatedAt = now
		s.bookings[id] = b
	}
	return nil
}

type memTx struct {
	s      *MemStore
	held   map[string]*sync.Mutex
	staged map[uint64]model.Booking
}

func (t *memTx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	t.s.recordLock(key)
	l := t.s.rowLock(key)
	l.Lock()
	t.held[key] = l
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
}

// view returns the booking as this transaction sees it.
func (t *memTx) view(id uint64) (model.Booking, bool) {
	if b, ok := t.staged[id]; ok {
		return b, true
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	b, ok := t.s.bookings[id]
	return b, ok
}

func (t *memTx) LockCourt(_ context.Context, courtID uint64) (uint64, error) {
	t.s.mu.Lock()
	owner, ok := t.s.courts[courtID]
	t.s.mu.Unlock()
	if !ok {
		return 0, booking.ErrCourtNotFound
	}
	t.lock(courtKey(courtID))
	return owner, nil
}

func (t *memTx) ConfirmedOverlapping(_ context.Context, courtID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error) {
	seen := map[uint64]model.Booking{}
	t.s.mu.Lock()
	for id, b := range t.s.bookings {
		seen[id] = b
	}
	t.s.mu.Unlock()
	for id, b := range t.staged {
		seen[id] = b
	}

	var out []model.Booking
	for id, b := range seen {
		if id == excludeID || b.CourtID != courtID || b.Status != model.BookingConfirmed {
			continue
		}
		if booking.Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (t *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
	t.s.mu.Lock()
	t.s.nextID++
	b.ID = t.s.nextID
	t.s.mu.Unlock()
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	t.staged[b.ID] = *b
	return nil
}

func (t *memTx) BookingCourt(_ context.Context, id uint64) (uint64, error) {
	b, ok := t.view(id)
	if !ok {
		return 0, booking.ErrBookingNotFound
	}
	return b.CourtID, nil
}

func (t *memTx) BookingForUpdate(_ context.Context, id uint64) (*model.Booking, error) {
	if _, ok := t.view(id); !ok {
		return nil, booking.ErrBookingNotFound
	}
	t.lock(bookingKey(id))
	// re-read after acquiring the lock
	b, ok := t.view(id)
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

func (t *memTx) SetBookingStatus(_ context.Context, id uint64, status string) error {
	b, ok := t.view(id)
	if !ok {
		return booking.ErrBookingNotFound
	}
	b.Status = status
	t.staged[id] = b
	return nil
}

func courtKey(id uint64) string   { return "court:" + strconv.FormatUint(id, 10) }
func bookingKey(id uint64) string { return "booking:" + strconv.FormatUint(id, 10) }
