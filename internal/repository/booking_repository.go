package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/court-booking/internal/booking"
	"github.com/iliyamo/court-booking/internal/model"
)

// BookingRepo is the MySQL booking store.  Writes go through WithTx so the
// booking service can hold the court row lock across check and insert.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

var _ booking.Store = (*BookingRepo)(nil)

const bookingColumns = "id, court_id, user_id, start_time, end_time, status, created_at, updated_at"

// WithTx runs fn in a READ COMMITTED transaction.  Under that level a
// second writer blocked on the court row lock sees the first writer's
// committed booking once it proceeds.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(q booking.Querier) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a booking regardless of owner.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

// ListByCourt returns a court's bookings ordered by start.  Zero filter
// bounds are ignored.  ErrNotFound is returned for an unknown court.
func (r *BookingRepo) ListByCourt(ctx context.Context, courtID uint64, f model.BookingFilter) ([]model.Booking, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM courts WHERE id = ?", courtID).Scan(&one); err != nil {
		return nil, notFound(err)
	}
	q := "SELECT " + bookingColumns + " FROM bookings WHERE court_id = ?"
	args := []any{courtID}
	if !f.From.IsZero() {
		q += " AND start_time >= ?"
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		q += " AND end_time <= ?"
		args = append(args, f.To.UTC())
	}
	q += " ORDER BY start_time, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// ListByUser returns the caller's bookings joined with court name and
// address, newest start first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
	const q = `SELECT b.id, b.court_id, b.user_id, b.start_time, b.end_time, b.status, b.created_at, b.updated_at,
		c.name, c.address
		FROM bookings b JOIN courts c ON c.id = b.court_id
		WHERE b.user_id = ?
		ORDER BY b.start_time DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingDetail{}
	for rows.Next() {
		var d model.BookingDetail
		if err := rows.Scan(&d.ID, &d.CourtID, &d.UserID, &d.StartTime, &d.EndTime, &d.Status,
			&d.CreatedAt, &d.UpdatedAt, &d.CourtName, &d.CourtAddress); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// bookingTx implements booking.Querier on an open transaction.
type bookingTx struct {
	tx *sql.Tx
}

func (q *bookingTx) LockCourt(ctx context.Context, courtID uint64) (uint64, error) {
	var ownerID uint64
	err := q.tx.QueryRowContext(ctx, "SELECT owner_id FROM courts WHERE id = ? FOR UPDATE", courtID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, booking.ErrCourtNotFound
	}
	return ownerID, err
}

func (q *bookingTx) ConfirmedOverlapping(ctx context.Context, courtID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error) {
	rows, err := q.tx.QueryContext(ctx, "SELECT "+bookingColumns+` FROM bookings
		WHERE court_id = ? AND status = ? AND start_time < ? AND end_time > ? AND id <> ?
		ORDER BY start_time`,
		courtID, model.BookingConfirmed, end.UTC(), start.UTC(), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (q *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	res, err := q.tx.ExecContext(ctx,
		"INSERT INTO bookings (court_id, user_id, start_time, end_time, status) VALUES (?,?,?,?,?)",
		b.CourtID, b.UserID, b.StartTime.UTC(), b.EndTime.UTC(), b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return q.tx.QueryRowContext(ctx, "SELECT created_at, updated_at FROM bookings WHERE id = ?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (q *bookingTx) BookingCourt(ctx context.Context, id uint64) (uint64, error) {
	var courtID uint64
	err := q.tx.QueryRowContext(ctx, "SELECT court_id FROM bookings WHERE id = ?", id).Scan(&courtID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, booking.ErrBookingNotFound
	}
	return courtID, err
}

func (q *bookingTx) BookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	row := q.tx.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ? FOR UPDATE", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrBookingNotFound
	}
	return b, err
}

func (q *bookingTx) SetBookingStatus(ctx context.Context, id uint64, status string) error {
	res, err := q.tx.ExecContext(ctx,
		"UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func scanBooking(s rowScanner) (*model.Booking, error) {
	var b model.Booking
	if err := s.Scan(&b.ID, &b.CourtID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
