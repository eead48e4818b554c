package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/court-booking/internal/model"
)

// AvailabilityRepo stores the weekly opening windows of courts.
type AvailabilityRepo struct {
	db *sql.DB
}

func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// ListByCourt returns the windows of a court ordered by day and start.
// ErrNotFound is returned when the court itself does not exist.
func (r *AvailabilityRepo) ListByCourt(ctx context.Context, courtID uint64) ([]model.Availability, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM courts WHERE id = ?", courtID).Scan(&one); err != nil {
		return nil, notFound(err)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, court_id, day_of_week, start_time, end_time, is_available
		FROM court_availability WHERE court_id = ? ORDER BY day_of_week, start_time`, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Availability{}
	for rows.Next() {
		var a model.Availability
		if err := rows.Scan(&a.ID, &a.CourtID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReplaceForCourt swaps the full set of windows for a court owned by
// ownerID.  Inserted rows get their IDs filled in.
func (r *AvailabilityRepo) ReplaceForCourt(ctx context.Context, courtID, ownerID uint64, slots []model.Availability) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if err = checkCourtOwner(ctx, tx, courtID, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM court_availability WHERE court_id = ?", courtID); err != nil {
		return err
	}
	for i := range slots {
		a := &slots[i]
		a.CourtID = courtID
		var res sql.Result
		res, err = tx.ExecContext(ctx,
			`INSERT INTO court_availability (court_id, day_of_week, start_time, end_time, is_available)
			 VALUES (?,?,?,?,?)`,
			courtID, a.DayOfWeek, a.StartTime, a.EndTime, a.IsAvailable)
		if err != nil {
			if isDuplicate(err) {
				err = errors.Join(ErrConflict, err)
			}
			return err
		}
		var id int64
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		a.ID = uint64(id)
	}
	return nil
}
