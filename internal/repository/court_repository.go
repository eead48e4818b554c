package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/court-booking/internal/model"
)

// DefaultCourtLimit caps a court listing when the caller gives no limit.
const DefaultCourtLimit = 100

// CourtRepo encapsulates all database queries related to courts.
type CourtRepo struct {
	db *sql.DB
}

func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

const courtColumns = `id, owner_id, name, address, latitude, longitude, surface_type, court_count,
	amenities, description, price_per_hour_cents, operating_hours, photo_url, created_at, updated_at`

// Create inserts a court.  On success ID and the timestamps are populated
// by a follow-up SELECT.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	const qInsert = `INSERT INTO courts
		(owner_id, name, address, latitude, longitude, surface_type, court_count,
		 amenities, description, price_per_hour_cents, operating_hours, photo_url)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		c.OwnerID, c.Name, c.Address, c.Latitude, c.Longitude, c.SurfaceType, c.CourtCount,
		c.Amenities, c.Description, c.PricePerHourCents, c.OperatingHours, c.PhotoURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM courts WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a court regardless of owner.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*model.Court, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+courtColumns+" FROM courts WHERE id = ?", id)
	c, err := scanCourt(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// List returns courts ordered by id.  A non-empty Location filters on a
// case-insensitive substring of the address.
func (r *CourtRepo) List(ctx context.Context, f model.CourtFilter) ([]*model.Court, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultCourtLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	q := "SELECT " + courtColumns + " FROM courts"
	args := []any{}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q += " WHERE LOWER(address) LIKE ?"
		args = append(args, "%"+escapeLike(strings.ToLower(loc))+"%")
	}
	q += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Court{}
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOwner overwrites the editable fields of a court.  It returns
// ErrNotFound when the court is missing and ErrForbidden when another user
// owns it.
func (r *CourtRepo) UpdateByIDAndOwner(ctx context.Context, c *model.Court, ownerID uint64) (err error) {
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

	if err = checkCourtOwner(ctx, tx, c.ID, ownerID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE courts
		SET name = ?, address = ?, latitude = ?, longitude = ?, surface_type = ?, court_count = ?,
		    amenities = ?, description = ?, price_per_hour_cents = ?, operating_hours = ?, photo_url = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.Name, c.Address, c.Latitude, c.Longitude, c.SurfaceType, c.CourtCount,
		c.Amenities, c.Description, c.PricePerHourCents, c.OperatingHours, c.PhotoURL, c.ID)
	if err != nil {
		return err
	}
	c.OwnerID = ownerID
	err = tx.QueryRowContext(ctx, "SELECT created_at, updated_at FROM courts WHERE id = ?", c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return err
}

// DeleteByIDAndOwner removes a court together with its bookings and
// availability rows in one transaction.  ErrNotFound and ErrForbidden as
// for UpdateByIDAndOwner.
func (r *CourtRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (err error) {
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

	if err = checkCourtOwner(ctx, tx, id, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM bookings WHERE court_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM court_availability WHERE court_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM courts WHERE id = ?", id)
	return err
}

// checkCourtOwner locks the court row and compares its owner.
func checkCourtOwner(ctx context.Context, tx *sql.Tx, courtID, ownerID uint64) error {
	var dbOwnerID uint64
	err := tx.QueryRowContext(ctx, "SELECT owner_id FROM courts WHERE id = ? FOR UPDATE", courtID).Scan(&dbOwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourt(s rowScanner) (*model.Court, error) {
	var (
		c               model.Court
		lat, lng        sql.NullFloat64
		amenities, desc sql.NullString
		hours, photo    sql.NullString
		price           sql.NullInt64
	)
	if err := s.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Address, &lat, &lng, &c.SurfaceType, &c.CourtCount,
		&amenities, &desc, &price, &hours, &photo, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if lat.Valid {
		v := lat.Float64
		c.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		c.Longitude = &v
	}
	if price.Valid {
		v := uint32(price.Int64)
		c.PricePerHourCents = &v
	}
	c.Amenities = nullString(amenities)
	c.Description = nullString(desc)
	c.OperatingHours = nullString(hours)
	c.PhotoURL = nullString(photo)
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
