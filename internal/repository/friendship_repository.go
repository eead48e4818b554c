package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/court-booking/internal/model"
)

// FriendshipRepo stores directed friendship edges owned by user_id.
type FriendshipRepo struct {
	db *sql.DB
}

func NewFriendshipRepo(db *sql.DB) *FriendshipRepo { return &FriendshipRepo{db: db} }

// Add creates the edge userID -> friendID.  A duplicate edge yields
// ErrConflict.  Existence of friendID is the caller's concern.
func (r *FriendshipRepo) Add(ctx context.Context, userID, friendID uint64) (*model.Friendship, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO friendships (user_id, friend_id) VALUES (?, ?)", userID, friendID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	f := &model.Friendship{ID: uint64(id), UserID: userID, FriendID: friendID}
	if err := r.db.QueryRowContext(ctx, "SELECT created_at FROM friendships WHERE id = ?", f.ID).Scan(&f.CreatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

// Remove deletes the edge userID -> friendID, or returns ErrNotFound.
func (r *FriendshipRepo) Remove(ctx context.Context, userID, friendID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM friendships WHERE user_id = ? AND friend_id = ?", userID, friendID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFriends returns the users userID has added, ordered by name.
func (r *FriendshipRepo) ListFriends(ctx context.Context, userID uint64) ([]model.User, error) {
	const q = `SELECT u.id, u.email, u.username, u.full_name, u.role, u.skill_level, u.location, u.created_at
		FROM friendships f JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY u.full_name, u.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var (
			u                  model.User
			username, location sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Email, &username, &u.FullName, &u.Role, &u.SkillLevel, &location, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Username = nullString(username)
		u.Location = nullString(location)
		out = append(out, u)
	}
	return out, rows.Err()
}
