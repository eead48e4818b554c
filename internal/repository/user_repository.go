package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,full_name,role,skill_level,location,created_at"

// Create hashes password, inserts u and fills its ID and CreatedAt.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, username, password_hash, full_name, role, skill_level, location)
		 VALUES (?,?,?,?,?,?,?)`,
		u.Email, u.Username, hash, u.FullName, u.Role, u.SkillLevel, u.Location)
	if err != nil {
		if isDuplicate(err) {
			return duplicateUserErr(err)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.PasswordHash = hash
	// read back the server-side timestamp
	return r.DB.QueryRowContext(ctx, "SELECT created_at FROM users WHERE id=?", u.ID).Scan(&u.CreatedAt)
}

// duplicateUserErr tells an email clash from a username clash by the key
// name MySQL reports.
func duplicateUserErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && strings.Contains(me.Message, "username") {
		return ErrUsernameExists
	}
	return ErrEmailExists
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// Exists reports whether a user with id is present.
func (r *UserRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Count returns the number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u        model.User
		username sql.NullString
		location sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &username, &u.PasswordHash, &u.FullName, &u.Role, &u.SkillLevel, &location, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	u.Username = nullString(username)
	u.Location = nullString(location)
	return &u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
