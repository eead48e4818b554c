package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/utils"
)

var userCols = []string{"id", "email", "username", "password_hash", "full_name", "role", "skill_level", "location", "created_at"}

func TestUserCreate(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM users WHERE id=?")).WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	u := &model.User{Email: "  Ann@Example.com ", FullName: "Ann", Role: model.RolePlayer, SkillLevel: model.SkillBeginner}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u, "longenough", bcrypt.MinCost))
	assert.Equal(t, uint64(4), u.ID)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "longenough"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicates(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want error
	}{
		{"email", "Duplicate entry 'a@b.co' for key 'users.uniq_users_email'", ErrEmailExists},
		{"username", "Duplicate entry 'ann' for key 'users.uniq_users_username'", ErrUsernameExists},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
				WillReturnError(&mysql.MySQLError{Number: 1062, Message: tc.msg})

			err := NewUserRepo(db).Create(context.Background(), &model.User{Email: "a@b.co"}, "longenough", bcrypt.MinCost)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(uint64(4), "ann@example.com", nil, "hash", "Ann", "OWNER", "advanced", "Berlin", now))

	u, err := NewUserRepo(db).GetByEmail(context.Background(), "ANN@example.com")
	require.NoError(t, err)
	assert.Nil(t, u.Username)
	require.NotNil(t, u.Location)
	assert.Equal(t, "Berlin", *u.Location)
	assert.True(t, u.IsOwner())
}

func TestUserGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=?")).WillReturnRows(sqlmock.NewRows(userCols))

	_, err := NewUserRepo(db).GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserExists(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE id=?")).WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE id=?")).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewUserRepo(db)
	ok, err := repo.Exists(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenValidateRefresh(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		expires time.Time
		revoked any
		wantErr error
	}{
		{"active", now.Add(time.Hour), nil, nil},
		{"expired", now.Add(-time.Hour), nil, ErrNotFound},
		{"revoked", now.Add(time.Hour), now.Add(-time.Minute), ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewTokenRepo(db)
			repo.Now = func() time.Time { return now }

			mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).WithArgs("h").
				WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
					AddRow(uint64(8), tc.expires, tc.revoked))

			uid, err := repo.ValidateRefresh(context.Background(), "h")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(8), uid)
		})
	}
}
