package handler

import (
	"context"
	"time"

	"github.com/iliyamo/court-booking/internal/model"
)

// The handler dependencies are narrow interfaces so tests can swap the
// MySQL repositories for in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, u *model.User, password string, cost int) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type CourtStore interface {
	Create(ctx context.Context, c *model.Court) error
	GetByID(ctx context.Context, id uint64) (*model.Court, error)
	List(ctx context.Context, f model.CourtFilter) ([]*model.Court, error)
	UpdateByIDAndOwner(ctx context.Context, c *model.Court, ownerID uint64) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

type AvailabilityStore interface {
	ListByCourt(ctx context.Context, courtID uint64) ([]model.Availability, error)
	ReplaceForCourt(ctx context.Context, courtID, ownerID uint64, slots []model.Availability) error
}

type BookingReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByCourt(ctx context.Context, courtID uint64, f model.BookingFilter) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error)
}

// BookingLifecycle is implemented by *booking.Service.
type BookingLifecycle interface {
	Create(ctx context.Context, userID, courtID uint64, start time.Time, duration time.Duration) (*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID uint64) (*model.Booking, error)
	Confirm(ctx context.Context, ownerID, bookingID uint64) (*model.Booking, error)
}

type FriendStore interface {
	Add(ctx context.Context, userID, friendID uint64) (*model.Friendship, error)
	Remove(ctx context.Context, userID, friendID uint64) error
	ListFriends(ctx context.Context, userID uint64) ([]model.User, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	Conversation(ctx context.Context, a, b uint64) ([]model.Message, error)
}
