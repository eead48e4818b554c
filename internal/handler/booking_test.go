package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/court-booking/internal/model"
)

func bookingReq(courtID uint64, start string, minutes int) map[string]any {
	return map[string]any{"court_id": courtID, "start_time": start, "duration": minutes}
}

func TestBookingCreateAndConflicts(t *testing.T) {
	s := newServer(t, serverOpts{})
	_, owner := s.addUser(t, "owner@example.com", model.RoleOwner)
	_, alice := s.addUser(t, "alice@example.com", model.RolePlayer)
	_, bob := s.addUser(t, "bob@example.com", model.RolePlayer)
	court := createCourt(t, s, owner)

	rec := s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, "2030-05-01T10:00:00Z", 60), alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	b := decode[model.Booking](t, rec)
	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.Equal(t, "2030-05-01T11:00:00Z", b.EndTime.Format("2006-01-02T15:04:05Z07:00"))

	tests := []struct {
		name  string
		body  map[string]any
		token string
		want  int
	}{
		{"overlap", bookingReq(court, "2030-05-01T10:30:00Z", 60), bob, http.StatusConflict},
		{"offset overlap", bookingReq(court, "2030-05-01T12:30:00+02:00", 30), bob, http.StatusConflict},
		{"adjacent after", bookingReq(court, "2030-05-01T11:00:00Z", 60), bob, http.StatusCreated},
		{"adjacent before", bookingReq(court, "2030-05-01T09:00:00Z", 60), bob, http.StatusCreated},
		{"zero duration", bookingReq(court, "2030-05-02T10:00:00Z", 0), bob, http.StatusBadRequest},
		{"negative duration", bookingReq(court, "2030-05-02T10:00:00Z", -30), bob, http.StatusBadRequest},
		{"bad start", bookingReq(court, "tomorrow", 60), bob, http.StatusBadRequest},
		{"overflowing duration", bookingReq(court, "2030-05-01T10:00:00Z", 307445735), bob, http.StatusBadRequest},
		{"ends after year 9999", bookingReq(court, "9999-12-31T23:30:00Z", 60), bob, http.StatusBadRequest},
		{"unknown court", bookingReq(999, "2030-05-02T10:00:00Z", 60), bob, http.StatusNotFound},
		{"no token", bookingReq(court, "2030-05-03T10:00:00Z", 60), "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/v1/bookings", tc.body, tc.token)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}

	assert.Len(t, s.bookings.Bookings(), 3)
}

func TestBookingCancel(t *testing.T) {
	s := newServer(t, serverOpts{})
	_, owner := s.addUser(t, "owner@example.com", model.RoleOwner)
	_, alice := s.addUser(t, "alice@example.com", model.RolePlayer)
	_, bob := s.addUser(t, "bob@example.com", model.RolePlayer)
	court := createCourt(t, s, owner)

	rec := s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, "2030-05-01T10:00:00Z", 90), alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/v1/bookings/%d", decode[model.Booking](t, rec).ID)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, nil, bob).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, nil, owner).Code)

	rec = s.do(t, http.MethodDelete, path, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.BookingCancelled, decode[model.Booking](t, rec).Status)

	again := s.do(t, http.MethodDelete, path, nil, alice)
	assert.Equal(t, http.StatusConflict, again.Code)

	got := s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, model.BookingCancelled, decode[model.Booking](t, got).Status)

	rebook := s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, "2030-05-01T10:00:00Z", 90), bob)
	assert.Equal(t, http.StatusCreated, rebook.Code, "cancelled bookings free their slot")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/v1/bookings/999", nil, alice).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/v1/bookings/999", nil, "").Code)
}

func TestBookingListings(t *testing.T) {
	s := newServer(t, serverOpts{})
	_, owner := s.addUser(t, "owner@example.com", model.RoleOwner)
	aliceID, alice := s.addUser(t, "alice@example.com", model.RolePlayer)
	_, bob := s.addUser(t, "bob@example.com", model.RolePlayer)
	court := createCourt(t, s, owner)

	for _, start := range []string{"2030-05-01T10:00:00Z", "2030-05-02T10:00:00Z", "2030-05-03T10:00:00Z"} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, start, 60), alice).Code)
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, "2030-05-04T10:00:00Z", 60), bob).Code)

	base := fmt.Sprintf("/v1/courts/%d/bookings", court)
	all := decode[[]model.Booking](t, s.do(t, http.MethodGet, base, nil, ""))
	assert.Len(t, all, 4)

	window := s.do(t, http.MethodGet, base+"?start_date=2030-05-02&end_date=2030-05-03", nil, "")
	require.Equal(t, http.StatusOK, window.Code)
	assert.Len(t, decode[[]model.Booking](t, window), 2)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, base+"?start_date=May", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, base+"?start_date=2030-05-03&end_date=2030-05-01", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/v1/courts/999/bookings", nil, "").Code)

	mine := s.do(t, http.MethodGet, "/v1/my-bookings", nil, alice)
	require.Equal(t, http.StatusOK, mine.Code)
	list := decode[[]model.BookingDetail](t, mine)
	require.Len(t, list, 3)
	for _, b := range list {
		assert.Equal(t, aliceID, b.UserID)
	}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/v1/my-bookings", nil, "").Code)
}

func TestBookingConfirmDisabled(t *testing.T) {
	s := newServer(t, serverOpts{})
	_, owner := s.addUser(t, "owner@example.com", model.RoleOwner)
	_, alice := s.addUser(t, "alice@example.com", model.RolePlayer)
	court := createCourt(t, s, owner)

	rec := s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, "2030-05-01T10:00:00Z", 60), alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/v1/bookings/%d/confirm", decode[model.Booking](t, rec).ID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, path, nil, owner).Code)
}

func TestBookingPendingFlow(t *testing.T) {
	s := newServer(t, serverOpts{pending: true})
	_, owner := s.addUser(t, "owner@example.com", model.RoleOwner)
	_, alice := s.addUser(t, "alice@example.com", model.RolePlayer)
	_, bob := s.addUser(t, "bob@example.com", model.RolePlayer)
	court := createCourt(t, s, owner)

	first := s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, "2030-05-01T10:00:00Z", 60), alice)
	require.Equal(t, http.StatusCreated, first.Code)
	fb := decode[model.Booking](t, first)
	assert.Equal(t, model.BookingPending, fb.Status)

	second := s.do(t, http.MethodPost, "/v1/bookings", bookingReq(court, "2030-05-01T10:00:00Z", 60), bob)
	require.Equal(t, http.StatusCreated, second.Code, "pending bookings do not hold the slot")
	sb := decode[model.Booking](t, second)

	confirm := func(id uint64, token string) int {
		return s.do(t, http.MethodPost, fmt.Sprintf("/v1/bookings/%d/confirm", id), nil, token).Code
	}
	assert.Equal(t, http.StatusForbidden, confirm(fb.ID, alice))
	assert.Equal(t, http.StatusOK, confirm(fb.ID, owner))
	assert.Equal(t, http.StatusConflict, confirm(fb.ID, owner))
	assert.Equal(t, http.StatusConflict, confirm(sb.ID, owner))
}
