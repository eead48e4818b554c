package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/court-booking/internal/booking"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/utils"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{booking.ErrCourtNotFound, http.StatusNotFound},
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{repository.ErrForbidden, http.StatusForbidden},
		{booking.ErrNotParticipant, http.StatusForbidden},
		{booking.ErrNotCourtOwner, http.StatusForbidden},
		{repository.ErrConflict, http.StatusConflict},
		{repository.ErrEmailExists, http.StatusConflict},
		{repository.ErrUsernameExists, http.StatusConflict},
		{booking.ErrSlotTaken, http.StatusConflict},
		{booking.ErrAlreadyCancelled, http.StatusConflict},
		{booking.ErrNotPending, http.StatusConflict},
		{booking.ErrInvalidDuration, http.StatusBadRequest},
		{booking.ErrPendingDisabled, http.StatusBadRequest},
		{booking.ErrDurationTooLong, http.StatusBadRequest},
		{booking.ErrOutOfRange, http.StatusBadRequest},
		{fmt.Errorf("hash password: %w", utils.ErrPasswordTooLong), http.StatusBadRequest},
		{fmt.Errorf("lock court: %w", booking.ErrSlotTaken), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, errorStatus(tc.err))
		})
	}
}

func TestPublicMessageStripsWrapping(t *testing.T) {
	err := errors.Join(repository.ErrConflict, errors.New("Duplicate entry '1-08:00' for key"))
	assert.Equal(t, "conflict", publicMessage(err))
	assert.Equal(t, booking.ErrSlotTaken.Error(), publicMessage(booking.ErrSlotTaken))
}
