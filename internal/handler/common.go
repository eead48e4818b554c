package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/booking"
	"github.com/iliyamo/court-booking/internal/middleware"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/utils"
)

// requestTimeout bounds the store calls of a single request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// getUserID returns the caller set by JWTAuth, or 0 when absent.
func getUserID(c echo.Context) uint64 {
	id, _ := middleware.UserID(c)
	return id
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// errorStatus maps domain sentinels onto HTTP statuses.  Unknown errors
// are 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, booking.ErrCourtNotFound),
		errors.Is(err, booking.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrForbidden),
		errors.Is(err, booking.ErrNotParticipant),
		errors.Is(err, booking.ErrNotCourtOwner):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrUsernameExists),
		errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrAlreadyCancelled),
		errors.Is(err, booking.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, booking.ErrInvalidDuration),
		errors.Is(err, booking.ErrDurationTooLong),
		errors.Is(err, booking.ErrOutOfRange),
		errors.Is(err, booking.ErrPendingDisabled),
		errors.Is(err, utils.ErrPasswordTooShort),
		errors.Is(err, utils.ErrPasswordTooLong):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status.  Internal errors are
// logged and replaced by a generic message.
func respondError(c echo.Context, log *slog.Logger, err error) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": publicMessage(err)})
}

// publicMessage trims wrapped errors down to the sentinel text.
func publicMessage(err error) string {
	for _, s := range []error{
		repository.ErrNotFound, repository.ErrForbidden, repository.ErrConflict,
		repository.ErrEmailExists, repository.ErrUsernameExists,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}
