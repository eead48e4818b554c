package handler

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/booking"
	"github.com/iliyamo/court-booking/internal/model"
)

// BookingHandler serves bookings.  Writes go through the booking
// lifecycle so the overlap check runs under the court lock.
type BookingHandler struct {
	Bookings  BookingReader
	Lifecycle BookingLifecycle
	Log       *slog.Logger
}

func NewBookingHandler(r BookingReader, l BookingLifecycle, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{Bookings: r, Lifecycle: l, Log: logger}
}

// maxDurationMinutes is the largest minute count a time.Duration can hold.
const maxDurationMinutes = math.MaxInt64 / int64(time.Minute)

type createBookingReq struct {
	CourtID   uint64 `json:"court_id"`
	StartTime string `json:"start_time"` // RFC 3339
	Duration  int    `json:"duration"`   // minutes
}

// Create books a court for the caller.  A clash with a confirmed booking
// is 409.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.CourtID == 0 {
		return badRequest(c, "court_id required")
	}
	if req.Duration <= 0 {
		return badRequest(c, booking.ErrInvalidDuration.Error())
	}
	if int64(req.Duration) > maxDurationMinutes {
		return badRequest(c, booking.ErrDurationTooLong.Error())
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return badRequest(c, "start_time must be RFC 3339")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Lifecycle.Create(ctx, getUserID(c), req.CourtID, start, time.Duration(req.Duration)*time.Minute)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel soft-deletes the caller's booking by moving it to cancelled.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Lifecycle.Cancel(ctx, getUserID(c), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Confirm lets the court owner accept a pending booking.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Lifecycle.Confirm(ctx, getUserID(c), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListByCourt returns a court's bookings, optionally bounded by
// start_date/end_date.  Dates are YYYY-MM-DD (whole UTC days, end
// inclusive) or RFC 3339 instants.
func (h *BookingHandler) ListByCourt(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var f model.BookingFilter
	if s := c.QueryParam("start_date"); s != "" {
		t, _, err := parseDateParam(s)
		if err != nil {
			return badRequest(c, "invalid start_date")
		}
		f.From = t
	}
	if s := c.QueryParam("end_date"); s != "" {
		t, dateOnly, err := parseDateParam(s)
		if err != nil {
			return badRequest(c, "invalid end_date")
		}
		if dateOnly {
			t = t.Add(24 * time.Hour)
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return badRequest(c, "end_date before start_date")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Bookings.ListByCourt(ctx, id, f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Mine returns the caller's bookings with court details.
func (h *BookingHandler) Mine(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Bookings.ListByUser(ctx, getUserID(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func parseDateParam(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t.UTC(), false, err
}
