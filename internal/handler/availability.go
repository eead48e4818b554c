package handler

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/model"
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// AvailabilityHandler serves the weekly opening windows of a court.
type AvailabilityHandler struct {
	Slots AvailabilityStore
	Log   *slog.Logger
}

func NewAvailabilityHandler(slots AvailabilityStore, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Slots: slots, Log: logger}
}

type availabilitySlotReq struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable *bool  `json:"is_available"`
}

type availabilityReq struct {
	Slots []availabilitySlotReq `json:"slots"`
}

func (h *AvailabilityHandler) List(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	slots, err := h.Slots.ListByCourt(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, slots)
}

// Replace swaps the whole weekly schedule.  Court owner only.
func (h *AvailabilityHandler) Replace(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req availabilityReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	slots := make([]model.Availability, 0, len(req.Slots))
	for _, s := range req.Slots {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			return badRequest(c, "day_of_week must be 0-6")
		}
		if !clockRe.MatchString(s.StartTime) || !clockRe.MatchString(s.EndTime) {
			return badRequest(c, "times must be HH:MM")
		}
		// zero-padded HH:MM strings order like the times they encode
		if s.StartTime >= s.EndTime {
			return badRequest(c, "start_time must be before end_time")
		}
		avail := true
		if s.IsAvailable != nil {
			avail = *s.IsAvailable
		}
		slots = append(slots, model.Availability{
			DayOfWeek:   s.DayOfWeek,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			IsAvailable: avail,
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Slots.ReplaceForCourt(ctx, id, getUserID(c), slots); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, slots)
}
