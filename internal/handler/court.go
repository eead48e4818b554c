package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/model"
)

// maxCourtPage caps the limit query parameter.
const maxCourtPage = 500

// CourtHandler serves court listings.  Reads are public; writes are
// scoped to the owning user.
type CourtHandler struct {
	Courts CourtStore
	Log    *slog.Logger
}

func NewCourtHandler(courts CourtStore, logger *slog.Logger) *CourtHandler {
	return &CourtHandler{Courts: courts, Log: logger}
}

type courtReq struct {
	Name              string   `json:"name"`
	Address           string   `json:"address"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	SurfaceType       string   `json:"surface_type"`
	CourtCount        *int     `json:"court_count"`
	Amenities         *string  `json:"amenities"`
	Description       *string  `json:"description"`
	PricePerHourCents *uint32  `json:"price_per_hour_cents"`
	OperatingHours    *string  `json:"operating_hours"`
	PhotoURL          *string  `json:"photo_url"`
}

// toCourt validates the request and builds the model.  The error string
// is safe to return to the client.
func (r courtReq) toCourt() (*model.Court, string) {
	name := strings.TrimSpace(r.Name)
	addr := strings.TrimSpace(r.Address)
	if name == "" || addr == "" {
		return nil, "name and address required"
	}
	surface := model.SurfaceHardcourt
	if strings.TrimSpace(r.SurfaceType) != "" {
		s, ok := model.NormalizeSurface(r.SurfaceType)
		if !ok {
			return nil, "invalid surface_type"
		}
		surface = s
	}
	count := 1
	if r.CourtCount != nil {
		if *r.CourtCount < 1 {
			return nil, "court_count must be at least 1"
		}
		count = *r.CourtCount
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return nil, "latitude out of range"
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return nil, "longitude out of range"
	}
	return &model.Court{
		Name:              name,
		Address:           addr,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		SurfaceType:       surface,
		CourtCount:        count,
		Amenities:         trimmedOrNil(r.Amenities),
		Description:       trimmedOrNil(r.Description),
		PricePerHourCents: r.PricePerHourCents,
		OperatingHours:    trimmedOrNil(r.OperatingHours),
		PhotoURL:          trimmedOrNil(r.PhotoURL),
	}, ""
}

// List returns courts, optionally filtered by location, with limit/offset
// paging.
func (h *CourtHandler) List(c echo.Context) error {
	f := model.CourtFilter{Location: c.QueryParam("location")}
	var ok bool
	if f.Limit, ok = queryInt(c, "limit", 0, maxCourtPage); !ok {
		return badRequest(c, "invalid limit")
	}
	if f.Offset, ok = queryInt(c, "offset", 0, -1); !ok {
		return badRequest(c, "invalid offset")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	courts, err := h.Courts.List(ctx, f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, courts)
}

func (h *CourtHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	court, err := h.Courts.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, court)
}

// Create lists a court owned by the caller.  Whether the caller needs the
// OWNER role is decided by the route.
func (h *CourtHandler) Create(c echo.Context) error {
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	court, msg := req.toCourt()
	if court == nil {
		return badRequest(c, msg)
	}
	court.OwnerID = getUserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Courts.Create(ctx, court); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, court)
}

// Update replaces the editable fields of a court owned by the caller.
func (h *CourtHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	court, msg := req.toCourt()
	if court == nil {
		return badRequest(c, msg)
	}
	court.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Courts.UpdateByIDAndOwner(ctx, court, getUserID(c)); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, court)
}

// Delete removes a court owned by the caller along with its bookings.
func (h *CourtHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Courts.DeleteByIDAndOwner(ctx, id, getUserID(c)); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// queryInt parses a non-negative integer query parameter.  upper < 0
// means unbounded; values above upper are clamped.
func queryInt(c echo.Context, name string, def, upper int) (int, bool) {
	s := c.QueryParam(name)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	if upper >= 0 && n > upper {
		n = upper
	}
	return n, true
}
