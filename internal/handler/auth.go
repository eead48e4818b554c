package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/config"
	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
	Log    *slog.Logger
	Now    func() time.Time
	Verify func(hash, plain string) bool
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Log: logger, Now: time.Now, Verify: utils.VerifyPassword}
}

// ----- DTOs -----

type registerReq struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Username     *string `json:"username"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"` // PLAYER | OWNER
	IsCourtOwner bool    `json:"is_court_owner"`
	SkillLevel   string  `json:"skill_level"`
	Location     *string `json:"location"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    *model.User `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// errInvalidCredentials is the single answer for unknown email and wrong
// password alike.
var errInvalidCredentials = echo.Map{"error": "invalid credentials"}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return badRequest(c, "invalid email")
	}
	if len(req.Password) < utils.MinPasswordLength {
		return badRequest(c, utils.ErrPasswordTooShort.Error())
	}
	if len(req.Password) > utils.MaxPasswordLength {
		return badRequest(c, utils.ErrPasswordTooLong.Error())
	}
	skill, ok := model.NormalizeSkillLevel(req.SkillLevel)
	if !ok {
		return badRequest(c, "invalid skill_level")
	}
	role := model.NormalizeRole(req.Role)
	if req.IsCourtOwner {
		role = model.RoleOwner
	}
	u := &model.User{
		Email:      req.Email,
		Username:   trimmedOrNil(req.Username),
		FullName:   strings.TrimSpace(req.FullName),
		Role:       role,
		SkillLevel: skill,
		Location:   trimmedOrNil(req.Location),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost); err != nil {
		return respondError(c, h.Log, err)
	}
	resp, err := h.issue(c, u)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login: verify and return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// same bcrypt work as a wrong password
			h.Verify(utils.DummyHash(h.Cfg.BcryptCost), req.Password)
			return c.JSON(http.StatusUnauthorized, errInvalidCredentials)
		}
		return respondError(c, h.Log, err)
	}
	if !h.Verify(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, errInvalidCredentials)
	}
	resp, err := h.issue(c, u)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return h.invalidRefresh(c, err)
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return respondError(c, h.Log, err)
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return h.invalidRefresh(c, err)
	}
	resp, err := h.issue(c, u)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return h.invalidRefresh(c, err)
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return h.invalidRefresh(c, err)
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.accessTTL(), h.Now())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the refresh token in the body.  Without one, a valid
// bearer token revokes every session of its user.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return h.invalidRefresh(c, err)
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return respondError(c, h.Log, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return badRequest(c, "provide Authorization header or refresh_token")
	}
	claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer "), h.Now())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, claims.UserID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, getUserID(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, u)
}

// issue mints an access token and a stored refresh token for u.
func (h *AuthHandler) issue(c echo.Context, u *model.User) (authResp, error) {
	now := h.Now()
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.accessTTL(), now)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays, now)
	if err != nil {
		return authResp{}, err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    u,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

func (h *AuthHandler) accessTTL() time.Duration {
	return time.Duration(h.Cfg.AccessTTLMin) * time.Minute
}

func (h *AuthHandler) invalidRefresh(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	return respondError(c, h.Log, err)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
