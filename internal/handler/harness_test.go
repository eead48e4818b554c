package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/court-booking/internal/booking"
	"github.com/iliyamo/court-booking/internal/booking/bookingtest"
	"github.com/iliyamo/court-booking/internal/config"
	"github.com/iliyamo/court-booking/internal/handler"
	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/observability"
	"github.com/iliyamo/court-booking/internal/repository"
	"github.com/iliyamo/court-booking/internal/router"
	"github.com/iliyamo/court-booking/internal/utils"
)

const testSecret = "test-secret"

type testServer struct {
	e        *echo.Echo
	users    *memUsers
	tokens   *memTokens
	courts   *memCourts
	bookings *bookingtest.MemStore
	auth     *handler.AuthHandler
}

type serverOpts struct {
	policy  router.CourtPolicy
	pending bool
}

func newServer(t *testing.T, opts serverOpts) *testServer {
	t.Helper()
	log := observability.Discard()
	s := &testServer{
		e:        echo.New(),
		users:    newMemUsers(),
		tokens:   &memTokens{rows: map[string]*tokenRow{}},
		bookings: bookingtest.NewMemStore(),
	}
	s.courts = &memCourts{rows: map[uint64]model.Court{}, onCreate: s.bookings.AddCourt}

	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 30, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	svc := booking.NewService(s.bookings, nil, log, booking.Options{PendingEnabled: opts.pending})

	bh := handler.NewBookingHandler(s.bookings, svc, log)
	s.auth = handler.NewAuthHandler(cfg, s.users, s.tokens, log)
	router.RegisterAuth(s.e, s.auth, testSecret)
	router.RegisterCourts(s.e,
		handler.NewCourtHandler(s.courts, log),
		handler.NewAvailabilityHandler(&memAvailability{courts: s.courts}, log),
		bh, testSecret, opts.policy)
	router.RegisterBookings(s.e, bh, testSecret)
	friends := &memFriends{edges: map[[2]uint64]model.Friendship{}}
	router.RegisterSocial(s.e,
		handler.NewFriendHandler(friends, s.users, log),
		handler.NewMessageHandler(&memMessages{}, s.users, log),
		testSecret)
	return s
}

// addUser stores a user directly and returns an access token for it.
func (s *testServer) addUser(t *testing.T, email, role string) (uint64, string) {
	t.Helper()
	u := &model.User{Email: email, FullName: email, Role: role, SkillLevel: model.SkillBeginner}
	require.NoError(t, s.users.Create(context.Background(), u, "password123", bcrypt.MinCost))
	return u.ID, bearer(t, u.ID, role)
}

func bearer(t *testing.T, userID uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, role, time.Hour, time.Now())
	require.NoError(t, err)
	return tok.Token
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

// ----- in-memory stores -----

type memUsers struct {
	mu     sync.Mutex
	byID   map[uint64]model.User
	nextID uint64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, o := range m.byID {
		if o.Email == u.Email {
			return repository.ErrEmailExists
		}
		if u.Username != nil && o.Username != nil && *o.Username == *u.Username {
			return repository.ErrUsernameExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.PasswordHash = hash
	u.CreatedAt = time.Now().UTC()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) Exists(_ context.Context, id uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok, nil
}

type tokenRow struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type memTokens struct {
	mu   sync.Mutex
	rows map[string]*tokenRow
}

func (m *memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[hash] = &tokenRow{userID: userID, exp: exp}
	return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[hash]
	if !ok || r.revoked || time.Now().After(r.exp) {
		return 0, repository.ErrNotFound
	}
	return r.userID, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[hash]; ok {
		r.revoked = true
	}
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.userID == userID {
			r.revoked = true
		}
	}
	return nil
}

type memCourts struct {
	mu       sync.Mutex
	rows     map[uint64]model.Court
	nextID   uint64
	onCreate func(courtID, ownerID uint64)
}

func (m *memCourts) Create(_ context.Context, c *model.Court) error {
	m.mu.Lock()
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.rows[c.ID] = *c
	m.mu.Unlock()
	if m.onCreate != nil {
		m.onCreate(c.ID, c.OwnerID)
	}
	return nil
}

func (m *memCourts) GetByID(_ context.Context, id uint64) (*model.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memCourts) List(_ context.Context, f model.CourtFilter) ([]*model.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Court{}
	for _, c := range m.rows {
		if f.Location != "" && !strings.Contains(strings.ToLower(c.Address), strings.ToLower(f.Location)) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCourts) owned(id, ownerID uint64) error {
	c, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if c.OwnerID != ownerID {
		return repository.ErrForbidden
	}
	return nil
}

func (m *memCourts) UpdateByIDAndOwner(_ context.Context, c *model.Court, ownerID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.owned(c.ID, ownerID); err != nil {
		return err
	}
	c.OwnerID = ownerID
	m.rows[c.ID] = *c
	return nil
}

func (m *memCourts) DeleteByIDAndOwner(_ context.Context, id, ownerID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.owned(id, ownerID); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

type memAvailability struct {
	courts *memCourts
	mu     sync.Mutex
	slots  map[uint64][]model.Availability
}

func (m *memAvailability) ListByCourt(ctx context.Context, courtID uint64) ([]model.Availability, error) {
	if _, err := m.courts.GetByID(ctx, courtID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.Availability{}, m.slots[courtID]...)
	return out, nil
}

func (m *memAvailability) ReplaceForCourt(_ context.Context, courtID, ownerID uint64, slots []model.Availability) error {
	m.courts.mu.Lock()
	err := m.courts.owned(courtID, ownerID)
	m.courts.mu.Unlock()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slots == nil {
		m.slots = map[uint64][]model.Availability{}
	}
	for i := range slots {
		slots[i].ID = uint64(i + 1)
		slots[i].CourtID = courtID
	}
	m.slots[courtID] = append([]model.Availability{}, slots...)
	return nil
}

type memFriends struct {
	mu    sync.Mutex
	edges map[[2]uint64]model.Friendship
	next  uint64
}

func (m *memFriends) Add(_ context.Context, userID, friendID uint64) (*model.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint64{userID, friendID}
	if _, ok := m.edges[key]; ok {
		return nil, repository.ErrConflict
	}
	m.next++
	f := model.Friendship{ID: m.next, UserID: userID, FriendID: friendID, CreatedAt: time.Now().UTC()}
	m.edges[key] = f
	return &f, nil
}

func (m *memFriends) Remove(_ context.Context, userID, friendID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint64{userID, friendID}
	if _, ok := m.edges[key]; !ok {
		return repository.ErrNotFound
	}
	delete(m.edges, key)
	return nil
}

func (m *memFriends) ListFriends(_ context.Context, userID uint64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.User{}
	for k := range m.edges {
		if k[0] == userID {
			out = append(out, model.User{ID: k[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memMessages struct {
	mu   sync.Mutex
	msgs []model.Message
}

func (m *memMessages) Create(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uint64(len(m.msgs) + 1)
	msg.CreatedAt = time.Now().UTC()
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memMessages) Conversation(_ context.Context, a, b uint64) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Message{}
	for _, msg := range m.msgs {
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			out = append(out, msg)
		}
	}
	return out, nil
}
