// Package seed fills an empty database with demo accounts and courts for
// local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/iliyamo/court-booking/internal/model"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "password123"

const (
	DemoOwnerEmail  = "owner@demo.court"
	DemoPlayerEmail = "player@demo.court"
)

type UserStore interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, u *model.User, password string, cost int) error
}

type CourtStore interface {
	Create(ctx context.Context, c *model.Court) error
}

type AvailabilityStore interface {
	ReplaceForCourt(ctx context.Context, courtID, ownerID uint64, slots []model.Availability) error
}

// Options controls how much is generated.
type Options struct {
	// Players is the number of random player accounts on top of the two
	// fixed demo accounts.
	Players int
	// BcryptCost is passed to the user store; 0 means bcrypt's default.
	BcryptCost int
	// FakerSeed makes generated players reproducible.  0 picks a random seed.
	FakerSeed int64
}

// Result counts what Run created.
type Result struct {
	Skipped bool
	Users   int
	Courts  int
}

type Seeder struct {
	users  UserStore
	courts CourtStore
	slots  AvailabilityStore
	opts   Options
	log    *slog.Logger
	faker  *gofakeit.Faker
}

// New builds a Seeder.  slots may be nil, in which case demo courts get
// no opening hours.
func New(users UserStore, courts CourtStore, slots AvailabilityStore, opts Options, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		users:  users,
		courts: courts,
		slots:  slots,
		opts:   opts,
		log:    logger,
		faker:  gofakeit.New(opts.FakerSeed),
	}
}

// Run seeds only when no user exists yet.  Individual inserts are best
// effort: a failure is logged and the rest continue.  The error is non-nil
// only when the emptiness check itself fails or the demo owner cannot be
// created.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		s.log.Info("seed skipped; database not empty", slog.Int("users", n))
		return Result{Skipped: true}, nil
	}

	var res Result
	owner := &model.User{
		Email:      DemoOwnerEmail,
		FullName:   "Demo Owner",
		Role:       model.RoleOwner,
		SkillLevel: model.SkillAdvanced,
	}
	if err := s.users.Create(ctx, owner, DemoPassword, s.opts.BcryptCost); err != nil {
		return res, fmt.Errorf("create demo owner: %w", err)
	}
	res.Users++

	player := &model.User{
		Email:      DemoPlayerEmail,
		FullName:   "Demo Player",
		Role:       model.RolePlayer,
		SkillLevel: model.SkillIntermediate,
	}
	s.createUser(ctx, player, &res)

	for i := 0; i < s.opts.Players; i++ {
		s.createUser(ctx, s.fakePlayer(i), &res)
	}

	for _, d := range demoCourts {
		c := d.toCourt(owner.ID)
		if err := s.courts.Create(ctx, c); err != nil {
			s.log.Warn("seed court failed", slog.String("name", d.name), slog.String("error", err.Error()))
			continue
		}
		res.Courts++
		if s.slots == nil {
			continue
		}
		if err := s.slots.ReplaceForCourt(ctx, c.ID, owner.ID, weeklyHours()); err != nil {
			s.log.Warn("seed availability failed", slog.Uint64("court_id", c.ID), slog.String("error", err.Error()))
		}
	}

	s.log.Info("seed complete", slog.Int("users", res.Users), slog.Int("courts", res.Courts))
	return res, nil
}

func (s *Seeder) createUser(ctx context.Context, u *model.User, res *Result) {
	if err := s.users.Create(ctx, u, DemoPassword, s.opts.BcryptCost); err != nil {
		s.log.Warn("seed user failed", slog.String("email", u.Email), slog.String("error", err.Error()))
		return
	}
	res.Users++
}

var skillLevels = []string{model.SkillBeginner, model.SkillIntermediate, model.SkillAdvanced, model.SkillProfessional}

// fakePlayer builds a random player.  The index keeps emails unique.
func (s *Seeder) fakePlayer(i int) *model.User {
	first, last := s.faker.FirstName(), s.faker.LastName()
	username := fmt.Sprintf("%s%s%d", alnum(first[:1]), alnum(last), i)
	city := s.faker.City()
	return &model.User{
		Email:      username + "@players.demo.court",
		Username:   &username,
		FullName:   first + " " + last,
		Role:       model.RolePlayer,
		SkillLevel: skillLevels[s.faker.Number(0, len(skillLevels)-1)],
		Location:   &city,
	}
}

// alnum lower-cases s and drops everything but ASCII letters and digits.
func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		}
		return -1
	}, s)
}

// weeklyHours opens every day from 06:00 to 22:00.
func weeklyHours() []model.Availability {
	out := make([]model.Availability, 7)
	for d := range out {
		out[d] = model.Availability{DayOfWeek: d, StartTime: "06:00", EndTime: "22:00", IsAvailable: true}
	}
	return out
}
