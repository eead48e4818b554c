package model

import (
	"strings"
	"time"
)

// Role values stored in users.role and in the access token "role" claim.
const (
	RolePlayer = "PLAYER"
	RoleOwner  = "OWNER"
)

// Skill levels accepted for users.skill_level.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
	SkillProfessional = "professional"
)

// User represents an application user record as stored in the
// `users` table.  Username and Location are nullable columns.
//
// Fields:
//
//	ID           – primary key identifier.
//	Email        – unique, lower-cased email address.
//	Username     – optional unique handle.
//	PasswordHash – bcrypt hash; never serialized.
//	FullName     – display name.
//	Role         – PLAYER or OWNER.
//	SkillLevel   – beginner, intermediate, advanced or professional.
//	Location     – optional free-form location.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Username     *string   `json:"username,omitempty"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	SkillLevel   string    `json:"skill_level"`
	Location     *string   `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsOwner reports whether the user may list courts under the strict policy.
func (u User) IsOwner() bool { return u.Role == RoleOwner }

// NormalizeRole maps free-form input to a known role, defaulting to PLAYER.
func NormalizeRole(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case RoleOwner:
		return RoleOwner
	default:
		return RolePlayer
	}
}

// NormalizeSkillLevel returns the canonical skill level and whether the input
// was recognised.  An empty input yields beginner.
func NormalizeSkillLevel(s string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return SkillBeginner, true
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillProfessional:
		return v, true
	}
	return "", false
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
