package model

import "time"

// Role names the single role attached to an identity.  Exactly one of
// ADMIN or DRONE_PILOT is assigned at creation time and never changes;
// there is no role migration path in this design.
type Role string

const (
	RoleAdmin      Role = "ADMIN"       // back office staff
	RoleDronePilot Role = "DRONE_PILOT" // approved pilot with a profile
)

// Valid reports whether r is one of the known role names.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleDronePilot }

// Identity represents a login principal as stored in the `identities`
// table.  An identity links a unique email to exactly one role and a
// back-reference to either an admin or a pilot record, never both.
// Admin identities are pre-seeded; pilot identities are created when an
// application is approved.
//
// Fields:
//  ID          – primary key identifier.
//  Email       – unique, lowercased email address.
//  Role        – ADMIN or DRONE_PILOT.
//  AdminID     – back-reference for ADMIN identities (nullable).
//  PilotID     – back-reference for DRONE_PILOT identities (nullable).
//  LastLoginAt – stamped on magic-link redemption for admins (nullable).
//  CreatedAt   – timestamp of creation.
type Identity struct {
	ID          uint64     // identities.id
	Email       string     // identities.email
	Role        Role       // identities.role
	AdminID     *uint64    // identities.admin_id (nullable)
	PilotID     *uint64    // identities.pilot_id (nullable)
	LastLoginAt *time.Time // identities.last_login_at (nullable)
	CreatedAt   time.Time  // identities.created_at
}

// MagicLink models a one-time login credential in the `magic_links`
// table.  Only the SHA-256 hash of the emailed token is stored.  A link
// authenticates at most once: used or expired links are rejected.
//
// Fields:
//  ID         – primary key identifier.
//  IdentityID – identity the link logs in.
//  TokenHash  – SHA-256 hex digest of the raw token.
//  ExpiresAt  – expiry timestamp (15 minutes after issuance).
//  UsedAt     – when the link was redeemed (null while unused).
//  CreatedAt  – timestamp of creation.
type MagicLink struct {
	ID         uint64     // magic_links.id
	IdentityID uint64     // magic_links.identity_id
	TokenHash  string     // magic_links.token_hash
	ExpiresAt  time.Time  // magic_links.expires_at
	UsedAt     *time.Time // magic_links.used_at (nullable)
	CreatedAt  time.Time  // magic_links.created_at
}

// Session models an entry in the `sessions` table.  The raw session
// token lives solely in the hdp_session cookie; only its hash is
// persisted.  A session dies by explicit revocation or expiry.
//
// Fields:
//  ID         – primary key identifier.
//  IdentityID – owner of the session.
//  TokenHash  – SHA-256 hex digest of the cookie token.
//  ExpiresAt  – expiration timestamp (7 days after creation).
//  RevokedAt  – when the session was revoked by logout (nullable).
//  LastSeenAt – best-effort activity stamp (nullable).
//  CreatedAt  – timestamp of creation.
type Session struct {
	ID         uint64     // sessions.id
	IdentityID uint64     // sessions.identity_id
	TokenHash  string     // sessions.token_hash
	ExpiresAt  time.Time  // sessions.expires_at
	RevokedAt  *time.Time // sessions.revoked_at (nullable)
	LastSeenAt *time.Time // sessions.last_seen_at (nullable)
	CreatedAt  time.Time  // sessions.created_at
}
