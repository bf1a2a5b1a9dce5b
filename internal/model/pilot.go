package model

import "time"

// PilotTier is the visibility tier of a live pilot profile.  The
// INTEGRATED_OPERATOR tier is earned by confirming a website backlink
// and is one-way: there is no downgrade path back to STANDARD.
type PilotTier string

const (
	TierStandard           PilotTier = "STANDARD"
	TierIntegratedOperator PilotTier = "INTEGRATED_OPERATOR"
)

// Pilot is a public-facing profile in the `pilots` table, promoted from
// an approved application.  The backlink token here is a second,
// independent confirmation flow scoped to the live pilot record and is
// distinct from the application's backlink token.
//
// Fields:
//  ID                  – primary key identifier.
//  Slug                – unique URL slug derived from the pilot's name.
//  Name                – display name.
//  Email               – contact email, lowercased.
//  Phone               – contact phone (optional).
//  Location            – operating base / coverage area.
//  WebsiteURL          – pilot's own website (optional).
//  Tier                – STANDARD or INTEGRATED_OPERATOR.
//  IsActive            – whether the pilot is eligible for invitations.
//  BacklinkTokenHash   – SHA-256 hex digest of the pilot backlink token.
//  BacklinkConfirmedAt – when the backlink was confirmed (nullable).
//  ApplicationID       – application this profile was promoted from.
//  CreatedAt           – creation timestamp.
type Pilot struct {
	ID                  uint64     // pilots.id
	Slug                string     // pilots.slug
	Name                string     // pilots.name
	Email               string     // pilots.email
	Phone               string     // pilots.phone
	Location            string     // pilots.location
	WebsiteURL          string     // pilots.website_url
	Tier                PilotTier  // pilots.tier
	IsActive            bool       // pilots.is_active
	BacklinkTokenHash   string     // pilots.backlink_token_hash
	BacklinkConfirmedAt *time.Time // pilots.backlink_confirmed_at (nullable)
	ApplicationID       uint64     // pilots.application_id
	CreatedAt           time.Time  // pilots.created_at
}
