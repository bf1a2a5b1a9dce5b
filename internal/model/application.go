package model

import "time"

// ApplicationStatus is the review state of a prospective-pilot
// application: SUBMITTED -> UNDER_REVIEW -> {APPROVED|REJECTED|NEEDS_INFO}.
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationApproved    ApplicationStatus = "APPROVED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationNeedsInfo   ApplicationStatus = "NEEDS_INFO"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationSubmitted:   {ApplicationUnderReview, ApplicationApproved, ApplicationRejected, ApplicationNeedsInfo},
	ApplicationUnderReview: {ApplicationApproved, ApplicationRejected, ApplicationNeedsInfo},
	// NEEDS_INFO applications come back for another review pass.
	ApplicationNeedsInfo: {ApplicationUnderReview, ApplicationApproved, ApplicationRejected},
	// Re-approving an already approved application is legal because
	// approval is idempotent under retries.
	ApplicationApproved: {ApplicationApproved},
	ApplicationRejected: {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PilotApplication is a prospective pilot's intake record in the
// `pilot_applications` table.  It carries its own backlink token family
// (longer TTL than invitations, default 30 days) and, once approved, a
// link to the created pilot so repeated approvals return the same
// pilot instead of duplicating it.
//
// Fields:
//  ID                  – primary key identifier.
//  Name                – applicant name.
//  Email               – applicant email, lowercased.
//  Phone               – applicant phone (optional).
//  Location            – operating base / coverage area.
//  WebsiteURL          – applicant's website, normalized (optional).
//  Experience          – free-text experience summary.
//  Status              – review state.
//  ReviewNote          – optional note from reject/needs-info actions.
//  ReviewedAt          – last admin action timestamp (nullable).
//  BacklinkTokenHash   – SHA-256 hex digest of the confirmation token.
//  BacklinkConfirmedAt – when the backlink was confirmed (nullable).
//  CreatedPilotID      – pilot created on approval (nullable until then).
//  CreatedAt           – creation timestamp.
type PilotApplication struct {
	ID                  uint64            // pilot_applications.id
	Name                string            // pilot_applications.name
	Email               string            // pilot_applications.email
	Phone               string            // pilot_applications.phone
	Location            string            // pilot_applications.location
	WebsiteURL          string            // pilot_applications.website_url
	Experience          string            // pilot_applications.experience
	Status              ApplicationStatus // pilot_applications.status
	ReviewNote          string            // pilot_applications.review_note
	ReviewedAt          *time.Time        // pilot_applications.reviewed_at (nullable)
	BacklinkTokenHash   string            // pilot_applications.backlink_token_hash
	BacklinkConfirmedAt *time.Time        // pilot_applications.backlink_confirmed_at (nullable)
	CreatedPilotID      *uint64           // pilot_applications.created_pilot_id (nullable)
	CreatedAt           time.Time         // pilot_applications.created_at
}
