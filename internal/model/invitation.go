package model

import "time"

// InviteStatus is the lifecycle state of a single pilot invitation.
// Moves are monotonic except that SENT -> OPENED is idempotent-safe:
// re-reading an already opened invitation does not regress it.
type InviteStatus string

const (
	InviteSent     InviteStatus = "SENT"     // row inserted, email queued
	InviteOpened   InviteStatus = "OPENED"   // pilot viewed the enquiry
	InviteDeclined InviteStatus = "DECLINED" // pilot declined; terminal
	InviteExpired  InviteStatus = "EXPIRED"  // TTL elapsed; terminal
)

var inviteTransitions = map[InviteStatus][]InviteStatus{
	InviteSent:     {InviteOpened, InviteDeclined, InviteExpired},
	InviteOpened:   {InviteOpened, InviteDeclined, InviteExpired}, // OPENED -> OPENED keeps re-reads legal
	InviteDeclined: {},
	InviteExpired:  {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s InviteStatus) CanTransition(next InviteStatus) bool {
	for _, allowed := range inviteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ResolveInvitationStatus applies the lazy expiry rule in one place.
// Expiry is never swept by a background job; it is derived at read time
// from sent_at + TTL.  Only live invitations (SENT or OPENED) can
// expire -- declined rows keep their status regardless of age.
func ResolveInvitationStatus(status InviteStatus, sentAt time.Time, ttl time.Duration, now time.Time) InviteStatus {
	if status != InviteSent && status != InviteOpened {
		return status
	}
	if now.After(sentAt.Add(ttl)) {
		return InviteExpired
	}
	return status
}

// PilotInvitation joins an enquiry to one pilot for one invite round in
// the `pilot_invitations` table.  The emailed access token is stored
// only as a SHA-256 hash.  invite_round is a per-enquiry counter
// (max+1) so repeat batches coexist without colliding.
//
// Fields:
//  ID          – primary key identifier.
//  EnquiryID   – enquiry this invitation grants access to.
//  PilotID     – invited pilot.
//  InviteRound – per-enquiry batch number, starting at 1.
//  TokenHash   – SHA-256 hex digest of the emailed token.
//  Status      – SENT, OPENED, DECLINED or EXPIRED.
//  SentAt      – when the invitation was created.
//  OpenedAt    – first time the pilot viewed the enquiry (nullable).
type PilotInvitation struct {
	ID          uint64       // pilot_invitations.id
	EnquiryID   uint64       // pilot_invitations.enquiry_id
	PilotID     uint64       // pilot_invitations.pilot_id
	InviteRound uint32       // pilot_invitations.invite_round
	TokenHash   string       // pilot_invitations.token_hash
	Status      InviteStatus // pilot_invitations.status
	SentAt      time.Time    // pilot_invitations.sent_at
	OpenedAt    *time.Time   // pilot_invitations.opened_at (nullable)
}
