package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnquiryTransitions(t *testing.T) {
	assert.True(t, EnquiryNew.CanTransition(EnquiryAckSent))
	assert.True(t, EnquiryAckSent.CanTransition(EnquiryInvitesSent))
	assert.True(t, EnquiryNew.CanTransition(EnquiryInvitesSent), "ack may be skipped when the mail never went out")
	assert.True(t, EnquiryInvitesSent.CanTransition(EnquiryInvitesSent), "repeat invite rounds")
	assert.True(t, EnquiryInvitesSent.CanTransition(EnquiryClosed))

	assert.False(t, EnquiryInvitesSent.CanTransition(EnquiryNew))
	assert.False(t, EnquiryInvitesSent.CanTransition(EnquiryAckSent))
	assert.False(t, EnquiryClosed.CanTransition(EnquiryInvitesSent), "CLOSED is terminal")
	assert.False(t, EnquiryClosed.CanTransition(EnquiryClosed))
}

func TestInviteTransitions(t *testing.T) {
	assert.True(t, InviteSent.CanTransition(InviteOpened))
	assert.True(t, InviteOpened.CanTransition(InviteOpened), "re-reading an opened invitation is legal")
	assert.True(t, InviteOpened.CanTransition(InviteDeclined))
	assert.True(t, InviteSent.CanTransition(InviteExpired))

	assert.False(t, InviteDeclined.CanTransition(InviteOpened))
	assert.False(t, InviteExpired.CanTransition(InviteOpened))
	assert.False(t, InviteOpened.CanTransition(InviteSent))
}

func TestApplicationTransitions(t *testing.T) {
	assert.True(t, ApplicationSubmitted.CanTransition(ApplicationUnderReview))
	assert.True(t, ApplicationSubmitted.CanTransition(ApplicationApproved))
	assert.True(t, ApplicationNeedsInfo.CanTransition(ApplicationUnderReview), "needs-info comes back for review")
	assert.True(t, ApplicationApproved.CanTransition(ApplicationApproved), "re-approval is idempotent")

	assert.False(t, ApplicationRejected.CanTransition(ApplicationApproved))
	assert.False(t, ApplicationApproved.CanTransition(ApplicationRejected))
}

func TestResolveInvitationStatus(t *testing.T) {
	ttl := 30 * 24 * time.Hour
	sent := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	within := sent.Add(ttl - time.Hour)
	past := sent.Add(ttl + time.Hour)

	assert.Equal(t, InviteSent, ResolveInvitationStatus(InviteSent, sent, ttl, within))
	assert.Equal(t, InviteOpened, ResolveInvitationStatus(InviteOpened, sent, ttl, within))

	assert.Equal(t, InviteExpired, ResolveInvitationStatus(InviteSent, sent, ttl, past))
	assert.Equal(t, InviteExpired, ResolveInvitationStatus(InviteOpened, sent, ttl, past))

	// Terminal statuses keep their value regardless of age.
	assert.Equal(t, InviteDeclined, ResolveInvitationStatus(InviteDeclined, sent, ttl, past))
	assert.Equal(t, InviteExpired, ResolveInvitationStatus(InviteExpired, sent, ttl, within))

	// Exactly at the boundary the invitation is still live.
	assert.Equal(t, InviteSent, ResolveInvitationStatus(InviteSent, sent, ttl, sent.Add(ttl)))
}
