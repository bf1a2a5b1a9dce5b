package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredronepilots/api/internal/model"
)

func TestMintRoundStampsSentAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ttl := 30 * 24 * time.Hour

	batch, invited, err := mintRound(7, 2, roster(1, 2, 3), now)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	require.Len(t, invited, 3)

	for i, inv := range batch {
		assert.Equal(t, uint64(7), inv.EnquiryID)
		assert.Equal(t, uint32(2), inv.InviteRound)
		assert.Equal(t, model.InviteSent, inv.Status)
		assert.Equal(t, now, inv.SentAt, "sent_at anchors the TTL and must be the creation time")
		assert.False(t, inv.SentAt.IsZero())

		// A freshly minted invitation is live under the lazy-expiry
		// rule, both immediately and later within the TTL.
		assert.Equal(t, model.InviteSent,
			model.ResolveInvitationStatus(inv.Status, inv.SentAt, ttl, now))
		assert.Equal(t, model.InviteSent,
			model.ResolveInvitationStatus(inv.Status, inv.SentAt, ttl, now.Add(ttl-time.Hour)))

		assert.Equal(t, batch[i].PilotID, invited[i].pilot.ID, "mail targets line up with rows")
	}
}

func TestMintRoundTokensDistinct(t *testing.T) {
	batch, invited, err := mintRound(1, 1, roster(1, 2, 3, 4), time.Now().UTC())
	require.NoError(t, err)

	hashes := make(map[string]bool)
	raws := make(map[string]bool)
	for _, inv := range batch {
		assert.False(t, hashes[inv.TokenHash], "token hash reused within a round")
		hashes[inv.TokenHash] = true
	}
	for _, ip := range invited {
		assert.False(t, raws[ip.raw], "raw token reused within a round")
		raws[ip.raw] = true
	}
}
