package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/validate"
)

func roster(ids ...uint64) []model.Pilot {
	out := make([]model.Pilot, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Pilot{ID: id, IsActive: true})
	}
	return out
}

func candidateIDs(pilots []model.Pilot) []uint64 {
	ids := make([]uint64, 0, len(pilots))
	for _, p := range pilots {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestBuildCandidatesDefaultIsEveryone(t *testing.T) {
	got := buildCandidates(roster(1, 2, 3), &validate.InviteSelection{})
	assert.Equal(t, []uint64{1, 2, 3}, candidateIDs(got))
}

func TestBuildCandidatesExclude(t *testing.T) {
	got := buildCandidates(roster(1, 2, 3), &validate.InviteSelection{Exclude: []uint64{2}})
	assert.Equal(t, []uint64{1, 3}, candidateIDs(got))
}

func TestBuildCandidatesIncludeWinsOverExclude(t *testing.T) {
	got := buildCandidates(roster(1, 2, 3), &validate.InviteSelection{
		Include: []uint64{2},
		Exclude: []uint64{2, 3},
	})
	assert.Equal(t, []uint64{1, 2}, candidateIDs(got))
}

func TestBuildCandidatesUnknownIncludeIgnored(t *testing.T) {
	// 99 is not on the active roster; including it must not invent a row.
	got := buildCandidates(roster(1, 2), &validate.InviteSelection{Include: []uint64{99}})
	assert.Equal(t, []uint64{1, 2}, candidateIDs(got))
}

func TestBuildCandidatesCanBeEmpty(t *testing.T) {
	got := buildCandidates(roster(1, 2), &validate.InviteSelection{Exclude: []uint64{1, 2}})
	assert.Empty(t, got)

	got = buildCandidates(nil, &validate.InviteSelection{})
	assert.Empty(t, got)
}
