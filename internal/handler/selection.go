package handler

import (
	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/validate"
)

// buildCandidates computes the set of pilots to invite: all active
// pilots minus the exclusions, unioned with the explicitly included
// ids.  Exclusions are applied first and includes are added back, so
// include wins when an id appears in both lists.  Only active pilots
// are ever honored: including an inactive or unknown id is silently
// ignored.  Roster order is preserved.
func buildCandidates(active []model.Pilot, sel *validate.InviteSelection) []model.Pilot {
	excluded := make(map[uint64]struct{}, len(sel.Exclude))
	for _, id := range sel.Exclude {
		excluded[id] = struct{}{}
	}
	included := make(map[uint64]struct{}, len(sel.Include))
	for _, id := range sel.Include {
		included[id] = struct{}{}
	}

	out := make([]model.Pilot, 0, len(active))
	for _, p := range active {
		_, ex := excluded[p.ID]
		_, in := included[p.ID]
		if ex && !in {
			continue
		}
		out = append(out, p)
	}
	return out
}
