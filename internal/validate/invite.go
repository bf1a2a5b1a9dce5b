package validate

import "github.com/hiredronepilots/api/internal/apperr"

// InviteSelectionInput is the raw include/exclude pilot selection sent
// with an invite-round request.
type InviteSelectionInput struct {
	IncludePilotIDs []uint64 `json:"include_pilot_ids"`
	ExcludePilotIDs []uint64 `json:"exclude_pilot_ids"`
}

// InviteSelection is the deduplicated, zero-free selection.
type InviteSelection struct {
	Include []uint64
	Exclude []uint64
}

// Selection dedupes both id lists and drops zero ids.  Precedence
// between the two lists is resolved later when the candidate set is
// built: exclusions are applied first and explicit includes are added
// back, so include wins for ids present in both.
func Selection(in InviteSelectionInput) (*InviteSelection, error) {
	include := dedupeIDs(in.IncludePilotIDs)
	exclude := dedupeIDs(in.ExcludePilotIDs)
	if len(in.IncludePilotIDs) > 0 && len(include) == 0 {
		return nil, apperr.Validation("include_pilot_ids contains no valid pilot ids")
	}
	return &InviteSelection{Include: include, Exclude: exclude}, nil
}

// dedupeIDs preserves first-seen order while removing zeros and
// duplicates.
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
