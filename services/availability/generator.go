package availability

import (
	"context"

	"naksha/models"
	"naksha/services/coherence"
	"naksha/utils"
)

// GenerateSlots materializes hourly slots for every active pattern whose
// weekday falls inside [StartDate, EndDate]. Idempotent: rows already
// present are skipped, both via an in-memory existence set loaded once for
// the whole window and via the store's conflict policy.
func (s *DefaultAvailabilityService) GenerateSlots(ctx context.Context, consultantID string, req GenerateRequest) (int64, error) {
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return 0, newError(utils.CodeBadInput, "%v", err)
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return 0, newError(utils.CodeBadInput, "%v", err)
	}
	if end.Before(start) {
		return 0, newError(utils.CodeBadInput, "end date %s before start date %s", req.EndDate, req.StartDate)
	}
	if int(end.Sub(start).Hours()/24) > maxGenerateWindowDays {
		return 0, newError(utils.CodeBadInput, "window exceeds %d days", maxGenerateWindowDays)
	}
	if req.SessionType != "" && !models.ValidSessionType(req.SessionType) {
		return 0, newError(utils.CodeBadInput, "unknown session type %q", req.SessionType)
	}

	patterns, err := s.Patterns.ListByConsultant(ctx, consultantID)
	if err != nil {
		return 0, wrapDB(err)
	}
	if req.SessionType != "" {
		filtered := patterns[:0]
		for _, p := range patterns {
			if p.SessionType == req.SessionType {
				filtered = append(filtered, p)
			}
		}
		patterns = filtered
	}

	groups := make(map[GroupKey][]string)
	for key, set := range hourSets(patterns) {
		groups[key] = setToSorted(set)
	}

	created, err := createGroupHours(ctx, s.Slots, consultantID, req.StartDate, req.EndDate, groups)
	if err != nil {
		return 0, wrapDB(err)
	}

	if created > 0 {
		s.invalidate(ctx, consultantID, coherence.ScopeSlots, models.ChangeSlotsUpdated, req.SessionType)
	}
	return created, nil
}
