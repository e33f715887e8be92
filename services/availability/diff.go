package availability

import (
	"sort"

	"naksha/models"
	"naksha/utils"
)

// GroupKey identifies one diff group: all patterns of a session type on one
// weekday.
type GroupKey struct {
	SessionType string
	DayOfWeek   int
}

// DiffResult lists, per group, the hourly start times that disappeared
// (future unbooked slots to block) and those that appeared (slots to
// generate over the rolling horizon). Slices are sorted and deduplicated so
// replays are stable.
type DiffResult struct {
	ToBlock  map[GroupKey][]string
	ToCreate map[GroupKey][]string
}

// hourSets expands active patterns into the set of hourly "HH:MM" start
// times each (sessionType, dayOfWeek) group covers. Overlapping ranges union
// naturally; sub-hour remainders are discarded per EnumerateHourly.
func hourSets(patterns []models.WeeklyPattern) map[GroupKey]map[string]struct{} {
	sets := make(map[GroupKey]map[string]struct{})
	for _, p := range patterns {
		if !p.IsActive {
			continue
		}
		start, err := utils.ParseHHMM(p.StartTime)
		if err != nil {
			continue
		}
		end, err := utils.ParseHHMM(p.EndTime)
		if err != nil {
			continue
		}
		key := GroupKey{SessionType: p.SessionType, DayOfWeek: p.DayOfWeek}
		set, ok := sets[key]
		if !ok {
			set = make(map[string]struct{})
			sets[key] = set
		}
		for _, hr := range utils.EnumerateHourly(start, end) {
			set[utils.FormatHHMM(hr.Start)] = struct{}{}
		}
	}
	return sets
}

func sortedDiff(a, b map[string]struct{}) []string {
	var out []string
	for hour := range a {
		if _, ok := b[hour]; !ok {
			out = append(out, hour)
		}
	}
	sort.Strings(out)
	return out
}

// Diff compares two pattern sets and derives the slot reconciliation plan.
// A group present only in old blocks all of its hours; a group present only
// in new creates all of its hours.
func Diff(oldPatterns, newPatterns []models.WeeklyPattern) DiffResult {
	oldSets := hourSets(oldPatterns)
	newSets := hourSets(newPatterns)

	res := DiffResult{
		ToBlock:  make(map[GroupKey][]string),
		ToCreate: make(map[GroupKey][]string),
	}

	for key, oldSet := range oldSets {
		removed := sortedDiff(oldSet, newSets[key])
		if len(removed) > 0 {
			res.ToBlock[key] = removed
		}
	}
	for key, newSet := range newSets {
		added := sortedDiff(newSet, oldSets[key])
		if len(added) > 0 {
			res.ToCreate[key] = added
		}
	}
	return res
}
