package availability

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	slotRepo "naksha/database/repository/slot"
	"naksha/models"
	"naksha/services/coherence"
	"naksha/utils"
)

// GetPatterns lists the consultant's patterns, read-through cached.
func (s *DefaultAvailabilityService) GetPatterns(ctx context.Context, consultantID string) ([]models.WeeklyPattern, error) {
	logger := utils.GetLogger()
	key := coherence.PatternsKey(consultantID)

	if cached, ok, err := s.Cache.Get(ctx, key); err != nil {
		logger.Warn("pattern cache read failed", zap.String("consultantID", consultantID), zap.Error(err))
	} else if ok {
		var patterns []models.WeeklyPattern
		if err := json.Unmarshal([]byte(cached), &patterns); err == nil {
			return patterns, nil
		}
		logger.Warn("pattern cache entry corrupt, falling through", zap.String("key", key))
	}

	patterns, err := s.Patterns.ListByConsultant(ctx, consultantID)
	if err != nil {
		return nil, wrapDB(err)
	}

	if data, err := json.Marshal(patterns); err == nil {
		if err := s.Cache.Set(ctx, key, string(data), patternsCacheTTL); err != nil {
			logger.Warn("pattern cache write failed", zap.String("consultantID", consultantID), zap.Error(err))
		}
	}
	return patterns, nil
}

func validateTimes(startTime, endTime string) (int, int, error) {
	start, err := utils.ParseHHMM(startTime)
	if err != nil {
		return 0, 0, newError(utils.CodeBadInput, "%v", err)
	}
	end, err := utils.ParseHHMM(endTime)
	if err != nil {
		return 0, 0, newError(utils.CodeBadInput, "%v", err)
	}
	if end <= start {
		return 0, 0, newError(utils.CodeBadInput, "end time %s must be after start time %s", endTime, startTime)
	}
	return start, end, nil
}

func validateInput(in PatternInput) error {
	if !models.ValidSessionType(in.SessionType) {
		return newError(utils.CodeBadInput, "unknown session type %q", in.SessionType)
	}
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return newError(utils.CodeBadInput, "day of week %d out of range 0..6", in.DayOfWeek)
	}
	_, _, err := validateTimes(in.StartTime, in.EndTime)
	return err
}

func (s *DefaultAvailabilityService) patternFromInput(consultantID string, in PatternInput) models.WeeklyPattern {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	tz := in.Timezone
	if tz == "" {
		tz = "Asia/Kolkata"
	}
	return models.WeeklyPattern{
		ID:           uuid.New().String(),
		ConsultantID: consultantID,
		SessionType:  in.SessionType,
		DayOfWeek:    in.DayOfWeek,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		IsActive:     active,
		Timezone:     tz,
	}
}

// CreatePattern validates, checks overlap against active patterns of the
// same (sessionType, dayOfWeek) and persists one pattern.
func (s *DefaultAvailabilityService) CreatePattern(ctx context.Context, consultantID string, in PatternInput) (*models.WeeklyPattern, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	overlap, err := s.Patterns.HasOverlap(ctx, consultantID, in.SessionType, in.DayOfWeek, in.StartTime, in.EndTime, "")
	if err != nil {
		return nil, wrapDB(err)
	}
	if overlap {
		return nil, newError(utils.CodeOverlap,
			"an active %s pattern on day %d already covers part of %s-%s",
			in.SessionType, in.DayOfWeek, in.StartTime, in.EndTime)
	}

	pattern := s.patternFromInput(consultantID, in)
	if err := s.Patterns.Create(ctx, &pattern); err != nil {
		return nil, wrapDB(err)
	}

	s.invalidate(ctx, consultantID, coherence.ScopeAll, models.ChangePatternsUpdated, in.SessionType)
	return &pattern, nil
}

// UpdatePattern applies a partial delta after verifying ownership.
func (s *DefaultAvailabilityService) UpdatePattern(ctx context.Context, consultantID, patternID string, in PatternUpdate) (*models.WeeklyPattern, error) {
	pattern, err := s.Patterns.GetByID(ctx, patternID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if pattern == nil || pattern.ConsultantID != consultantID {
		return nil, newError(utils.CodeNotFound, "pattern %s not found", patternID)
	}

	if in.SessionType != nil {
		if !models.ValidSessionType(*in.SessionType) {
			return nil, newError(utils.CodeBadInput, "unknown session type %q", *in.SessionType)
		}
		pattern.SessionType = *in.SessionType
	}
	if in.DayOfWeek != nil {
		if *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
			return nil, newError(utils.CodeBadInput, "day of week %d out of range 0..6", *in.DayOfWeek)
		}
		pattern.DayOfWeek = *in.DayOfWeek
	}
	if in.StartTime != nil {
		pattern.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		pattern.EndTime = *in.EndTime
	}
	if in.IsActive != nil {
		pattern.IsActive = *in.IsActive
	}
	if in.Timezone != nil {
		pattern.Timezone = *in.Timezone
	}

	if _, _, err := validateTimes(pattern.StartTime, pattern.EndTime); err != nil {
		return nil, err
	}

	if pattern.IsActive {
		overlap, err := s.Patterns.HasOverlap(ctx, consultantID, pattern.SessionType, pattern.DayOfWeek,
			pattern.StartTime, pattern.EndTime, pattern.ID)
		if err != nil {
			return nil, wrapDB(err)
		}
		if overlap {
			return nil, newError(utils.CodeOverlap,
				"an active %s pattern on day %d already covers part of %s-%s",
				pattern.SessionType, pattern.DayOfWeek, pattern.StartTime, pattern.EndTime)
		}
	}

	if err := s.Patterns.Update(ctx, pattern); err != nil {
		return nil, wrapDB(err)
	}

	s.invalidate(ctx, consultantID, coherence.ScopeAll, models.ChangePatternsUpdated, pattern.SessionType)
	return pattern, nil
}

// DeletePattern removes the pattern and, in the same transaction, blocks
// every future unbooked slot the pattern was responsible for. Booked slots
// are untouched.
func (s *DefaultAvailabilityService) DeletePattern(ctx context.Context, consultantID, patternID string) error {
	pattern, err := s.Patterns.GetByID(ctx, patternID)
	if err != nil {
		return wrapDB(err)
	}
	if pattern == nil || pattern.ConsultantID != consultantID {
		return newError(utils.CodeNotFound, "pattern %s not found", patternID)
	}

	hours := hourSets([]models.WeeklyPattern{*pattern})
	key := GroupKey{SessionType: pattern.SessionType, DayOfWeek: pattern.DayOfWeek}
	today := s.today()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		patterns := s.Patterns.WithTx(tx)
		slots := s.Slots.WithTx(tx)

		if err := patterns.Delete(ctx, patternID); err != nil {
			return err
		}
		_, err := blockGroupHours(ctx, slots, consultantID, today,
			map[GroupKey][]string{key: setToSorted(hours[key])})
		return err
	})
	if err != nil {
		return wrapDB(err)
	}

	s.invalidate(ctx, consultantID, coherence.ScopeAll, models.ChangePatternsUpdated, pattern.SessionType)
	return nil
}

// validateReplacementSet checks every incoming pattern and rejects overlaps
// within the new set itself, since the database check only sees committed
// rows.
func validateReplacementSet(in []PatternInput) error {
	type span struct {
		start, end int
		input      PatternInput
	}
	groups := make(map[GroupKey][]span)
	for _, p := range in {
		if err := validateInput(p); err != nil {
			return err
		}
		active := p.IsActive == nil || *p.IsActive
		if !active {
			continue
		}
		start, end, _ := validateTimes(p.StartTime, p.EndTime)
		key := GroupKey{SessionType: p.SessionType, DayOfWeek: p.DayOfWeek}
		groups[key] = append(groups[key], span{start: start, end: end, input: p})
	}
	for key, spans := range groups {
		sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
		for i := 1; i < len(spans); i++ {
			if spans[i].start < spans[i-1].end {
				return newError(utils.CodeOverlap,
					"%s patterns on day %d overlap: %s-%s and %s-%s",
					key.SessionType, key.DayOfWeek,
					spans[i-1].input.StartTime, spans[i-1].input.EndTime,
					spans[i].input.StartTime, spans[i].input.EndTime)
			}
		}
	}
	return nil
}

// ReplacePatterns is the bulk path: serialize per consultant on the advisory
// lock, swap the pattern set in one transaction, and reconcile slots by
// diff. The database commit is the point of no return; cache invalidation
// and notification happen strictly after it.
func (s *DefaultAvailabilityService) ReplacePatterns(ctx context.Context, consultantID string, in []PatternInput) (*BulkReplaceResult, error) {
	if err := validateReplacementSet(in); err != nil {
		return nil, err
	}

	token, err := s.acquirePatternLock(ctx, consultantID)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Best effort; the TTL reclaims abandoned locks anyway.
		if err := s.Cache.ReleaseLock(ctx, coherence.PatternsLockKey(consultantID), token); err != nil {
			utils.GetLogger().Warn("pattern lock release failed",
				zap.String("consultantID", consultantID), zap.Error(err))
		}
	}()

	newPatterns := make([]models.WeeklyPattern, 0, len(in))
	for _, p := range in {
		newPatterns = append(newPatterns, s.patternFromInput(consultantID, p))
	}

	today := s.today()
	horizonEnd := s.now().AddDate(0, 0, s.horizonDays()).Format(utils.DateLayout)

	var result BulkReplaceResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		patterns := s.Patterns.WithTx(tx)
		slots := s.Slots.WithTx(tx)

		oldPatterns, err := patterns.ListByConsultant(ctx, consultantID)
		if err != nil {
			return err
		}
		if _, err := patterns.DeleteAllForConsultant(ctx, consultantID); err != nil {
			return err
		}
		if err := patterns.CreateBatch(ctx, newPatterns); err != nil {
			return err
		}

		diff := Diff(oldPatterns, newPatterns)

		blocked, err := blockGroupHours(ctx, slots, consultantID, today, diff.ToBlock)
		if err != nil {
			return err
		}

		created, err := createGroupHours(ctx, slots, consultantID, today, horizonEnd, diff.ToCreate)
		if err != nil {
			return err
		}

		result = BulkReplaceResult{
			Patterns:     newPatterns,
			SlotsBlocked: blocked,
			SlotsCreated: created,
		}
		return nil
	})
	if err != nil {
		return nil, wrapDB(err)
	}

	s.invalidate(ctx, consultantID, coherence.ScopeAll, models.ChangePatternsUpdated, "")
	return &result, nil
}

// acquirePatternLock takes the per-consultant advisory lock, reclaiming it
// when the current holder has held it past the stale threshold. The lock is
// an optimistic coordinator: row-level conflicts in the store remain the
// last line of defense.
func (s *DefaultAvailabilityService) acquirePatternLock(ctx context.Context, consultantID string) (string, error) {
	key := coherence.PatternsLockKey(consultantID)

	token, acquired, err := s.Cache.AcquireLock(ctx, key, lockTTL)
	if err != nil {
		utils.GetLogger().Warn("pattern lock acquire failed, proceeding unlocked",
			zap.String("consultantID", consultantID), zap.Error(err))
		return "", nil
	}
	if acquired {
		return token, nil
	}

	age, held, err := s.Cache.LockAge(ctx, key)
	if err != nil {
		return "", newError(utils.CodeBusy, "pattern update already in progress")
	}
	if held && age < lockStaleAfter {
		return "", newError(utils.CodeBusy, "pattern update already in progress")
	}

	// Holder is stale (or vanished between calls): reclaim.
	if err := s.Cache.Delete(ctx, key); err != nil {
		return "", newError(utils.CodeBusy, "pattern update already in progress")
	}
	token, acquired, err = s.Cache.AcquireLock(ctx, key, lockTTL)
	if err != nil || !acquired {
		return "", newError(utils.CodeBusy, "pattern update already in progress")
	}
	return token, nil
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for hour := range set {
		out = append(out, hour)
	}
	sort.Strings(out)
	return out
}

// blockGroupHours blocks every future unbooked slot whose (sessionType,
// weekday, startTime) falls in the given groups.
func blockGroupHours(ctx context.Context, slots slotRepo.SlotRepository, consultantID, fromDate string, groups map[GroupKey][]string) (int64, error) {
	byType := make(map[string]map[int]map[string]struct{})
	for key, hours := range groups {
		if len(hours) == 0 {
			continue
		}
		days, ok := byType[key.SessionType]
		if !ok {
			days = make(map[int]map[string]struct{})
			byType[key.SessionType] = days
		}
		set := make(map[string]struct{}, len(hours))
		for _, h := range hours {
			set[h] = struct{}{}
		}
		days[key.DayOfWeek] = set
	}

	var total int64
	for sessionType, days := range byType {
		candidates, err := slots.ListFutureUnbooked(ctx, consultantID, sessionType, fromDate)
		if err != nil {
			return total, err
		}
		var ids []string
		for _, slot := range candidates {
			weekday, err := utils.Weekday(slot.Date)
			if err != nil {
				continue
			}
			hours, ok := days[weekday]
			if !ok {
				continue
			}
			if _, ok := hours[slot.StartTime]; ok {
				ids = append(ids, slot.ID)
			}
		}
		blocked, err := slots.BlockUnbooked(ctx, consultantID, ids)
		if err != nil {
			return total, err
		}
		total += blocked
	}
	return total, nil
}

// createGroupHours materializes the added hours over [fromDate, toDate],
// skipping rows already present.
func createGroupHours(ctx context.Context, slots slotRepo.SlotRepository, consultantID, fromDate, toDate string, groups map[GroupKey][]string) (int64, error) {
	if len(groups) == 0 {
		return 0, nil
	}

	existing, err := slots.ListExisting(ctx, consultantID, fromDate, toDate)
	if err != nil {
		return 0, err
	}
	present := make(map[string]struct{}, len(existing))
	for _, slot := range existing {
		present[slot.SessionType+"|"+slot.Date+"|"+slot.StartTime] = struct{}{}
	}

	dates, err := utils.EnumerateDates(fromDate, toDate)
	if err != nil {
		return 0, err
	}

	var rows []models.AvailabilitySlot
	for _, date := range dates {
		weekday, err := utils.Weekday(date)
		if err != nil {
			continue
		}
		for key, hours := range groups {
			if key.DayOfWeek != weekday {
				continue
			}
			for _, hour := range hours {
				if _, ok := present[key.SessionType+"|"+date+"|"+hour]; ok {
					continue
				}
				start, err := utils.ParseHHMM(hour)
				if err != nil {
					continue
				}
				rows = append(rows, models.AvailabilitySlot{
					ID:           uuid.New().String(),
					ConsultantID: consultantID,
					SessionType:  key.SessionType,
					Date:         date,
					StartTime:    hour,
					EndTime:      utils.FormatHHMM(start + 60),
				})
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		if rows[i].SessionType != rows[j].SessionType {
			return rows[i].SessionType < rows[j].SessionType
		}
		return rows[i].StartTime < rows[j].StartTime
	})

	return slots.CreateIgnoringDuplicates(ctx, rows)
}

// invalidate hands post-commit cache work to the coherence controller,
// resolving the slug the slot-page keys are namespaced by.
func (s *DefaultAvailabilityService) invalidate(ctx context.Context, consultantID string, scope coherence.Scope, kind, sessionType string) {
	slug := ""
	if consultant, err := s.Consultants.GetByID(ctx, consultantID); err == nil && consultant != nil {
		slug = consultant.Slug
	}
	s.Coherence.AfterCommit(consultantID, slug, scope, kind, sessionType)
}
