package availability

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	slotRepo "naksha/database/repository/slot"
	"naksha/models"
	"naksha/services/coherence"
	"naksha/utils"
)

const (
	defaultListingDays = 14
	defaultPageLimit   = 50
	maxPageLimit       = 200
)

// ListPublicSlots serves the public slot page for a consultant slug,
// cached briefly since this is the dominant read path.
func (s *DefaultAvailabilityService) ListPublicSlots(ctx context.Context, req PublicSlotsRequest) (*PublicSlotsResponse, error) {
	logger := utils.GetLogger()

	if req.Slug == "" {
		return nil, newError(utils.CodeBadInput, "consultant slug is required")
	}
	if req.SessionType != "" && !models.ValidSessionType(req.SessionType) {
		return nil, newError(utils.CodeBadInput, "unknown session type %q", req.SessionType)
	}

	if req.FromDate == "" {
		req.FromDate = s.today()
	}
	if req.ToDate == "" {
		req.ToDate = s.now().AddDate(0, 0, defaultListingDays).Format(utils.DateLayout)
	}
	if _, err := utils.ParseDate(req.FromDate); err != nil {
		return nil, newError(utils.CodeBadInput, "%v", err)
	}
	if _, err := utils.ParseDate(req.ToDate); err != nil {
		return nil, newError(utils.CodeBadInput, "%v", err)
	}
	if req.Limit <= 0 {
		req.Limit = defaultPageLimit
	}
	if req.Limit > maxPageLimit {
		req.Limit = maxPageLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	typeKey := req.SessionType
	if typeKey == "" {
		typeKey = "ALL"
	}
	cacheKey := coherence.SlotsPageKey(req.Slug, typeKey, req.FromDate, req.ToDate, req.Limit, req.Offset)

	if cached, ok, err := s.Cache.Get(ctx, cacheKey); err != nil {
		logger.Warn("slot page cache read failed", zap.String("slug", req.Slug), zap.Error(err))
	} else if ok {
		var resp PublicSlotsResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
		logger.Warn("slot page cache entry corrupt, falling through", zap.String("key", cacheKey))
	}

	consultant, err := s.Consultants.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, wrapDB(err)
	}
	if consultant == nil || !consultant.IsActive {
		return nil, newError(utils.CodeNotFound, "consultant %q not found", req.Slug)
	}

	filter := slotRepo.PublicSlotFilter{
		ConsultantID: consultant.ID,
		SessionType:  req.SessionType,
		FromDate:     req.FromDate,
		ToDate:       req.ToDate,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}

	slots, err := s.Slots.ListPublic(ctx, filter)
	if err != nil {
		return nil, wrapDB(err)
	}
	total, err := s.Slots.CountPublic(ctx, filter)
	if err != nil {
		return nil, wrapDB(err)
	}

	views := make([]SlotView, 0, len(slots))
	byDate := make(map[string][]SlotView)
	for _, slot := range slots {
		v := SlotView{
			ID:          slot.ID,
			SessionType: slot.SessionType,
			Date:        slot.Date,
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
		}
		views = append(views, v)
		byDate[slot.Date] = append(byDate[slot.Date], v)
	}

	resp := &PublicSlotsResponse{
		ConsultantSlug: req.Slug,
		Slots:          views,
		SlotsByDate:    byDate,
		Pagination: Pagination{
			Total:   total,
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: int64(req.Offset+len(views)) < total,
		},
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := s.Cache.Set(ctx, cacheKey, string(data), slotsCacheTTL); err != nil {
			logger.Warn("slot page cache write failed", zap.String("slug", req.Slug), zap.Error(err))
		}
	}
	return resp, nil
}
