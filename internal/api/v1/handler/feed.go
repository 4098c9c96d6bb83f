// Package handler holds the gin handlers for the feed endpoints, grounded
// on homepage.go's handler -> service -> response.OK/response.Error shape.
package handler

import (
	"feedcore/internal/api/v1/request"
	"feedcore/internal/api/v1/response"
	"feedcore/internal/core"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	recommendationCore *core.RecommendationCore
}

func NewFeedHandler(recommendationCore *core.RecommendationCore) *FeedHandler {
	return &FeedHandler{recommendationCore: recommendationCore}
}

// bindFeedRequest never fails the request: a malformed body is recovered
// locally as an empty request, per the InputError taxonomy entry.
func bindFeedRequest(c *gin.Context) request.FeedRequest {
	var req request.FeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = request.FeedRequest{}
	}
	return req
}

// Total serves POST {API_PATH}/total: the mixed 24-item feed.
func (h *FeedHandler) Total(c *gin.Context) {
	req := bindFeedRequest(c)

	result, err := h.recommendationCore.Feed(c.Request.Context(), req.UserID, req.ExcludedIDSet(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, ids := response.FeedItemsFromEntries(result.Snapshot, result.Entries)
	response.OK(c, response.NewTotalResponse(ids, items))
}

// Discover serves POST {API_PATH}/discover: the same 24-slot assembly with
// flow slots left unfilled.
func (h *FeedHandler) Discover(c *gin.Context) {
	req := bindFeedRequest(c)

	result, err := h.recommendationCore.Discover(c.Request.Context(), req.UserID, req.ExcludedIDSet(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, ids := response.FeedItemsFromEntries(result.Snapshot, result.Entries)
	response.OK(c, response.NewDiscoverResponse(ids, items))
}

// Flow serves POST {API_PATH}/flow: the flows-only feed.
func (h *FeedHandler) Flow(c *gin.Context) {
	req := bindFeedRequest(c)

	result, err := h.recommendationCore.Flows(c.Request.Context(), req.UserID, req.ExcludedIDSet(), req.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, ids := response.FeedItemsFromFlowEntries(result.Snapshot, result.Entries)
	response.OK(c, response.NewFlowResponse(ids, items))
}

// Reload serves POST {API_PATH}/reload: an atomic catalog snapshot rebuild.
func (h *FeedHandler) Reload(c *gin.Context) {
	if err := h.recommendationCore.Reload(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, response.NewReloadResponse())
}

// Health serves GET /health: liveness plus snapshot age and bandit sample
// counts.
func (h *FeedHandler) Health(c *gin.Context) {
	body := response.HealthResponse{
		Status:        "healthy",
		Version:       "2.0",
		BanditSamples: h.recommendationCore.BanditSampleCounts(),
	}
	if age, ok := h.recommendationCore.SnapshotAge(); ok {
		body.SnapshotAgeSeconds = age.Seconds()
	}
	response.OK(c, body)
}
