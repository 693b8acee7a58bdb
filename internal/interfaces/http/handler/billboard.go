package handler

import (
	"context"

	"github.com/adboard/backend/internal/application/billing"
	"github.com/adboard/backend/internal/domain/shared"
	"github.com/adboard/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// AvailabilityService is the slice of the availability application service the handler uses
type AvailabilityService interface {
	Availability(ctx context.Context, billboardID string) (*billing.BillboardAvailability, error)
	ListAvailable(ctx context.Context) ([]billing.BillboardAvailability, error)
	ListBillboards(ctx context.Context, filter shared.Filter) ([]billing.BillboardAvailability, int64, error)
	ContractStatus(ctx context.Context, contractNumber string) (*billing.ContractStatusResponse, error)
}

// BillboardHandler serves billboard inventory and contract status lookups
type BillboardHandler struct {
	BaseHandler
	service AvailabilityService
}

// NewBillboardHandler creates a new BillboardHandler
func NewBillboardHandler(service AvailabilityService) *BillboardHandler {
	return &BillboardHandler{service: service}
}

type billboardListQuery struct {
	dto.ListRequest
	Size         string `form:"size" binding:"max=32"`
	Level        string `form:"level" binding:"max=16"`
	Municipality string `form:"municipality" binding:"max=128"`
}

// List pages through billboards with their availability.
// GET /billboards?size=12x4&level=A&page=1&page_size=20
func (h *BillboardHandler) List(c *gin.Context) {
	q := billboardListQuery{ListRequest: dto.DefaultListRequest()}
	if !h.BindQuery(c, &q) {
		return
	}

	filter := q.ToFilter(map[string]string{
		"size":         q.Size,
		"level":        q.Level,
		"municipality": q.Municipality,
	})
	items, total, err := h.service.ListBillboards(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListAvailable returns every billboard that can be booked today.
// GET /billboards/available
func (h *BillboardHandler) ListAvailable(c *gin.Context) {
	items, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Availability reports whether one billboard is free and why.
// GET /billboards/:id/availability
func (h *BillboardHandler) Availability(c *gin.Context) {
	resp, err := h.service.Availability(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ContractStatus classifies a contract against today.
// GET /contracts/:number/status
func (h *BillboardHandler) ContractStatus(c *gin.Context) {
	resp, err := h.service.ContractStatus(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
