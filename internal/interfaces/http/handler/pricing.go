package handler

import (
	"context"

	"github.com/adboard/backend/internal/application/billing"
	"github.com/adboard/backend/internal/domain/pricing"
	"github.com/gin-gonic/gin"
)

// PricingService is the slice of the pricing application service the handler uses
type PricingService interface {
	Estimate(ctx context.Context, req billing.EstimateRequest) (*billing.EstimateResponse, error)
	Resolve(ctx context.Context, req billing.ResolvePriceRequest) (*billing.ResolvePriceResponse, error)
	UpsertCustomPrice(ctx context.Context, req billing.UpsertCustomPriceRequest) (*pricing.Entry, error)
}

// PricingHandler serves price estimates and custom price maintenance
type PricingHandler struct {
	BaseHandler
	service PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(service PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// Estimate prices a draft selection or a stored contract.
// POST /pricing/estimate
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req billing.EstimateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Estimate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Resolve looks up a single unit price.
// GET /pricing/resolve?size=12x4&level=A&duration=3&mode=months
func (h *PricingHandler) Resolve(c *gin.Context) {
	var req billing.ResolvePriceRequest
	if !h.BindQuery(c, &req) {
		return
	}

	resp, err := h.service.Resolve(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpsertCustomPrice stores a custom price row and invalidates the cached tables.
// PUT /pricing/custom
func (h *PricingHandler) UpsertCustomPrice(c *gin.Context) {
	var req billing.UpsertCustomPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.UpsertCustomPrice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
