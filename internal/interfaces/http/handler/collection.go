package handler

import (
	"context"

	"github.com/adboard/backend/internal/application/billing"
	"github.com/adboard/backend/internal/domain/collection"
	"github.com/gin-gonic/gin"
)

// CollectionService is the slice of the collection application service the handler uses
type CollectionService interface {
	CustomerOverdue(ctx context.Context, customerID string) (*billing.CustomerOverdueResponse, error)
	OverdueSummaries(ctx context.Context) (*billing.OverdueSummariesResponse, error)
	FleetTopOverdue(ctx context.Context, n int) ([]collection.FleetOverdueContract, error)
	ContractStatement(ctx context.Context, contractNumber string) (*billing.ContractStatementResponse, error)
	RecordPayment(ctx context.Context, req billing.RecordPaymentRequest) (*billing.PaymentResponse, error)
	PreviewSchedule(ctx context.Context, contractNumber string, req billing.SchedulePreviewRequest) (*billing.SchedulePreviewResponse, error)
}

// CollectionHandler serves overdue reporting, statements and payments
type CollectionHandler struct {
	BaseHandler
	service CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(service CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

type fleetQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// CustomerOverdue lists one customer's overdue installments.
// GET /customers/:customerID/overdue
func (h *CollectionHandler) CustomerOverdue(c *gin.Context) {
	resp, err := h.service.CustomerOverdue(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// OverdueSummaries rolls overdue installments up per customer.
// GET /collections/overdue
func (h *CollectionHandler) OverdueSummaries(c *gin.Context) {
	resp, err := h.service.OverdueSummaries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FleetTopOverdue lists ended contracts with the largest outstanding balance.
// GET /collections/fleet?limit=10
func (h *CollectionHandler) FleetTopOverdue(c *gin.Context) {
	var q fleetQuery
	if !h.BindQuery(c, &q) {
		return
	}

	rows, err := h.service.FleetTopOverdue(c.Request.Context(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ContractStatement shows payment coverage of each installment.
// GET /contracts/:number/statement
func (h *CollectionHandler) ContractStatement(c *gin.Context) {
	resp, err := h.service.ContractStatement(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment appends a payment to the contract ledger.
// POST /contracts/:number/payments
func (h *CollectionHandler) RecordPayment(c *gin.Context) {
	var req billing.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.ContractNumber = c.Param("number")

	resp, err := h.service.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// PreviewSchedule builds an installment plan without storing it.
// POST /contracts/:number/schedule/preview
func (h *CollectionHandler) PreviewSchedule(c *gin.Context) {
	var req billing.SchedulePreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.PreviewSchedule(c.Request.Context(), c.Param("number"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
