package router

import (
	"github.com/adboard/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers groups the handlers served by the billing API
type Handlers struct {
	Pricing    *handler.PricingHandler
	Collection *handler.CollectionHandler
	Billboard  *handler.BillboardHandler
	System     *handler.SystemHandler
}

// BillingRoutes returns the route groups of the billing API
func BillingRoutes(h Handlers) []*DomainGroup {
	pricingGroup := NewDomainGroup("pricing", "/pricing").
		POST("/estimate", h.Pricing.Estimate).
		GET("/resolve", h.Pricing.Resolve).
		PUT("/custom", h.Pricing.UpsertCustomPrice)

	collections := NewDomainGroup("collections", "/collections").
		GET("/overdue", h.Collection.OverdueSummaries).
		GET("/fleet", h.Collection.FleetTopOverdue)

	customers := NewDomainGroup("customers", "/customers").
		GET("/:customerID/overdue", h.Collection.CustomerOverdue)

	contracts := NewDomainGroup("contracts", "/contracts").
		GET("/:number/statement", h.Collection.ContractStatement).
		GET("/:number/status", h.Billboard.ContractStatus).
		POST("/:number/payments", h.Collection.RecordPayment).
		POST("/:number/schedule/preview", h.Collection.PreviewSchedule)

	billboards := NewDomainGroup("billboards", "/billboards").
		GET("", h.Billboard.List).
		GET("/available", h.Billboard.ListAvailable).
		GET("/:id/availability", h.Billboard.Availability)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping).
		GET("/strategies", h.System.ListStrategies)

	return []*DomainGroup{pricingGroup, collections, customers, contracts, billboards, system}
}

// RegisterBilling registers the billing API under the router and the
// unversioned health check on the engine
func RegisterBilling(engine *gin.Engine, r *Router, h Handlers) {
	for _, g := range BillingRoutes(h) {
		r.Register(g)
	}
	engine.GET("/health", h.System.Health)
}
