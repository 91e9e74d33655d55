package handlers

import (
	"github.com/gin-gonic/gin"

	"sals-backend/internal/database"
	"sals-backend/internal/payments"
	"sals-backend/internal/repository"
	"sals-backend/internal/stats"
)

// Deps bundles what the routes need. The collaborator fields are interfaces so
// tests can swap in fakes.
type Deps struct {
	Store      database.Store
	Orders     *repository.Orders
	Customers  *repository.Customers
	Team       *repository.Team
	Discounts  *repository.Discounts
	Stats      *stats.Aggregator
	Analyzer   CVAnalyzer
	Gateway    ChargeGateway
	Reconciler *payments.Reconciler
}

// NewDeps wires the repositories and reconciler on top of one store.
func NewDeps(store database.Store, analyzer CVAnalyzer, gateway ChargeGateway) Deps {
	return Deps{
		Store:      store,
		Orders:     repository.NewOrders(store),
		Customers:  repository.NewCustomers(store),
		Team:       repository.NewTeam(store),
		Discounts:  repository.NewDiscounts(store),
		Stats:      stats.NewAggregator(store),
		Analyzer:   analyzer,
		Gateway:    gateway,
		Reconciler: payments.NewReconciler(store),
	}
}

func RegisterRoutes(api gin.IRouter, d Deps) {
	api.GET("/healthz", Healthz(d.Store))

	api.POST("/orders", CreateOrder(d.Orders))
	api.GET("/orders", ListOrders(d.Orders))
	api.GET("/orders/:id", GetOrder(d.Orders))
	api.PUT("/orders/:id", UpdateOrder(d.Orders))
	api.DELETE("/orders/:id", DeleteOrder(d.Orders))

	api.GET("/customers", ListCustomers(d.Customers))

	api.GET("/team", ListTeam(d.Team))
	api.POST("/team", CreateTeamMember(d.Team))
	api.PUT("/team/:id", UpdateTeamMember(d.Team))
	api.DELETE("/team/:id", DeleteTeamMember(d.Team))

	api.GET("/discounts", ListDiscounts(d.Discounts))
	api.POST("/discounts", CreateDiscount(d.Discounts))
	api.PUT("/discounts/:id", UpdateDiscount(d.Discounts))
	api.DELETE("/discounts/:id", DeleteDiscount(d.Discounts))

	api.GET("/stats", GetStats(d.Stats))

	api.POST("/analyze-cv", AnalyzeCV(d.Analyzer))

	api.POST("/create-stcpay-payment", CreateSTCPayPayment(d.Gateway))
	api.POST("/verify-stcpay-otp", VerifySTCPayOTP(d.Gateway))
	api.POST("/stcpay-webhook", STCPayWebhook(d.Reconciler))
}
