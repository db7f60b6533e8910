package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johniman211/payssd/internal/handlers"
	"github.com/johniman211/payssd/internal/interfaces"
	"github.com/johniman211/payssd/internal/middleware"
	"github.com/johniman211/payssd/internal/telemetry"
)

type Handlers struct {
	Payments  *handlers.PaymentHandler
	Notify    *handlers.NotifyHandler
	Merchants *handlers.MerchantHandler
	Admin     *handlers.AdminHandler
	Webhooks  *handlers.WebhookHandler
}

func NewRouter(h Handlers, apiKeys interfaces.APIKeyRepository, jwtSecret string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "payssd-gateway"})
	})

	v1 := r.Group("/v1")
	{
		// Public checkout surface
		v1.POST("/payments/initiate", h.Payments.InitiatePayment)
		v1.GET("/payments/:id", h.Payments.GetPayment)
		v1.POST("/merchants/register", h.Merchants.Register)
		v1.POST("/notifications", h.Notify.Publish)
		v1.POST("/webhooks/processor", h.Webhooks.HandleProcessorWebhook)

		// Merchant dashboard, API-key authenticated
		merchant := v1.Group("/merchant", middleware.APIKeyAuth(apiKeys))
		{
			merchant.GET("/profile", h.Merchants.Profile)
			merchant.GET("/payments", h.Payments.ListMerchantPayments)
			merchant.POST("/payouts", h.Merchants.RequestPayout)
			merchant.GET("/notifications", h.Notify.List)
			merchant.POST("/notifications/:id/read", h.Notify.MarkRead)
			merchant.DELETE("/notifications/:id", h.Notify.Delete)
		}

		// Admin console
		v1.POST("/admin/login", h.Admin.Login)
		admin := v1.Group("/admin", middleware.AdminAuth(jwtSecret))
		{
			admin.GET("/merchants", h.Admin.ListMerchants)
			admin.POST("/merchants/:id/kyc", h.Admin.DecideKYC)
			admin.GET("/payouts", h.Admin.ListPendingPayouts)
			admin.POST("/payouts/:id/decision", h.Admin.DecidePayout)
		}
	}

	return r
}
