package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"agro-order-service/internal/controller"
	"agro-order-service/internal/middleware"
	"agro-order-service/internal/service"
	"agro-order-service/internal/telemetry"
)

type Deps struct {
	Auth           service.TokenValidator
	Orders         *controller.OrderController
	Quotations     *controller.QuotationController
	Listings       *controller.ListingController
	Account        *controller.AccountController
	Newsletter     *controller.NewsletterController
	PollRatePerMin int
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(telemetry.ServiceName))
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Rutas públicas
	r.GET("/health", controller.Health)
	r.GET("/listings", d.Listings.Public)
	r.GET("/listings/:id", d.Listings.Get)
	r.POST("/newsletter/subscribe", d.Newsletter.Subscribe)

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(d.Auth))

	// Lo que el cliente consulta en polling va limitado
	polled := middleware.NewRateLimiter(d.PollRatePerMin).Middleware()

	auth.POST("/orders", d.Orders.PlaceOrder)
	auth.GET("/orders", d.Orders.GetMyOrders)
	auth.POST("/orders/read", polled, d.Orders.MarkRead)
	auth.GET("/orders/:orderId", d.Orders.GetOrder)
	auth.GET("/orders/:orderId/latest", d.Orders.GetLatestStatus)
	auth.GET("/orders/:orderId/messages", d.Account.OrderMessages)
	auth.PATCH("/orders/:orderId/status", d.Orders.UpdateStatus)
	auth.POST("/orders/:orderId/confirm-delivery", d.Orders.ConfirmDelivery)

	auth.POST("/quotations", d.Quotations.Create)
	auth.GET("/quotations/received", d.Quotations.Received)
	auth.GET("/quotations/sent", d.Quotations.Sent)
	auth.POST("/quotations/read", polled, d.Quotations.MarkRead)
	auth.GET("/quotations/:id", d.Quotations.Get)
	auth.POST("/quotations/:id/reply", d.Quotations.Reply)
	auth.POST("/quotations/:id/reject", d.Quotations.Reject)

	auth.POST("/listings", d.Listings.Create)
	auth.GET("/listings/mine", d.Listings.Mine)
	auth.POST("/listings/read", polled, d.Listings.MarkRead)
	auth.DELETE("/listings/:id", d.Listings.Delete)

	auth.POST("/messages", d.Account.SendMessage)
	auth.GET("/messages", d.Account.Inbox)
	auth.POST("/messages/read", polled, d.Account.MarkMessagesRead)

	auth.GET("/profile", d.Account.GetProfile)
	auth.PUT("/profile", d.Account.UpdateProfile)
	auth.GET("/notifications/unread", polled, d.Account.UnreadCounts)
	auth.GET("/dashboard", d.Account.GetDashboard)

	// Rutas admin
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", d.Orders.GetAllOrders)
	admin.GET("/orders/status/:status", d.Orders.GetAllOrdersByStatus)
	admin.GET("/orders-with-status", d.Orders.GetAllOrdersWithLatest)
	admin.PATCH("/orders/:orderId/status", d.Orders.AdminUpdateStatus)
	admin.GET("/quotations", d.Quotations.All)
	admin.GET("/listings", d.Listings.ByStatus)
	admin.POST("/listings/:id/review", d.Listings.Review)
	admin.GET("/subscribers", d.Newsletter.Subscribers)
	admin.POST("/newsletters", d.Newsletter.Send)

	return r
}
