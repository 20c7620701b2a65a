package handler

import (
	"github.com/gin-gonic/gin"

	"attractionhub/internal/service"
)

// SetupRouter 注册全部路由
func SetupRouter(auth *service.AuthService, authHandler *AuthHandler, bookingHandler *BookingHandler,
	catalogHandler *CatalogHandler, approvalHandler *ApprovalHandler) *gin.Engine {
	r := gin.New()
	r.Use(Logger(), Recovery(), CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/update_password", JWTAuth(auth), authHandler.UpdatePassword)
	}

	// 审批链接从邮件点进来，没有平台会话，凭链接里的一次性令牌鉴权
	home := r.Group("/home")
	{
		home.GET("/approve_booking_request", approvalHandler.ApproveBookingRequest)
		home.GET("/reject_booking_request", approvalHandler.RejectBookingRequest)
	}

	api := r.Group("/api/event_packages", JWTAuth(auth))
	{
		api.GET("/get_products", catalogHandler.GetProducts)
		api.GET("/get_product_options/:id", catalogHandler.GetProductOptions)
		api.GET("/get_product_info/:id", catalogHandler.GetProductInfo)
		api.GET("/get_event_dates", catalogHandler.GetAvailableDates)
		api.GET("/get_event_availability", catalogHandler.CheckEventAvailability)
		api.GET("/get_event_unavailabledates", catalogHandler.GetUnavailableDates)
		api.GET("/check_event_changes", catalogHandler.GetProductChanges)
		api.GET("/get_reseller_balance", catalogHandler.GetResellerBalance)

		api.GET("/get_balance", bookingHandler.GetBalance)
		api.GET("/get_transactions", bookingHandler.GetTransactions)

		api.POST("/create_transaction", bookingHandler.CreateTransaction)
		api.POST("/request_booking_approval", bookingHandler.RequestBookingApproval)
		api.GET("/cancel_transaction", bookingHandler.CancelTransaction)
		api.POST("/cancel_transaction", bookingHandler.CancelTransaction)
	}

	return r
}
