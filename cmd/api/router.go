package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitstudio-backend/internal/shared/middleware"
	"fitstudio-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupPOSRoutes(v1, c)
		setupOfferingRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.StaffHandler.Login)
		auth.POST("/refresh", c.StaffHandler.RefreshToken)

		authed := auth.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.GET("/me", c.StaffHandler.GetProfile)
			authed.PUT("/change-password", c.StaffHandler.ChangePassword)
		}
	}
}

// ========================================
// POS ROUTES
// ========================================
// Any authenticated staff member can validate and redeem codes at the
// front desk.
func setupPOSRoutes(v1 *gin.RouterGroup, c *container.Container) {
	discounts := v1.Group("/discounts")
	discounts.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		discounts.POST("/validate", c.DiscountPOSHandler.ValidateDiscount)
		discounts.POST("/redeem", c.DiscountPOSHandler.RedeemDiscount)
	}
}

// ========================================
// OFFERING ROUTES
// ========================================
func setupOfferingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	offerings := v1.Group("/offerings")
	offerings.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		offerings.GET("", c.OfferingHandler.ListOfferings)
		offerings.GET("/:id", c.OfferingHandler.GetOffering)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		discounts := admin.Group("/discounts")
		{
			discounts.POST("", c.DiscountAdminHandler.CreateDiscount)
			discounts.GET("", c.DiscountAdminHandler.ListDiscounts)
			discounts.GET("/stats", c.DiscountAdminHandler.GetStats)
			discounts.GET("/redemptions/export", c.DiscountAdminHandler.ExportRedemptions)
			discounts.GET("/:id", c.DiscountAdminHandler.GetDiscount)
			discounts.PUT("/:id", c.DiscountAdminHandler.UpdateDiscount)
			discounts.POST("/:id/enable", c.DiscountAdminHandler.EnableDiscount)
			discounts.POST("/:id/disable", c.DiscountAdminHandler.DisableDiscount)
			discounts.DELETE("/:id", c.DiscountAdminHandler.DeleteDiscount)
			discounts.GET("/:id/redemptions", c.DiscountAdminHandler.ListRedemptions)
		}

		staff := admin.Group("/staff")
		{
			staff.POST("", c.StaffHandler.CreateStaff)
			staff.GET("", c.StaffHandler.ListStaff)
			staff.PUT("/:id/role", c.StaffHandler.UpdateRole)
			staff.PUT("/:id/status", c.StaffHandler.UpdateStatus)
		}

		offerings := admin.Group("/offerings")
		{
			offerings.POST("", c.OfferingHandler.CreateOffering)
			offerings.PUT("/:id", c.OfferingHandler.UpdateOffering)
			offerings.DELETE("/:id", c.OfferingHandler.DeleteOffering)
			offerings.POST("/:id/images", c.OfferingHandler.AttachImages)
		}
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Redis being down degrades caching only, the API keeps working.
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
