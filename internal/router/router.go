// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/config"
	"github.com/authentiq/authentiq-backend/internal/handlers"
	"github.com/authentiq/authentiq-backend/internal/middleware"
	"github.com/authentiq/authentiq-backend/internal/services"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	minterService := services.NewMinterService()
	unitService := services.NewUnitService(db, minterService)
	ownershipService := services.NewOwnershipService(db)
	catalogService := services.NewCatalogService(db, ownershipService)
	productService := services.NewProductService(db, ownershipService, unitService, catalogService)
	orderService := services.NewOrderService(db, catalogService, minterService)
	verificationService := services.NewVerificationService(unitService)
	categoryService := services.NewCategoryService(db)
	reviewService := services.NewReviewService(db, cfg)
	paymentService := services.NewPaymentService(db, cfg, orderService)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Storage service unavailable, uploads disabled")
	}

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService, catalogService, storageService)
	orderHandler := handlers.NewOrderHandler(orderService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.ListProducts)
			products.GET("/mine", middleware.AuthRequired(), productHandler.ListOwnProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.POST("", middleware.AuthRequired(), productHandler.CreateProduct)
			products.DELETE("/:id", middleware.AuthRequired(), productHandler.DeleteProduct)
			products.POST("/upload", middleware.AuthRequired(), middleware.UploadRateLimit(), productHandler.UploadImage)

			products.GET("/:id/reviews", reviewHandler.ListReviews)
			products.POST("/:id/reviews", middleware.AuthRequired(), reviewHandler.CreateReview)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("", orderHandler.CreateOrder)
			orders.PATCH("/:id/status", middleware.SellerRequired(), orderHandler.UpdateStatus)

			orders.POST("/:id/payment-intent", paymentHandler.CreatePaymentIntent)
			orders.POST("/:id/payment-confirm", paymentHandler.ConfirmPayment)
		}

		// Verification routes, open to anyone holding a scanned code
		verify := v1.Group("/verify")
		verify.Use(middleware.ScanRateLimit())
		{
			verify.GET("/:token", verificationHandler.Verify)
			verify.POST("/:token/use", verificationHandler.MarkUsed)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/tree", categoryHandler.CategoryTree)
			categories.POST("", middleware.AuthRequired(), middleware.SellerRequired(), categoryHandler.CreateCategory)
		}
	}

	return r
}
