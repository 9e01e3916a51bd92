// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/motorlot/carmarket-backend/internal/config"
	"github.com/motorlot/carmarket-backend/internal/handlers"
	"github.com/motorlot/carmarket-backend/internal/middleware"
	"github.com/motorlot/carmarket-backend/internal/models"
	"github.com/motorlot/carmarket-backend/internal/services"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

func Initialize(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	authzService := services.NewAuthzService(db)
	ledgerService := services.NewLedgerService()
	inventoryService := services.NewInventoryService(db, authzService)

	authService := services.NewAuthService(db, redisClient, cfg)
	accountService := services.NewAccountService(db, ledgerService)
	dealService := services.NewDealService(db, authzService, ledgerService, inventoryService)
	productionService := services.NewProductionService(db, ledgerService, inventoryService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	dealHandler := handlers.NewDealHandler(dealService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, storageService)
	productionHandler := handlers.NewProductionHandler(productionService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

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
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(authService), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		// Account routes
		account := v1.Group("/account")
		account.Use(middleware.AuthRequired(authService))
		{
			account.GET("/profile", accountHandler.GetProfile)
			account.POST("/topup", accountHandler.TopUpBalance)
		}

		// Marketplace browsing
		market := v1.Group("/market")
		market.Use(middleware.AuthRequired(authService))
		{
			market.GET("/wholesale",
				middleware.RoleRequired(models.UserTypeDealershipAdmin),
				inventoryHandler.BrowseWholesale)
			market.GET("/retail",
				middleware.RoleRequired(models.UserTypeCustomer),
				inventoryHandler.BrowseRetail)
		}

		// Deal routes. Accept/reject authorization is per-instance and decided
		// by the deal service, so no role gate here.
		deals := v1.Group("/deals")
		deals.Use(middleware.AuthRequired(authService))
		{
			wholesale := deals.Group("/wholesale")
			{
				wholesale.POST("",
					middleware.RoleRequired(models.UserTypeDealershipAdmin),
					dealHandler.ProposeWholesaleDeal)
				wholesale.GET("/incoming", dealHandler.ListIncomingWholesaleDeals)
				wholesale.GET("/outgoing", dealHandler.ListOutgoingWholesaleDeals)
				wholesale.GET("/:id", dealHandler.GetWholesaleDeal)
				wholesale.POST("/:id/accept", dealHandler.AcceptWholesaleDeal)
				wholesale.POST("/:id/reject", dealHandler.RejectWholesaleDeal)
			}

			retail := deals.Group("/retail")
			{
				retail.POST("",
					middleware.RoleRequired(models.UserTypeCustomer),
					dealHandler.ProposeRetailDeal)
				retail.GET("/incoming", dealHandler.ListIncomingRetailDeals)
				retail.GET("/outgoing", dealHandler.ListOutgoingRetailDeals)
				retail.GET("/:id", dealHandler.GetRetailDeal)
				retail.POST("/:id/accept", dealHandler.AcceptRetailDeal)
				retail.POST("/:id/reject", dealHandler.RejectRetailDeal)
			}
		}

		// Inventory management
		inventory := v1.Group("/inventory")
		inventory.Use(middleware.AuthRequired(authService))
		{
			wholesale := inventory.Group("/wholesale")
			wholesale.Use(middleware.RoleRequired(models.UserTypeManufacturerAdmin))
			{
				wholesale.GET("", inventoryHandler.ListOwnWholesale)
				wholesale.GET("/:id", inventoryHandler.GetWholesaleCar)
				wholesale.PATCH("/:id/price", inventoryHandler.UpdateWholesalePrice)
				wholesale.DELETE("/:id", inventoryHandler.DeleteWholesaleCar)
				wholesale.POST("/:id/photos", middleware.UploadRateLimit(), inventoryHandler.UploadWholesalePhoto)
			}

			retail := inventory.Group("/retail")
			retail.Use(middleware.RoleRequired(models.UserTypeDealershipAdmin))
			{
				retail.GET("", inventoryHandler.ListOwnRetail)
				retail.GET("/:id", inventoryHandler.GetRetailCar)
				retail.PATCH("/:id/price", inventoryHandler.UpdateRetailPrice)
				retail.DELETE("/:id", inventoryHandler.DeleteRetailCar)
				retail.POST("/:id/photos", middleware.UploadRateLimit(), inventoryHandler.UploadRetailPhoto)
			}
		}

		// Manufacturer production routes
		blueprints := v1.Group("/blueprints")
		blueprints.Use(middleware.AuthRequired(authService), middleware.RoleRequired(models.UserTypeManufacturerAdmin))
		{
			blueprints.GET("", productionHandler.ListBlueprints)
			blueprints.POST("", productionHandler.CreateBlueprint)
			blueprints.PUT("/:id", productionHandler.UpdateBlueprint)
			blueprints.DELETE("/:id", productionHandler.DeleteBlueprint)
		}

		orders := v1.Group("/manufacturing-orders")
		orders.Use(middleware.AuthRequired(authService), middleware.RoleRequired(models.UserTypeManufacturerAdmin))
		{
			orders.GET("", productionHandler.ListManufacturingOrders)
			orders.POST("", productionHandler.RunManufacturingOrder)
		}
	}

	return r
}
