package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/procura/backend/internal/config"
	"github.com/procura/backend/internal/db"
	"github.com/procura/backend/internal/http/handlers"
	"github.com/procura/backend/internal/http/middleware"
	"github.com/procura/backend/internal/service"

	_ "github.com/procura/backend/docs"
)

func Router(cfg config.Config, store *db.Store, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store: store,
		Calculator: &service.RatingCalculator{
			Orders:  store,
			Claims:  store,
			Ratings: store,
			Logger:  logger,
		},
		Validator:         validator.New(),
		Logger:            logger,
		AdminKey:          cfg.AdminKey,
		ContractAlertDays: cfg.ContractAlertDays,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/suppliers", h.SuppliersList)
		api.GET("/suppliers/options", h.SupplierOptions)
		api.GET("/suppliers/:id", h.SupplierDetails)
		api.GET("/suppliers/:id/addresses", h.SupplierAddresses)
		api.GET("/orders", h.OrdersList)
		api.GET("/orders/:id", h.OrderDetails)
		api.GET("/equipment", h.EquipmentList)
		api.GET("/equipment/expired-warranties", h.ExpiredWarranties)
		api.GET("/technicians", h.TechniciansList)
		api.GET("/claims", h.ClaimsList)
		api.GET("/claims/:id", h.ClaimDetails)
		api.GET("/interventions", h.InterventionsList)
		api.GET("/interventions/:id", h.InterventionDetails)
		api.GET("/contracts", h.ContractsList)
		api.GET("/contracts/expiring", h.ContractsExpiring)
		api.GET("/contracts/:id", h.ContractDetails)
		api.GET("/ratings", h.RatingsList)
		api.GET("/ratings/:id", h.RatingDetails)
		api.GET("/reports/supplier-spending", h.SupplierSpendingReport)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/suppliers", h.SupplierCreate)
		admin.PUT("/suppliers/:id", h.SupplierUpdate)
		admin.DELETE("/suppliers/:id", h.SupplierDelete)
		admin.POST("/orders", h.OrderCreate)
		admin.PUT("/orders/:id", h.OrderUpdate)
		admin.DELETE("/orders/:id", h.OrderDelete)
		admin.POST("/technicians", h.TechnicianCreate)
		admin.PUT("/technicians/:id", h.TechnicianUpdate)
		admin.DELETE("/technicians/:id", h.TechnicianDelete)
		admin.POST("/claims", h.ClaimCreate)
		admin.PUT("/claims/:id", h.ClaimUpdate)
		admin.DELETE("/claims/:id", h.ClaimDelete)
		admin.POST("/interventions", h.InterventionCreate)
		admin.PUT("/interventions/:id", h.InterventionUpdate)
		admin.DELETE("/interventions/:id", h.InterventionDelete)
		admin.POST("/contracts", h.ContractCreate)
		admin.PUT("/contracts/:id", h.ContractUpdate)
		admin.DELETE("/contracts/:id", h.ContractDelete)
		admin.POST("/ratings", h.RatingCreate)
		admin.PUT("/ratings/:id", h.RatingUpdate)
		admin.DELETE("/ratings/:id", h.RatingDelete)
		admin.POST("/ratings/calculate", h.RatingCalculate)
		admin.POST("/ratings/recalculate-all", h.RatingsRecalculateAll)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
