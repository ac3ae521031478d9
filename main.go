package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace-service/config"
	"marketplace-service/controllers"
	"marketplace-service/database"
	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/rabbitmq"
	"marketplace-service/repository"
	"marketplace-service/services"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	userRepo := repository.NewUserRepo(database.DB)
	vendorRepo := repository.NewVendorRepo(database.DB)
	productRepo := repository.NewProductRepo(database.DB)
	cartRepo := repository.NewCartRepo(database.DB)
	orderRepo := repository.NewOrderRepo(database.DB)

	controllers.Init(controllers.Deps{
		Cfg:      cfg,
		Users:    userRepo,
		Vendors:  vendorRepo,
		Products: productRepo,
		Carts:    services.NewCartService(cartRepo, productRepo),
		Orders:   services.NewOrderService(orderRepo, cartRepo, productRepo),
	})

	// The API stays up without a broker; events are then skipped.
	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		defer rmq.Close()
		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}
		controllers.SetRabbitMQ(rmq)
	}

	r := gin.Default()
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/register", controllers.Register)
		api.POST("/auth/login", controllers.Login)

		api.GET("/products", middlewares.OptionalAuth(cfg, userRepo), controllers.GetProducts)
		api.GET("/products/:id", controllers.GetProduct)
	}

	authed := api.Group("")
	authed.Use(middlewares.AuthMiddleware(cfg, userRepo))
	{
		authed.GET("/auth/me", controllers.Me)

		vendorOrAdmin := authed.Group("", middlewares.RequireRoles(models.RoleVendor, models.RoleAdmin))
		{
			vendorOrAdmin.POST("/products", controllers.CreateProduct)
			vendorOrAdmin.PUT("/products/:id", controllers.UpdateProduct)
			vendorOrAdmin.DELETE("/products/:id", controllers.DeleteProduct)
			vendorOrAdmin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		}

		customer := authed.Group("", middlewares.RequireRoles(models.RoleCustomer))
		{
			customer.GET("/cart", controllers.GetCart)
			customer.POST("/cart/add", controllers.AddToCart)
			customer.PUT("/cart/update", controllers.UpdateCartItem)
			customer.DELETE("/cart/remove/:productId", controllers.RemoveFromCart)
			customer.DELETE("/cart/clear", controllers.ClearCart)
			customer.POST("/orders", controllers.CreateOrder)
		}

		authed.GET("/orders", controllers.GetUserOrders)
		authed.GET("/orders/:id", controllers.GetOrderDetails)

		admin := authed.Group("/users", middlewares.RequireRoles(models.RoleAdmin))
		{
			admin.GET("", controllers.GetUsers)
			admin.GET("/:id", controllers.GetUser)
			admin.PUT("/:id", controllers.UpdateUser)
			admin.DELETE("/:id", controllers.DeleteUser)
		}
	}

	log.Printf("Marketplace service starting on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
