package main

import (
	"database/sql"
	"log"

	"feria-storefront/cart"
	"feria-storefront/checkout"
	"feria-storefront/clients"
	"feria-storefront/config"
	"feria-storefront/handlers"
	"feria-storefront/logger"
	"feria-storefront/rabbitmq"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	logg := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})
	logg.Info("starting storefront service", "port", cfg.Port, "event", cfg.Event)

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Cart snapshots are best-effort: without a database the store runs
	// in-memory only.
	var snapshots cart.SnapshotRepo
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		snapshots = cart.NewPostgresSnapshotRepo(db)
		logg.Info("cart snapshot persistence enabled")
	} else {
		logg.Warn("DATABASE_URL not set; carts will not survive restarts")
	}

	channelPool, err := rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize, logg)
	if err != nil {
		log.Fatalf("Failed to create RabbitMQ channel pool: %v", err)
	}
	defer channelPool.Close()
	publisher := rabbitmq.NewPublisher(channelPool, cfg.RabbitMQQueue, logg)

	catalogClient := clients.NewCatalogClient(cfg.CatalogBaseURL)
	ordersClient := clients.NewOrdersClient(cfg.OrdersBaseURL)
	paymentsClient := clients.NewPaymentsClient(cfg.PaymentsBaseURL)
	ticketsClient := clients.NewTicketsClient(cfg.TicketsBaseURL)

	cartStore := cart.NewStore(snapshots, logg)
	checkoutManager := checkout.NewManager(cartStore, ordersClient, paymentsClient, catalogClient, publisher, cfg.Event, logg)

	cartHandler := handlers.NewCartHandler(cartStore, logg)
	catalogHandler := handlers.NewCatalogHandler(catalogClient, cfg.Event, cfg.PageLimit, logg)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutManager, logg)
	ticketHandler := handlers.NewTicketHandler(ticketsClient, cfg.Event, logg)

	router := gin.Default()

	// Cart
	router.POST("/carts", cartHandler.CreateCart)
	router.GET("/carts/:cartId", cartHandler.GetCart)
	router.DELETE("/carts/:cartId", cartHandler.ClearCart)
	router.POST("/carts/:cartId/items", cartHandler.AddItem)
	router.PUT("/carts/:cartId/items/:artworkId", cartHandler.UpdateQuantity)
	router.DELETE("/carts/:cartId/items/:artworkId", cartHandler.RemoveItem)

	// Catalog feed
	router.PUT("/sessions/:sessionId/catalog/filters", catalogHandler.SetFilters)
	router.POST("/sessions/:sessionId/catalog/more", catalogHandler.LoadMore)
	router.GET("/sessions/:sessionId/catalog", catalogHandler.GetCatalog)
	router.GET("/artworks/:artworkId", catalogHandler.GetArtwork)

	// Checkout
	router.GET("/carts/:cartId/checkout", checkoutHandler.GetState)
	router.POST("/carts/:cartId/checkout/address", checkoutHandler.SubmitAddress)
	router.POST("/carts/:cartId/checkout/payment", checkoutHandler.ConfirmPayment)
	router.POST("/carts/:cartId/checkout/step", checkoutHandler.Navigate)

	// Tickets
	router.POST("/tickets/orders", ticketHandler.CreateOrder)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	log.Fatal(router.Run(":" + cfg.Port))
}
