package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lodgio/rental-booking/internal/config"
	"github.com/lodgio/rental-booking/internal/database"
	"github.com/lodgio/rental-booking/internal/handler"
	"github.com/lodgio/rental-booking/internal/middleware"
	"github.com/lodgio/rental-booking/internal/queue"
	"github.com/lodgio/rental-booking/internal/repository"
	"github.com/lodgio/rental-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	listings := repository.NewListingRepo(db)
	listingTypes := repository.NewListingTypeRepo(db)
	bookings := repository.NewBookingRepo(db)
	declarations := repository.NewDeclarationRepo(db)
	recurrences := repository.NewRecurrenceRepo(db)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	public := handler.NewPublicHandler(listings, listingTypes, bookings, declarations)
	customer := handler.NewCustomerBookingHandler(listings, listingTypes, bookings, declarations, recurrences)
	ownerListings := handler.NewOwnerListingHandler(listings, listingTypes)
	ownerDecls := handler.NewOwnerDeclarationHandler(listings, listingTypes, declarations)
	ownerRecurrences := handler.NewOwnerRecurrenceHandler(listings, listingTypes, recurrences)
	ownerBookings := handler.NewOwnerBookingHandler(bookings)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterPublic(e, public,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	router.RegisterCustomer(e, customer, cfg.JWTSecret)
	router.RegisterOwner(e, ownerListings, ownerDecls, ownerRecurrences, cfg.JWTSecret)
	router.RegisterOwnerBookings(e, ownerBookings, cfg.JWTSecret)

	// Consumer runs its own reconnect loop for the life of the process.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
