package main

import (
	"context"

	"staybook/internal/availability"
	bookinghandler "staybook/internal/bookings/handler"
	bookingrepo "staybook/internal/bookings/repository"
	bookingservice "staybook/internal/bookings/service"
	bookingvalidator "staybook/internal/bookings/validator"
	"staybook/internal/events"
	listinghandler "staybook/internal/listings/handler"
	listingrepo "staybook/internal/listings/repository"
	listingservice "staybook/internal/listings/service"
	listingvalidator "staybook/internal/listings/validator"
	searchhandler "staybook/internal/search/handler"
	searchservice "staybook/internal/search/service"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
	kafkamiddleware "staybook/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Reservations service")

	publisher, closePublisher := initPublisher(cfg)
	index := availability.NewIndex()

	listingRepo := listingrepo.NewMongoListingRepository(cfg)
	listingService := listingservice.NewListingService(
		listingRepo,
		listingvalidator.NewListingValidator(),
		publisher,
		cfg,
	)

	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		listingService,
		index,
		bookingvalidator.NewBookingValidator(cfg.MaxStayNights),
		publisher,
		cfg,
	)

	searchService := searchservice.NewSearchService(listingRepo, index, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(cfg.Client.Mongo.Client,
		listinghandler.NewListingHandler(listingService, cfg.Log),
		searchhandler.NewSearchHandler(searchService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.OnShutdown(closePublisher)
	serverApp.OnShutdown(listingService.Close)

	serverApp.Run(func(ctx context.Context) error {
		_, err := bookingService.WarmIndex(ctx)
		return err
	})
}

// initPublisher connects the Kafka producer when events are enabled.
func initPublisher(cfg *config.Config) (events.Publisher, func()) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Domain events disabled")
		return events.Noop{}, func() {}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	}

	publisher := events.NewKafkaPublisher(producer, events.Topics{
		Bookings: cfg.BookingEventsTopic,
		Listings: cfg.ListingEventsTopic,
	}, ServiceName)

	return publisher, func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
