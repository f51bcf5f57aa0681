package main

import (
	cataloghandler "reservas/internal/catalog/handler"
	catalogrepository "reservas/internal/catalog/repository"
	catalogservice "reservas/internal/catalog/service"
	"reservas/internal/events"
	notificationhandler "reservas/internal/notifications/handler"
	notificationrepository "reservas/internal/notifications/repository"
	notificationservice "reservas/internal/notifications/service"
	"reservas/internal/reservations/handler"
	"reservas/internal/reservations/repository"
	"reservas/internal/reservations/service"
	"reservas/internal/reservations/validator"
	"reservas/pkg/app"
	"reservas/pkg/client"
	"reservas/pkg/config"
	"reservas/pkg/kafka"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	serverApp := app.NewApplication(cfg)

	dispatcher := initDispatcher(cfg, serverApp)
	catalogService := initCatalog(cfg)
	notificationService := initNotifications(cfg, dispatcher)
	reservationService := initReservations(cfg, catalogService, notificationService, dispatcher)

	serverApp.SetApp(
		handler.NewReservationHandler(reservationService, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogService, cfg.Log),
		notificationhandler.NewNotificationHandler(notificationService, cfg.Log),
	)
	serverApp.Run()
}

// initDispatcher wires the event fan-out. Sinks are optional: a missing
// webhook URL or Kafka topic just means that leg of the feed is off.
func initDispatcher(cfg *config.Config, serverApp *app.Application) *events.Dispatcher {
	var sinks []events.Sink

	if cfg.NotifyWebhookURL != "" {
		webhookClient := client.NewWebhookClient(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
		sinks = append(sinks, events.NewWebhookSink(webhookClient))
	}

	if cfg.EventsTopic != "" {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		sinks = append(sinks, events.NewKafkaSink(producer))
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Warn("Failed to close Kafka producer", "error", err)
			}
		})
	}

	if len(sinks) == 0 {
		cfg.Log.Warn("No event sinks configured, events will be dropped")
	}

	dispatcher := events.NewDispatcher(cfg.Log, cfg.EventQueueSize, cfg.EventWorkers, sinks...)
	serverApp.OnShutdown(dispatcher.Close)
	return dispatcher
}

func initCatalog(cfg *config.Config) catalogservice.CatalogService {
	spaceRepo := catalogrepository.NewMongoSpaceRepository(cfg)
	stateRepo := catalogrepository.NewMongoStateRepository(cfg)
	return catalogservice.NewCatalogService(cfg, spaceRepo, stateRepo)
}

func initNotifications(cfg *config.Config, dispatcher *events.Dispatcher) notificationservice.NotificationService {
	repo := notificationrepository.NewMongoNotificationRepository(cfg)
	return notificationservice.NewNotificationService(cfg, repo, dispatcher)
}

func initReservations(
	cfg *config.Config,
	catalogService catalogservice.CatalogService,
	notificationService notificationservice.NotificationService,
	dispatcher *events.Dispatcher,
) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockRepo := repository.NewMongoSlotLockRepository(cfg)

	reservationService := service.NewReservationService(
		reservationRepo,
		lockRepo,
		catalogService,
		notificationService,
		dispatcher,
		reservationValidator,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
