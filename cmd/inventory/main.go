package main

import (
	"context"

	"gearbook/internal/events"
	itemshandler "gearbook/internal/items/handler"
	itemsrepo "gearbook/internal/items/repository"
	itemsservice "gearbook/internal/items/service"
	itemsvalidator "gearbook/internal/items/validator"
	maintenancehandler "gearbook/internal/maintenance/handler"
	maintenancerepo "gearbook/internal/maintenance/repository"
	maintenanceservice "gearbook/internal/maintenance/service"
	maintenancevalidator "gearbook/internal/maintenance/validator"
	reportshandler "gearbook/internal/reports/handler"
	reportsservice "gearbook/internal/reports/service"
	reservationshandler "gearbook/internal/reservations/handler"
	reservationsservice "gearbook/internal/reservations/service"
	"gearbook/pkg/app"
	"gearbook/pkg/config"
	"gearbook/pkg/contracts"
)

const ServiceName = "inventory"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Inventory service")

	publisher, err := events.NewPublisher(cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.New(cfg)
	serverApp.Mount(mongoReadyCheck(cfg), initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	itemValidator := itemsvalidator.NewItemValidator(cfg.Log)
	itemRepo := itemsrepo.NewMongoItemRepository(cfg)
	itemService := itemsservice.NewItemService(itemRepo, itemValidator, publisher, cfg)

	reservationService := reservationsservice.NewReservationService(itemRepo, itemValidator, publisher, cfg)

	maintenanceValidator := maintenancevalidator.NewMaintenanceValidator(cfg.Log)
	maintenanceRepo := maintenancerepo.NewMongoMaintenanceRepository(cfg)
	maintenanceService := maintenanceservice.NewMaintenanceService(
		maintenanceRepo,
		itemRepo,
		maintenanceValidator,
		publisher,
		cfg,
	)

	reportService := reportsservice.NewReportService(itemRepo, itemValidator, cfg)

	cfg.Log.Info("Inventory services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		itemshandler.NewItemHandler(itemService, cfg.Log),
		reservationshandler.NewReservationHandler(reservationService, cfg.Log),
		maintenancehandler.NewMaintenanceHandler(maintenanceService, cfg.Log),
		reportshandler.NewReportHandler(reportService, cfg.Log),
	}
}

func mongoReadyCheck(cfg *config.Config) app.ReadyCheck {
	return func(ctx context.Context) error {
		return cfg.Client.Mongo.Ping(ctx, nil)
	}
}
