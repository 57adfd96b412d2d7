package main

import (
	"context"
	"fmt"
	"net/http"

	"gearbook/internal/schedule/handler"
	"gearbook/internal/schedule/service"
	"gearbook/pkg/app"
	"gearbook/pkg/config"
)

const ServiceName = "schedule"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Schedule service")
	scheduleService := initServices(cfg)
	serverApp := app.New(cfg)
	serverApp.Mount(inventoryReadyCheck(cfg), handler.NewScheduleHandler(scheduleService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ScheduleService {
	fetcher := service.NewInventoryFetcher(cfg.InventoryBaseURL)
	scheduleService := service.NewScheduleService(fetcher, cfg)

	cfg.Log.Info("Schedule service initialized", "inventory_base_url", cfg.InventoryBaseURL)
	return scheduleService
}

// inventoryReadyCheck reports ready only while the inventory service
// answers its own health endpoint. The schedule service has nothing to
// serve without it.
func inventoryReadyCheck(cfg *config.Config) app.ReadyCheck {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.InventoryBaseURL+"/health", nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("inventory service health returned status %d", resp.StatusCode)
		}
		return nil
	}
}
