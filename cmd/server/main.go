package main

import (
	"log"
	"os"

	"github.com/davitra/fleetboard/internal/api"
	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/handler"
	"github.com/davitra/fleetboard/internal/service"
	"github.com/davitra/fleetboard/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	devices, err := config.LoadDevices(cfg.DevicesPath)
	if err != nil {
		log.Fatal("Failed to load device registry:", err)
	}
	cfg.Devices = devices

	if err := os.MkdirAll(cfg.StaticDir, 0o755); err != nil {
		log.Fatal("Failed to create static dir:", err)
	}

	client := telemetry.NewClient(cfg.BaseURL)
	reports := service.NewReportService(cfg, client)
	router := api.SetupRouter(cfg, handler.NewReportHandler(reports))

	log.Printf("Report server starting on %s (%d devices, %dh window)", cfg.Port, len(cfg.Devices), cfg.WindowHours)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
