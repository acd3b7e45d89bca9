// @title EduConnect Backend API
// @version 1.0
// @description Backend server for the EduConnect e-learning platform.

// @contact.name API Support
// @contact.email support@educonnect.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"educonnect_backend/internal/app"
	"educonnect_backend/internal/config"
	"educonnect_backend/pkg/configwatcher"
	"educonnect_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force database migrations on startup (even in release mode)")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration finished, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(reloaded interface{}) {
		if newCfg, ok := reloaded.(*config.Config); ok {
			application.ApplyConfig(newCfg)
		}
	})

	application.Run()
}
