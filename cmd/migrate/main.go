package main

import (
	"fmt"
	"os"

	"appointment-lifecycle/internal/adapters/storage/postgres"
	"appointment-lifecycle/internal/platform/config"
)

func main() {
	cfg := config.Load()
	if cfg.DBDSN == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN is required")
		os.Exit(1)
	}

	if err := postgres.Migrate(cfg.MigrationsPath, cfg.DBDSN); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// chequeo de sanidad: la conexión de runtime abre bien
	db, err := postgres.Open(cfg.DBDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open failed: %v\n", err)
		os.Exit(1)
	}
	_ = db.Close()

	fmt.Println("migrations applied")
}
