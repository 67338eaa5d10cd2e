package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/forum-app/backend/internal/config"
	"github.com/forum-app/backend/internal/repository/postgres"
)

// Standalone migration runner for deploys where the server should not touch
// the schema itself.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.Database.URL); err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied successfully!")
}
