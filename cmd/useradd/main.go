package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/postkeeper/internal/dbx"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/dmitrijs2005/postkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postkeeper/internal/server/services"
	"github.com/dmitrijs2005/postkeeper/internal/useradd"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := dbx.Open(ctx, repomanager.DriverName, cfg.DatabaseDSN, dbx.PoolOptions{MaxOpenConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	return useradd.Run(ctx, services.NewUserService(db, rm, cfg), os.Stdin, os.Stdout)
}
