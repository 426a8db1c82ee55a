package main

import (
	"context"
	"log"
	"os"

	"lumina-commerce/internal/config"
	"lumina-commerce/internal/db"
	orderrepo "lumina-commerce/internal/repository/order"
	productrepo "lumina-commerce/internal/repository/product"
	"lumina-commerce/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, productrepo.NewPostgres(pool, logger), orderrepo.NewPostgres(pool, logger)); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
