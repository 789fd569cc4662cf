package main

import (
	"context"
	"log"

	"cvmatch-backend/internal/bootstrap"
	"cvmatch-backend/internal/shared/config"
	"cvmatch-backend/internal/shared/server"
	"cvmatch-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(context.Background(), cfg, db.DefaultServerOptions())
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	r := server.NewRouter(app)
	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
