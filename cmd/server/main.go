package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/xtding233/relic-planner/internal/catalog"
	"github.com/xtding233/relic-planner/internal/config"
	"github.com/xtding233/relic-planner/internal/rpc"
)

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	return catalog.Fetch(ctx, &http.Client{Timeout: cfg.FetchTimeout}, cfg.CatalogURL)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &api{trials: cfg.SimTrials}
	planner := rpc.NewServer(nil)

	// single best-effort load; endpoints answer 503 until it lands
	go func() {
		cat, err := loadCatalog(ctx, cfg)
		if err != nil {
			log.Printf("catalog load failed: %v", err)
			return
		}
		a.setCatalog(cat)
		planner.SetCatalog(cat)
		log.Printf("catalog loaded: %d relics", cat.Len())
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal(err)
	}
	gs := grpc.NewServer()
	rpc.Register(gs, planner)
	go func() {
		log.Printf("grpc listening on %s ...", cfg.GRPCAddr)
		if err := gs.Serve(lis); err != nil {
			log.Printf("grpc serve: %v", err)
		}
	}()

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: a.routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		gs.GracefulStop()
	}()

	log.Printf("http listening on %s ...", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
