package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"citizenhub/internal/grpcserver"
	"citizenhub/internal/legislator"
	"citizenhub/internal/metrics"
	"citizenhub/internal/officials"
	"citizenhub/pkg/database"
	"citizenhub/pkg/utils"
)

func main() {
	cfg := utils.MustLoad()

	db := database.MustOpen(database.Config{Path: cfg.Database.Path})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	svc, err := officials.FromConfig(cfg.Upstream, metrics.New(prometheus.NewRegistry()), nil)
	if err != nil {
		log.Fatalf("officials config: %v", err)
	}

	listener, err := net.Listen("tcp", cfg.Server.GrpcAddr)
	if err != nil {
		log.Fatalf("grpc listen failed: %v", err)
	}

	grpcServer, healthServer := grpcserver.New(grpcserver.NewServer(svc, legislator.NewRepo(db)), nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Println("shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}()

	log.Printf("gRPC server listening on %s", cfg.Server.GrpcAddr)
	if err := grpcServer.Serve(listener); err != nil {
		log.Fatalf("grpc server stopped: %v", err)
	}
}
