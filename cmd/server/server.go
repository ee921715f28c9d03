package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/caarlos0/env/v11"
	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/shinobios/mission-api/internal/catalog/jutsu"
	"github.com/shinobios/mission-api/internal/catalog/terrain"
	"github.com/shinobios/mission-api/internal/clients/narrative"
	"github.com/shinobios/mission-api/internal/engine"
	"github.com/shinobios/mission-api/internal/orchestrators/mission"
	"github.com/shinobios/mission-api/internal/pkg/clock"
	"github.com/shinobios/mission-api/internal/pkg/idgen"
	redisclient "github.com/shinobios/mission-api/internal/redis"
	"github.com/shinobios/mission-api/internal/repositories/missions"
)

// serverConfig is populated from the environment
type serverConfig struct {
	GRPCPort        int           `env:"GRPC_PORT" envDefault:"50051"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	NarrativeURL    string        `env:"NARRATIVE_URL"`
	JutsuCatalog    string        `env:"JUTSU_CATALOG_PATH"`
	MissionCooldown time.Duration `env:"MISSION_COOLDOWN" envDefault:"2s"`
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the mission API gRPC server with all configured services.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := env.ParseAs[serverConfig]()
	if err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	svc, err := buildService(&cfg)
	if err != nil {
		return err
	}
	// TODO: register the MissionService handler here once the proto
	// surface is published; the orchestrator is wired and ready.
	_ = svc

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gRPC server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// buildService wires the mission orchestrator from configuration
func buildService(cfg *serverConfig) (mission.Service, error) {
	client, err := redisclient.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	missionRepo, err := missions.NewRedisRepository(&missions.Config{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create mission repository: %w", err)
	}

	catalog, err := loadCatalog(cfg.JutsuCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load jutsu catalog: %w", err)
	}

	roller := &dice.CryptoRoller{}
	clk := clock.New()

	resolver, err := engine.NewResolver(&engine.Config{
		Roller: roller,
		Clock:  clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	narrativeClient, err := buildNarrativeClient(cfg, roller)
	if err != nil {
		return nil, err
	}

	orchestrator, err := mission.NewOrchestrator(&mission.Config{
		MissionRepo:        missionRepo,
		NarrativeClient:    narrativeClient,
		JutsuCatalog:       catalog,
		TerrainTable:       terrain.NewTable(),
		Resolver:           resolver,
		Roller:             roller,
		IDGenerator:        idgen.NewPrefixed("mission"),
		Clock:              clk,
		GenerationCooldown: cfg.MissionCooldown,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mission orchestrator: %w", err)
	}

	return orchestrator, nil
}

func loadCatalog(path string) (*jutsu.Catalog, error) {
	if path != "" {
		return jutsu.LoadFile(path)
	}
	return jutsu.Load()
}

func buildNarrativeClient(cfg *serverConfig, roller dice.Roller) (narrative.Client, error) {
	if cfg.NarrativeURL != "" {
		client, err := narrative.NewHTTPClient(&narrative.HTTPConfig{BaseURL: cfg.NarrativeURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create narrative client: %w", err)
		}
		return client, nil
	}

	client, err := narrative.NewStaticClient(roller)
	if err != nil {
		return nil, fmt.Errorf("failed to create narrative client: %w", err)
	}
	return client, nil
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	switch level {
	case grpc_logging.LevelDebug:
		slog.DebugContext(ctx, msg, fields...)
	case grpc_logging.LevelWarn:
		slog.WarnContext(ctx, msg, fields...)
	case grpc_logging.LevelError:
		slog.ErrorContext(ctx, msg, fields...)
	default:
		slog.InfoContext(ctx, msg, fields...)
	}
}
