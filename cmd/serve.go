package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/draftkit/internal/clickhouse"
	"github.com/Billy-Davies-2/draftkit/internal/engine"
	grpcserver "github.com/Billy-Davies-2/draftkit/internal/grpc"
	"github.com/Billy-Davies-2/draftkit/internal/handlers"
	"github.com/Billy-Davies-2/draftkit/internal/logger"
	"github.com/Billy-Davies-2/draftkit/internal/pubsub"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server
const shutdownTimeout = 10 * time.Second

// serveCmd runs the HTTP and gRPC draft service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the draft service (HTTP, SSE and gRPC).",
	Long: `Serve the draft API over HTTP with server-sent events and over gRPC.

In development an embedded NATS server carries draft events and mock auth logs
everyone in. Otherwise NATS JetStream and Authentik are used, and ADP is synced
from ClickHouse when clickhouse-addr is set.`,
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 3000, "HTTP port")
	serveCmd.Flags().Int("grpc-port", 50051, "gRPC port")
	serveCmd.Flags().String("nats-url", "nats://localhost:4222", "NATS server URL outside development")
	serveCmd.Flags().String("clickhouse-addr", "", "ClickHouse address for ADP sync (empty disables it)")
	_ = viper.BindPFlags(serveCmd.Flags())
}

func runServe(ctx context.Context) error {
	logger.Info("Starting draftkit service", "version", version, "environment", cfg.Environment)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	upstream, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer upstream.Close()
	bus := pubsub.NewWithUpstream(upstream)

	session := engine.NewSession("default")
	svc, err := newService(cfg, store, bus, session)
	if err != nil {
		return err
	}
	pubsub.InvalidateOnPoolChange(ctx, bus, session)

	health := handlers.NewHealth()
	health.Register("database", func(context.Context) error {
		_, err := svc.State()
		return err
	})
	health.Register("nats", func(context.Context) error {
		if !upstream.Healthy() {
			return errors.New("not connected")
		}
		return nil
	})

	g, gctx := errgroup.WithContext(ctx)

	var feed clickhouse.Feed
	switch {
	case cfg.ClickHouseAddr != "":
		ch, err := clickhouse.NewClient(cfg.ClickHouseAddr, cfg.ClickHouseDB, cfg.ClickHouseUser, cfg.ClickHousePass)
		if err != nil {
			return err
		}
		defer ch.Close()
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDB)
		health.Register("clickhouse", ch.Ping)
		feed = ch
	case cfg.ADPSimulate && cfg.IsDevelopment():
		state, err := svc.State()
		if err != nil {
			return err
		}
		base := make(map[string]float64, len(state.Available))
		for _, c := range state.Available {
			if c.Ranked() {
				base[c.ID] = c.EffectiveADP()
			}
		}
		feed = clickhouse.NewSimulatedFeed(base, 0.05, nil)
	}

	if feed != nil {
		g.Go(func() error {
			err := clickhouse.RunSync(gctx, feed, cfg.ADPSyncInterval, svc.SyncADP, svc.ADPSynced)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("Skipping ADP sync (ClickHouse not configured)")
	}

	provider := newAuthProvider(cfg)
	mux := handlers.Routes(handlers.NewAPIHandlers(svc, bus), health, provider, cfg.Auth.AdminGroup)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcserver.RegisterDraftEngineServer(grpcServer, grpcserver.NewServer(svc, bus))
	grpcAddr := net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.GRPCPort))
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	g.Go(func() error {
		logger.Info("gRPC server starting", "address", grpcAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		logger.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		health.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	health.SetReady(true)
	return g.Wait()
}
