package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mlsniperpro/mediquestai/internal/config"
	"github.com/mlsniperpro/mediquestai/internal/email"
	httpserver "github.com/mlsniperpro/mediquestai/internal/http"
	authctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/auth"
	healthctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/health"
	sessctl "github.com/mlsniperpro/mediquestai/internal/http/controllers/session"
	"github.com/mlsniperpro/mediquestai/internal/http/router"
	sessionsvc "github.com/mlsniperpro/mediquestai/internal/http/services/session"
	"github.com/mlsniperpro/mediquestai/internal/identity"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/icp"
	"github.com/mlsniperpro/mediquestai/internal/identity/provider/password"
	"github.com/mlsniperpro/mediquestai/internal/observability/logger"
	"github.com/mlsniperpro/mediquestai/internal/profile"
	"github.com/mlsniperpro/mediquestai/internal/profile/docstore"
	"github.com/mlsniperpro/mediquestai/internal/session"
)

var version = "dev"

func main() {
	// .env es opcional; las env vars del sistema siempre mandan.
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:   "mediquest",
		Short: "Servicio de sesiones e identidad de MediQuest",
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Ruta al config.yaml (opcional)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	root.AddCommand(serveCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("cargar config: %w", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "mediquest",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()

	log := logger.Named("main")

	if cfg.Session.Secret == "" {
		if cfg.App.Env == "prod" {
			return fmt.Errorf("SESSION_SECRET es obligatorio en prod")
		}
		cfg.Session.Secret = "dev-insecure-secret"
		log.Warn("SESSION_SECRET vacío, usando secret de desarrollo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := docstore.New(ctx, docstore.Config{
		Driver:        cfg.Storage.Driver,
		DSN:           cfg.Storage.DSN,
		RedisAddr:     cfg.Storage.Redis.Addr,
		RedisPassword: cfg.Storage.Redis.Password,
		RedisDB:       cfg.Storage.Redis.DB,
		Prefix:        cfg.Storage.Redis.Prefix,
		MaxOpenConns:  cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns:  cfg.Storage.Postgres.MaxIdleConns,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("abrir docstore: %w", err)
	}
	defer func() { _ = db.Close() }()
	log.Info("docstore ready", logger.String("driver", cfg.Storage.Driver))

	// Email: SMTP si está configurado, noop en dev.
	var sender email.Sender = email.NoopSender{}
	if cfg.SMTP.Host != "" {
		sender = email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	}

	gateway := profile.NewGateway(db)
	ensurer := profile.NewEnsurer(gateway)

	pw := password.New(password.Config{
		Accounts: password.NewAccountStore(db),
		Sender:   sender,
		BaseURL:  cfg.Email.BaseURL,
		ResetTTL: cfg.Auth.Reset.TTL,
	})

	// Invalidación server-side de la sesión ICP, si hay gateway.
	var icpExternal session.Invalidator
	if cfg.Providers.ICP.Enabled && cfg.Providers.ICP.GatewayURL != "" {
		icpExternal = icp.New(icp.NewGatewayClient(cfg.Providers.ICP.GatewayURL))
	}

	factory := func() *session.Reconciler {
		opts := []session.Option{session.WithResolver(ensurer)}
		if icpExternal != nil {
			opts = append(opts, session.WithExternalSession(identity.ProviderICP, icpExternal))
		}
		return session.New(gateway, opts...)
	}

	sessions := sessionsvc.NewManager(sessionsvc.Config{
		Secret:  cfg.Session.Secret,
		TTL:     cfg.Session.TTL,
		Factory: factory,
	})

	handler := router.New(router.Deps{
		Auth:               authctl.NewController(pw, sessions),
		Session:            sessctl.NewController(sessions),
		Health:             healthctl.NewController(db),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		GoogleEnabled:      cfg.Providers.Google.Enabled,
		ICPEnabled:         cfg.Providers.ICP.Enabled,
	})

	srv := httpserver.NewServer(cfg.Server.Addr, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
