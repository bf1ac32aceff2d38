package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/MalanSathya/terraformcoder-ai/internal/auth"
	"github.com/MalanSathya/terraformcoder-ai/internal/config"
	"github.com/MalanSathya/terraformcoder-ai/internal/generate"
	"github.com/MalanSathya/terraformcoder-ai/internal/server"
	"github.com/MalanSathya/terraformcoder-ai/internal/store"
	"github.com/MalanSathya/terraformcoder-ai/pkg/cache"
	"github.com/MalanSathya/terraformcoder-ai/pkg/render"
	"github.com/MalanSathya/terraformcoder-ai/pkg/sharelink"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the TerraformCoder API server",
		Long: `Serve starts the HTTP API: authentication, Terraform generation,
history and the diagram render proxy.

Storage backends are picked from configuration: MongoDB and Redis when
configured, in-memory fallbacks otherwise (suitable for local runs only).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("no JWT secret configured, tokens will not survive restarts")
		cfg.Auth.JWTSecret = time.Now().Format(time.RFC3339Nano)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	responses, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer responses.Close()

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	codec := sharelink.NewCodec(cfg.Diagram.EditorBase)

	completer := generate.NewMistralClient(cfg.Mistral.APIKey, cfg.Mistral.URL, cfg.Mistral.Model)
	service := generate.NewService(completer, responses, st, codec, logger)

	engine := render.NewCachedEngine(buildEngine(cfg), responses, cfg.Diagram.ArtifactTTL())
	api := server.New(st, tokens, service, engine, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *charmlog.Logger) (store.Store, error) {
	if cfg.Mongo.URI == "" {
		logger.Warn("no mongo uri configured, using in-memory store")
		return store.NewMemoryStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return store.NewMongoStore(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
}

func openCache(ctx context.Context, cfg config.Config, logger *charmlog.Logger) (cache.Cache, error) {
	if cfg.Redis.Addr == "" {
		logger.Warn("no redis addr configured, using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return cache.NewRedisCache(connectCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}

// buildEngine picks the render backend: a remote proxy when configured,
// local graphviz otherwise.
func buildEngine(cfg config.Config) render.Engine {
	if cfg.Diagram.RenderProxyURL != "" {
		return render.NewRemoteEngine(cfg.Diagram.RenderProxyURL, render.StaticToken(cfg.Diagram.RenderToken), nil)
	}
	return render.NewGraphvizEngine()
}
