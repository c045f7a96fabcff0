package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/foomo/publisher-mcp/cms"
	"github.com/foomo/publisher-mcp/config"
	"github.com/foomo/publisher-mcp/logger"
	"github.com/foomo/publisher-mcp/mcp"
	"github.com/foomo/publisher-mcp/pexels"
	"github.com/foomo/publisher-mcp/service"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var httpPort int

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve MCP over stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runStdio,
}

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve MCP over streamable HTTP and SSE, with the tool API and event stream",
	Args:  cobra.NoArgs,
	RunE:  runHTTP,
}

func init() {
	httpCmd.Flags().IntVarP(&httpPort, "port", "p", 0, "Listen port, overrides PORT")
	rootCmd.AddCommand(stdioCmd, httpCmd)
}

type app struct {
	config     *config.Config
	logger     *zap.Logger
	dispatcher *mcp.Dispatcher
	server     *server.MCPServer
}

// load reads the configuration and builds the logger from it.
func load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, l, nil
}

// newApp wires clients, service and MCP server. A nil notifier leaves publish
// events unreported.
func newApp(cfg *config.Config, l *zap.Logger, notifier service.Notifier) *app {
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	content := cms.NewClient(cms.Config{
		BaseURL: cfg.CMS.URL,
		APIKey:  cfg.CMS.APIKey,
	}, httpClient, l.Named("cms"))
	images := pexels.NewClient(pexels.Config{
		BaseURL: cfg.Pexels.URL,
		APIKey:  cfg.Pexels.APIKey,
	}, httpClient, l.Named("pexels"))
	if !images.Enabled() {
		l.Warn("PEXELS_API_KEY not configured, image search disabled")
	}

	opts := []service.Option{service.WithLogger(l.Named("service"))}
	if notifier != nil {
		opts = append(opts, service.WithNotifier(notifier))
	}
	svc := service.NewService(content, images, service.Defaults{
		Author:       cfg.Publish.Author,
		Status:       cfg.Publish.Status,
		AffiliateTag: cfg.Publish.AffiliateTag,
		Publisher:    cfg.Publish.Publisher,
	}, opts...)

	dispatcher := mcp.NewDispatcher(svc, l.Named("dispatcher"))
	return &app{
		config:     cfg,
		logger:     l,
		dispatcher: dispatcher,
		server:     mcp.NewServer(dispatcher, l),
	}
}

func runStdio(cmd *cobra.Command, args []string) error {
	cfg, l, err := load()
	if err != nil {
		return err
	}
	a := newApp(cfg, l, nil)
	defer func() { _ = a.logger.Sync() }()

	a.logger.Info("starting MCP server in stdio mode", zap.Strings("tools", a.dispatcher.Tools()))
	return server.ServeStdio(a.server)
}

func runHTTP(cmd *cobra.Command, args []string) error {
	cfg, l, err := load()
	if err != nil {
		return err
	}
	events := mcp.NewEventHub(l.Named("events"), nil)
	a := newApp(cfg, l, events)
	defer func() { _ = a.logger.Sync() }()

	port := a.config.Server.Port
	if httpPort > 0 {
		port = httpPort
	}
	if a.config.Server.AccessKey == "" {
		a.logger.Warn("MCP_ACCESS_KEY not set, HTTP endpoints are unauthenticated")
	}

	httpServer := mcp.NewHTTPServer(a.logger.Named("http"), a.server, a.dispatcher, events, mcp.HTTPConfig{
		AccessKey:        a.config.Server.AccessKey,
		RateLimitPerHour: a.config.Server.RateLimitPerHour,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.Start(":" + strconv.Itoa(port))
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errc
}
