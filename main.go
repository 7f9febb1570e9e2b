// Command river-crossing starts the River Crossing Game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, debug logging, version output,
// and optional ngrok tunneling for easy external access during development.
// Every flag can also be set from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/river-crossing-game/api"
	"github.com/wricardo/river-crossing-game/game/config"
	"github.com/wricardo/river-crossing-game/game/service"
	"github.com/wricardo/river-crossing-game/game/session"
	"github.com/wricardo/river-crossing-game/transport/mcp"
	"github.com/wricardo/river-crossing-game/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "River Crossing Game Server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCommand builds the CLI. The root command runs the HTTP server.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "river-crossing",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing message packs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runHTTPServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  runHTTPServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCP,
			},
		},
	}
}

// newLogger returns a production logger, or a development one with debug
// level when debug is set. Both write to stderr.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// services groups what initializeServices wires together
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence *session.FilePersistence
	settings    config.RuntimeSettings
}

// initializeServices wires config/session managers and the game service
func initializeServices(configDir string, settings config.RuntimeSettings, logger *zap.Logger) (*services, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(settings.SessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence, session.WithLogger(logger.Named("session")))

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		logger.Warn("failed to load persisted sessions", zap.Error(err))
	}

	return &services{
		game:        service.NewGameService(sessionManager, configManager, logger.Named("service")),
		sessions:    sessionManager,
		persistence: persistence,
		settings:    settings,
	}, nil
}

// setup reads the shared flags and runtime settings and wires the services
func setup(cmd *cli.Command) (*services, *zap.Logger, error) {
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	settings, err := config.LoadRuntimeSettings()
	if err != nil {
		return nil, nil, err
	}

	svc, err := initializeServices(cmd.String("config-dir"), settings, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return svc, logger, nil
}

// startBackground launches the session cleanup and filesystem sync
// routines. Both stop when ctx is cancelled.
func (s *services) startBackground(ctx context.Context, wg *sync.WaitGroup, logger *zap.Logger) {
	wg.Add(2)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, s.sessions, s.settings.SessionCleanupInterval, s.settings.SessionTTL, logger)
	}()
	go func() {
		defer wg.Done()
		filesystemSyncRoutine(ctx, s.sessions, s.persistence, s.settings.SessionSyncInterval, logger)
	}()
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}

// filesystemSyncRoutine periodically drops in-memory sessions whose file was
// deleted from the sessions directory
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, interval time.Duration, logger *zap.Logger) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pruned := 0
		for _, sess := range manager.List() {
			if persistence.Exists(sess.ID) {
				continue
			}
			if err := manager.DeleteFromMemory(sess.ID); err == nil {
				pruned++
				logger.Debug("pruned session from memory, file deleted", zap.String("session_id", sess.ID))
			}
		}

		if pruned > 0 {
			logger.Info("filesystem sync pruned orphaned sessions", zap.Int("pruned", pruned))
		}
	}
}

// mcpHTTPHandler serves single JSON-RPC messages posted to /mcp
func mcpHTTPHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no reply
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "server"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	svc.startBackground(ctx, &wg, logger)

	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	apiServer := api.NewServer(svc.game, hub, logger.Named("api"))

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient("http://" + addr)

	// Main router combines API and MCP
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", "http://"+addr+"/api"),
			zap.String("websocket", "ws://"+addr+"/ws?session=<session_id>"),
			zap.String("mcp", "http://"+addr+"/mcp"))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var tunnelServer *http.Server
	if cmd.Bool("ngrok") {
		tunnelServer = startNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter, logger)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-serveErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}
	if tunnelServer != nil {
		if err := tunnelServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("ngrok server shutdown error", zap.Error(err))
		}
	}

	<-hub.Done()
	wg.Wait()

	if saveErr := svc.sessions.SaveAllSessions(); saveErr != nil {
		logger.Warn("failed to save sessions on shutdown", zap.Error(saveErr))
	}

	logger.Info("server stopped")
	return err
}

// startNgrok opens a tunnel and serves handler through it. It returns nil
// when the tunnel could not be started.
func startNgrok(ctx context.Context, authToken, domain string, handler http.Handler, logger *zap.Logger) *http.Server {
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return nil
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("using custom ngrok domain", zap.String("domain", domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return nil
	}

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("websocket", ngrokURL+"/ws?session=<session_id>"),
		zap.String("mcp", ngrokURL+"/mcp"))

	tunnelServer := &http.Server{Handler: handler}
	go func() {
		if err := tunnelServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("ngrok server error", zap.Error(err))
		}
		logger.Info("ngrok tunnel closed")
	}()
	return tunnelServer
}

// externalAPIAvailable reports whether an API server answers at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses an API server already
// listening on --host/--port; otherwise it starts an internal HTTP API bound
// to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	svc, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	logger.Info("checking for external API server", zap.String("url", externalURL))

	baseURL := externalURL
	if !externalAPIAvailable(ctx, externalURL) {
		logger.Info("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		var wg sync.WaitGroup
		svc.startBackground(ctx, &wg, logger)
		defer wg.Wait()

		hub := websocket.NewHub(logger.Named("ws"))
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub, logger.Named("api"))}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer func() {
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
			if err := svc.sessions.SaveAllSessions(); err != nil {
				logger.Warn("failed to save sessions on shutdown", zap.Error(err))
			}
		}()

		baseURL = "http://" + listener.Addr().String()
		logger.Info("internal HTTP server started", zap.String("url", baseURL))
	} else {
		logger.Info("external API server found, using it for MCP", zap.String("url", externalURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
