package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ugaemi/cubechase/internal/audio"
	"github.com/ugaemi/cubechase/internal/bridge"
	"github.com/ugaemi/cubechase/internal/config"
	"github.com/ugaemi/cubechase/internal/enemy"
	"github.com/ugaemi/cubechase/internal/game"
	"github.com/ugaemi/cubechase/internal/handler"
	"github.com/ugaemi/cubechase/internal/input"
	"github.com/ugaemi/cubechase/internal/match"
	"github.com/ugaemi/cubechase/internal/player"
	"github.com/ugaemi/cubechase/internal/store"
	"github.com/ugaemi/cubechase/internal/ws"
)

const saveTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Spectators connect from anywhere on the LAN
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("cubechase failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keyboard, err := input.NewKeyboard()
	if err != nil {
		return err
	}
	defer keyboard.Close()

	link, err := bridge.Dial(ctx, cfg.BridgeURL, bridge.WithPositionTTL(cfg.PositionTTL))
	if err != nil {
		return err
	}
	defer link.Close()

	var matches store.MatchStore
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Warn("match history unavailable", "error", err)
		} else {
			matches = pg
			defer pg.Close()
		}
	}

	cues := audio.New(cfg.AudioEnabled)
	defer cues.Close()

	state := game.NewState()

	hub := ws.NewHub()
	feed := handler.NewBroadcaster(hub)
	router := handler.NewRouter(state, matches, feed)
	hub.OnMessage = router.HandleMessage
	hub.OnConnect = router.HandleConnect
	go hub.Run(ctx)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: newMux(hub)}
	go func() {
		slog.Info("spectator server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("spectator server failed", "error", err)
		}
	}()
	defer srv.Close()

	enemies := make([]match.Pursuer, 0, len(cfg.EnemyCubes))
	for i, id := range cfg.EnemyCubes {
		enemies = append(enemies, enemy.NewController(i+1, link.Cube(id), state, enemy.NewPursuit()))
	}

	m := match.New(state, enemies, match.WithObservers(keyboard, feed, cues))
	if err := m.Init(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pc := player.NewController(link.Cube(cfg.PlayerCube), state)
	go func() {
		err := pc.Run(ctx, keyboard.Events(), cfg.RefreshInterval)
		if err != nil {
			// The enemies keep chasing a player that can no longer move.
			slog.Error("player controller stopped", "error", err)
			return
		}
		cancel()
	}()

	result, err := m.Run(ctx, link.Telemetry(cfg.PlayerCube))
	if result != nil {
		slog.Info("match ended", "match", result.ID, "outcome", result.Outcome, "health", result.Final.Health, "hits", result.Final.Hits)
		saveResult(matches, result)
	}
	return err
}

func saveResult(matches store.MatchStore, result *match.Result) {
	if matches == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := matches.Save(ctx, result); err != nil {
		slog.Error("failed to save match", "match", result.ID, "error", err)
	}
}

func newMux(hub *ws.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, w, r)
	})
	return mux
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleWebSocket(hub *ws.Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(hub, conn)
	select {
	case hub.Register <- client:
	case <-hub.Done():
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// setupLogger writes to stderr; the terminal itself belongs to the keyboard
// screen.
func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		h = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(h))
}
