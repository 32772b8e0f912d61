// Command solar-dawn-server runs one game session: a websocket endpoint
// driving a hex-grid strategy engine through its turn phases, with
// periodic autosave.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/solardawn/solar-dawn-server/engine"
	"github.com/solardawn/solar-dawn-server/game"
	"github.com/solardawn/solar-dawn-server/scenario"
	"github.com/solardawn/solar-dawn-server/transport"
)

var version = "dev"

type globalOptions struct {
	Config  string `short:"c" long:"config" description:"Path to the YAML config file" default:"config.yaml"`
	Version func() `short:"V" long:"version" description:"Print version and exit"`
}

var globals globalOptions

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

type newCommand struct {
	Players []string `short:"p" long:"player" description:"Player name, one per player (2-6 required)" required:"true"`
	Seed    uint64   `long:"seed" description:"Scenario RNG seed" default:"1"`
}

func (c *newCommand) Execute(args []string) error {
	if len(c.Players) < 2 || len(c.Players) > 6 {
		return fmt.Errorf("main: new game requires 2-6 players, got %d", len(c.Players))
	}

	players := make(map[game.PlayerId]string, len(c.Players))
	for i, name := range c.Players {
		players[game.PlayerId(i+1)] = name
	}

	state, celestialIds, stackIds, moduleIds := scenario.GenerateBalanced(c.Seed, players)

	serverState := &transport.GameServerState{
		SessionID:     uuid.New().String(),
		ScenarioSeed:  c.Seed,
		TurnSeed:      c.Seed ^ 0x9E3779B97F4A7C15,
		State:         state,
		NextCelestial: celestialIds.Peek(),
		NextStack:     stackIds.Peek(),
		NextModule:    moduleIds.Peek(),
	}

	cfg, err := loadConfigOrDefault(globals.Config)
	if err != nil {
		return err
	}
	return run(serverState, cfg)
}

type loadCommand struct {
	Args struct {
		SaveFile string `positional-arg-name:"save-file" description:"Save file to resume from"`
	} `positional-args:"yes" required:"yes"`
}

func (c *loadCommand) Execute(args []string) error {
	serverState, err := transport.Load(c.Args.SaveFile)
	if err != nil {
		return err
	}
	cfg, err := loadConfigOrDefault(globals.Config)
	if err != nil {
		return err
	}
	return run(serverState, cfg)
}

func loadConfigOrDefault(path string) (transport.Config, error) {
	if _, err := os.Stat(path); err != nil {
		log.Info().Str("path", path).Msg("no config file found, using defaults")
		return transport.DefaultConfig(), nil
	}
	return transport.LoadConfig(path)
}

func main() {
	globals.Version = func() {
		fmt.Printf("solar-dawn-server %s\n", version)
		os.Exit(0)
	}

	parser := flags.NewParser(&globals, flags.Default)
	parser.Name = "solar-dawn-server"
	parser.LongDescription = "A deterministic hex-grid strategy game server."

	if _, err := parser.AddCommand("new", "Start a fresh game", "Generates a balanced solar system and starts serving it.", &newCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("load", "Resume a saved game", "Resumes a game from a persisted save file.", &loadCommand{}); err != nil {
		panic(err)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(serverState *transport.GameServerState, cfg transport.Config) error {
	sessionID, err := uuid.Parse(serverState.SessionID)
	if err != nil {
		return fmt.Errorf("main: save file has malformed session id: %w", err)
	}

	stackIds := game.NewIdGenerator[game.StackId]()
	stackIds.Restore(serverState.NextStack)
	moduleIds := game.NewIdGenerator[game.ModuleId]()
	moduleIds.Restore(serverState.NextModule)

	players := make([]game.PlayerId, 0, len(serverState.State.Players))
	for p := range serverState.State.Players {
		players = append(players, p)
	}

	coordinator := engine.NewCoordinator(serverState.State, stackIds, moduleIds, serverState.TurnSeed, players)
	hub := transport.NewHub(sessionID, coordinator, serverState, cfg.SavePath, cfg.KeepAliveInterval, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeHTTP)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("session", sessionID.String()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
