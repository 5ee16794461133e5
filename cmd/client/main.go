package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gravitas-games/zombies/internal/board"
	"github.com/gravitas-games/zombies/internal/client"
	"github.com/gravitas-games/zombies/internal/config"
	"github.com/gravitas-games/zombies/internal/input"
	"github.com/gravitas-games/zombies/internal/network"
	"github.com/gravitas-games/zombies/internal/relay"
	"github.com/gravitas-games/zombies/pkg/models"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Client stopped", zap.Error(err))
	}
	logger.Info("Client stopped")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expected := network.Mode(cfg.Server.Mode)
	if expected != "" && !expected.Valid() {
		return fmt.Errorf("unknown server mode %q", cfg.Server.Mode)
	}

	player := models.Anonymous()
	if cfg.Auth.Token != "" {
		p, err := client.PlayerFromToken(cfg.Auth.Token, time.Now())
		if err != nil {
			return fmt.Errorf("access token rejected: %w", err)
		}
		player = p
	}
	logger.Info("Connecting",
		zap.String("url", cfg.Server.URL),
		zap.String("player", player.DisplayName()))

	conn, err := client.Dial(ctx, client.DialOptions{
		URL:              cfg.Server.URL,
		Token:            cfg.Auth.Token,
		HandshakeTimeout: cfg.Server.HandshakeTimeout(),
	}, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	go conn.Run(ctx)

	bus := client.NewSimpleEventBus()
	if cfg.Relay.Enabled {
		rl, rdb, err := relay.Connect(ctx, relay.Options{
			Address:       cfg.Relay.Address,
			Password:      cfg.Relay.Password,
			DB:            cfg.Relay.DB,
			ChannelPrefix: cfg.Relay.ChannelPrefix,
		}, logger)
		if err != nil {
			// Spectators are optional; play on without them.
			logger.Warn("Spectator relay disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			go rl.Run(ctx)
			rl.Attach(bus)
			logger.Info("Spectator relay enabled", zap.String("channel", rl.Channel()))
		}
	}

	centerX, centerY := cfg.Board.Center()
	b := board.New(cfg.Board.TileRadius, centerX, centerY)
	session := client.NewSession(b, conn, bus, logger)
	session.ExpectMode(expected)
	router := input.NewRouter(session, b, input.View{
		Width:    cfg.Board.ViewWidth,
		Height:   cfg.Board.ViewHeight,
		HudWidth: cfg.Board.HudWidth,
	})

	lines := make(chan string)
	go readLines(ctx, os.Stdin, lines)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	fmt.Println(input.Usage)
	for {
		select {
		case frame, ok := <-conn.Inbound():
			if !ok {
				return errors.New("server closed the connection")
			}
			if err := session.HandleMessage(frame); err != nil {
				logFrameError(logger, frame, err)
			}
			render(os.Stdout, session)

		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "quit" {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				render(os.Stdout, session)
				continue
			}
			current, _ := session.Turn()
			if err := router.Run(line, current); err != nil {
				if errors.Is(err, input.ErrUnknownCommand) {
					fmt.Println(err)
					continue
				}
				logger.Error("Input failed", zap.String("line", line), zap.Error(err))
			}
			render(os.Stdout, session)

		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", zap.Stringer("signal", sig))
			return nil
		}
	}
}

func logFrameError(logger *zap.Logger, frame string, err error) {
	switch {
	case errors.Is(err, client.ErrDesync):
		// Already reported by the session with full context.
	case errors.Is(err, network.ErrUnknownKind), errors.Is(err, network.ErrMalformed):
		logger.Warn("Ignoring server frame", zap.String("frame", frame), zap.Error(err))
	default:
		logger.Error("Failed to handle server frame", zap.Error(err))
	}
}

func readLines(ctx context.Context, r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}
