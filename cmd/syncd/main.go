// Command syncd runs the LAN player-movement sync layer as a
// standalone process: it broadcasts local movement edges over UDP,
// dead-reckons the remote player from inbound packets, and applies
// roster feeds to the player registry. Key state is read from stdin,
// one line per change ("wd" holds up+right, an empty line releases).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lanmove/syncd/internal/config"
	"github.com/lanmove/syncd/internal/database"
	"github.com/lanmove/syncd/internal/influx"
	"github.com/lanmove/syncd/internal/logging"
	"github.com/lanmove/syncd/internal/player"
	"github.com/lanmove/syncd/internal/session"
	"github.com/lanmove/syncd/internal/storage"
)

const appName = "syncd"

const statsInterval = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run() error {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	if err := config.Load(configDir); err != nil {
		return err
	}

	sessionStart := time.Now()
	playerCfg := config.GetPlayerConfig()

	logFile, err := openLogFile(sessionStart)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	logMgr := logging.NewSlogManager()
	logMgr.Setup(logFile, config.GetString("logLevel"), func() []slog.Attr {
		return []slog.Attr{
			slog.Int("player", playerCfg.ID),
			slog.String("name", playerCfg.Name),
		}
	})
	logger := logMgr.Logger()

	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	recorder, err := buildRecorder(zlog)
	if err != nil {
		logger.Warn("recording disabled", "error", err)
		recorder = storage.Nop{}
	}
	defer recorder.Close()

	influxMgr := influx.NewManager(zlog,
		filepath.Join(config.GetString("logsDir"), appName+".stats.gz"))
	if config.GetBool("influx.enabled") {
		if err := influxMgr.Connect(); err != nil {
			logger.Warn("influx stats disabled", "error", err)
			influxMgr = nil
		}
	} else {
		influxMgr = nil
	}

	netCfg := config.GetNetConfig()
	render := func(id uint8, pos player.Vec3) {
		logger.Debug("remote position", "player", id, "x", pos.X, "y", pos.Y, "z", pos.Z)
	}

	sess, err := session.New(session.Config{
		PlayerID:   uint8(playerCfg.ID),
		PlayerName: playerCfg.Name,
		ListenAddr: netCfg.ListenAddr,
		PeerAddr:   netCfg.PeerAddr,
	}, newLineSampler(os.Stdin), render, recorder, logger, logging.NewDispatcherLogger(zlog))
	if err != nil {
		return err
	}

	if err := sess.Start(); err != nil {
		return err
	}
	defer sess.Close()

	return tickLoop(sess, influxMgr, logger)
}

// tickLoop drives the session at the configured rate until SIGINT or
// SIGTERM.
func tickLoop(sess *session.Session, influxMgr *influx.Manager, logger *slog.Logger) error {
	interval := config.GetTickConfig().Interval
	if interval <= 0 {
		return fmt.Errorf("invalid tick interval %s", interval)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stats := time.NewTicker(statsInterval)
	defer stats.Stop()

	last := time.Now()
	for {
		select {
		case s := <-sig:
			logger.Info("shutting down", "signal", s.String())
			return nil
		case now := <-ticker.C:
			sess.Tick(now.Sub(last).Seconds())
			last = now
		case now := <-stats.C:
			if influxMgr == nil {
				continue
			}
			point := influx.SessionStatsPoint(sess.Stats(), now)
			if err := influxMgr.WritePoint(context.Background(), influx.BucketSessionStats, point); err != nil {
				logger.Warn("failed to write session stats", "error", err)
			}
			received, rejected := sess.PacketCounts()
			point = influx.PacketStatsPoint(received, rejected, now)
			if err := influxMgr.WritePoint(context.Background(), influx.BucketPacketStats, point); err != nil {
				logger.Warn("failed to write packet stats", "error", err)
			}
		}
	}
}

func openLogFile(sessionStart time.Time) (*os.File, error) {
	logsDir := config.GetString("logsDir")
	if logsDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}
	path := logging.LogFilePath(logsDir, appName, sessionStart)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return file, nil
}

func buildRecorder(zlog zerolog.Logger) (storage.Recorder, error) {
	if !config.GetBool("db.enabled") {
		return storage.Nop{}, nil
	}

	db := database.NewManager(zlog)
	if err := db.Connect(); err != nil {
		return nil, err
	}
	if db.ShouldSaveLocal {
		db.SqliteFilePath = filepath.Join(
			config.GetString("logsDir"),
			fmt.Sprintf("%s.%d.db", appName, config.GetInt("player.id")),
		)
	}
	if err := db.Setup(); err != nil {
		return nil, err
	}
	return storage.NewGormRecorder(db), nil
}
