package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"tush00nka/archive_relay/internal/config"
	"tush00nka/archive_relay/internal/handler"
	"tush00nka/archive_relay/internal/pkg/logging"
	"tush00nka/archive_relay/internal/service"

	"github.com/dustin/go-humanize"
)

func Run(cfg *config.Config) error {
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	archiveService := service.NewArchiveService(service.NewLogKeyRecorder(logger), logger)
	archiveHandler := handler.NewArchiveHandler(archiveService, cfg.SpoolDir, logger)

	server := NewServer(cfg, logger, archiveHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := server.Run(ctx)

	stats := archiveService.Stats()
	logger.Info("server stopped",
		"requests", stats.Requests,
		"relayed", stats.Relayed,
		"rejected", stats.Rejected,
		"bytes_relayed", humanize.Bytes(uint64(stats.BytesRelayed)),
	)
	return err
}
