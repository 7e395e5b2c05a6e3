package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tush00nka/archive_relay/internal/model"
	"tush00nka/archive_relay/internal/pkg/logging"

	"github.com/dustin/go-humanize"
	"go.uber.org/atomic"
)

const copyBufferSize = 32 * 1024

type RelayStats struct {
	Requests     int64
	Relayed      int64
	Rejected     int64
	BytesRelayed int64
}

type relayCounters struct {
	requests     atomic.Int64
	relayed      atomic.Int64
	rejected     atomic.Int64
	bytesRelayed atomic.Int64
}

type archiveService struct {
	recorder KeyRecorder
	logger   *slog.Logger
	counters relayCounters
}

func NewArchiveService(recorder KeyRecorder, logger *slog.Logger) ArchiveService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = NewLogKeyRecorder(logger)
	}
	return &archiveService{recorder: recorder, logger: logger}
}

// Accepts reports whether the upload is named like a ZIP archive or declares the ZIP media type.
func Accepts(archive *model.UploadedArchive) bool {
	return strings.HasSuffix(archive.Filename, model.ArchiveExtension) ||
		archive.ContentType == model.ArchiveContentType
}

func ResponseContentType(archive *model.UploadedArchive) string {
	if archive.ContentType == "" {
		return model.ArchiveContentType
	}
	return archive.ContentType
}

func Disposition(archive *model.UploadedArchive) string {
	return "attachment; filename=" + archive.Filename
}

func (s *archiveService) Check(kind model.ArchiveKind, archive *model.UploadedArchive) error {
	s.counters.requests.Inc()
	if Accepts(archive) {
		return nil
	}
	s.counters.rejected.Inc()
	return &model.ValidationError{
		Kind:        kind,
		Filename:    archive.Filename,
		ContentType: archive.ContentType,
	}
}

func (s *archiveService) RecordUserKey(ctx context.Context, userKey string) {
	s.recorder.RecordUserKey(ctx, userKey)
}

// Stream rewinds the body when it can seek, then copies it to dst unchanged.
func (s *archiveService) Stream(ctx context.Context, dst io.Writer, archive *model.UploadedArchive) (int64, error) {
	if seeker, ok := archive.Body.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return 0, fmt.Errorf("rewind archive: %w", err)
		}
	}

	buf := make([]byte, copyBufferSize)
	written, err := io.CopyBuffer(dst, &contextReader{ctx: ctx, r: archive.Body}, buf)
	s.counters.bytesRelayed.Add(written)
	if err != nil {
		return written, fmt.Errorf("relay archive %q: %w", archive.Filename, err)
	}

	s.counters.relayed.Inc()
	logging.FromContext(ctx, s.logger).Info("archive relayed",
		"filename", archive.Filename,
		"content_type", ResponseContentType(archive),
		"size", humanize.Bytes(uint64(written)),
	)
	return written, nil
}

func (s *archiveService) Stats() RelayStats {
	return RelayStats{
		Requests:     s.counters.requests.Load(),
		Relayed:      s.counters.relayed.Load(),
		Rejected:     s.counters.rejected.Load(),
		BytesRelayed: s.counters.bytesRelayed.Load(),
	}
}

// contextReader fails reads once ctx is done, so a dropped client stops the copy.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
