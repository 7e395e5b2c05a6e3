package service

import (
	"context"
	"io"

	"tush00nka/archive_relay/internal/model"
)

type ArchiveService interface {
	Check(kind model.ArchiveKind, archive *model.UploadedArchive) error
	RecordUserKey(ctx context.Context, userKey string)
	Stream(ctx context.Context, dst io.Writer, archive *model.UploadedArchive) (int64, error)
	Stats() RelayStats
}

// KeyRecorder receives user keys submitted with results archives.
type KeyRecorder interface {
	RecordUserKey(ctx context.Context, userKey string)
}
