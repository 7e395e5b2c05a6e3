package model

import "io"

const (
	ArchiveExtension   = ".zip"
	ArchiveContentType = "application/zip"
)

// ArchiveKind tells the two relay routes apart. It only affects error wording.
type ArchiveKind string

const (
	ArchiveTesting ArchiveKind = "testing"
	ArchiveResults ArchiveKind = "results"
)

// UploadedArchive is the file part of a relay request. Body is read once.
type UploadedArchive struct {
	Filename    string
	ContentType string
	Body        io.Reader
	// Size is -1 until the body has been spooled.
	Size int64
}
