package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"tush00nka/archive_relay/internal/model"
	"tush00nka/archive_relay/internal/pkg/httputils"
	"tush00nka/archive_relay/internal/pkg/logging"
	"tush00nka/archive_relay/internal/service"

	"github.com/gorilla/mux"
)

const (
	fileField    = "file"
	userKeyField = "user_key"

	maxFieldSize = 64 * 1024
)

const malformedBodyDetail = "There was an error parsing the body"

var errMalformedBody = errors.New("malformed multipart body")

type ArchiveHandler struct {
	archiveService service.ArchiveService
	spoolDir       string
	logger         *slog.Logger
}

func NewArchiveHandler(archiveService service.ArchiveService, spoolDir string, logger *slog.Logger) *ArchiveHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveHandler{archiveService: archiveService, spoolDir: spoolDir, logger: logger}
}

func (h *ArchiveHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/testing/", h.relayTestingArchive).Methods("POST", "OPTIONS")
	router.HandleFunc("/results/", h.relayResultsArchive).Methods("POST", "OPTIONS")
}

// @Summary Relay testing archive
// @Description Accepts a ZIP archive with testing data and streams it back
// @ID relay-testing
// @Tags testing
// @Accept mpfd
// @Produce application/zip
// @Param file formData file true "ZIP archive with testing data (images, JSON)"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.FieldErrorResponse
// @Router /testing/ [post]
func (h *ArchiveHandler) relayTestingArchive(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, model.ArchiveTesting)
}

// @Summary Relay results archive
// @Description Accepts a ZIP archive with results and a user key, streams the archive back
// @ID relay-results
// @Tags results
// @Accept mpfd
// @Produce application/zip
// @Param user_key formData string true "Unique user key" example(user123_abc)
// @Param file formData file true "ZIP archive with a JSON results file"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.FieldErrorResponse
// @Router /results/ [post]
func (h *ArchiveHandler) relayResultsArchive(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, model.ArchiveResults)
}

func (h *ArchiveHandler) relay(w http.ResponseWriter, r *http.Request, kind model.ArchiveKind) {
	logger := logging.FromContext(r.Context(), h.logger).With("route", string(kind))

	form, err := h.readForm(r, kind == model.ArchiveResults)
	if form != nil {
		defer form.cleanup(logger)
	}
	if err != nil {
		var requestErr *model.RequestError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &requestErr):
			httputils.ResponseFieldErrors(w, requestErr.Fields)
		case errors.As(err, &tooLarge):
			httputils.ResponseError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, errMalformedBody):
			logger.Info("malformed upload body", "error", err)
			httputils.ResponseError(w, http.StatusBadRequest, malformedBodyDetail)
		default:
			logger.Error("failed to read upload", "error", err)
			httputils.ResponseError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	if err := h.archiveService.Check(kind, form.archive); err != nil {
		logger.Info("archive rejected", "filename", form.archive.Filename, "content_type", form.archive.ContentType)
		httputils.ResponseError(w, http.StatusBadRequest, err.Error())
		return
	}

	if form.spoolPath == "" {
		// The archive is still being read from the request while the response is written.
		if err := http.NewResponseController(w).EnableFullDuplex(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			logger.Debug("full duplex unavailable", "error", err)
		}
	}

	w.Header().Set("Content-Type", service.ResponseContentType(form.archive))
	w.Header().Set("Content-Disposition", service.Disposition(form.archive))
	w.WriteHeader(http.StatusOK)

	if _, err := h.archiveService.Stream(r.Context(), w, form.archive); err != nil {
		logger.Warn("archive stream aborted", "filename", form.archive.Filename, "error", err)
	}
}

type relayForm struct {
	archive   *model.UploadedArchive
	spoolPath string
}

func (f *relayForm) cleanup(logger *slog.Logger) {
	if f.spoolPath == "" {
		return
	}
	if closer, ok := f.archive.Body.(io.Closer); ok {
		_ = closer.Close()
	}
	if err := os.Remove(f.spoolPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove spooled upload", "path", f.spoolPath, "error", err)
	}
}

// readForm walks the multipart body. The file part is left on the wire when no
// other required field is still pending; otherwise it is spooled to disk.
func (h *ArchiveHandler) readForm(r *http.Request, wantUserKey bool) (*relayForm, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, errMalformedBody
	}

	form := &relayForm{}
	userKey := ""
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, fmt.Errorf("%w: %w", errMalformedBody, err)
		}

		switch part.FormName() {
		case userKeyField:
			if !wantUserKey || userKey != "" {
				_ = part.Close()
				continue
			}
			value, err := readField(part)
			if err != nil {
				return form, err
			}
			userKey = value
			if userKey != "" {
				h.archiveService.RecordUserKey(r.Context(), userKey)
			}
		case fileField:
			filename := partFilename(part)
			if form.archive != nil || filename == "" {
				_ = part.Close()
				continue
			}
			if !wantUserKey || userKey != "" {
				form.archive = &model.UploadedArchive{
					Filename:    filename,
					ContentType: part.Header.Get("Content-Type"),
					Body:        part,
					Size:        -1,
				}
				return form, nil
			}
			if err := h.spool(form, filename, part); err != nil {
				return form, err
			}
		default:
			_ = part.Close()
		}
	}

	var missing []model.FieldError
	if wantUserKey && userKey == "" {
		missing = append(missing, model.MissingField(userKeyField))
	}
	if form.archive == nil {
		missing = append(missing, model.MissingField(fileField))
	}
	if len(missing) > 0 {
		return form, &model.RequestError{Fields: missing}
	}
	return form, nil
}

func (h *ArchiveHandler) spool(form *relayForm, filename string, part *multipart.Part) error {
	defer part.Close()

	tmp, err := os.CreateTemp(h.spoolDir, "archive-relay-*")
	if err != nil {
		return fmt.Errorf("create spool file: %w", err)
	}
	form.spoolPath = tmp.Name()
	form.archive = &model.UploadedArchive{
		Filename:    filename,
		ContentType: part.Header.Get("Content-Type"),
		Body:        tmp,
		Size:        -1,
	}

	written, err := io.Copy(tmp, part)
	if err != nil {
		return fmt.Errorf("%w: spool upload: %w", errMalformedBody, err)
	}
	form.archive.Size = written
	return nil
}

func readField(part *multipart.Part) (string, error) {
	defer part.Close()

	payload, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read form field: %w", errMalformedBody, err)
	}
	if len(payload) > maxFieldSize {
		return "", fmt.Errorf("%w: form field %q too large", errMalformedBody, part.FormName())
	}
	return string(payload), nil
}

// partFilename returns the filename exactly as the client declared it.
// multipart.Part.FileName strips directory components, which would change the
// name echoed back in Content-Disposition.
func partFilename(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return part.FileName()
	}
	return params["filename"]
}
