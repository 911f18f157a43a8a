package notes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autonote-backend/internal/export"
	"autonote-backend/internal/extract"
	"autonote-backend/internal/quota"
	"autonote-backend/internal/shared/server/middleware"
	"autonote-backend/internal/shared/server/respond"
	"autonote-backend/internal/shared/util"
	"autonote-backend/internal/summarize"
)

// Handler wires HTTP handlers to the notes service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches note routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notes", h.createNote)
	rg.GET("/notes/:id", h.getNote)
	rg.GET("/notes/:id/download", h.downloadNote)
}

func (h *Handler) createNote(c *gin.Context) {
	clientID := middleware.ClientIDFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		if isTooLarge(err) {
			h.respondProcessError(c, ErrPayloadTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "expected multipart form data", nil)
		return
	}

	input := ProcessInput{
		ClientID: clientID,
		Text:     c.Request.FormValue("text"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		fileName, err := util.SanitizeFileName(fileHeader.Filename)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
			return
		}
		if fileHeader.Size > h.MaxUploadBytes {
			h.respondProcessError(c, ErrPayloadTooLarge)
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			if isTooLarge(err) {
				h.respondProcessError(c, ErrPayloadTooLarge)
				return
			}
			respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
			return
		}
		input.FileName = fileName
		input.ContentType = fileHeader.Header.Get("Content-Type")
		input.FileData = data
	}

	note, err := h.Svc.Process(c.Request.Context(), input)
	if err != nil {
		h.respondProcessError(c, err)
		return
	}

	c.Set("noteId", note.ID)
	c.Set("statusTransition", StatusReceived+"->"+note.Status)

	respond.JSON(c, http.StatusCreated, toNoteResponse(note))
}

func (h *Handler) respondProcessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoInput), errors.Is(err, summarize.ErrEmptyInput), errors.Is(err, extract.ErrEmptyDocument):
		respond.Error(c, http.StatusBadRequest, "empty_input", "no usable text in the request", nil)
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "unsupported document format", nil)
	case errors.Is(err, extract.ErrExtractionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not extract text from the document", nil)
	case errors.Is(err, ErrPayloadTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds the size limit", nil)
	case errors.Is(err, quota.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "quota_exceeded", "daily request quota reached", nil)
	case errors.Is(err, export.ErrExportFailed):
		respond.Error(c, http.StatusInternalServerError, "export_failed", "could not render the note", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process the document", nil)
	}
}

func (h *Handler) getNote(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "note id is required", nil)
		return
	}

	note, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "note not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch note", nil)
		return
	}

	c.Set("noteId", note.ID)
	respond.JSON(c, http.StatusOK, toNoteResponse(note))
}

func (h *Handler) downloadNote(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "note id is required", nil)
		return
	}

	format, err := export.ParseFormat(c.DefaultQuery("format", "txt"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be one of txt, md, pdf, docx", nil)
		return
	}

	dl, err := h.Svc.OpenDownload(c.Request.Context(), id, format)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "note not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open download", nil)
		return
	}
	defer dl.Reader.Close()

	c.Set("noteId", id)
	c.Header("Content-Type", dl.ContentType)
	c.Header("Content-Disposition", `attachment; filename="`+dl.FileName+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, dl.Reader); err != nil {
		// headers already written, nothing sane to send
		_ = c.Error(err)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}
