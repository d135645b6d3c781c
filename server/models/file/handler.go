package file

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"filebin/server/bredis"
	"filebin/server/logger"
	"filebin/server/models/auth"
	"filebin/server/response"

	"github.com/labstack/echo/v4"
)

// createRetries bounds the re-resolve loop taken when a concurrent upload
// wins the race for the same resolved filename.
const createRetries = 3

const listCacheTTL = 30 * time.Minute

type Handler struct {
	fileRepo Repository
	redis    *bredis.Client
}

func NewHandler(fileRepo Repository, redis *bredis.Client) *Handler {
	return &Handler{
		fileRepo: fileRepo,
		redis:    redis,
	}
}

func (h *Handler) cacheKey(userID int64) string {
	return fmt.Sprintf("files:%d", userID)
}

// FilePayload is the file portion of an upload request
type FilePayload struct {
	Name     string `json:"name"`
	Mimetype string `json:"mimetype"`
	Base64   string `json:"base64"`
}

// UploadRequest is the request body for a single upload
type UploadRequest struct {
	Description string       `json:"description"`
	File        *FilePayload `json:"file"`
}

// BatchUploadRequest is the request body for a batch upload
type BatchUploadRequest struct {
	Description string         `json:"description"`
	Files       []*FilePayload `json:"files"`
}

// checkPayload validates one file payload and returns its decoded content.
// A data-URL wrapper is stripped off Base64 in place, so the stored src is
// always pure base64. Missing mimetypes are sniffed from the decoded bytes.
func checkPayload(payload *FilePayload) ([]byte, error) {
	if payload == nil || payload.Name == "" {
		return nil, ErrNoFile
	}

	if strings.HasPrefix(payload.Base64, "data:") {
		if idx := strings.Index(payload.Base64, ";base64,"); idx >= 0 {
			payload.Base64 = payload.Base64[idx+len(";base64,"):]
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Base64)
	if err != nil {
		return nil, ErrInvalidBase64
	}
	if len(decoded) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	if payload.Mimetype == "" {
		payload.Mimetype = http.DetectContentType(decoded)
	}

	return decoded, nil
}

// Upload handles POST /api/files. The desired filename is resolved against
// the user's current filenames before the insert; if a concurrent upload
// takes the resolved name first, the unique constraint on (user_id,
// filename) rejects the insert and resolution is retried against a fresh
// snapshot.
func (h *Handler) Upload(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)

	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if _, err := checkPayload(req.File); err != nil {
		return response.ValidationError(c, err.Error(), nil)
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		names, err := h.fileRepo.FilenamesByUser(claims.UserID)
		if err != nil {
			return response.InternalServerError(c, response.ErrCodeFileUploadFailed, "Failed to load existing filenames", err)
		}

		record := &Record{
			UserID:      claims.UserID,
			Description: req.Description,
			Filename:    ResolveName(req.File.Name, NameSet(names)),
			Mimetype:    req.File.Mimetype,
			Src:         req.File.Base64,
		}

		saved, err := h.fileRepo.Create(record)
		if err == ErrDuplicateFilename {
			logger.Warnf("Upload name race for user %d on %q, re-resolving", claims.UserID, record.Filename)
			continue
		}
		if err != nil {
			return response.InternalServerError(c, response.ErrCodeFileUploadFailed, "Failed to save file", err)
		}

		h.invalidateListCache(claims.UserID)
		return response.Created(c, "File uploaded", saved)
	}

	return response.InternalServerError(c, response.ErrCodeFileUploadFailed, "Failed to allocate a unique filename", nil)
}

// UploadBatch handles POST /api/files/batch. Names are resolved one at a
// time, each resolved name joining the snapshot before the next file is
// considered, then the whole batch is persisted in a single insert.
func (h *Handler) UploadBatch(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)

	var req BatchUploadRequest
	if err := c.Bind(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if len(req.Files) == 0 {
		return response.ValidationError(c, ErrNoFile.Error(), nil)
	}

	for i, payload := range req.Files {
		if _, err := checkPayload(payload); err != nil {
			return response.ValidationError(c, err.Error(), echo.Map{"index": i})
		}
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		names, err := h.fileRepo.FilenamesByUser(claims.UserID)
		if err != nil {
			return response.InternalServerError(c, response.ErrCodeFileUploadFailed, "Failed to load existing filenames", err)
		}

		set := NameSet(names)
		records := make([]*Record, 0, len(req.Files))
		for _, payload := range req.Files {
			resolved := ResolveName(payload.Name, set)
			set[resolved] = struct{}{}
			records = append(records, &Record{
				UserID:      claims.UserID,
				Description: req.Description,
				Filename:    resolved,
				Mimetype:    payload.Mimetype,
				Src:         payload.Base64,
			})
		}

		saved, err := h.fileRepo.CreateBatch(records)
		if err == ErrDuplicateFilename {
			logger.Warnf("Batch upload name race for user %d, re-resolving", claims.UserID)
			continue
		}
		if err != nil {
			return response.InternalServerError(c, response.ErrCodeFileUploadFailed, "Failed to save files", err)
		}

		h.invalidateListCache(claims.UserID)
		return response.Created(c, "Files uploaded", saved)
	}

	return response.InternalServerError(c, response.ErrCodeFileUploadFailed, "Failed to allocate unique filenames", nil)
}

// List handles GET /api/files. Resolution only happens at write time; the
// listing is the user's records as stored, newest first.
func (h *Handler) List(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)
	cacheKey := h.cacheKey(claims.UserID)

	if h.redis != nil {
		var cached []*Record
		if h.redis.Get(cacheKey, &cached) == nil {
			return response.SuccessWithMeta(c, cached, &response.Meta{
				Total:  len(cached),
				Cached: true,
			})
		}
	}

	records, err := h.fileRepo.ListByUser(claims.UserID)
	if err != nil {
		return response.InternalServerError(c, response.ErrCodeInternalServerError, "Failed to list files", err)
	}
	if records == nil {
		records = []*Record{}
	}

	if h.redis != nil {
		_ = h.redis.Set(cacheKey, records, listCacheTTL)
	}

	return response.SuccessWithMeta(c, records, &response.Meta{
		Total: len(records),
	})
}

// GetByID handles GET /api/files/:id
func (h *Handler) GetByID(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)

	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid file id", nil)
	}

	record, found := h.fileRepo.GetByID(id)
	if !found {
		return response.NotFound(c, response.ErrCodeFileNotFound, "File not found")
	}
	if record.UserID != claims.UserID {
		return response.Forbidden(c, response.ErrCodeForbidden, "Access denied")
	}

	return response.Success(c, record)
}

// Raw handles GET /api/files/:id/raw, serving the decoded content under the
// stored mimetype.
func (h *Handler) Raw(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)

	id, err := parseID(c)
	if err != nil {
		return response.ValidationError(c, "Invalid file id", nil)
	}

	record, found := h.fileRepo.GetByID(id)
	if !found {
		return response.NotFound(c, response.ErrCodeFileNotFound, "File not found")
	}
	if record.UserID != claims.UserID {
		return response.Forbidden(c, response.ErrCodeForbidden, "Access denied")
	}

	decoded, err := base64.StdEncoding.DecodeString(record.Src)
	if err != nil {
		return response.InternalServerError(c, response.ErrCodeInternalServerError, "Stored content is corrupt", err)
	}

	mimetype := record.Mimetype
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", record.Filename))
	return c.Blob(http.StatusOK, mimetype, decoded)
}

// Stats handles GET /api/files/stats
func (h *Handler) Stats(c echo.Context) error {
	claims := c.Get("user").(*auth.TokenClaims)

	userTotal, err := h.fileRepo.CountByUser(claims.UserID)
	if err != nil {
		return response.InternalServerError(c, response.ErrCodeInternalServerError, "Failed to count files", err)
	}
	total, err := h.fileRepo.Count()
	if err != nil {
		return response.InternalServerError(c, response.ErrCodeInternalServerError, "Failed to count files", err)
	}

	return response.Success(c, echo.Map{
		"user_total": userTotal,
		"total":      total,
	})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (h *Handler) invalidateListCache(userID int64) {
	if h.redis != nil {
		_ = h.redis.Delete(h.cacheKey(userID))
	}
}
