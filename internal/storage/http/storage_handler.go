// Package http provides the HTTP bridge to the secure store facade.
//
// The five calls of the platform bridge are exposed as JSON endpoints. Values travel in
// request and response bodies only; they are never logged or placed in URLs.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/securestore/internal/httputil"
	"github.com/allisson/securestore/internal/storage/http/dto"
	storageUseCase "github.com/allisson/securestore/internal/storage/usecase"
	customValidation "github.com/allisson/securestore/internal/validation"
)

// StorageHandler handles HTTP requests for the secure store.
type StorageHandler struct {
	storageUseCase storageUseCase.StorageUseCase
	logger         *slog.Logger
}

// NewStorageHandler creates a new storage handler.
func NewStorageHandler(useCase storageUseCase.StorageUseCase, logger *slog.Logger) *StorageHandler {
	return &StorageHandler{
		storageUseCase: useCase,
		logger:         logger,
	}
}

// RegisterRoutes mounts the storage endpoints on group.
func (h *StorageHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/set", h.SetHandler)
	group.POST("/get", h.GetHandler)
	group.POST("/remove", h.RemoveHandler)
	group.POST("/clear", h.ClearHandler)
	group.GET("/keys", h.KeysHandler)
}

// SetHandler encrypts and stores a value.
// POST /v1/storage/set {"key": "...", "value": "..."} - Returns 204 No Content.
func (h *StorageHandler) SetHandler(c *gin.Context) {
	var req dto.SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.storageUseCase.Set(c.Request.Context(), *req.Key, req.Value); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetHandler returns the decrypted value stored under a key.
// POST /v1/storage/get {"key": "..."} - Returns 200 OK with {"value": "..."} or {"value": null}.
func (h *StorageHandler) GetHandler(c *gin.Context) {
	var req dto.KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	value, err := h.storageUseCase.Get(c.Request.Context(), *req.Key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.GetResponse{Value: value})
}

// RemoveHandler deletes a key. Removing an absent key succeeds.
// POST /v1/storage/remove {"key": "..."} - Returns 204 No Content.
func (h *StorageHandler) RemoveHandler(c *gin.Context) {
	var req dto.KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.storageUseCase.Remove(c.Request.Context(), *req.Key); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearHandler deletes every entry of the namespace.
// POST /v1/storage/clear - Returns 204 No Content.
func (h *StorageHandler) ClearHandler(c *gin.Context) {
	if err := h.storageUseCase.Clear(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// KeysHandler lists the stored keys.
// GET /v1/storage/keys - Returns 200 OK with {"keys": [...]}.
func (h *StorageHandler) KeysHandler(c *gin.Context) {
	keys, err := h.storageUseCase.Keys(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeysToResponse(keys))
}
