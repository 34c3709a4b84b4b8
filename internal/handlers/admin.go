package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"listingscraper/internal/database"
	"listingscraper/internal/util"
	"listingscraper/internal/validation"
	"listingscraper/internal/vin"
)

func logger() *slog.Logger {
	return slog.Default().With("component", "handlers")
}

// PinStore is the subset of the VIN registry the admin routes use
type PinStore interface {
	PinVIN(ctx context.Context, code string, e vin.Enrichment) error
	LookupVIN(ctx context.Context, code string) (vin.Enrichment, error)
	ListPinnedVINs(ctx context.Context) ([]database.PinnedVIN, error)
	UnpinVIN(ctx context.Context, code string) error
}

type AdminHandler struct {
	store PinStore
}

func NewAdminHandler(store PinStore) *AdminHandler {
	return &AdminHandler{store: store}
}

// PinVIN godoc
// @Summary Pin VIN attributes
// @Description Stores attributes for a VIN in the local registry. Confidence defaults to 100 when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Param vin path string true "17 character VIN"
// @Param attributes body vin.Enrichment true "Pinned attributes"
// @Success 200 {object} database.PinnedVIN
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/admin/vin/{vin} [put]
func (h *AdminHandler) PinVIN(c *gin.Context) {
	code, err := validation.NormalizeVIN(c.Param("vin"))
	if err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var e vin.Enrichment
	if err := c.ShouldBindJSON(&e); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}
	if e.Confidence < 0 || e.Confidence > 100 {
		util.SafeErrorResponse(c, http.StatusBadRequest, "confidence must be between 0 and 100", nil)
		return
	}

	ctx := c.Request.Context()
	if err := h.store.PinVIN(ctx, code, e); err != nil {
		if errors.Is(err, vin.ErrInvalidVIN) {
			util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid VIN", err)
			return
		}
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to pin VIN", err)
		return
	}

	stored, err := h.store.LookupVIN(ctx, code)
	if err != nil {
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to read pinned VIN", err)
		return
	}
	logger().InfoContext(ctx, "vin pinned", "vin", code, "make", stored.Make, "model", stored.Model)
	c.JSON(http.StatusOK, database.PinnedVIN{VIN: code, Enrichment: stored})
}

// ListPins godoc
// @Summary List pinned VINs
// @Tags admin
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Success 200 {array} database.PinnedVIN
// @Failure 401 {object} models.ErrorResponse
// @Router /api/admin/vin [get]
func (h *AdminHandler) ListPins(c *gin.Context) {
	pins, err := h.store.ListPinnedVINs(c.Request.Context())
	if err != nil {
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to list pinned VINs", err)
		return
	}
	c.JSON(http.StatusOK, pins)
}

// UnpinVIN godoc
// @Summary Remove a pinned VIN
// @Tags admin
// @Param X-Admin-Key header string true "Admin key"
// @Param vin path string true "17 character VIN"
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/vin/{vin} [delete]
func (h *AdminHandler) UnpinVIN(c *gin.Context) {
	code, err := validation.NormalizeVIN(c.Param("vin"))
	if err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.store.UnpinVIN(c.Request.Context(), code); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.SafeErrorResponse(c, http.StatusNotFound, "VIN is not pinned", nil)
			return
		}
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to unpin VIN", err)
		return
	}
	c.Status(http.StatusNoContent)
}
