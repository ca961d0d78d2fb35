package handlers

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ShipmentInfo describes one archived vendor shipment file.
type ShipmentInfo struct {
	Key          string    `json:"key" jsonschema:"required"`
	Size         int64     `json:"size" jsonschema:"required"`
	Checksum     string    `json:"checksum"`
	OriginalName string    `json:"originalName,omitempty"`
	VendorTag    string    `json:"vendorTag,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt,omitempty"`
	ModifiedAt   time.Time `json:"modifiedAt"`
}

// ListShipmentsResponse represents the archived shipment file listing
type ListShipmentsResponse struct {
	Shipments []ShipmentInfo `json:"shipments" jsonschema:"required"`
}

// ListShipments lists archived vendor shipment files
// @Summary List archived shipment files
// @Description Lists the vendor shipment files archived at upload time, optionally scoped to one vendor tag.
// @Tags reconcile
// @Produce json
// @Param tagId query string false "Vendor tag ID to scope the listing"
// @Success 200 {object} ListShipmentsResponse
// @Failure 503 {object} map[string]string "Archiving not configured"
// @Router /reconcile/shipments [get]
func (h *ReconcileHandler) ListShipments(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shipment archiving is not configured"})
		return
	}

	prefix := "shipments/"
	if tagID := c.Query("tagId"); tagID != "" {
		prefix += tagID + "/"
	}

	keys, err := h.archive.List(c.Request.Context(), prefix)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("Failed to list shipment archive")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list shipment archive"})
		return
	}

	shipments := make([]ShipmentInfo, 0, len(keys))
	for _, key := range keys {
		info, err := h.archive.GetInfo(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to stat archived shipment")
			continue
		}
		s := ShipmentInfo{
			Key:        info.Key,
			Size:       info.Size,
			Checksum:   info.Checksum,
			ModifiedAt: info.ModifiedAt,
		}
		if info.Metadata != nil {
			s.OriginalName = info.Metadata.OriginalName
			s.VendorTag = info.Metadata.VendorTag
			s.SessionID = info.Metadata.SessionID
			s.UploadedAt = info.Metadata.UploadedAt
		}
		shipments = append(shipments, s)
	}

	c.JSON(http.StatusOK, ListShipmentsResponse{Shipments: shipments})
}

// DownloadShipment streams one archived shipment file back to the operator
// @Summary Download an archived shipment file
// @Description Returns the original bytes of one archived vendor shipment file.
// @Tags reconcile
// @Produce application/octet-stream
// @Param key query string true "Archive key as returned by the listing"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 503 {object} map[string]string "Archiving not configured"
// @Router /reconcile/shipments/download [get]
func (h *ReconcileHandler) DownloadShipment(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shipment archiving is not configured"})
		return
	}

	key := c.Query("key")
	if !validShipmentKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key must name an archived shipment"})
		return
	}

	exists, err := h.archive.Exists(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read shipment archive"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
		return
	}

	content, err := h.archive.Get(c.Request.Context(), key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to read archived shipment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read shipment archive"})
		return
	}

	filename := path.Base(key)
	contentType := "application/octet-stream"
	if info, err := h.archive.GetInfo(c.Request.Context(), key); err == nil {
		if checksum, err := h.archive.GetChecksum(c.Request.Context(), key); err == nil {
			c.Header("X-Content-Checksum", checksum)
		}
		if info.Metadata != nil {
			if info.Metadata.OriginalName != "" {
				filename = info.Metadata.OriginalName
			}
			if info.Metadata.ContentType != "" {
				contentType = info.Metadata.ContentType
			}
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, content)
}

// validShipmentKey accepts only keys the archive itself issues. Keys come
// back from the listing, so anything outside the shipments/ prefix or
// containing a parent reference is a forged request.
func validShipmentKey(key string) bool {
	return strings.HasPrefix(key, "shipments/") && !strings.Contains(key, "..")
}
