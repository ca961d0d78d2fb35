package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shelfmirror/inventory-service/internal/catalog"
	"github.com/shelfmirror/inventory-service/internal/mirror"
	"github.com/shelfmirror/inventory-service/internal/parsers/csvfile"
	"github.com/shelfmirror/inventory-service/internal/parsers/xlsxfile"
	"github.com/shelfmirror/inventory-service/internal/reconcile"
	"github.com/shelfmirror/inventory-service/internal/storage"
)

// maxUploadSize caps vendor shipment files. Vendor files run to a few
// thousand rows; anything bigger is a wrong upload.
const maxUploadSize = 10 << 20

// ReconcileHandler drives CSV reconciliation sessions end to end: upload,
// matching, tag fixes, and the final bulk stock apply.
type ReconcileHandler struct {
	client   *catalog.Client
	store    *mirror.Store
	engine   *reconcile.Engine
	sessions *reconcile.SessionManager
	applier  *reconcile.Applier
	archive  storage.Storage
}

// NewReconcileHandler creates a reconcile handler. A nil archive disables
// shipment file archiving.
func NewReconcileHandler(client *catalog.Client, store *mirror.Store, engine *reconcile.Engine, sessions *reconcile.SessionManager, applier *reconcile.Applier, archive storage.Storage) *ReconcileHandler {
	return &ReconcileHandler{
		client:   client,
		store:    store,
		engine:   engine,
		sessions: sessions,
		applier:  applier,
		archive:  archive,
	}
}

// CreateSessionResponse represents a freshly created reconciliation session
type CreateSessionResponse struct {
	SessionID string             `json:"sessionId" jsonschema:"required"`
	Snapshot  reconcile.Snapshot `json:"snapshot" jsonschema:"required"`
}

// CreateSession uploads a vendor shipment file and runs the first matching pass
// @Summary Create reconciliation session
// @Description Uploads a vendor shipment CSV or XLSX file, matches its rows against the tag-scoped remote items, and returns the session with its first snapshot.
// @Tags reconcile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Vendor shipment file (.csv or .xlsx)"
// @Param tagId formData string true "Vendor tag ID scoping the remote item set"
// @Param ruleName formData string false "Stock calculation rule name" default(quantity)
// @Param method formData string false "Identifier method" Enums(upc, name) default(upc)
// @Param identifierColumn formData string false "Column holding the row identifier; inferred from headers when omitted"
// @Param quantityColumn formData string false "Column holding the shipped quantity; inferred from headers when omitted"
// @Success 201 {object} CreateSessionResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]string "Remote catalog unavailable"
// @Router /internal/reconcile/sessions [post]
func (h *ReconcileHandler) CreateSession(c *gin.Context) {
	tagID := c.PostForm("tagId")
	if tagID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tagId is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	var parsed *csvfile.Result
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".xlsx":
		parsed, err = xlsxfile.Parse(content)
	default:
		parsed, err = csvfile.Parse(content)
	}
	if err != nil {
		var parseErr *csvfile.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse file"})
		return
	}

	opts := reconcile.Options{
		RuleName:         c.DefaultPostForm("ruleName", "quantity"),
		Method:           c.DefaultPostForm("method", reconcile.MethodUPC),
		IdentifierColumn: c.PostForm("identifierColumn"),
		QuantityColumn:   c.PostForm("quantityColumn"),
	}

	// Operator overrides win; inference only fills gaps.
	hints := reconcile.InferColumns(parsed.Headers)
	if opts.IdentifierColumn == "" {
		if opts.Method == reconcile.MethodName {
			opts.IdentifierColumn = hints.Name
		} else {
			opts.IdentifierColumn = hints.Identifier
		}
	}
	if opts.IdentifierColumn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier column not mapped and none could be inferred"})
		return
	}
	if opts.QuantityColumn == "" {
		opts.QuantityColumn = hints.Quantity
	}

	session := reconcile.NewSession(h.client, h.store, h.engine, tagID, parsed.Headers, parsed.Rows, opts)

	if err := session.Refresh(c.Request.Context()); err != nil {
		var upstream *catalog.UpstreamError
		if errors.As(err, &upstream) {
			c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.sessions.Put(session)

	// Archiving is best effort; a failed write never blocks the session.
	if h.archive != nil {
		now := time.Now()
		key := storage.BuildShipmentKey(tagID, now, filepath.Base(fileHeader.Filename))
		if err := h.archive.Put(c.Request.Context(), key, content, &storage.Metadata{
			OriginalName: fileHeader.Filename,
			VendorTag:    tagID,
			SessionID:    session.ID,
			UploadedAt:   now,
		}); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to archive shipment file")
		}
	}

	c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: session.ID,
		Snapshot:  session.Snapshot(),
	})
}

// GetSession returns the session's current snapshot
// @Summary Get reconciliation session
// @Description Returns the session's current matching snapshot.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} reconcile.Snapshot
// @Failure 404 {object} map[string]string "Session not found"
// @Router /internal/reconcile/sessions/{sessionId} [get]
func (h *ReconcileHandler) GetSession(c *gin.Context) {
	session := h.sessions.Get(c.Param("sessionId"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// RefreshSession re-fetches remote items and re-runs matching
// @Summary Refresh reconciliation session
// @Description Re-fetches the tag-scoped remote items and re-runs the matching and missing-tag passes.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} reconcile.Snapshot
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 502 {object} map[string]string "Remote catalog unavailable"
// @Router /internal/reconcile/sessions/{sessionId}/refresh [post]
func (h *ReconcileHandler) RefreshSession(c *gin.Context) {
	session := h.sessions.Get(c.Param("sessionId"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if err := session.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// AddSessionTagRequest represents the request for tagging an item
type AddSessionTagRequest struct {
	ItemID string `json:"itemId" binding:"required" jsonschema:"required"`
}

// AddSessionTag associates the session's vendor tag with an item
// @Summary Tag item into session scope
// @Description Associates the session's vendor tag with an item remotely and locally, then re-runs matching so the item can move into the matched set.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body AddSessionTagRequest true "Item to tag"
// @Success 200 {object} reconcile.Snapshot
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 502 {object} map[string]string "Remote catalog unavailable"
// @Router /internal/reconcile/sessions/{sessionId}/tags [post]
func (h *ReconcileHandler) AddSessionTag(c *gin.Context) {
	session := h.sessions.Get(c.Param("sessionId"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req AddSessionTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.AddTag(c.Request.Context(), req.ItemID); err != nil {
		var validation *catalog.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// ApplySession applies the confirmed stock adjustments
// @Summary Apply stock adjustments
// @Description Applies the session's matched stock adjustments to the remote catalog one at a time. Row failures are reported, not fatal.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} reconcile.Report
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Nothing to apply"
// @Router /internal/reconcile/sessions/{sessionId}/apply [post]
func (h *ReconcileHandler) ApplySession(c *gin.Context) {
	session := h.sessions.Get(c.Param("sessionId"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	matched := session.Matched()
	if len(matched) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "No matched rows to apply"})
		return
	}

	report := h.applier.Apply(c.Request.Context(), matched)
	c.JSON(http.StatusOK, report)
}

// DeleteSession dismisses a session
// @Summary Delete reconciliation session
// @Description Removes the session; any unapplied adjustments are discarded.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 204 "Session deleted"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /internal/reconcile/sessions/{sessionId} [delete]
func (h *ReconcileHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if h.sessions.Get(sessionID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	h.sessions.Delete(sessionID)
	c.Status(http.StatusNoContent)
}
