package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmirror/inventory-service/internal/mirror"
)

// ItemsHandler serves the dashboard's mirrored-item read API.
type ItemsHandler struct {
	store *mirror.Store
}

// NewItemsHandler creates an items handler.
func NewItemsHandler(store *mirror.Store) *ItemsHandler {
	return &ItemsHandler{store: store}
}

// ListItemsRequest represents query parameters for listing mirrored items
type ListItemsRequest struct {
	Search     string `form:"search" json:"search"`
	CategoryID string `form:"categoryId" json:"categoryId"`
	TagID      string `form:"tagId" json:"tagId"`
	Stock      string `form:"stock" json:"stock" jsonschema:"enum=out,enum=low,enum=in"`
	Available  *bool  `form:"available" json:"available"`
	MinPrice   *int64 `form:"minPrice" json:"minPrice" binding:"omitempty,min=0" jsonschema:"minimum=0"`
	MaxPrice   *int64 `form:"maxPrice" json:"maxPrice" binding:"omitempty,min=0" jsonschema:"minimum=0"`
	Limit      int    `form:"limit" json:"limit" binding:"omitempty,min=1,max=500" jsonschema:"minimum=1,maximum=500"`
	Offset     int    `form:"offset" json:"offset" binding:"min=0" jsonschema:"minimum=0"`
}

// ListItemsResponse represents the response for listing mirrored items
type ListItemsResponse struct {
	Items []mirror.Item `json:"items" jsonschema:"required"`
	Total int           `json:"total" jsonschema:"required"`
}

// ListItems returns a filtered, paginated page of mirrored catalog items
// @Summary List mirrored items
// @Description Returns mirrored catalog items with optional search, category, tag, stock-band, availability and price filters.
// @Tags items
// @Accept json
// @Produce json
// @Param search query string false "Case-insensitive substring match on name, SKU or code"
// @Param categoryId query string false "Filter by category ID"
// @Param tagId query string false "Filter by tag ID"
// @Param stock query string false "Filter by stock band" Enums(out, low, in)
// @Param available query bool false "Filter by availability"
// @Param minPrice query int false "Minimum price in cents" minimum(0)
// @Param maxPrice query int false "Maximum price in cents" minimum(0)
// @Param limit query int false "Number of items to return" default(50) minimum(1) maximum(500)
// @Param offset query int false "Number of items to skip" default(0) minimum(0)
// @Success 200 {object} ListItemsResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/items [get]
func (h *ItemsHandler) ListItems(c *gin.Context) {
	var req ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Stock != "" {
		switch req.Stock {
		case mirror.StockBandOut, mirror.StockBandLow, mirror.StockBandIn:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be 'out', 'low', or 'in'"})
			return
		}
	}

	items, total, err := h.store.ListItems(c.Request.Context(), mirror.ItemFilter{
		Search:     req.Search,
		CategoryID: req.CategoryID,
		TagID:      req.TagID,
		StockBand:  req.Stock,
		Available:  req.Available,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	c.JSON(http.StatusOK, ListItemsResponse{
		Items: items,
		Total: total,
	})
}

// GetItem returns a single mirrored item by ID
// @Summary Get mirrored item
// @Description Returns a single mirrored catalog item by its remote ID.
// @Tags items
// @Accept json
// @Produce json
// @Param itemId path string true "Item ID"
// @Success 200 {object} mirror.Item
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/items/{itemId} [get]
func (h *ItemsHandler) GetItem(c *gin.Context) {
	itemID := c.Param("itemId")

	item, err := h.store.FindByID(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}
