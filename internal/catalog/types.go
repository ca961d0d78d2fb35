package catalog

// Item is one catalog item as the remote POS API returns it. Sub-resources
// (categories, tags, itemStock) are only populated when the corresponding
// expansion was requested.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Price        int64         `json:"price"`
	Cost         int64         `json:"cost"`
	SKU          string        `json:"sku"`
	Code         string        `json:"code"`
	StockCount   int64         `json:"stockCount"`
	Available    bool          `json:"available"`
	ModifiedTime int64         `json:"modifiedTime"`
	Categories   *CategoryList `json:"categories,omitempty"`
	Tags         *TagList      `json:"tags,omitempty"`
	ItemStock    *ItemStock    `json:"itemStock,omitempty"`
}

// ItemStock is the expanded per-item stock sub-resource.
type ItemStock struct {
	Quantity int64 `json:"quantity"`
}

// Category is a remote item category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tag is a remote label; the dashboard uses tags to mean "vendor".
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryList is the expanded categories sub-resource envelope.
type CategoryList struct {
	Elements []Category `json:"elements"`
}

// TagList is the expanded tags sub-resource envelope.
type TagList struct {
	Elements []Tag `json:"elements"`
}

// Stock returns the item's authoritative stock count. The remote reports
// stock in two places: the root-level stockCount, which is frequently stale
// or zero, and the expanded itemStock sub-resource, which is authoritative
// whenever present. Every read path must go through this accessor.
func (it *Item) Stock() int64 {
	if it.ItemStock != nil {
		return it.ItemStock.Quantity
	}
	return it.StockCount
}

// CategoryRefs returns the expanded categories, or nil when the expansion
// was absent.
func (it *Item) CategoryRefs() []Category {
	if it.Categories == nil {
		return nil
	}
	return it.Categories.Elements
}

// TagIDs returns the IDs of the item's expanded tags.
func (it *Item) TagIDs() []string {
	if it.Tags == nil {
		return nil
	}
	ids := make([]string, 0, len(it.Tags.Elements))
	for _, t := range it.Tags.Elements {
		ids = append(ids, t.ID)
	}
	return ids
}

// HasTag reports whether the item carries the given tag in its expansion.
func (it *Item) HasTag(tagID string) bool {
	if it.Tags == nil {
		return false
	}
	for _, t := range it.Tags.Elements {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
