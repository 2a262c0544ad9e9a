package handlers

import (
	"github.com/dimitrije/volunteer-api/internal/catalog"
	"github.com/m1z23r/drift/pkg/drift"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) Skills(c *drift.Context) {
	_ = c.JSON(200, h.catalog.Skills)
}

func (h *CatalogHandler) Urgency(c *drift.Context) {
	_ = c.JSON(200, h.catalog.Urgency)
}
