package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	catalogports "github.com/shopora/shop-api/internal/domains/catalog/ports"
	"github.com/shopora/shop-api/internal/shared/projection"
)

// ProductAPI exposes the catalog over HTTP.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI wires dependencies.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Product is the transport shape of a catalog aggregate.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" binding:"required"`
	Brand       string          `json:"brand,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURLs   []string        `json:"imageUrls,omitempty"`
	SizeRange   []string        `json:"sizeRange,omitempty"`
	Stock       int             `json:"stock"`
	StockBySize map[string]int  `json:"stockBySize,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// RestockRequest replaces the stock level for one (product, size) bucket.
type RestockRequest struct {
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

// Post /v1/products
// Add a product to the catalog
func (api *ProductAPI) AddProduct(c *gin.Context) {
	var payload Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := toDomainProduct(payload)
	if err != nil {
		catalogResponder.RespondError(c, err)
		return
	}
	saved, err := api.service.AddProduct(c.Request.Context(), product)
	if err != nil {
		catalogResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromProductProjection(saved))
}

// Get /v1/products
// List the catalog
func (api *ProductAPI) ListProducts(c *gin.Context) {
	result, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		catalogResponder.RespondError(c, err)
		return
	}
	list := make([]Product, 0, len(result))
	for _, proj := range result {
		list = append(list, fromProductProjection(proj))
	}
	c.JSON(http.StatusOK, list)
}

// Get /v1/products/:productId
// Find a product by ID
func (api *ProductAPI) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	proj, err := api.service.GetProductByID(c.Request.Context(), id)
	if err != nil {
		catalogResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProductProjection(proj))
}

// Delete /v1/products/:productId
// Remove a product
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		catalogResponder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/products/:productId/stock
// Read availability for a (product, size) key
func (api *ProductAPI) GetStock(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	size := c.Query("size")
	available, err := api.service.AvailableStock(c.Request.Context(), id, size)
	if err != nil {
		catalogResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "size": size, "available": available})
}

// Put /v1/products/:productId/stock
// Replace the stock level for one bucket
func (api *ProductAPI) RestockProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload RestockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.RestockProduct(c.Request.Context(), id, payload.Size, payload.Quantity)
	if err != nil {
		catalogResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProductProjection(saved))
}

func toDomainProduct(payload Product) (*catalogdomain.Product, error) {
	product, err := catalogdomain.NewProduct(payload.ID, payload.Name, payload.Price, payload.SizeRange)
	if err != nil {
		return nil, err
	}
	product.Brand = payload.Brand
	product.ImageURLs = append([]string{}, payload.ImageURLs...)
	if product.RequiresSize() {
		for size, qty := range payload.StockBySize {
			if err := product.SetStock(size, qty); err != nil {
				return nil, err
			}
		}
	} else if err := product.SetStock("", payload.Stock); err != nil {
		return nil, err
	}
	return product, nil
}

func fromProductProjection(proj *projection.Projection[*catalogdomain.Product]) Product {
	if proj == nil || proj.Entity == nil {
		return Product{}
	}
	entity := proj.Entity
	payload := Product{
		ID:        entity.ID,
		Name:      entity.Name,
		Brand:     entity.Brand,
		Price:     entity.Price,
		ImageURLs: append([]string{}, entity.ImageURLs...),
		SizeRange: append([]string{}, entity.SizeRange...),
		Stock:     entity.TotalStock(),
	}
	if entity.RequiresSize() {
		payload.StockBySize = make(map[string]int, len(entity.Stock.BySize))
		for size, qty := range entity.Stock.BySize {
			payload.StockBySize[size] = qty
		}
	}
	if !proj.Metadata.CreatedAt.IsZero() {
		created := proj.Metadata.CreatedAt
		payload.CreatedAt = &created
	}
	if !proj.Metadata.UpdatedAt.IsZero() {
		updated := proj.Metadata.UpdatedAt
		payload.UpdatedAt = &updated
	}
	return payload
}
