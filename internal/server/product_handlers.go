package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raflibima25/go-electroshop/internal/models"
)

// ProductRequest is the body of product create and update
type ProductRequest struct {
	Thumbnail string  `json:"thumbnail"`
	Category  string  `json:"category" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	ImageLink string  `json:"image_link"`
}

// ProductFilter holds the catalog query parameters
type ProductFilter struct {
	Category string  `form:"category"`
	Search   string  `form:"search"`
	MinPrice float64 `form:"min_price"`
	MaxPrice float64 `form:"max_price"`
	Page     int     `form:"page,default=1"`
	Limit    int     `form:"limit,default=10"`
}

// Pagination describes one page of a listing
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	TotalItems  int64 `json:"total_items"`
	ItemPerPage int   `json:"item_per_page"`
}

// ProductListResponse is one page of products
type ProductListResponse struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// @Summary List products
// @Tags product
// @Produce json
// @Param category query string false "Filter by category"
// @Param search query string false "Search term"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} envelope{data=ProductListResponse}
// @Router /product [get]
func (s *Server) listProducts(c *gin.Context) {
	var filter ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		fail(c, http.StatusBadRequest, "Invalid filter parameters: "+err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	query := s.db.Model(&models.Product{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", term, term)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count products")
		fail(c, http.StatusInternalServerError, "failed to count products")
		return
	}

	products := make([]models.Product, 0, filter.Limit)
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&products).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to get products")
		fail(c, http.StatusInternalServerError, "failed to get products")
		return
	}

	respond(c, http.StatusOK, "Get products success", ProductListResponse{
		Products: products,
		Pagination: Pagination{
			CurrentPage: filter.Page,
			TotalPage:   int(math.Ceil(float64(total) / float64(filter.Limit))),
			TotalItems:  total,
			ItemPerPage: filter.Limit,
		},
	})
}

// @Summary Get product by ID
// @Tags product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} envelope{data=models.Product}
// @Failure 404 {object} envelope
// @Router /product/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		s.logger.Error().Err(err).Uint("product_id", id).Msg("Failed to get product")
		fail(c, http.StatusInternalServerError, "failed to get product")
		return
	}

	respond(c, http.StatusOK, "Get product successful", product)
}

// @Summary List product categories
// @Tags product
// @Produce json
// @Success 200 {object} envelope
// @Router /product/categories [get]
func (s *Server) listCategories(c *gin.Context) {
	categories := []string{}
	if err := s.db.Model(&models.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to get product categories")
		fail(c, http.StatusInternalServerError, "failed to get product categories")
		return
	}

	respond(c, http.StatusOK, "Get product categories successful", gin.H{
		"categories": categories,
	})
}

// @Summary Create product
// @Tags product-management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} envelope{data=models.Product}
// @Failure 400 {object} envelope
// @Router /product-management [post]
func (s *Server) createProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	product := models.Product{
		Thumbnail: req.Thumbnail,
		Category:  strings.TrimSpace(req.Category),
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		ImageLink: req.ImageLink,
	}

	if err := s.db.Create(&product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create product")
		fail(c, http.StatusBadRequest, "failed to create product")
		return
	}

	respond(c, http.StatusCreated, "Product created successfully", product)
}

// @Summary Update product
// @Tags product-management
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Product data"
// @Success 200 {object} envelope{data=models.Product}
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /product-management/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		s.logger.Error().Err(err).Uint("product_id", id).Msg("Failed to get product for update")
		fail(c, http.StatusInternalServerError, "failed to get product")
		return
	}

	product.Thumbnail = req.Thumbnail
	product.Category = strings.TrimSpace(req.Category)
	product.Name = strings.TrimSpace(req.Name)
	product.Price = req.Price
	product.ImageLink = req.ImageLink

	if err := s.db.Save(&product).Error; err != nil {
		s.logger.Error().Err(err).Uint("product_id", id).Msg("Failed to update product")
		fail(c, http.StatusInternalServerError, "failed to update product")
		return
	}

	respond(c, http.StatusOK, "Product updated successfully", product)
}

// @Summary Delete product
// @Tags product-management
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /product-management/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	result := s.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Uint("product_id", id).Msg("Failed to delete product")
		fail(c, http.StatusInternalServerError, "failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "product not found")
		return
	}

	respond(c, http.StatusOK, "Product deleted successfully", nil)
}
