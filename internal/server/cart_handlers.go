package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raflibima25/go-electroshop/internal/models"
)

// AddToCartRequest is the body of POST /cart
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest is the body of PUT /cart/{id}
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartItemResponse is one line of the cart
type CartItemResponse struct {
	ID       uint           `json:"id"`
	Quantity int            `json:"quantity"`
	Product  models.Product `json:"product"`
}

// CartResponse is the user's cart with totals
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice float64            `json:"total_price"`
}

var errCartItemNotFound = errors.New("cart item not found or doesn't belong to the user")

// @Summary Get the user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} envelope{data=CartResponse}
// @Failure 401 {object} envelope
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	sessionData, _ := caller(c)

	var items []models.CartItem
	if err := s.db.Where("user_id = ?", sessionData.UserID).
		Preload("Product").
		Order("id").
		Find(&items).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to get cart")
		fail(c, http.StatusInternalServerError, "Failed to get cart: "+err.Error())
		return
	}

	cart := CartResponse{Items: make([]CartItemResponse, 0, len(items))}
	for _, item := range items {
		cart.TotalItems += item.Quantity
		cart.TotalPrice += item.Product.Price * float64(item.Quantity)
		cart.Items = append(cart.Items, CartItemResponse{
			ID:       item.ID,
			Quantity: item.Quantity,
			Product:  item.Product,
		})
	}

	respond(c, http.StatusOK, "Cart retrieved successfully", cart)
}

// @Summary Add to cart
// @Description Adds a product, merging the quantity into an existing line
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddToCartRequest true "Add to cart request"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /cart [post]
func (s *Server) addToCart(c *gin.Context) {
	sessionData, _ := caller(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		fail(c, http.StatusBadRequest, "Product not found")
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.Where("user_id = ? AND product_id = ?", sessionData.UserID, req.ProductID).First(&existing).Error
		switch {
		case err == nil:
			existing.Quantity += req.Quantity
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.CartItem{
				UserID:    sessionData.UserID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to add to cart")
		fail(c, http.StatusInternalServerError, "Failed to add to cart: "+err.Error())
		return
	}

	respond(c, http.StatusOK, "Item added to cart successfully", nil)
}

// @Summary Update cart item
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart Item ID"
// @Param request body UpdateCartItemRequest true "Update cart item request"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /cart/{id} [put]
func (s *Server) updateCartItem(c *gin.Context) {
	sessionData, _ := caller(c)

	itemID, ok := parseID(c)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND user_id = ?", itemID, sessionData.UserID).First(&item).Error; err != nil {
		fail(c, http.StatusBadRequest, "Failed to update cart item: "+errCartItemNotFound.Error())
		return
	}

	item.Quantity = req.Quantity
	if err := s.db.Save(&item).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update cart item")
		fail(c, http.StatusInternalServerError, "Failed to update cart item: "+err.Error())
		return
	}

	respond(c, http.StatusOK, "Cart item updated successfully", nil)
}

// @Summary Remove from cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart Item ID"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /cart/{id} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	sessionData, _ := caller(c)

	itemID, ok := parseID(c)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	result := s.db.Where("id = ? AND user_id = ?", itemID, sessionData.UserID).Delete(&models.CartItem{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to remove from cart")
		fail(c, http.StatusInternalServerError, "Failed to remove from cart: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusBadRequest, "Failed to remove from cart: "+errCartItemNotFound.Error())
		return
	}

	respond(c, http.StatusOK, "Item removed from cart successfully", nil)
}

// @Summary Clear cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} envelope
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	sessionData, _ := caller(c)

	if err := s.db.Where("user_id = ?", sessionData.UserID).Delete(&models.CartItem{}).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear cart")
		fail(c, http.StatusInternalServerError, "Failed to clear cart: "+err.Error())
		return
	}

	respond(c, http.StatusOK, "Cart cleared successfully", nil)
}
