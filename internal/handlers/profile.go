package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"origiganics/api/internal/models"
	"origiganics/api/internal/repository"
)

type updateAddressesRequest struct {
	Addresses []models.Address `json:"addresses" binding:"required"`
}

func (h HandlerSet) UpdateAddresses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateAddressesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateAddresses(c.Request.Context(), user.ID, req.Addresses); err != nil {
		h.internalError(c, err, "update addresses failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "addresses updated"})
}

func (h HandlerSet) AddToWishlist(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}

	if err := h.users.AddToWishlist(c.Request.Context(), user.ID, productID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		h.internalError(c, err, "add to wishlist failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "added to wishlist"})
}

func (h HandlerSet) RemoveFromWishlist(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	productID := c.Param("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}

	if err := h.users.RemoveFromWishlist(c.Request.Context(), user.ID, productID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		h.internalError(c, err, "remove from wishlist failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed from wishlist"})
}
