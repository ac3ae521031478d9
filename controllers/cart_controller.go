package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/errs"
	"marketplace-service/middlewares"
)

func GetCart(c *gin.Context) {
	user, _ := middlewares.CurrentUser(c)

	cart, err := carts.Get(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"cart": cart})
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  *int  `json:"quantity" binding:"omitempty,gte=1"`
}

func AddToCart(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("cart_add", c.Writer.Status() < 300)
	}()
	user, _ := middlewares.CurrentUser(c)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := carts.Add(c.Request.Context(), user.ID, req.ProductID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "item added to cart", "cart": cart})
}

type updateCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

func UpdateCartItem(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("cart_update", c.Writer.Status() < 300)
	}()
	user, _ := middlewares.CurrentUser(c)

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}

	cart, err := carts.Update(c.Request.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "cart updated", "cart": cart})
}

func RemoveFromCart(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("cart_remove", c.Writer.Status() < 300)
	}()
	user, _ := middlewares.CurrentUser(c)

	productID, err := pathID(c, "productId")
	if err != nil {
		respondError(c, err)
		return
	}

	cart, err := carts.Remove(c.Request.Context(), user.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "item removed from cart", "cart": cart})
}

func ClearCart(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("cart_clear", c.Writer.Status() < 300)
	}()
	user, _ := middlewares.CurrentUser(c)

	cart, err := carts.Clear(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "cart cleared", "cart": cart})
}
