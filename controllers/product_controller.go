package controllers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/errs"
	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/policy"
	"marketplace-service/repository"
	"marketplace-service/utils"
)

// GetProducts is public; an authenticated vendor sees exactly their own
// catalog, everyone else sees active products only.
func GetProducts(c *gin.Context) {
	page, limit := pageQuery(c)
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	}
	if user, ok := middlewares.CurrentUser(c); ok && user.Role == models.RoleVendor {
		filter.VendorID = user.ID
	}

	list, total, err := products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Product{}
	}
	respond(c, http.StatusOK, gin.H{
		"count":    len(list),
		"total":    total,
		"page":     page,
		"pages":    totalPages(total, limit),
		"products": list,
	})
}

func GetProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := products.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, errs.NotFoundf("product not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"product": product})
}

type createProductRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=1000"`
	Category    string   `json:"category" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Stock       *int     `json:"stock" binding:"required,gte=0"`
	Image       string   `json:"image"`
	VendorID    int64    `json:"vendor_id"`
}

func CreateProduct(c *gin.Context) {
	actor, _ := middlewares.CurrentUser(c)

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}

	// Vendors are forced to themselves; an admin may create on behalf of a
	// vendor.
	vendorID := actor.ID
	if actor.Role == models.RoleAdmin && req.VendorID != 0 {
		vendorID = req.VendorID
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		Stock:       *req.Stock,
		VendorID:    vendorID,
		Image:       req.Image,
		SKU:         utils.NewSKU(),
		IsActive:    true,
	}
	// The insert and the counter bump commit together.
	err := products.Transact(c.Request.Context(), func(ctx context.Context) error {
		id, err := products.Create(ctx, product)
		if err != nil {
			return err
		}
		product.ID = id
		return vendors.AddProductsCount(ctx, vendorID, 1)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"product": product})
}

type updateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	IsActive    *bool    `json:"is_active"`
}

func UpdateProduct(c *gin.Context) {
	actor, _ := middlewares.CurrentUser(c)

	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := products.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, errs.NotFoundf("product not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.Can(actor, policy.ProductUpdate, product); err != nil {
		respondError(c, err)
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := products.Update(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"product": product})
}

func DeleteProduct(c *gin.Context) {
	actor, _ := middlewares.CurrentUser(c)

	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := products.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, errs.NotFoundf("product not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.Can(actor, policy.ProductDelete, product); err != nil {
		respondError(c, err)
		return
	}

	err = products.Transact(c.Request.Context(), func(ctx context.Context) error {
		if _, err := products.Delete(ctx, id); err != nil {
			return err
		}
		return vendors.AddProductsCount(ctx, product.VendorID, -1)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "product deleted successfully"})
}
