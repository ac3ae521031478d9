package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-service/errs"
	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/services"
)

type createOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	Notes           string                 `json:"notes"`
}

func CreateOrder(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("order_create", c.Writer.Status() < 300)
	}()
	actor, _ := middlewares.CurrentUser(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}

	order, err := orders.Place(c.Request.Context(), actor, services.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"message": "order created successfully", "order": order})

	// Events are best effort and published only after the checkout committed.
	if rabbitMQ != nil {
		priority := 5
		if order.TotalAmount > 1000 {
			priority = 9
		}
		event := models.OrderEvent{
			OrderID:  order.ID,
			Type:     "created",
			Status:   order.Status,
			Total:    order.TotalAmount,
			Occurred: time.Now(),
		}
		if err := rabbitMQ.PublishOrderEvent(event, priority); err != nil {
			log.Printf("Failed to publish order created event: %v", err)
		}

		check := models.OrderEvent{
			OrderID:  order.ID,
			Type:     "payment_check",
			Status:   order.Status,
			Total:    order.TotalAmount,
			Occurred: time.Now(),
		}
		delay := time.Duration(cfg.PaymentCheckMin) * time.Minute
		if err := rabbitMQ.PublishDelayedEvent(check, delay); err != nil {
			log.Printf("Failed to publish delayed payment check event: %v", err)
		}
	}
}

func GetUserOrders(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("order_list", c.Writer.Status() < 300)
	}()
	actor, _ := middlewares.CurrentUser(c)

	page, limit := pageQuery(c)
	list, total, err := orders.List(c.Request.Context(), actor, services.OrderListQuery{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	respond(c, http.StatusOK, gin.H{
		"count":  len(list),
		"total":  total,
		"page":   page,
		"pages":  totalPages(total, limit),
		"orders": list,
	})
}

func GetOrderDetails(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("order_details", c.Writer.Status() < 300)
	}()
	actor, _ := middlewares.CurrentUser(c)

	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := orders.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"order": order})
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func UpdateOrderStatus(c *gin.Context) {
	defer func() {
		middlewares.RecordOperation("order_update_status", c.Writer.Status() < 300)
	}()
	actor, _ := middlewares.CurrentUser(c)

	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}

	order, err := orders.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "order status updated", "order": order})

	if rabbitMQ != nil {
		priority := 5
		if order.Status == models.OrderCancelled {
			priority = 8
		}
		event := models.OrderEvent{
			OrderID:  order.ID,
			Type:     "status_updated",
			Status:   order.Status,
			Total:    order.TotalAmount,
			Occurred: time.Now(),
		}
		if err := rabbitMQ.PublishOrderEvent(event, priority); err != nil {
			log.Printf("Failed to publish order updated event: %v", err)
		}
	}
}
