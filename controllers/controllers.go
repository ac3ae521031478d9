package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-service/config"
	"marketplace-service/errs"
	"marketplace-service/rabbitmq"
	"marketplace-service/repository"
	"marketplace-service/services"
)

var (
	cfg      *config.Config
	users    repository.IUserRepo
	vendors  repository.IVendorRepo
	products repository.IProductRepo
	carts    services.ICartService
	orders   services.IOrderService
	rabbitMQ *rabbitmq.RabbitMQ
)

type Deps struct {
	Cfg      *config.Config
	Users    repository.IUserRepo
	Vendors  repository.IVendorRepo
	Products repository.IProductRepo
	Carts    services.ICartService
	Orders   services.IOrderService
}

func Init(d Deps) {
	cfg = d.Cfg
	users = d.Users
	vendors = d.Vendors
	products = d.Products
	carts = d.Carts
	orders = d.Orders
}

func SetRabbitMQ(rmq *rabbitmq.RabbitMQ) {
	rabbitMQ = rmq
}

func respondError(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

func respond(c *gin.Context, status int, payload gin.H) {
	payload["success"] = true
	c.JSON(status, payload)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validationf("invalid %s", name)
	}
	return id, nil
}

func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func totalPages(total, limit int) int {
	return (total + limit - 1) / limit
}
