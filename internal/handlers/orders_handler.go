package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"order-pipeline/internal/documents"
	"order-pipeline/internal/lifecycle"
	"order-pipeline/internal/orders"
	"order-pipeline/internal/validation"
)

// API groups the dependencies behind the HTTP surface.
type API struct {
	Engine    *lifecycle.Engine
	Orders    *orders.Store
	Documents *documents.Store
	Log       *slog.Logger

	validate *validatorv10.Validate
}

// NewAPI builds the handler set.
func NewAPI(engine *lifecycle.Engine, ordersStore *orders.Store, docs *documents.Store, log *slog.Logger) *API {
	return &API{
		Engine:    engine,
		Orders:    ordersStore,
		Documents: docs,
		Log:       log.With("component", "http"),
		validate:  validation.New(),
	}
}

// Register attaches all routes to the router.
func (a *API) Register(r *gin.Engine) {
	r.POST("/orders", a.createOrder)
	r.GET("/orders", a.listOrders)
	r.GET("/orders/:id", a.getOrder)
	r.POST("/orders/:id/documents", a.uploadDocument)
	r.GET("/orders/:id/documents", a.listOrderDocuments)
	r.GET("/documents", a.listDocuments)
	r.GET("/buckets", a.listBuckets)
	r.GET("/health/storage", a.storageHealth)
}

func (a *API) createOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		// BindAndValidate already wrote the 400
		return
	}

	order, err := a.Engine.CreateOrder(ctx, lifecycle.CreateParams{
		CustomerEmail:     req.CustomerEmail,
		CustomerName:      req.CustomerName,
		Amount:            req.Amount,
		Status:            orders.Status(req.Status),
		ShipmentReference: req.ShipmentReference,
		ShippedAt:         req.ShippedAt,
	})
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (a *API) listOrders(c *gin.Context) {
	list, err := a.Engine.ListOrders(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  len(list),
		"orders": list,
	})
}

func (a *API) getOrder(c *gin.Context) {
	order, err := a.Engine.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
