package handlers

import (
	"log/slog"
	"net/http"
	"os"

	"agrotec/internal/notify"
	"agrotec/internal/orders"
	"agrotec/internal/products"
	"agrotec/internal/users"
	"agrotec/middleware"
	"agrotec/pkg/ctxmanage"
	"agrotec/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	u        *users.Conf
	p        *products.Conf
	o        *orders.Conf
	n        *notify.Center
	validate *validator.Validate
}

func NewHandler(u *users.Conf, p *products.Conf, o *orders.Conf, n *notify.Center) *Handler {
	return &Handler{
		u:        u,
		p:        p,
		o:        o,
		n:        n,
		validate: validator.New(),
	}
}

// API wires the full route table onto a fresh engine.
func API(u *users.Conf, p *products.Conf, o *orders.Conf, n *notify.Center) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	h := NewHandler(u, p, o, n)
	r.Use(middleware.Logger(), gin.Recovery())

	r.GET("/ping", healthCheck)

	r.POST("/registrar", h.Register)
	r.POST("/login", h.Login)
	r.GET("/usuarios", h.ListUsers)

	r.GET("/productos", h.ListProducts)
	r.GET("/productos/agricultor/:id", h.ListProductsByProducer)
	r.POST("/productos/agregar", h.CreateProduct)
	r.PUT("/productos/editar/:id", h.UpdateProduct)
	r.DELETE("/productos/eliminar/:id", h.DeleteProduct)
	r.GET("/estadisticas/agricultor/:id", h.ProducerStatistics)

	r.POST("/carrito/agregar", h.AddToCart)
	r.PUT("/carrito/cantidad", h.ChangeQuantity)
	r.DELETE("/carrito/eliminar/:usuarioId/:productoId", h.RemoveFromCart)
	r.POST("/carrito/vaciar/:usuarioId", h.ClearCart)
	r.GET("/carrito/:usuarioId", h.CartSummary)

	r.POST("/pedidos/procesar", h.Checkout)
	r.GET("/pedidos", h.ListOrders)
	r.GET("/pedidos/usuario/:userId", h.OrdersForUser)
	r.POST("/pedidos/cancelar/:id", h.CancelOrder)

	r.GET("/entregas", h.ListDeliveries)
	r.GET("/entregas/dia/:fecha", h.DeliveriesForDay)
	r.GET("/entregas/resumen", h.DeliverySummary)

	r.GET("/notificaciones", h.CurrentNotification)

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	slog.Info("healthCheck", slog.String(logkey.TraceID, traceId))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail writes the uniform error envelope.
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
