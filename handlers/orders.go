package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"agrotec/internal/orders"
	"agrotec/internal/products"
	"agrotec/pkg/ctxmanage"
	"agrotec/pkg/logkey"

	"github.com/gin-gonic/gin"
)

type cartLineRequest struct {
	UserID    int `json:"usuarioId" validate:"required"`
	ProductID int `json:"productoId" validate:"required"`
}

type quantityRequest struct {
	UserID    int `json:"usuarioId" validate:"required"`
	ProductID int `json:"productoId" validate:"required"`
	Delta     int `json:"delta" validate:"required"`
}

type checkoutRequest struct {
	UserID        int    `json:"usuarioId" validate:"required"`
	Address       string `json:"direccionEntrega"`
	PaymentMethod string `json:"metodoPago"`
}

// AddToCart looks the product up in the catalog and adds one unit to the
// user's cart. Sold-out products are rejected.
func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, "usuarioId y productoId son requeridos")
		return
	}

	product, err := h.p.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			fail(c, http.StatusNotFound, "Producto no encontrado")
			return
		}
		slog.Error("product lookup failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	if err := h.o.AddToCart(c.Request.Context(), req.UserID, product); err != nil {
		if errors.Is(err, orders.ErrOutOfStock) {
			fail(c, http.StatusBadRequest, "Producto agotado")
			return
		}
		slog.Error("add to cart failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Producto agregado al carrito",
	})
}

// ChangeQuantity adjusts one cart line by delta.
func (h *Handler) ChangeQuantity(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, "usuarioId, productoId y delta son requeridos")
		return
	}

	if err := h.o.ChangeQuantity(c.Request.Context(), req.UserID, req.ProductID, req.Delta); err != nil {
		slog.Error("change quantity failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveFromCart drops one product line from the cart.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userID, err := strconv.Atoi(c.Param("usuarioId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de usuario inválido")
		return
	}
	productID, err := strconv.Atoi(c.Param("productoId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de producto inválido")
		return
	}

	if err := h.o.RemoveFromCart(c.Request.Context(), userID, productID); err != nil {
		slog.Error("remove from cart failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearCart empties the user's cart.
func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userID, err := strconv.Atoi(c.Param("usuarioId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de usuario inválido")
		return
	}

	if err := h.o.ClearCart(c.Request.Context(), userID); err != nil {
		slog.Error("clear cart failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CartSummary returns the priced cart for one user.
func (h *Handler) CartSummary(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userID, err := strconv.Atoi(c.Param("usuarioId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de usuario inválido")
		return
	}

	summary, err := h.o.CartSummary(c.Request.Context(), userID)
	if err != nil {
		slog.Error("cart summary failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Checkout converts the cart into an order plus its scheduled delivery.
func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, "usuarioId es requerido")
		return
	}

	order, err := h.o.Checkout(c.Request.Context(), req.UserID, req.Address, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			fail(c, http.StatusBadRequest, "El carrito está vacío")
			return
		}
		slog.Error("checkout failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pedido realizado exitosamente",
		"pedido":  order,
	})
}

// ListOrders applies the query filters and returns orders newest first.
func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	f := orders.Filter{
		Status:    c.Query("estado"),
		DateRange: c.Query("rango"),
		Search:    c.Query("buscar"),
	}
	if raw := c.Query("usuarioId"); raw != "" {
		userID, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "Id de usuario inválido")
			return
		}
		f.UserID = userID
	}

	all, err := h.o.ListOrders(c.Request.Context(), f)
	if err != nil {
		slog.Error("list orders failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pedidos": all})
}

// OrdersForUser returns one user's orders newest first plus their counters.
func (h *Handler) OrdersForUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de usuario inválido")
		return
	}

	mine, err := h.o.ListOrders(c.Request.Context(), orders.Filter{UserID: userID})
	if err != nil {
		slog.Error("list user orders failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	stats, err := h.o.OrderStatistics(c.Request.Context(), userID)
	if err != nil {
		slog.Error("order statistics failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pedidos":           mine,
		"totalPedidos":      stats.TotalOrders,
		"pedidosPendientes": stats.PendingOrders,
	})
}

// CancelOrder cancels a confirmado or preparacion order and its delivery.
func (h *Handler) CancelOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	id := c.Param("id")
	if err := h.o.CancelOrder(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			fail(c, http.StatusNotFound, "Pedido no encontrado")
		case errors.Is(err, orders.ErrNotCancellable):
			fail(c, http.StatusBadRequest, "El pedido ya no puede cancelarse")
		default:
			slog.Error("cancel order failed", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.ERROR, err.Error()))
			fail(c, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pedido cancelado exitosamente",
	})
}

// ListDeliveries filters deliveries by estado, soonest first.
func (h *Handler) ListDeliveries(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	all, err := h.o.ListDeliveries(c.Request.Context(), c.Query("estado"))
	if err != nil {
		slog.Error("list deliveries failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entregas": all})
}

// DeliveriesForDay returns deliveries scheduled on the given YYYY-MM-DD date.
func (h *Handler) DeliveriesForDay(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	day, err := time.Parse("2006-01-02", c.Param("fecha"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Fecha inválida, use el formato YYYY-MM-DD")
		return
	}

	matching, err := h.o.DeliveriesForDay(c.Request.Context(), day)
	if err != nil {
		slog.Error("deliveries for day failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entregas": matching})
}

// DeliverySummary returns today/week/month delivery counters.
func (h *Handler) DeliverySummary(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	summary, err := h.o.DeliverySummary(c.Request.Context())
	if err != nil {
		slog.Error("delivery summary failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CurrentNotification returns the visible notice, or 204 when none is live.
func (h *Handler) CurrentNotification(c *gin.Context) {
	notice := h.n.Current()
	if notice == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, notice)
}
