package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"agrotec/internal/products"
	"agrotec/pkg/ctxmanage"
	"agrotec/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	all, err := h.p.List(c.Request.Context())
	if err != nil {
		slog.Error("list products failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"productos": all})
}

// ListProductsByProducer returns the catalog entries owned by one producer.
func (h *Handler) ListProductsByProducer(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	producerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de agricultor inválido")
		return
	}

	mine, err := h.p.ListByProducer(c.Request.Context(), producerID)
	if err != nil {
		slog.Error("list producer products failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"productos": mine})
}

// CreateProduct validates the payload and appends to the catalog. A missing
// field reports which check failed and leaves the collection untouched.
func (h *Handler) CreateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var np products.NewProduct
	if err := c.ShouldBindJSON(&np); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusBadRequest, "Datos del producto inválidos")
		return
	}

	if err := h.validate.Struct(np); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	product, err := h.p.Create(c.Request.Context(), np)
	if err != nil {
		slog.Error("create product failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Producto agregado exitosamente",
		"producto": product,
	})
}

// UpdateProduct replaces the mutable fields of an existing product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de producto inválido")
		return
	}

	var up products.UpdateProduct
	if err := c.ShouldBindJSON(&up); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusBadRequest, "Datos del producto inválidos")
		return
	}

	if err := h.validate.Struct(up); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	product, err := h.p.Update(c.Request.Context(), id, up)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			fail(c, http.StatusNotFound, "Producto no encontrado")
			return
		}
		slog.Error("update product failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Producto actualizado exitosamente",
		"producto": product,
	})
}

// DeleteProduct removes the product; deleting an unknown id is a 404 and the
// collection is left as it was.
func (h *Handler) DeleteProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de producto inválido")
		return
	}

	if err := h.p.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			fail(c, http.StatusNotFound, "Producto no encontrado")
			return
		}
		slog.Error("delete product failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Producto eliminado exitosamente",
	})
}

// ProducerStatistics aggregates one producer's catalog and order counts into
// the dashboard payload.
func (h *Handler) ProducerStatistics(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	producerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Id de agricultor inválido")
		return
	}

	stats, err := h.p.ProducerStatistics(c.Request.Context(), producerID)
	if err != nil {
		slog.Error("producer statistics failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProductos":     stats.TotalProducts,
		"productosActivos":   stats.ActiveProducts,
		"productosAgotados":  stats.SoldOutProducts,
		"ingresosTotales":    stats.TotalRevenue,
		"productosRecientes": stats.RecentProducts,
	})
}

func validationMessage(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return "Datos del producto inválidos"
	}
	switch vErrs[0].Tag() {
	case "required":
		return "Todos los campos son requeridos"
	case "min":
		return "La cantidad no puede ser negativa"
	default:
		return "Datos del producto inválidos"
	}
}
