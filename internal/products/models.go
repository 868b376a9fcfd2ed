package products

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive  = "activo"
	StatusSoldOut = "agotado"
)

// Prices and totals travel as JSON numbers, both on the wire and in the
// persisted data files.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog record. Estado is derived from cantidad and
// recomputed on every mutation, never set by callers.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"nombre"`
	Category    string          `json:"categoria"`
	Price       decimal.Decimal `json:"precio"`
	Quantity    int             `json:"cantidad"`
	HarvestDate string          `json:"fechaCosecha,omitempty"`
	Description string          `json:"descripcion"`
	Image       string          `json:"imagen"`
	ProducerID  int             `json:"agricultorId"`
	Producer    string          `json:"agricultor,omitempty"`
	Status      string          `json:"estado"`
	CreatedAt   time.Time       `json:"fechaCreacion"`
	UpdatedAt   time.Time       `json:"fechaActualizacion"`
}

type NewProduct struct {
	Name        string          `json:"nombre" validate:"required"`
	Category    string          `json:"categoria" validate:"required"`
	Price       decimal.Decimal `json:"precio" validate:"required"`
	Quantity    *int            `json:"cantidad" validate:"required,min=0"`
	HarvestDate string          `json:"fechaCosecha"`
	Description string          `json:"descripcion"`
	Image       string          `json:"imagen"`
	ProducerID  int             `json:"agricultorId" validate:"required"`
	Producer    string          `json:"agricultor"`
}

// UpdateProduct carries the mutable fields; id, agricultorId and
// fechaCreacion are preserved server-side.
type UpdateProduct struct {
	Name        string          `json:"nombre" validate:"required"`
	Category    string          `json:"categoria" validate:"required"`
	Price       decimal.Decimal `json:"precio" validate:"required"`
	Quantity    *int            `json:"cantidad" validate:"required,min=0"`
	HarvestDate string          `json:"fechaCosecha"`
	Description string          `json:"descripcion"`
	Image       string          `json:"imagen"`
	Producer    string          `json:"agricultor"`
}

// ProducerStats aggregates one producer's catalog.
type ProducerStats struct {
	TotalProducts   int             `json:"totalProductos"`
	ActiveProducts  int             `json:"productosActivos"`
	SoldOutProducts int             `json:"productosAgotados"`
	TotalRevenue    decimal.Decimal `json:"ingresosTotales"`
	RecentProducts  []Product       `json:"productosRecientes"`
}

func statusFor(quantity int) string {
	if quantity > 0 {
		return StatusActive
	}
	return StatusSoldOut
}
