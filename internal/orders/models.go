package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle: confirmado may move to any other state; entregado and
// cancelado are terminal. Only the cancellation transition is exposed here,
// the rest are driven externally.
const (
	OrderConfirmed = "confirmado"
	OrderPreparing = "preparacion"
	OrderInTransit = "camino"
	OrderDelivered = "entregado"
	OrderCancelled = "cancelado"
)

const (
	DeliveryScheduled = "programada"
	DeliveryCancelled = "cancelada"
	DeliveryDelivered = "entregada"
)

// ShippingFee is the flat fee added to every order.
var ShippingFee = decimal.NewFromFloat(2.00)

// CartItem is one line of a cart; its id is the product id and is unique
// within the cart.
type CartItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"nombre"`
	Price    decimal.Decimal `json:"precio"`
	Quantity int             `json:"cantidad"`
	Producer string          `json:"agricultor"`
	Image    string          `json:"imagen"`
}

// Cart is the per-user line item list.
type Cart struct {
	UserID int        `json:"usuarioId"`
	Items  []CartItem `json:"items"`
}

type CartSummary struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"envio"`
	Total      decimal.Decimal `json:"total"`
	TotalItems int             `json:"totalItems"`
	Items      []CartItem      `json:"items"`
}

// Order is created once per checkout from a snapshot of the cart and is
// never deleted; only estado changes afterwards.
type Order struct {
	ID            string          `json:"id"`
	UserID        int             `json:"usuarioId"`
	Date          time.Time       `json:"fecha"`
	Items         []CartItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"envio"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"estado"`
	Address       string          `json:"direccionEntrega"`
	PaymentMethod string          `json:"metodoPago"`
	Tracking      string          `json:"tracking"`
}

// Delivery is derived from its order at checkout and shares its id and
// tracking code. Its lifecycle mirrors the order's cancellation only.
type Delivery struct {
	ID       string     `json:"id"`
	OrderID  string     `json:"pedidoId"`
	Date     time.Time  `json:"fechaEntrega"`
	Status   string     `json:"estado"`
	Products []CartItem `json:"productos"`
	Address  string     `json:"direccion"`
	Courier  string     `json:"repartidor"`
	Phone    string     `json:"telefono"`
	Window   string     `json:"horario"`
	Tracking string     `json:"tracking"`
}

// Filter narrows ListOrders. Zero values mean "no restriction".
type Filter struct {
	UserID    int
	Status    string // exact estado, or "todos"
	DateRange string // hoy, semana, mes, 3meses, todos
	Search    string // matches "pedido #<id>" or any item nombre
}

type OrderStats struct {
	TotalOrders   int `json:"totalPedidos"`
	PendingOrders int `json:"pedidosPendientes"`
}

type DeliverySummary struct {
	Today int `json:"hoy"`
	Week  int `json:"semana"`
	Month int `json:"mes"`
}

// Fixed rosters the delivery derivation draws from.
var (
	couriers = []string{"Juan Repartidor", "María Repartidora", "Carlos Repartidor", "Ana Repartidora"}
	windows  = []string{"9:00 - 13:00", "14:00 - 18:00", "10:00 - 12:00", "15:00 - 17:00"}
)

const courierPhone = "+57 300 111 2233"

const (
	defaultAddress       = "Calle Principal #123, Ciudad"
	defaultPaymentMethod = "Tarjeta Crédito"
)
