package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"time"

	"agrotec/internal/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Checkout turns the user's cart into a confirmed order, derives the
// correlated delivery (same id and tracking, scheduled three days out) and
// empties the cart. The three collections are persisted in that sequence.
func (c *Conf) Checkout(ctx context.Context, userID int, address, paymentMethod string) (Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	carts, err := c.carts.Load(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("load carts: %w", err)
	}

	items := cartItems(carts, userID)
	if len(items) == 0 {
		c.notifier.Publish(notify.LevelError, "El carrito está vacío")
		return Order{}, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if address == "" {
		address = defaultAddress
	}
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	id := uuid.NewString()
	now := c.clock.Now().UTC()
	order := Order{
		ID:            id,
		UserID:        userID,
		Date:          now,
		Items:         slices.Clone(items),
		Subtotal:      subtotal,
		Shipping:      ShippingFee,
		Total:         subtotal.Add(ShippingFee),
		Status:        OrderConfirmed,
		Address:       address,
		PaymentMethod: paymentMethod,
		Tracking:      "TRK-" + uuid.NewString(),
	}

	all, err := c.orders.Load(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("load orders: %w", err)
	}
	all = append(all, order)
	if err := c.orders.Save(ctx, all); err != nil {
		return Order{}, fmt.Errorf("save orders: %w", err)
	}

	delivery := Delivery{
		ID:       order.ID,
		OrderID:  order.ID,
		Date:     order.Date.Add(72 * time.Hour),
		Status:   DeliveryScheduled,
		Products: slices.Clone(order.Items),
		Address:  order.Address,
		Courier:  couriers[rand.IntN(len(couriers))],
		Phone:    courierPhone,
		Window:   windows[rand.IntN(len(windows))],
		Tracking: order.Tracking,
	}

	deliveries, err := c.deliveries.Load(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("load deliveries: %w", err)
	}
	deliveries = append(deliveries, delivery)
	if err := c.deliveries.Save(ctx, deliveries); err != nil {
		return Order{}, fmt.Errorf("save deliveries: %w", err)
	}

	if err := c.clearCart(ctx, userID); err != nil {
		return Order{}, err
	}

	c.notifier.Publish(notify.LevelSuccess, "Pedido realizado exitosamente")
	return order, nil
}

// ListOrders applies the filter and returns orders newest first.
func (c *Conf) ListOrders(ctx context.Context, f Filter) ([]Order, error) {
	all, err := c.orders.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	filtered := make([]Order, 0, len(all))
	for _, o := range all {
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && f.Status != "todos" && o.Status != f.Status {
			continue
		}
		if !c.matchesDateRange(o.Date, f.DateRange) {
			continue
		}
		if !matchesSearch(o, f.Search) {
			continue
		}
		filtered = append(filtered, o)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})
	return filtered, nil
}

// CancelOrder moves an order to cancelado, allowed only from confirmado or
// preparacion, and cascades the cancellation to the correlated delivery.
func (c *Conf) CancelOrder(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.orders.Load(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	idx := -1
	for i, o := range all {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrOrderNotFound
	}
	if all[idx].Status != OrderConfirmed && all[idx].Status != OrderPreparing {
		return ErrNotCancellable
	}

	all[idx].Status = OrderCancelled
	if err := c.orders.Save(ctx, all); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}

	deliveries, err := c.deliveries.Load(ctx)
	if err != nil {
		return fmt.Errorf("load deliveries: %w", err)
	}
	for i, d := range deliveries {
		if d.OrderID == id {
			deliveries[i].Status = DeliveryCancelled
			if err := c.deliveries.Save(ctx, deliveries); err != nil {
				return fmt.Errorf("save deliveries: %w", err)
			}
			break
		}
	}

	c.notifier.Publish(notify.LevelInfo, "Pedido cancelado exitosamente")
	return nil
}

// OrderStatistics counts a user's orders and how many are still pending
// (confirmado, preparacion or camino). userID 0 counts everything.
func (c *Conf) OrderStatistics(ctx context.Context, userID int) (OrderStats, error) {
	all, err := c.orders.Load(ctx)
	if err != nil {
		return OrderStats{}, fmt.Errorf("load orders: %w", err)
	}

	var stats OrderStats
	for _, o := range all {
		if userID != 0 && o.UserID != userID {
			continue
		}
		stats.TotalOrders++
		switch o.Status {
		case OrderConfirmed, OrderPreparing, OrderInTransit:
			stats.PendingOrders++
		}
	}
	return stats, nil
}

func (c *Conf) matchesDateRange(date time.Time, rng string) bool {
	now := c.clock.Now().UTC()
	switch rng {
	case "hoy":
		return sameDay(date, now)
	case "semana":
		return !date.Before(startOfWeek(now))
	case "mes":
		return date.Month() == now.Month() && date.Year() == now.Year()
	case "3meses":
		return !date.Before(now.AddDate(0, -3, 0))
	default:
		return true
	}
}

func matchesSearch(o Order, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	if strings.Contains(strings.ToLower("pedido #"+o.ID), term) {
		return true
	}
	for _, item := range o.Items {
		if strings.Contains(strings.ToLower(item.Name), term) {
			return true
		}
	}
	return false
}
