package orders_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"agrotec/internal/orders"
	"agrotec/internal/products"
	"agrotec/internal/stores/memstore"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures published notices for assertions.
type recorder struct {
	mu      sync.Mutex
	notices []string
}

func (r *recorder) Publish(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, level+": "+message)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return ""
	}
	return r.notices[len(r.notices)-1]
}

type fixture struct {
	conf       *orders.Conf
	carts      *memstore.Collection[orders.Cart]
	orders     *memstore.Collection[orders.Order]
	deliveries *memstore.Collection[orders.Delivery]
	clock      clockwork.FakeClock
	notices    *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		carts:      memstore.NewCollection[orders.Cart](),
		orders:     memstore.NewCollection[orders.Order](),
		deliveries: memstore.NewCollection[orders.Delivery](),
		clock:      clockwork.NewFakeClockAt(time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)),
		notices:    &recorder{},
	}
	conf, err := orders.NewConf(f.carts, f.orders, f.deliveries, f.notices, f.clock)
	require.NoError(t, err)
	f.conf = conf
	return f
}

func product(id int, name, price string, quantity int) products.Product {
	return products.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
		Status:   products.StatusActive,
	}
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tomatoes := product(1, "Tomates", "2.50", 10)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.conf.AddToCart(ctx, 1, tomatoes))
	}

	summary, err := f.conf.CartSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, 3, summary.TotalItems)
}

func TestAddToCartSoldOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.conf.AddToCart(ctx, 1, product(1, "Papas", "1.20", 0))
	assert.ErrorIs(t, err, orders.ErrOutOfStock)
	assert.Equal(t, "error: Producto agotado", f.notices.last())

	summary, err := f.conf.CartSummary(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartsAreKeyedByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.conf.AddToCart(ctx, 1, product(1, "Tomates", "2.50", 10)))
	require.NoError(t, f.conf.AddToCart(ctx, 2, product(2, "Papas", "1.20", 10)))

	first, err := f.conf.CartSummary(ctx, 1)
	require.NoError(t, err)
	second, err := f.conf.CartSummary(ctx, 2)
	require.NoError(t, err)

	require.Len(t, first.Items, 1)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Tomates", first.Items[0].Name)
	assert.Equal(t, "Papas", second.Items[0].Name)
}

func TestChangeQuantityRemovesLineAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.conf.AddToCart(ctx, 1, product(1, "Tomates", "2.50", 10)))
	require.NoError(t, f.conf.ChangeQuantity(ctx, 1, 1, 2)) // cantidad 3
	require.NoError(t, f.conf.ChangeQuantity(ctx, 1, 1, -3))

	summary, err := f.conf.CartSummary(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.conf.AddToCart(ctx, 1, product(1, "Tomates", "2.50", 10)))
	require.NoError(t, f.conf.AddToCart(ctx, 1, product(2, "Papas", "1.20", 10)))
	require.NoError(t, f.conf.RemoveFromCart(ctx, 1, 1))

	summary, err := f.conf.CartSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "Papas", summary.Items[0].Name)
}

func TestCartSummaryTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tomatoes := product(1, "Tomates", "2.50", 10)
	potatoes := product(2, "Papas", "1.20", 10)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.conf.AddToCart(ctx, 1, tomatoes))
		require.NoError(t, f.conf.AddToCart(ctx, 1, potatoes))
	}

	summary, err := f.conf.CartSummary(ctx, 1)
	require.NoError(t, err)

	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("11.10")),
		"subtotal %s", summary.Subtotal)
	assert.True(t, summary.Shipping.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("13.10")),
		"total %s", summary.Total)
	assert.Equal(t, 6, summary.TotalItems)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tomatoes := product(1, "Tomates", "2.50", 10)
	potatoes := product(2, "Papas", "1.20", 10)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.conf.AddToCart(ctx, 1, tomatoes))
		require.NoError(t, f.conf.AddToCart(ctx, 1, potatoes))
	}

	order, err := f.conf.Checkout(ctx, 1, "", "")
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, orders.OrderConfirmed, order.Status)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("11.10")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("13.10")))
	assert.Equal(t, "Calle Principal #123, Ciudad", order.Address)
	assert.Equal(t, "Tarjeta Crédito", order.PaymentMethod)
	assert.Contains(t, order.Tracking, "TRK-")

	// the delivery shares id and tracking, scheduled 72h out
	deliveries, err := f.deliveries.Load(ctx)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	d := deliveries[0]
	assert.Equal(t, order.ID, d.OrderID)
	assert.Equal(t, order.Tracking, d.Tracking)
	assert.Equal(t, orders.DeliveryScheduled, d.Status)
	assert.Equal(t, order.Date.Add(72*time.Hour), d.Date)
	assert.NotEmpty(t, d.Courier)
	assert.NotEmpty(t, d.Window)

	// the cart is emptied
	summary, err := f.conf.CartSummary(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	assert.Equal(t, "success: Pedido realizado exitosamente", f.notices.last())
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.conf.Checkout(context.Background(), 1, "", "")
	assert.ErrorIs(t, err, orders.ErrEmptyCart)

	all, err := f.orders.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCheckoutKeepsExplicitAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.conf.AddToCart(ctx, 1, product(1, "Tomates", "2.50", 10)))

	order, err := f.conf.Checkout(ctx, 1, "Carrera 7 #45", "Efectivo")
	require.NoError(t, err)
	assert.Equal(t, "Carrera 7 #45", order.Address)
	assert.Equal(t, "Efectivo", order.PaymentMethod)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.conf.AddToCart(ctx, 1, product(1, "Tomates", "2.50", 10)))
	order, err := f.conf.Checkout(ctx, 1, "", "")
	require.NoError(t, err)

	require.NoError(t, f.conf.CancelOrder(ctx, order.ID))

	all, err := f.orders.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, orders.OrderCancelled, all[0].Status)

	// cancellation cascades to the delivery
	deliveries, err := f.deliveries.Load(ctx)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, orders.DeliveryCancelled, deliveries[0].Status)
}

func TestCancelOrderNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.conf.CancelOrder(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestCancelDeliveredOrderFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.orders.Save(ctx, []orders.Order{
		{ID: "abc", UserID: 1, Status: orders.OrderDelivered},
	}))

	err := f.conf.CancelOrder(ctx, "abc")
	assert.ErrorIs(t, err, orders.ErrNotCancellable)

	all, err := f.orders.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, orders.OrderDelivered, all[0].Status)
}

func seedOrders(t *testing.T, f *fixture) {
	t.Helper()
	now := f.clock.Now().UTC() // 2024-05-15 12:00 UTC, a Wednesday
	require.NoError(t, f.orders.Save(context.Background(), []orders.Order{
		{ID: "o1", UserID: 1, Date: now.Add(-time.Hour), Status: orders.OrderConfirmed,
			Items: []orders.CartItem{{Name: "Tomates"}}},
		{ID: "o2", UserID: 1, Date: now.AddDate(0, 0, -2), Status: orders.OrderDelivered,
			Items: []orders.CartItem{{Name: "Papas"}}},
		{ID: "o3", UserID: 2, Date: now.AddDate(0, 0, -20), Status: orders.OrderInTransit,
			Items: []orders.CartItem{{Name: "Cebollas"}}},
		{ID: "o4", UserID: 1, Date: now.AddDate(0, -4, 0), Status: orders.OrderCancelled,
			Items: []orders.CartItem{{Name: "Zanahorias"}}},
	}))
}

func TestListOrdersSortedNewestFirst(t *testing.T) {
	f := newFixture(t)
	seedOrders(t, f)

	all, err := f.conf.ListOrders(context.Background(), orders.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"o1", "o2", "o3", "o4"},
		[]string{all[0].ID, all[1].ID, all[2].ID, all[3].ID})
}

func TestListOrdersByUser(t *testing.T) {
	f := newFixture(t)
	seedOrders(t, f)

	mine, err := f.conf.ListOrders(context.Background(), orders.Filter{UserID: 2})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "o3", mine[0].ID)
}

func TestListOrdersByStatus(t *testing.T) {
	f := newFixture(t)
	seedOrders(t, f)
	ctx := context.Background()

	delivered, err := f.conf.ListOrders(ctx, orders.Filter{Status: orders.OrderDelivered})
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "o2", delivered[0].ID)

	everything, err := f.conf.ListOrders(ctx, orders.Filter{Status: "todos"})
	require.NoError(t, err)
	assert.Len(t, everything, 4)
}

func TestListOrdersByDateRange(t *testing.T) {
	f := newFixture(t)
	seedOrders(t, f)
	ctx := context.Background()

	cases := []struct {
		rng  string
		want []string
	}{
		{"hoy", []string{"o1"}},
		{"semana", []string{"o1", "o2"}}, // week starts Sunday 2024-05-12
		{"mes", []string{"o1", "o2"}},    // o3 is in April
		{"3meses", []string{"o1", "o2", "o3"}},
		{"todos", []string{"o1", "o2", "o3", "o4"}},
	}
	for _, tc := range cases {
		t.Run(tc.rng, func(t *testing.T) {
			got, err := f.conf.ListOrders(ctx, orders.Filter{DateRange: tc.rng})
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, o := range got {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestListOrdersSearch(t *testing.T) {
	f := newFixture(t)
	seedOrders(t, f)
	ctx := context.Background()

	byItem, err := f.conf.ListOrders(ctx, orders.Filter{Search: "tomates"})
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.Equal(t, "o1", byItem[0].ID)

	byID, err := f.conf.ListOrders(ctx, orders.Filter{Search: "pedido #o3"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "o3", byID[0].ID)
}

func TestOrderStatistics(t *testing.T) {
	f := newFixture(t)
	seedOrders(t, f)
	ctx := context.Background()

	mine, err := f.conf.OrderStatistics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, mine.TotalOrders)
	assert.Equal(t, 1, mine.PendingOrders) // o1 confirmado; o2 entregado, o4 cancelado

	everyone, err := f.conf.OrderStatistics(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, everyone.TotalOrders)
	assert.Equal(t, 2, everyone.PendingOrders)
}

func seedDeliveries(t *testing.T, f *fixture) {
	t.Helper()
	now := f.clock.Now().UTC()
	require.NoError(t, f.deliveries.Save(context.Background(), []orders.Delivery{
		{ID: "d1", OrderID: "o1", Date: now.Add(2 * time.Hour), Status: orders.DeliveryScheduled},
		{ID: "d2", OrderID: "o2", Date: now.AddDate(0, 0, 2), Status: orders.DeliveryScheduled},
		{ID: "d3", OrderID: "o3", Date: now.AddDate(0, 0, 10), Status: orders.DeliveryScheduled},
		{ID: "d4", OrderID: "o4", Date: now.AddDate(0, 0, -1), Status: orders.DeliveryCancelled},
	}))
}

func TestListDeliveriesSortedSoonestFirst(t *testing.T) {
	f := newFixture(t)
	seedDeliveries(t, f)
	ctx := context.Background()

	all, err := f.conf.ListDeliveries(ctx, "todas")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d4", all[0].ID)
	assert.Equal(t, "d1", all[1].ID)

	scheduled, err := f.conf.ListDeliveries(ctx, orders.DeliveryScheduled)
	require.NoError(t, err)
	assert.Len(t, scheduled, 3)
}

func TestListDeliveriesDeliveredStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now().UTC()
	require.NoError(t, f.deliveries.Save(ctx, []orders.Delivery{
		{ID: "d1", OrderID: "o1", Date: now.AddDate(0, 0, -2), Status: orders.DeliveryDelivered},
		{ID: "d2", OrderID: "o2", Date: now.AddDate(0, 0, 1), Status: orders.DeliveryScheduled},
	}))

	delivered, err := f.conf.ListDeliveries(ctx, orders.DeliveryDelivered)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "d1", delivered[0].ID)
}

func TestDeliveriesForDay(t *testing.T) {
	f := newFixture(t)
	seedDeliveries(t, f)

	day := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	matching, err := f.conf.DeliveriesForDay(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, matching, 1)
	assert.Equal(t, "d2", matching[0].ID)
}

func TestDeliverySummary(t *testing.T) {
	f := newFixture(t)
	seedDeliveries(t, f)

	summary, err := f.conf.DeliverySummary(context.Background())
	require.NoError(t, err)

	// today: d1 only. week (Sun 12th to Sat 18th): d1, d2, d4.
	// month (May): d1, d2, d3, d4.
	assert.Equal(t, 1, summary.Today)
	assert.Equal(t, 3, summary.Week)
	assert.Equal(t, 4, summary.Month)
}
