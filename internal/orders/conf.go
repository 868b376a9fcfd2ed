package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	ErrOutOfStock     = errors.New("product out of stock")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotCancellable = errors.New("order cannot be cancelled")
)

type CartStore interface {
	Load(ctx context.Context) ([]Cart, error)
	Save(ctx context.Context, carts []Cart) error
}

type OrderStore interface {
	Load(ctx context.Context) ([]Order, error)
	Save(ctx context.Context, orders []Order) error
}

type DeliveryStore interface {
	Load(ctx context.Context) ([]Delivery, error)
	Save(ctx context.Context, deliveries []Delivery) error
}

// Notifier receives the transient user-facing notices the lifecycle emits.
type Notifier interface {
	Publish(level, message string)
}

// Conf owns the cart/order/delivery lifecycle. All mutating operations are
// serialized by one mutex so read-modify-write sequences against the
// snapshot stores cannot interleave.
type Conf struct {
	carts      CartStore
	orders     OrderStore
	deliveries DeliveryStore
	notifier   Notifier
	clock      clockwork.Clock

	mu sync.Mutex
}

func NewConf(carts CartStore, orders OrderStore, deliveries DeliveryStore, notifier Notifier, clock clockwork.Clock) (*Conf, error) {
	if carts == nil || orders == nil || deliveries == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is nil")
	}
	return &Conf{
		carts:      carts,
		orders:     orders,
		deliveries: deliveries,
		notifier:   notifier,
		clock:      clock,
	}, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday at midnight.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}
