package products

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Store is the repository the catalog service runs on.
type Store interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}

type Conf struct {
	store Store
	clock clockwork.Clock

	// mu serializes read-modify-write sequences against the snapshot store.
	mu sync.Mutex
}

func NewConf(store Store, clock clockwork.Clock) (*Conf, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is nil")
	}
	return &Conf{store: store, clock: clock}, nil
}

// List returns the full catalog snapshot; filtering is up to the caller.
func (c *Conf) List(ctx context.Context) ([]Product, error) {
	all, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return all, nil
}

// Get returns the product with the given id.
func (c *Conf) Get(ctx context.Context, id int) (Product, error) {
	all, err := c.store.Load(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("load products: %w", err)
	}
	for _, p := range all {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// ListByProducer filters the catalog by the agricultorId foreign key.
func (c *Conf) ListByProducer(ctx context.Context, producerID int) ([]Product, error) {
	all, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	filtered := make([]Product, 0)
	for _, p := range all {
		if p.ProducerID == producerID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Create appends a product with id = count+1. Ids are not reused after a
// deletion, so a later create can collide with a previously deleted id.
func (c *Conf) Create(ctx context.Context, np NewProduct) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.store.Load(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("load products: %w", err)
	}

	now := c.clock.Now().UTC()
	product := Product{
		ID:          len(all) + 1,
		Name:        np.Name,
		Category:    np.Category,
		Price:       np.Price,
		Quantity:    *np.Quantity,
		HarvestDate: np.HarvestDate,
		Description: np.Description,
		Image:       np.Image,
		ProducerID:  np.ProducerID,
		Producer:    np.Producer,
		Status:      statusFor(*np.Quantity),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	all = append(all, product)
	if err := c.store.Save(ctx, all); err != nil {
		return Product{}, fmt.Errorf("save products: %w", err)
	}
	return product, nil
}

// Update replaces the mutable fields of an existing product, recomputes the
// derived estado and bumps fechaActualizacion.
func (c *Conf) Update(ctx context.Context, id int, in UpdateProduct) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.store.Load(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("load products: %w", err)
	}

	idx := -1
	for i, p := range all {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Product{}, ErrNotFound
	}

	product := all[idx]
	product.Name = in.Name
	product.Category = in.Category
	product.Price = in.Price
	product.Quantity = *in.Quantity
	product.HarvestDate = in.HarvestDate
	product.Description = in.Description
	product.Image = in.Image
	product.Producer = in.Producer
	product.Status = statusFor(*in.Quantity)
	product.UpdatedAt = c.clock.Now().UTC()

	all[idx] = product
	if err := c.store.Save(ctx, all); err != nil {
		return Product{}, fmt.Errorf("save products: %w", err)
	}
	return product, nil
}

// Delete removes the product by index.
func (c *Conf) Delete(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	idx := -1
	for i, p := range all {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	all = append(all[:idx], all[idx+1:]...)
	if err := c.store.Save(ctx, all); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

// ProducerStatistics aggregates counts and potential revenue for one
// producer. RecentProducts is the first five in insertion order.
func (c *Conf) ProducerStatistics(ctx context.Context, producerID int) (ProducerStats, error) {
	mine, err := c.ListByProducer(ctx, producerID)
	if err != nil {
		return ProducerStats{}, err
	}

	stats := ProducerStats{
		TotalProducts:  len(mine),
		TotalRevenue:   decimal.Zero,
		RecentProducts: mine,
	}
	for _, p := range mine {
		if p.Status == StatusActive {
			stats.ActiveProducts++
		} else {
			stats.SoldOutProducts++
		}
		qty := decimal.NewFromInt(int64(p.Quantity))
		stats.TotalRevenue = stats.TotalRevenue.Add(p.Price.Mul(qty))
	}
	if len(stats.RecentProducts) > 5 {
		stats.RecentProducts = stats.RecentProducts[:5]
	}
	return stats, nil
}
