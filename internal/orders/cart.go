package orders

import (
	"context"
	"fmt"

	"agrotec/internal/notify"
	"agrotec/internal/products"

	"github.com/shopspring/decimal"
)

// AddToCart puts one unit of the product in the user's cart: an existing
// line is incremented, otherwise a new line with cantidad 1 is appended.
// A sold-out product fails with ErrOutOfStock and a warning notice.
func (c *Conf) AddToCart(ctx context.Context, userID int, p products.Product) error {
	if p.Quantity == 0 {
		c.notifier.Publish(notify.LevelError, "Producto agotado")
		return ErrOutOfStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	carts, err := c.carts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load carts: %w", err)
	}

	ci := cartIndex(carts, userID)
	if ci == -1 {
		carts = append(carts, Cart{UserID: userID})
		ci = len(carts) - 1
	}

	found := false
	for i, item := range carts[ci].Items {
		if item.ID == p.ID {
			carts[ci].Items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		carts[ci].Items = append(carts[ci].Items, CartItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: 1,
			Producer: p.Producer,
			Image:    p.Image,
		})
	}

	if err := c.carts.Save(ctx, carts); err != nil {
		return fmt.Errorf("save carts: %w", err)
	}

	c.notifier.Publish(notify.LevelSuccess, fmt.Sprintf("%s agregado al carrito", p.Name))
	return nil
}

// RemoveFromCart drops the product's line entirely.
func (c *Conf) RemoveFromCart(ctx context.Context, userID, productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.removeLine(ctx, userID, productID); err != nil {
		return err
	}
	c.notifier.Publish(notify.LevelInfo, "Producto eliminado del carrito")
	return nil
}

// ChangeQuantity adjusts a line by delta; a resulting cantidad <= 0 removes
// the line, keeping the invariant that cart quantities are always positive.
func (c *Conf) ChangeQuantity(ctx context.Context, userID, productID, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	carts, err := c.carts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load carts: %w", err)
	}

	ci := cartIndex(carts, userID)
	if ci == -1 {
		return nil
	}

	for i, item := range carts[ci].Items {
		if item.ID != productID {
			continue
		}
		if item.Quantity+delta <= 0 {
			return c.removeLine(ctx, userID, productID)
		}
		carts[ci].Items[i].Quantity += delta
		if err := c.carts.Save(ctx, carts); err != nil {
			return fmt.Errorf("save carts: %w", err)
		}
		return nil
	}
	return nil
}

// ClearCart empties the user's cart without deleting it.
func (c *Conf) ClearCart(ctx context.Context, userID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.clearCart(ctx, userID); err != nil {
		return err
	}
	c.notifier.Publish(notify.LevelInfo, "Carrito vaciado")
	return nil
}

// CartSummary computes subtotal, the flat shipping fee, total and the item
// count over the user's cart.
func (c *Conf) CartSummary(ctx context.Context, userID int) (CartSummary, error) {
	carts, err := c.carts.Load(ctx)
	if err != nil {
		return CartSummary{}, fmt.Errorf("load carts: %w", err)
	}

	items := cartItems(carts, userID)
	subtotal := decimal.Zero
	totalItems := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		totalItems += item.Quantity
	}

	return CartSummary{
		Subtotal:   subtotal,
		Shipping:   ShippingFee,
		Total:      subtotal.Add(ShippingFee),
		TotalItems: totalItems,
		Items:      items,
	}, nil
}

// removeLine and clearCart expect c.mu to be held.
func (c *Conf) removeLine(ctx context.Context, userID, productID int) error {
	carts, err := c.carts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load carts: %w", err)
	}

	ci := cartIndex(carts, userID)
	if ci == -1 {
		return nil
	}

	kept := carts[ci].Items[:0]
	for _, item := range carts[ci].Items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	carts[ci].Items = kept

	if err := c.carts.Save(ctx, carts); err != nil {
		return fmt.Errorf("save carts: %w", err)
	}
	return nil
}

func (c *Conf) clearCart(ctx context.Context, userID int) error {
	carts, err := c.carts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load carts: %w", err)
	}

	ci := cartIndex(carts, userID)
	if ci == -1 {
		return nil
	}
	carts[ci].Items = nil

	if err := c.carts.Save(ctx, carts); err != nil {
		return fmt.Errorf("save carts: %w", err)
	}
	return nil
}

func cartIndex(carts []Cart, userID int) int {
	for i, cart := range carts {
		if cart.UserID == userID {
			return i
		}
	}
	return -1
}

func cartItems(carts []Cart, userID int) []CartItem {
	if i := cartIndex(carts, userID); i != -1 {
		return carts[i].Items
	}
	return nil
}
