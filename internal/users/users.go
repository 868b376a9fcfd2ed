package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store is the repository the account service runs on.
type Store interface {
	Load(ctx context.Context) ([]User, error)
	Save(ctx context.Context, users []User) error
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

// Register appends a new account. The email is the unique key; a duplicate
// (case-sensitive exact match) fails with ErrUserExists.
func (c *Conf) Register(ctx context.Context, nu NewUser) (User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.store.Load(ctx)
	if err != nil {
		return User{}, fmt.Errorf("load users: %w", err)
	}

	for _, u := range all {
		if u.Email == nu.Email {
			return User{}, ErrUserExists
		}
	}

	user := User{
		ID:           len(all) + 1,
		Name:         nu.Name,
		Email:        nu.Email,
		Password:     nu.Password,
		Role:         nu.Role,
		RegisteredAt: c.clock.Now().UTC(),
		Active:       true,
	}

	all = append(all, user)
	if err := c.store.Save(ctx, all); err != nil {
		return User{}, fmt.Errorf("save users: %w", err)
	}

	return user.WithoutPassword(), nil
}

// Authenticate matches email, password and the activo flag exactly.
func (c *Conf) Authenticate(ctx context.Context, email, password string) (User, error) {
	all, err := c.store.Load(ctx)
	if err != nil {
		return User{}, fmt.Errorf("load users: %w", err)
	}

	for _, u := range all {
		if u.Email == email && u.Password == password && u.Active {
			return u.WithoutPassword(), nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// List returns every account with the password stripped.
func (c *Conf) List(ctx context.Context) ([]User, error) {
	all, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	stripped := make([]User, 0, len(all))
	for _, u := range all {
		stripped = append(stripped, u.WithoutPassword())
	}
	return stripped, nil
}
