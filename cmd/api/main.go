package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"agrotec/handlers"
	"agrotec/internal/config"
	"agrotec/internal/notify"
	"agrotec/internal/orders"
	"agrotec/internal/products"
	"agrotec/internal/stores/jsonstore"
	"agrotec/internal/stores/sqlitestore"
	"agrotec/internal/users"

	"github.com/jonboulle/clockwork"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	if err := startApp(); err != nil {
		slog.Error("error in startup", slog.String("ERROR", err.Error()))
		os.Exit(1)
	}
}

type collections struct {
	users      users.Store
	products   products.Store
	carts      orders.CartStore
	orders     orders.OrderStore
	deliveries orders.DeliveryStore
}

func startApp() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cols, err := openCollections(cfg.Store)
	if err != nil {
		return fmt.Errorf("open collections: %w", err)
	}

	clock := clockwork.NewRealClock()
	center := notify.NewCenter(clock, cfg.Notify.TTL)

	u, err := users.NewConf(cols.users, clock)
	if err != nil {
		return fmt.Errorf("users conf: %w", err)
	}
	p, err := products.NewConf(cols.products, clock)
	if err != nil {
		return fmt.Errorf("products conf: %w", err)
	}
	o, err := orders.NewConf(cols.carts, cols.orders, cols.deliveries, center, clock)
	if err != nil {
		return fmt.Errorf("orders conf: %w", err)
	}

	api := http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.API(u, p, o, center),
		ReadTimeout:  8 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("starting server", slog.String("port", cfg.Server.Port),
		slog.String("driver", cfg.Store.Driver))
	if err := api.ListenAndServe(); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// openCollections selects the persistence backend. Both backends hold the
// same five collections with the same snapshot semantics.
func openCollections(cfg config.StoreConfig) (*collections, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &collections{
			users:      sqlitestore.NewCollection[users.User](db, "usuarios"),
			products:   sqlitestore.NewCollection[products.Product](db, "productos"),
			carts:      sqlitestore.NewCollection[orders.Cart](db, "carritos"),
			orders:     sqlitestore.NewCollection[orders.Order](db, "pedidos"),
			deliveries: sqlitestore.NewCollection[orders.Delivery](db, "entregas"),
		}, nil

	case "json":
		dir := cfg.DataDir
		return &collections{
			users:      jsonstore.NewCollection[users.User](filepath.Join(dir, "usuarios.json"), "usuarios"),
			products:   jsonstore.NewCollection[products.Product](filepath.Join(dir, "productos.json"), "productos"),
			carts:      jsonstore.NewCollection[orders.Cart](filepath.Join(dir, "carritos.json"), "carritos"),
			orders:     jsonstore.NewCollection[orders.Order](filepath.Join(dir, "pedidos.json"), "pedidos"),
			deliveries: jsonstore.NewCollection[orders.Delivery](filepath.Join(dir, "entregas.json"), "entregas"),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
