package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/campusbites/campusbites/internal/cli"
	"github.com/campusbites/campusbites/internal/domain"
	"github.com/campusbites/campusbites/internal/telemetry"
)

const usage = `usage: vendorctl <command> [flags]

commands:
  orders       list orders for your canteen (-status filters by tab)
  accept       accept a placed order
  reject       reject a placed order
  deliver      mark an accepted order delivered (delivery role)
  menu         add | update | rm menu items
  watch        poll for incoming orders and serve /metrics
`

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "vendorctl", "0.1.0")
	if err != nil {
		app.Logger.Warn("tracing disabled", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	if err := run(ctx, app, args); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *cli.App, args []string) error {
	switch args[0] {
	case "orders":
		return runOrders(ctx, app, args[1:])
	case "accept":
		return runTransition(ctx, app, args[1:], domain.ActionAccept, domain.RoleVendor)
	case "reject":
		return runTransition(ctx, app, args[1:], domain.ActionReject, domain.RoleVendor)
	case "deliver":
		return runTransition(ctx, app, args[1:], domain.ActionDeliver, domain.RoleDelivery)
	case "menu":
		return runMenu(ctx, app, args[1:])
	case "watch":
		return runWatch(ctx, app, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func listOrders(ctx context.Context, app *cli.App) ([]domain.Order, error) {
	if app.Session.HasRole(domain.RoleDelivery) {
		return app.Client.DeliveryOrders(ctx)
	}
	return app.Client.VendorOrders(ctx)
}

func runOrders(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	status := fs.String("status", "", "filter by status (placed, accepted, rejected, delivered)")
	_ = fs.Parse(args)

	if err := app.RequireRole(domain.RoleVendor, domain.RoleDelivery); err != nil {
		return err
	}

	orders, err := listOrders(ctx, app)
	if err != nil {
		return err
	}

	if *status != "" {
		filtered := orders[:0]
		for _, order := range orders {
			if order.Status == domain.OrderStatus(*status) {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	cli.PrintOrders(os.Stdout, orders)
	return nil
}

// runTransition refuses locally when the order's current status does not
// offer the action, and otherwise displays exactly what the server returned.
func runTransition(ctx context.Context, app *cli.App, args []string, action domain.Action, role domain.Role) error {
	if err := app.RequireRole(role); err != nil {
		return err
	}

	id, err := parseID(args, "order id")
	if err != nil {
		return err
	}

	current, err := app.Client.Order(ctx, id)
	if err != nil {
		return err
	}

	if !current.Status.CanTransition(action.Target()) {
		return fmt.Errorf("order #%d is %s; cannot %s", id, current.Status, action)
	}

	updated, err := app.Client.TransitionOrder(ctx, id, action)
	if err != nil {
		return err
	}

	cli.PrintOrder(os.Stdout, *updated)
	return nil
}

func runMenu(ctx context.Context, app *cli.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: menu <add|update|rm>")
	}

	if err := app.RequireRole(domain.RoleVendor); err != nil {
		return err
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("menu add", flag.ExitOnError)
		name := fs.String("name", "", "item name")
		price := fs.Int64("price", 0, "price in minor units")
		category := fs.String("category", "", "optional category")
		canteenID := fs.Int("canteen", 0, "canteen id")
		_ = fs.Parse(args[1:])

		if *name == "" || *price < 0 || *canteenID == 0 {
			return errors.New("menu add needs -name, a non-negative -price and -canteen")
		}

		item, err := app.Client.CreateMenuItem(ctx, domain.MenuItem{
			Name:      *name,
			Price:     *price,
			Category:  *category,
			Available: true,
			CanteenID: *canteenID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created menu item #%d %s\n", item.ID, item.Name)
		return nil

	case "update":
		fs := flag.NewFlagSet("menu update", flag.ExitOnError)
		id := fs.Int("id", 0, "menu item id")
		name := fs.String("name", "", "item name")
		price := fs.Int64("price", -1, "price in minor units")
		category := fs.String("category", "", "category")
		available := fs.Bool("available", true, "availability flag")
		canteenID := fs.Int("canteen", 0, "canteen id")
		_ = fs.Parse(args[1:])

		if *id == 0 || *canteenID == 0 {
			return errors.New("menu update needs -id and -canteen")
		}

		items, err := app.Client.Menu(ctx, *canteenID)
		if err != nil {
			return err
		}
		var existing *domain.MenuItem
		for i := range items {
			if items[i].ID == *id {
				existing = &items[i]
				break
			}
		}
		if existing == nil {
			return fmt.Errorf("menu item %d not found in canteen %d", *id, *canteenID)
		}

		if *name != "" {
			existing.Name = *name
		}
		if *price >= 0 {
			existing.Price = *price
		}
		if *category != "" {
			existing.Category = *category
		}
		existing.Available = *available

		updated, err := app.Client.UpdateMenuItem(ctx, *existing)
		if err != nil {
			return err
		}
		fmt.Printf("updated menu item #%d %s\n", updated.ID, updated.Name)
		return nil

	case "rm":
		id, err := parseID(args[1:], "menu item id")
		if err != nil {
			return err
		}
		if err := app.Client.DeleteMenuItem(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted menu item #%d\n", id)
		return nil

	default:
		return fmt.Errorf("unknown menu command %q", args[0])
	}
}

// runWatch is the long-running fulfilment dashboard: it polls the order list
// on the configured interval, prints newly placed orders, and exposes
// Prometheus metrics for the poll loop.
func runWatch(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	metricsAddr := fs.String("metrics", app.Config.MetricsAddr, "metrics listen address")
	_ = fs.Parse(args)

	if err := app.RequireRole(domain.RoleVendor, domain.RoleDelivery); err != nil {
		return err
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("vendorctl", "0.1.0")
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	meter := otel.Meter("vendorctl/watch")
	openOrders, err := meter.Int64Gauge("campusbites.orders.open")
	if err != nil {
		return err
	}
	polls, err := meter.Int64Counter("campusbites.watch.polls")
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	server := &http.Server{
		Addr:         *metricsAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "watching orders every %s, metrics on %s\n",
		app.Config.PollInterval, *metricsAddr)

	seen := make(map[int]domain.OrderStatus)

	poll := func() {
		orders, err := listOrders(ctx, app)
		if err != nil {
			polls.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
			if ctx.Err() == nil {
				app.Logger.Warn("order poll failed", "error", err)
			}
			return
		}
		polls.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "ok")))

		var open int64
		for _, order := range orders {
			if !order.Status.IsTerminal() {
				open++
			}
			if previous, ok := seen[order.ID]; !ok || previous != order.Status {
				seen[order.ID] = order.Status
				cli.PrintOrder(os.Stdout, order)
			}
		}
		openOrders.Record(ctx, open)
	}

	poll()
	ticker := time.NewTicker(app.Config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poll()
		}
	}
}

func parseID(args []string, what string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing %s", what)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return id, nil
}
