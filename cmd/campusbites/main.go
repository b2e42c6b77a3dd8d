package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/campusbites/campusbites/internal/cart"
	"github.com/campusbites/campusbites/internal/cli"
	"github.com/campusbites/campusbites/internal/domain"
	"github.com/campusbites/campusbites/internal/order"
	"github.com/campusbites/campusbites/internal/telemetry"
)

const usage = `usage: campusbites <command> [flags]

commands:
  login        exchange a Google ID token for a session
  logout       drop the session and the cart
  whoami       show the current user
  colleges     list colleges
  canteens     list canteens of the selected college
  menu         show a canteen's menu (and select the canteen)
  cart         add | rm | qty | show | clear
  order        place | list | show | watch
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

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "campusbites", "0.1.0")
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
	case "login":
		return runLogin(ctx, app, args[1:])
	case "logout":
		app.Session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		if err := app.RequireRole(); err != nil {
			return err
		}
		user := app.Session.CurrentUser()
		fmt.Printf("%s <%s> role=%s college=%d\n", user.Name, user.Email, user.Role, app.Session.CollegeID())
		return nil
	case "colleges":
		colleges, err := app.Client.Colleges(ctx)
		if err != nil {
			return err
		}
		cli.PrintColleges(os.Stdout, colleges)
		return nil
	case "canteens":
		return runCanteens(ctx, app, args[1:])
	case "menu":
		return runMenu(ctx, app, args[1:])
	case "cart":
		return runCart(ctx, app, args[1:])
	case "order":
		return runOrder(ctx, app, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runLogin(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	idToken := fs.String("token", os.Getenv("CAMPUSBITES_ID_TOKEN"), "Google ID token")
	collegeID := fs.Int("college", 0, "college id")
	_ = fs.Parse(args)

	if *idToken == "" {
		return errors.New("missing Google ID token, pass -token or set CAMPUSBITES_ID_TOKEN")
	}
	if *collegeID == 0 {
		return errors.New("missing -college, run `campusbites colleges` to pick one")
	}

	user, err := app.Session.Login(ctx, *idToken, *collegeID)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s <%s> role=%s\n", user.Name, user.Email, user.Role)
	return nil
}

func runCanteens(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("canteens", flag.ExitOnError)
	collegeID := fs.Int("college", 0, "college id (defaults to the selected one)")
	_ = fs.Parse(args)

	id := *collegeID
	if id == 0 {
		id = app.Session.CollegeID()
	}
	if id == 0 {
		return errors.New("no college selected, pass -college or log in first")
	}

	canteens, err := app.Client.CanteensByCollege(ctx, id)
	if err != nil {
		return err
	}
	cli.PrintCanteens(os.Stdout, canteens)
	return nil
}

func runMenu(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("menu", flag.ExitOnError)
	canteenID := fs.Int("canteen", 0, "canteen id (defaults to the selected one)")
	_ = fs.Parse(args)

	id := *canteenID
	if id == 0 {
		id = app.Session.CanteenID()
	}
	if id == 0 {
		return errors.New("no canteen selected, pass -canteen")
	}

	items, err := app.Client.Menu(ctx, id)
	if err != nil {
		return err
	}

	if err := app.Session.SelectCanteen(id); err != nil {
		return err
	}

	cli.PrintMenu(os.Stdout, items)
	return nil
}

func runCart(ctx context.Context, app *cli.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: cart <add|rm|qty|show|clear>")
	}

	switch args[0] {
	case "add":
		return runCartAdd(ctx, app, args[1:])
	case "rm":
		id, err := parseID(args[1:], "menu item id")
		if err != nil {
			return err
		}
		if err := app.Cart.RemoveItem(id); err != nil {
			return err
		}
		cli.PrintCart(os.Stdout, app.Cart.Cart())
		return nil
	case "qty":
		if len(args) < 3 {
			return errors.New("usage: cart qty <menu-item-id> <quantity>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid menu item id %q", args[1])
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		if err := app.Cart.UpdateQuantity(id, quantity); err != nil {
			return err
		}
		cli.PrintCart(os.Stdout, app.Cart.Cart())
		return nil
	case "show":
		cli.PrintCart(os.Stdout, app.Cart.Cart())
		return nil
	case "clear":
		if err := app.Cart.Clear(); err != nil {
			return err
		}
		fmt.Println("cart cleared")
		return nil
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func runCartAdd(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("cart add", flag.ExitOnError)
	canteenID := fs.Int("canteen", 0, "canteen id (defaults to the selected one)")
	yes := fs.Bool("yes", false, "replace the cart without asking when switching canteens")
	_ = fs.Parse(args)

	if err := app.RequireRole(domain.RoleStudent); err != nil {
		return err
	}

	itemID, err := parseID(fs.Args(), "menu item id")
	if err != nil {
		return err
	}

	cid := *canteenID
	if cid == 0 {
		cid = app.Session.CanteenID()
	}
	if cid == 0 {
		return errors.New("no canteen selected, pass -canteen")
	}

	items, err := app.Client.Menu(ctx, cid)
	if err != nil {
		return err
	}

	var item *domain.MenuItem
	for i := range items {
		if items[i].ID == itemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return fmt.Errorf("menu item %d not found in canteen %d", itemID, cid)
	}
	if !item.Available {
		return fmt.Errorf("%s is currently unavailable", item.Name)
	}

	err = app.Cart.AddItem(*item, *yes)
	if errors.Is(err, cart.ErrCanteenMismatch) {
		if !cli.Confirm("adding items from a different canteen will clear your cart, continue?") {
			return errors.New("cart unchanged")
		}
		err = app.Cart.AddItem(*item, true)
	}
	if err != nil {
		return err
	}

	cli.PrintCart(os.Stdout, app.Cart.Cart())
	return nil
}

func runOrder(ctx context.Context, app *cli.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: order <place|list|show|watch>")
	}

	switch args[0] {
	case "place":
		return runOrderPlace(ctx, app, args[1:])
	case "list":
		if err := app.RequireRole(domain.RoleStudent); err != nil {
			return err
		}
		orders, err := app.Client.MyOrders(ctx)
		if err != nil {
			return err
		}
		cli.PrintOrders(os.Stdout, orders)
		return nil
	case "show":
		if err := app.RequireRole(); err != nil {
			return err
		}
		id, err := parseID(args[1:], "order id")
		if err != nil {
			return err
		}
		ord, err := app.Client.Order(ctx, id)
		if err != nil {
			return err
		}
		cli.PrintOrder(os.Stdout, *ord)
		return nil
	case "watch":
		return runOrderWatch(ctx, app, args[1:])
	default:
		return fmt.Errorf("unknown order command %q", args[0])
	}
}

func runOrderPlace(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("order place", flag.ExitOnError)
	note := fs.String("note", "", "special instructions")
	_ = fs.Parse(args)

	if err := app.RequireRole(domain.RoleStudent); err != nil {
		return err
	}

	ord, err := cli.PlaceOrder(ctx, app.Client, app.Cart, *note)
	if err != nil {
		return err
	}

	cli.PrintOrder(os.Stdout, *ord)
	return nil
}

func runOrderWatch(ctx context.Context, app *cli.App, args []string) error {
	if err := app.RequireRole(); err != nil {
		return err
	}

	id, err := parseID(args, "order id")
	if err != nil {
		return err
	}

	watcher := order.NewWatcher(app.Client, app.Config.PollInterval, app.Logger)
	return watcher.Watch(ctx, id, func(ord domain.Order) {
		cli.PrintOrder(os.Stdout, ord)
	})
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
