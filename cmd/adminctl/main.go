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

	"github.com/campusbites/campusbites/internal/api"
	"github.com/campusbites/campusbites/internal/cli"
	"github.com/campusbites/campusbites/internal/domain"
	"github.com/campusbites/campusbites/internal/telemetry"
)

const usage = `usage: adminctl <command> [flags]

commands:
  vendors        list vendor users
  vendor-create  create a vendor user
  canteen-create create a canteen
  assign-vendor  map a vendor user to a canteen
  users          list all users
  set-role       change a user's role
  college-update change a college's email policy
  orders         list all orders
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

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "adminctl", "0.1.0")
	if err != nil {
		app.Logger.Warn("tracing disabled", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	if err := app.RequireRole(domain.RoleAdmin); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
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
	case "vendors":
		vendors, err := app.Client.Vendors(ctx)
		if err != nil {
			return err
		}
		cli.PrintUsers(os.Stdout, vendors)
		return nil

	case "vendor-create":
		fs := flag.NewFlagSet("vendor-create", flag.ExitOnError)
		name := fs.String("name", "", "vendor name")
		email := fs.String("email", "", "vendor email")
		_ = fs.Parse(args[1:])

		if *name == "" || *email == "" {
			return errors.New("vendor-create needs -name and -email")
		}

		vendor, err := app.Client.CreateVendor(ctx, api.CreateVendorRequest{
			Name:  *name,
			Email: *email,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created vendor #%d %s <%s>\n", vendor.ID, vendor.Name, vendor.Email)
		return nil

	case "canteen-create":
		fs := flag.NewFlagSet("canteen-create", flag.ExitOnError)
		name := fs.String("name", "", "canteen name")
		collegeID := fs.Int("college", 0, "college id")
		phone := fs.String("phone", "", "vendor phone")
		_ = fs.Parse(args[1:])

		if *name == "" || *collegeID == 0 {
			return errors.New("canteen-create needs -name and -college")
		}

		canteen, err := app.Client.CreateCanteen(ctx, api.CreateCanteenRequest{
			Name:        *name,
			CollegeID:   *collegeID,
			VendorPhone: *phone,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created canteen #%d %s\n", canteen.ID, canteen.Name)
		return nil

	case "assign-vendor":
		fs := flag.NewFlagSet("assign-vendor", flag.ExitOnError)
		userID := fs.Int("user", 0, "vendor user id")
		canteenID := fs.Int("canteen", 0, "canteen id")
		_ = fs.Parse(args[1:])

		if *userID == 0 || *canteenID == 0 {
			return errors.New("assign-vendor needs -user and -canteen")
		}

		if err := app.Client.AssignVendor(ctx, api.AssignVendorRequest{
			UserID:    *userID,
			CanteenID: *canteenID,
		}); err != nil {
			return err
		}
		fmt.Printf("assigned user #%d to canteen #%d\n", *userID, *canteenID)
		return nil

	case "users":
		users, err := app.Client.Users(ctx)
		if err != nil {
			return err
		}
		cli.PrintUsers(os.Stdout, users)
		return nil

	case "set-role":
		fs := flag.NewFlagSet("set-role", flag.ExitOnError)
		userID := fs.Int("user", 0, "user id")
		role := fs.String("role", "", "student, vendor, delivery or admin")
		_ = fs.Parse(args[1:])

		if *userID == 0 || *role == "" {
			return errors.New("set-role needs -user and -role")
		}

		user, err := app.Client.SetUserRole(ctx, *userID, domain.Role(*role))
		if err != nil {
			return err
		}
		fmt.Printf("user #%d %s is now %s\n", user.ID, user.Email, user.Role)
		return nil

	case "college-update":
		fs := flag.NewFlagSet("college-update", flag.ExitOnError)
		collegeID := fs.Int("college", 0, "college id")
		domains := fs.String("domains", "", "comma-separated allowed email domains")
		external := fs.String("allow-external", "", "true or false")
		_ = fs.Parse(args[1:])

		if *collegeID == 0 {
			return errors.New("college-update needs -college")
		}

		var req api.UpdateCollegeRequest
		if *domains != "" {
			req.AllowedDomains = domains
		}
		if *external != "" {
			allow, err := strconv.ParseBool(*external)
			if err != nil {
				return fmt.Errorf("invalid -allow-external %q", *external)
			}
			req.AllowExternalEmails = &allow
		}
		if req.AllowedDomains == nil && req.AllowExternalEmails == nil {
			return errors.New("college-update needs -domains or -allow-external")
		}

		college, err := app.Client.UpdateCollege(ctx, *collegeID, req)
		if err != nil {
			return err
		}
		fmt.Printf("updated college #%d %s\n", college.ID, college.Name)
		return nil

	case "orders":
		orders, err := app.Client.AllOrders(ctx)
		if err != nil {
			return err
		}
		cli.PrintOrders(os.Stdout, orders)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
