package test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusbites/campusbites/internal/api"
	"github.com/campusbites/campusbites/internal/cart"
	"github.com/campusbites/campusbites/internal/cli"
	"github.com/campusbites/campusbites/internal/domain"
	"github.com/campusbites/campusbites/internal/order"
	"github.com/campusbites/campusbites/internal/session"
	"github.com/campusbites/campusbites/internal/storage"
)

type clientStack struct {
	client  *api.Client
	session *session.Store
	cart    *cart.Store
	storage *storage.Store
}

// newClientStack wires the full client the way the binaries do, against the
// given fake, with state in a fresh temp dir.
func newClientStack(t *testing.T, fake *FakeMarketplace) *clientStack {
	t.Helper()

	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)

	st, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := session.NewTokens(st)
	client := api.NewClient(server.URL, tokens, server.Client())
	sess := session.New(client, tokens, st, logger)
	sess.Init(context.Background())

	return &clientStack{
		client:  client,
		session: sess,
		cart:    cart.NewStore(cart.Rehydrate(st), cart.Persist(st)),
		storage: st,
	}
}

func TestOrderLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()

	fake := NewFakeMarketplace()
	fake.SetUser(domain.User{ID: 4, Name: "Asha", Email: "asha@hillview.edu", Role: domain.RoleStudent})

	stack := newClientStack(t, fake)

	user, err := stack.session.Login(ctx, "google-credential", 1)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !stack.session.HasRole(domain.RoleStudent) {
		t.Fatalf("expected a student session, got role %s", user.Role)
	}

	canteens, err := stack.client.CanteensByCollege(ctx, stack.session.CollegeID())
	if err != nil {
		t.Fatalf("list canteens: %v", err)
	}
	if len(canteens) != 2 {
		t.Fatalf("expected 2 canteens, got %d", len(canteens))
	}

	menu, err := stack.client.Menu(ctx, canteens[0].ID)
	if err != nil {
		t.Fatalf("fetch menu: %v", err)
	}
	if len(menu) == 0 {
		t.Fatal("expected a seeded menu")
	}

	if err := stack.cart.AddItem(menu[0], false); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if err := stack.cart.AddItem(menu[1], false); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if err := stack.cart.UpdateQuantity(menu[0].ID, 2); err != nil {
		t.Fatalf("update quantity: %v", err)
	}

	current := stack.cart.Cart()
	wantTotal := 2*menu[0].Price + menu[1].Price
	if current.Total() != wantTotal {
		t.Fatalf("cart total: expected %d, got %d", wantTotal, current.Total())
	}

	placed, err := cli.PlaceOrder(ctx, stack.client, stack.cart, "less spicy")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if placed.Status != domain.OrderStatusPlaced {
		t.Fatalf("expected a placed order, got %s", placed.Status)
	}
	if placed.Total != wantTotal {
		t.Fatalf("server total: expected %d, got %d", wantTotal, placed.Total)
	}

	current = stack.cart.Cart()
	if !current.Empty() {
		t.Error("cart should be empty after placing the order")
	}
	rehydrated := cart.Rehydrate(stack.storage)
	if !rehydrated.Empty() {
		t.Error("cart snapshot should be gone after placing the order")
	}

	mine, err := stack.client.MyOrders(ctx)
	if err != nil {
		t.Fatalf("list my orders: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != placed.ID {
		t.Fatalf("expected the placed order in my orders, got %+v", mine)
	}

	// Vendor accepts, the watcher sees it, then delivery completes the order.
	watched := make(chan domain.OrderStatus, 8)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	watcher := order.NewWatcher(stack.client, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	watchDone := make(chan error, 1)
	go func() {
		watchDone <- watcher.Watch(watchCtx, placed.ID, func(o domain.Order) {
			watched <- o.Status
		})
	}()

	if status := <-watched; status != domain.OrderStatusPlaced {
		t.Fatalf("first update should be placed, got %s", status)
	}

	accepted, err := stack.client.AcceptOrder(ctx, placed.ID)
	if err != nil {
		t.Fatalf("accept order: %v", err)
	}
	if accepted.Status != domain.OrderStatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}

	if status := <-watched; status != domain.OrderStatusAccepted {
		t.Fatalf("expected the watcher to report accepted, got %s", status)
	}

	queue, err := stack.client.DeliveryOrders(ctx)
	if err != nil {
		t.Fatalf("delivery queue: %v", err)
	}
	if len(queue) != 1 {
		t.Fatalf("expected 1 order in the delivery queue, got %d", len(queue))
	}

	delivered, err := stack.client.DeliverOrder(ctx, placed.ID)
	if err != nil {
		t.Fatalf("deliver order: %v", err)
	}
	if delivered.Status != domain.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", delivered.Status)
	}

	if status := <-watched; status != domain.OrderStatusDelivered {
		t.Fatalf("expected the watcher to report delivered, got %s", status)
	}
	if err := <-watchDone; err != nil {
		t.Fatalf("watcher should stop cleanly at a terminal status: %v", err)
	}
}

func TestRejectedOrderEndToEnd(t *testing.T) {
	ctx := context.Background()

	fake := NewFakeMarketplace()
	fake.SetUser(domain.User{ID: 4, Role: domain.RoleStudent})

	stack := newClientStack(t, fake)
	if _, err := stack.session.Login(ctx, "google-credential", 1); err != nil {
		t.Fatalf("login: %v", err)
	}

	placed, err := stack.client.CreateOrder(ctx, api.CreateOrderRequest{
		CanteenID: 7,
		Items:     []domain.OrderItem{{MenuItemID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	rejected, err := stack.client.RejectOrder(ctx, placed.ID)
	if err != nil {
		t.Fatalf("reject order: %v", err)
	}
	if rejected.Status != domain.OrderStatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	// Terminal orders take no further transitions.
	if _, err := stack.client.DeliverOrder(ctx, placed.ID); err == nil {
		t.Error("expected delivering a rejected order to fail")
	}

	if _, err := stack.client.DeliveryOrders(ctx); err != nil {
		t.Fatalf("delivery queue: %v", err)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()

	fake := NewFakeMarketplace()
	fake.SetUser(domain.User{ID: 4, Name: "Asha", Role: domain.RoleStudent})

	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)

	stateDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := storage.New(stateDir)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	tokens := session.NewTokens(st)
	client := api.NewClient(server.URL, tokens, server.Client())
	sess := session.New(client, tokens, st, logger)

	if _, err := sess.Login(ctx, "google-credential", 1); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A second process over the same state dir picks the session back up.
	st2, err := storage.New(stateDir)
	if err != nil {
		t.Fatalf("reopen storage: %v", err)
	}
	tokens2 := session.NewTokens(st2)
	client2 := api.NewClient(server.URL, tokens2, server.Client())
	sess2 := session.New(client2, tokens2, st2, logger)
	sess2.Init(ctx)

	if !sess2.Authenticated() {
		t.Fatal("expected the restarted session to be authenticated")
	}
	if got := sess2.CurrentUser(); got == nil || got.ID != 4 {
		t.Fatalf("expected user 4 after restart, got %+v", got)
	}
	if sess2.CollegeID() != 1 {
		t.Errorf("expected college selection to survive restart, got %d", sess2.CollegeID())
	}
}
