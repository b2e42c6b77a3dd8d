package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusbites/campusbites/internal/domain"
)

// FakeMarketplace is an in-process stand-in for the campus backend,
// implementing the contract the client is written against. State lives in
// memory; one user is "logged in" at a time.
type FakeMarketplace struct {
	mu          sync.Mutex
	token       string
	user        domain.User
	colleges    []domain.College
	canteens    []domain.Canteen
	menus       map[int][]domain.MenuItem
	orders      map[int]*domain.Order
	nextOrderID int
}

func NewFakeMarketplace() *FakeMarketplace {
	return &FakeMarketplace{
		colleges: []domain.College{
			{ID: 1, Name: "Hillview Institute", AllowedDomains: "hillview.edu"},
		},
		canteens: []domain.Canteen{
			{ID: 7, Name: "North Mess", CollegeID: 1, VendorPhone: "+911234567890", IsOpen: true},
			{ID: 8, Name: "South Mess", CollegeID: 1, VendorPhone: "+919876543210", IsOpen: true},
		},
		menus: map[int][]domain.MenuItem{
			7: {
				{ID: 1, Name: "Masala Dosa", Price: 5000, Available: true, CanteenID: 7},
				{ID: 2, Name: "Filter Coffee", Price: 2000, Available: true, CanteenID: 7},
			},
			8: {
				{ID: 9, Name: "Idli", Price: 3000, Available: true, CanteenID: 8},
			},
		},
		orders:      make(map[int]*domain.Order),
		nextOrderID: 1,
	}
}

// SetUser controls who the next login (and the current token) resolves to.
func (f *FakeMarketplace) SetUser(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = user
}

func (f *FakeMarketplace) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/google", f.handleLogin)
	mux.HandleFunc("GET /users/me", f.handleCurrentUser)
	mux.HandleFunc("GET /colleges/", f.handleColleges)
	mux.HandleFunc("GET /canteens/college/{id}", f.handleCanteens)
	mux.HandleFunc("GET /menu/{id}", f.handleMenu)
	mux.HandleFunc("POST /orders/", f.handleCreateOrder)
	mux.HandleFunc("GET /orders/my", f.handleListOrders)
	mux.HandleFunc("GET /orders/vendor", f.handleListOrders)
	mux.HandleFunc("GET /orders/delivery", f.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", f.handleGetOrder)
	mux.HandleFunc("PATCH /orders/{id}/{action}", f.handleTransition)

	return mux
}

func (f *FakeMarketplace) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDToken   string `json:"id_token"`
		CollegeID int    `json:"college_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IDToken == "" {
		writeError(w, http.StatusBadRequest, "invalid credential")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = uuid.New().String()
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": f.token,
		"user":         f.user,
	})
}

func (f *FakeMarketplace) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}
	writeJSON(w, http.StatusOK, f.user)
}

func (f *FakeMarketplace) handleColleges(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.colleges)
}

func (f *FakeMarketplace) handleCanteens(w http.ResponseWriter, r *http.Request) {
	collegeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid college id")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	canteens := make([]domain.Canteen, 0)
	for _, canteen := range f.canteens {
		if canteen.CollegeID == collegeID {
			canteens = append(canteens, canteen)
		}
	}
	writeJSON(w, http.StatusOK, canteens)
}

func (f *FakeMarketplace) handleMenu(w http.ResponseWriter, r *http.Request) {
	canteenID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid canteen id")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.menus[canteenID])
}

func (f *FakeMarketplace) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}

	var req struct {
		CanteenID           int                `json:"canteen_id"`
		Items               []domain.OrderItem `json:"items"`
		SpecialInstructions string             `json:"special_instructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order has no items")
		return
	}

	var total int64
	for i, item := range req.Items {
		price, ok := f.menuPrice(req.CanteenID, item.MenuItemID)
		if !ok {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("menu item %d not in canteen %d", item.MenuItemID, req.CanteenID))
			return
		}
		req.Items[i].Price = price
		total += price * int64(item.Quantity)
	}

	order := &domain.Order{
		ID:                  f.nextOrderID,
		UserID:              f.user.ID,
		CanteenID:           req.CanteenID,
		Items:               req.Items,
		Total:               total,
		Status:              domain.OrderStatusPlaced,
		SpecialInstructions: req.SpecialInstructions,
		CreatedAt:           time.Now().UTC(),
	}
	f.nextOrderID++
	f.orders[order.ID] = order

	writeJSON(w, http.StatusCreated, order)
}

func (f *FakeMarketplace) handleListOrders(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}

	orders := make([]domain.Order, 0, len(f.orders))
	for id := 1; id < f.nextOrderID; id++ {
		if order, ok := f.orders[id]; ok {
			if strings.HasSuffix(r.URL.Path, "/delivery") && order.Status != domain.OrderStatusAccepted {
				continue
			}
			orders = append(orders, *order)
		}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (f *FakeMarketplace) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}

	order, ok := f.lookupOrder(r)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (f *FakeMarketplace) handleTransition(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}

	order, ok := f.lookupOrder(r)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	action := domain.Action(r.PathValue("action"))
	target := action.Target()
	if target == "" {
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	if !order.Status.CanTransition(target) {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("cannot %s an order that is %s", action, order.Status))
		return
	}

	order.Status = target
	writeJSON(w, http.StatusOK, order)
}

func (f *FakeMarketplace) authorized(r *http.Request) bool {
	return f.token != "" && r.Header.Get("Authorization") == "Bearer "+f.token
}

func (f *FakeMarketplace) lookupOrder(r *http.Request) (*domain.Order, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return nil, false
	}
	order, ok := f.orders[id]
	return order, ok
}

func (f *FakeMarketplace) menuPrice(canteenID, menuItemID int) (int64, bool) {
	for _, item := range f.menus[canteenID] {
		if item.ID == menuItemID {
			return item.Price, true
		}
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
