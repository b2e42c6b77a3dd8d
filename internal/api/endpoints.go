package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campusbites/campusbites/internal/domain"
)

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        domain.User `json:"user"`
}

// GoogleLogin exchanges a Google ID token plus college selection for a
// bearer token. Persisting the token is the session's job, not ours.
func (c *Client) GoogleLogin(ctx context.Context, idToken string, collegeID int) (*AuthResponse, error) {
	body := map[string]any{
		"id_token":   idToken,
		"college_id": collegeID,
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/google", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the user behind the stored token. A failure here is
// how an expired token is detected.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Colleges and canteens

func (c *Client) Colleges(ctx context.Context) ([]domain.College, error) {
	var out []domain.College
	if err := c.do(ctx, http.MethodGet, "/colleges/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CanteensByCollege(ctx context.Context, collegeID int) ([]domain.Canteen, error) {
	var out []domain.Canteen
	path := fmt.Sprintf("/canteens/college/%d", collegeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Menu

func (c *Client) Menu(ctx context.Context, canteenID int) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/menu/%d", canteenID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	var out domain.MenuItem
	if err := c.do(ctx, http.MethodPost, "/menu/", item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	var out domain.MenuItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/menu/%d", item.ID), item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/menu/%d", id), nil, nil)
}

// Orders

type CreateOrderRequest struct {
	CanteenID           int                `json:"canteen_id"`
	Items               []domain.OrderItem `json:"items"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Order(ctx context.Context, id int) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VendorOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/vendor", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeliveryOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/delivery", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllOrders is admin-scoped.
func (c *Client) AllOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransitionOrder drives one status transition and returns the server's
// representation of the order. Callers display that status, never a guessed
// one.
func (c *Client) TransitionOrder(ctx context.Context, id int, action domain.Action) (*domain.Order, error) {
	var out domain.Order
	path := fmt.Sprintf("/orders/%d/%s", id, action)
	if err := c.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptOrder(ctx context.Context, id int) (*domain.Order, error) {
	return c.TransitionOrder(ctx, id, domain.ActionAccept)
}

func (c *Client) RejectOrder(ctx context.Context, id int) (*domain.Order, error) {
	return c.TransitionOrder(ctx, id, domain.ActionReject)
}

func (c *Client) DeliverOrder(ctx context.Context, id int) (*domain.Order, error) {
	return c.TransitionOrder(ctx, id, domain.ActionDeliver)
}

// Admin

func (c *Client) Vendors(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/admin/vendors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type CreateVendorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *Client) CreateVendor(ctx context.Context, req CreateVendorRequest) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPost, "/admin/vendors", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type CreateCanteenRequest struct {
	Name        string `json:"name"`
	CollegeID   int    `json:"college_id"`
	VendorPhone string `json:"vendor_phone"`
}

func (c *Client) CreateCanteen(ctx context.Context, req CreateCanteenRequest) (*domain.Canteen, error) {
	var out domain.Canteen
	if err := c.do(ctx, http.MethodPost, "/admin/canteens", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type AssignVendorRequest struct {
	UserID    int `json:"user_id"`
	CanteenID int `json:"canteen_id"`
}

func (c *Client) AssignVendor(ctx context.Context, req AssignVendorRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/assign-vendor", req, nil)
}

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetUserRole(ctx context.Context, userID int, role domain.Role) (*domain.User, error) {
	body := map[string]any{"role": role}
	var out domain.User
	path := fmt.Sprintf("/admin/users/%d/role", userID)
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdateCollegeRequest struct {
	AllowedDomains      *string `json:"allowed_domains,omitempty"`
	AllowExternalEmails *bool   `json:"allow_external_emails,omitempty"`
}

func (c *Client) UpdateCollege(ctx context.Context, id int, req UpdateCollegeRequest) (*domain.College, error) {
	var out domain.College
	path := fmt.Sprintf("/admin/colleges/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
