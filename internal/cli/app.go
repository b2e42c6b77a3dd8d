package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/campusbites/campusbites/internal/api"
	"github.com/campusbites/campusbites/internal/cart"
	"github.com/campusbites/campusbites/internal/config"
	"github.com/campusbites/campusbites/internal/domain"
	"github.com/campusbites/campusbites/internal/session"
	"github.com/campusbites/campusbites/internal/storage"
)

// App wires the stores every command needs: config, durable storage, the API
// client, the session, and the cart.
type App struct {
	Config  *config.Config
	Storage *storage.Store
	Client  *api.Client
	Session *session.Store
	Cart    *cart.Store
	Logger  *slog.Logger
}

// NewApp builds the full client stack and validates any persisted token.
// Logs go to stderr so command output stays pipeable.
func NewApp(ctx context.Context) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	st, err := storage.New(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	tokens := session.NewTokens(st)
	client := api.NewClient(cfg.APIBaseURL, tokens, nil)

	sess := session.New(client, tokens, st, logger)
	sess.Init(ctx)

	cartStore := cart.NewStore(cart.Rehydrate(st), cart.Persist(st))

	return &App{
		Config:  cfg,
		Storage: st,
		Client:  client,
		Session: sess,
		Cart:    cartStore,
		Logger:  logger,
	}, nil
}

// RequireRole is the route guard: it fails before any network call when the
// session is anonymous or the user holds none of the given roles.
func (a *App) RequireRole(roles ...domain.Role) error {
	if !a.Session.Authenticated() {
		return errors.New("not logged in, run the login command first")
	}
	if len(roles) == 0 || a.Session.HasRole(roles...) {
		return nil
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return fmt.Errorf("requires role %s, you are %s",
		strings.Join(names, " or "), a.Session.CurrentUser().Role)
}

// Confirm prompts on stderr and reads a y/n answer from stdin.
func Confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
