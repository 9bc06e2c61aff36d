package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/florianilch/taskdesk/internal/authhttp"
	"github.com/florianilch/taskdesk/internal/taskapi"
	"github.com/florianilch/taskdesk/internal/tokenstore"
)

// recentLimit is how many projects and tasks the dashboard lists.
const recentLimit = 5

// Option configures an App.
type Option func(*options)

type options struct {
	baseTransport http.RoundTripper
	onExpired     func(ctx context.Context, err error)
}

// WithTransport sets the transport that finally dispatches requests.
// If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.baseTransport = transport
	}
}

// WithSessionExpiredHook registers a callback invoked when renewal fails and
// the stored session is discarded.
func WithSessionExpiredHook(fn func(ctx context.Context, err error)) Option {
	return func(o *options) {
		o.onExpired = fn
	}
}

// App wires token storage, the authenticated HTTP client and the API client.
type App struct {
	cfg   *Config
	store tokenstore.Store
	api   *taskapi.Client
}

// New creates a new App instance. No I/O is performed besides preparing the
// token storage location.
func New(cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{baseTransport: http.DefaultTransport}
	for _, opt := range opts {
		opt(o)
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}

	renewer, err := authhttp.NewRefreshEndpoint(cfg.API.BaseURL, authhttp.WithTransport(o.baseTransport))
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh endpoint: %w", err)
	}

	renewalOpts := []authhttp.RenewalOption{authhttp.WithRenewalMode(cfg.Auth.Renewal)}
	if o.onExpired != nil {
		renewalOpts = append(renewalOpts, authhttp.OnSessionExpired(o.onExpired))
	}
	transport := authhttp.NewRenewalTransport(
		&authhttp.Pipeline{Base: o.baseTransport, Store: store},
		renewer,
		renewalOpts...,
	)

	api, err := taskapi.New(cfg.API.BaseURL, &http.Client{Transport: transport, Timeout: cfg.API.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	return &App{
		cfg:   cfg,
		store: store,
		api:   api,
	}, nil
}

// API returns the authenticated API client.
func (a *App) API() *taskapi.Client {
	return a.api
}

// Login exchanges credentials for a token pair and persists both tokens.
// A previous session is replaced.
func (a *App) Login(ctx context.Context, creds taskapi.Credentials) (*taskapi.User, error) {
	pair, err := a.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	if err := a.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing previous session: %w", err)
	}
	if err := a.store.Set(ctx, tokenstore.Refresh, pair.Refresh); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	if err := a.store.Set(ctx, tokenstore.Access, pair.Access); err != nil {
		return nil, fmt.Errorf("storing access token: %w", err)
	}
	slog.InfoContext(ctx, "session started", "storage", a.cfg.Auth.Storage)

	return a.api.Profile(ctx)
}

// Logout discards the stored session. The backend keeps no session state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	slog.InfoContext(ctx, "session cleared", "storage", a.cfg.Auth.Storage)
	return nil
}

// LoggedIn reports whether a refresh token is stored.
func (a *App) LoggedIn(ctx context.Context) (bool, error) {
	_, err := a.store.Get(ctx, tokenstore.Refresh)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Dashboard summarizes the projects and tasks visible to the user.
type Dashboard struct {
	Projects        int
	Tasks           int
	TasksTodo       int
	TasksInProgress int
	RecentProjects  []taskapi.Project
	RecentTasks     []taskapi.Task
}

// Dashboard fetches projects and tasks concurrently and summarizes them.
func (a *App) Dashboard(ctx context.Context) (*Dashboard, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var projects []taskapi.Project
	var tasks []taskapi.Task
	g.Go(func() error {
		var err error
		projects, err = a.api.ListProjects(gCtx)
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = a.api.ListTasks(gCtx, taskapi.TaskFilter{})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Projects:       len(projects),
		Tasks:          len(tasks),
		RecentProjects: projects[:min(recentLimit, len(projects))],
		RecentTasks:    tasks[:min(recentLimit, len(tasks))],
	}
	for _, t := range tasks {
		switch t.Status {
		case taskapi.StatusTodo:
			d.TasksTodo++
		case taskapi.StatusInProgress:
			d.TasksInProgress++
		}
	}
	return d, nil
}
