package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/RavenStorm-bit/claude-token-refresh/internal/credstore"
	"github.com/RavenStorm-bit/claude-token-refresh/internal/tokenclient"
)

// Status is the terminal outcome of one run.
type Status string

const (
	// StatusValid means the stored token had not expired and nothing was
	// written.
	StatusValid Status = "valid"
	// StatusRefreshed means a refresh exchange succeeded and the stored
	// credentials were replaced.
	StatusRefreshed Status = "refreshed"
)

// Outcome reports what one run did.
type Outcome struct {
	RunID       string    // correlates the outcome with the log stream
	Status      Status
	ExpiresAt   time.Time // expiry of the token now on record
	Source      string    // where the credentials live
	AccessToken string    // token now on record, for optional verification
}

// Inspection is the read-only view the status command reports.
type Inspection struct {
	Source      string
	Variant     credstore.Variant
	ExpiresAt   time.Time
	Expired     bool
	Scopes      []string
	AccessToken string
}

// Refresher performs the refresh-token grant. *tokenclient.Client
// satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokenclient.Token, error)
}

// App sequences the pipeline: locate → load → evaluate → exchange →
// backup → persist. One App serves one invocation.
type App struct {
	cfg    *Config
	store  credstore.Store
	client Refresher
	now    func() time.Time
	runID  string
}

// New creates an App from the configuration. Store construction may probe
// the filesystem for the credential file.
func New(cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := cfg.NewStore()
	if err != nil {
		return nil, err
	}

	client := tokenclient.New(
		tokenclient.WithTokenURL(cfg.OAuth.TokenURL),
		tokenclient.WithClientID(cfg.OAuth.ClientID),
		tokenclient.WithTimeout(cfg.OAuth.Timeout),
	)

	return &App{
		cfg:    cfg,
		store:  store,
		client: client,
		now:    time.Now,
		runID:  uuid.NewString(),
	}, nil
}

// RunID identifies this invocation; every log line carries it, so callers
// can echo it next to their own output.
func (a *App) RunID() string { return a.runID }

// Run executes one refresh invocation. Every returned error is terminal for
// the run; nothing is retried, and the stored credentials are only touched
// after both the exchange and the backup succeed.
func (a *App) Run(ctx context.Context) (*Outcome, error) {
	logger := slog.With("run_id", a.runID, "source", a.store.Source())

	doc, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger = logger.With("variant", string(doc.Variant))

	expiresAt := time.UnixMilli(doc.Record.ExpiresAt)
	switch {
	case a.cfg.Force:
		logger.InfoContext(ctx, "forcing refresh", "expires_at", expiresAt)
	case !doc.Record.Expired(a.now()):
		logger.InfoContext(ctx, "access token still valid, nothing to do", "expires_at", expiresAt)
		return &Outcome{
			RunID:       a.runID,
			Status:      StatusValid,
			ExpiresAt:   expiresAt,
			Source:      a.store.Source(),
			AccessToken: doc.Record.AccessToken,
		}, nil
	default:
		logger.InfoContext(ctx, "access token expired, refreshing", "expired_at", expiresAt)
	}

	fresh, err := a.client.Refresh(ctx, doc.Record.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	next := credstore.Record{
		AccessToken:  fresh.AccessToken,
		RefreshToken: fresh.RefreshToken,
		ExpiresAt:    fresh.ExpiresAt,
		Scopes:       fresh.Scopes,
	}
	// Issuers may choose not to rotate the refresh token.
	if next.RefreshToken == "" {
		next.RefreshToken = doc.Record.RefreshToken
	}

	// Backup before anything destructive; a failed backup aborts the write.
	if err := a.store.Backup(ctx, doc); err != nil {
		return nil, err
	}
	if err := doc.Apply(next); err != nil {
		return nil, fmt.Errorf("%w: %v", credstore.ErrWrite, err)
	}
	if err := a.store.Save(ctx, doc); err != nil {
		return nil, err
	}

	newExpiry := time.UnixMilli(next.ExpiresAt)
	logger.InfoContext(ctx, "token refreshed", "expires_at", newExpiry)
	return &Outcome{
		RunID:       a.runID,
		Status:      StatusRefreshed,
		ExpiresAt:   newExpiry,
		Source:      a.store.Source(),
		AccessToken: next.AccessToken,
	}, nil
}

// Inspect loads the credential document and reports its state without
// writing anything.
func (a *App) Inspect(ctx context.Context) (*Inspection, error) {
	doc, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Inspection{
		Source:      a.store.Source(),
		Variant:     doc.Variant,
		ExpiresAt:   time.UnixMilli(doc.Record.ExpiresAt),
		Expired:     doc.Record.Expired(a.now()),
		Scopes:      doc.Record.Scopes,
		AccessToken: doc.Record.AccessToken,
	}, nil
}
