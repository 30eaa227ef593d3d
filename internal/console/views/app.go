// Package views implements the interactive console: a REPL whose commands
// map onto the application's routes (dashboard, search, results, upload,
// files) plus the authentication commands. All view plumbing lives here;
// state transitions stay in the session/auth packages.
package views

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"logdeck/internal/console/api"
	"logdeck/internal/console/auth"
	"logdeck/internal/console/config"
	"logdeck/internal/console/credstore"
	"logdeck/internal/console/models"
	"logdeck/internal/console/routes"
	"logdeck/internal/console/session"
	"logdeck/internal/console/transport"
	"logdeck/internal/logging"
)

// authGateway is the slice of the auth service the views need. Satisfied by
// *auth.Service; tests substitute a fake.
type authGateway interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, username, email, password string, role models.Role) (*models.User, error)
	Logout(ctx context.Context)
	VerifyToken(ctx context.Context)
	TokenExpiry() (time.Time, bool)
}

// backend is the slice of the API client feeding the data views. Satisfied
// by *api.Client.
type backend interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	SystemStats(ctx context.Context) (*models.SystemStats, error)
	SearchLogs(ctx context.Context, f models.SearchFilters, size, from int) (*models.SearchResult, error)
	LogDetails(ctx context.Context, id string) (*models.LogEntry, error)
	UploadFile(ctx context.Context, path string) (*models.UploadResponse, error)
	Files(ctx context.Context) ([]models.FileInfo, error)
	ExportCSV(ctx context.Context, f models.SearchFilters, w io.Writer) (int64, error)
	SaveSearch(ctx context.Context, f models.SearchFilters) error
	RecentSearches(ctx context.Context, limit int) ([]models.SearchFilters, error)
	Health(ctx context.Context) error
}

// history is the local search-history cache. Satisfied by *credstore.Store.
type history interface {
	SaveSearch(ctx context.Context, f models.SearchFilters) error
	RecentSearches(ctx context.Context, limit int) ([]models.SearchFilters, error)
}

// App wires the console together and carries per-process view state.
type App struct {
	cfg     *config.Config
	store   *credstore.Store
	session *session.Session
	guard   *routes.Guard
	auth    authGateway
	backend backend
	history history
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// current is the path of the view the user is on.
	current string
	// returnURL resumes a navigation that was denied for lack of a
	// credential once login succeeds.
	returnURL string
	// lastSearch feeds the results view and CSV export.
	lastSearch *models.SearchFilters
}

// NewApp constructs the fully wired console. The session seeds itself from
// local storage only; the backend is not contacted here.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	store, err := credstore.Open(ctx, cfg.StoragePath, log)
	if err != nil {
		return nil, err
	}

	sess := session.New(store, log)
	authorizer := transport.New(nil, sess, log)
	client := api.NewClient(cfg.BackendURL, authorizer, cfg.HTTPTimeout, log)
	gateway := auth.NewService(client, sess, log)

	a := &App{
		cfg:     cfg,
		store:   store,
		session: sess,
		guard:   routes.NewGuard(sess),
		auth:    gateway,
		backend: client,
		history: store,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		current: routes.LoginPath,
	}

	// A rejected credential, wherever it is detected, tears the session
	// down; the clear hook then routes the console back to login.
	authorizer.OnAuthFailure(func() { gateway.Logout(context.Background()) })
	sess.SetClearHook(a.onSessionCleared)

	return a, nil
}

// Run starts the console loop. A stored session is picked up as-is; its
// profile is refreshed opportunistically in the background so a transient
// backend outage during startup never logs the user out.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	printHeading(a.out, "logdeck console (type 'help' for commands)")

	if a.session.IsAuthenticated() {
		a.current = routes.DefaultPath
		if user := a.session.User(); user != nil {
			printLine(a.out, "Resumed session for %s", user.Username)
		}
		go a.auth.VerifyToken(ctx)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// status renders the prompt decoration, e.g. "(alice ANALYST)".
func (a *App) status() string {
	user := a.session.User()
	if user == nil {
		return ""
	}
	return "(" + user.Username + " " + string(user.Role) + ")"
}

func (a *App) onSessionCleared() {
	a.current = routes.LoginPath
	printWarn(a.out, "Session ended, returning to login")
}
