package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/meetscribe/internal/client/client"
	"github.com/dmitrijs2005/meetscribe/internal/client/config"
	"github.com/dmitrijs2005/meetscribe/internal/client/exports"
	"github.com/dmitrijs2005/meetscribe/internal/client/history"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/client/services"
	"github.com/dmitrijs2005/meetscribe/internal/client/storage"
	"github.com/dmitrijs2005/meetscribe/internal/client/usage"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
)

// sessionService is the part of services.SessionManager the REPL drives.
type sessionService interface {
	Session() models.Session
	CheckLimit(ctx context.Context) models.LimitStatus
	RefreshUsage(ctx context.Context) models.Session
	Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
	Login(ctx context.Context, in services.LoginInput) (models.Session, error)
	Logout(ctx context.Context) models.Session
}

// meetingService is the part of services.MeetingService the REPL drives.
type meetingService interface {
	Analyze(ctx context.Context, audioPath, language string) (*services.AnalyzeResult, error)
	Export(ctx context.Context, id string, format models.ExportFormat) (string, error)
	History(ctx context.Context) []models.HistoryItem
	Get(ctx context.Context, id string) (models.HistoryItem, error)
	Delete(ctx context.Context, id string) error
	ClearHistory(ctx context.Context)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	session  sessionService
	meetings meetingService
	prefs    *storage.Preferences
	reader   *bufio.Reader
	out      io.Writer

	// credentialed selects the password prompts of the remote variant.
	credentialed bool

	// watchDone is closed once the cross-session watcher has returned.
	watchDone <-chan struct{}

	closers []func() error
}

// NewApp wires storage, the identity provider selected by c.AuthMode, the
// session manager and the meeting service. The session is restored before
// NewApp returns and the cross-session watcher runs until ctx is done or the
// App is closed.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat).With("env", c.Environment)

	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	a, err := newApp(ctx, c, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, logger logging.Logger) (*App, error) {
	store := storage.NewStore(db, logger)
	hist := history.NewStore(store)
	prefs := storage.NewPreferences(store)
	guest := usage.NewCounter(store, storage.KeyUsageCounter)

	var tokens client.TokenStore = client.NewMemoryTokenStore()
	if c.AuthMode == config.AuthModeRemote {
		tokens = client.NewSessionFileTokenStore(client.DefaultSessionTokenPath(), logger)
	}

	api, err := client.NewHTTPClient(c.BackendBaseURL, tokens,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	var provider services.SessionProvider
	switch c.AuthMode {
	case config.AuthModeLocal:
		provider = services.NewLocalProvider(store, logger)
	default:
		provider = services.NewRemoteProvider(api, tokens, logger)
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		return nil, err
	}

	manager := services.NewSessionManager(provider, store, hist, guest, logger)
	s := manager.Start(ctx)
	logger.Info(ctx, "session restored", "state", s.State, "used", s.Usage.Used, "limit", s.Usage.Limit)

	manager.Subscribe(func(s models.Session) {
		logger.Debug(context.Background(), "session changed", "state", s.State, "used", s.Usage.Used, "can_use", s.CanUse)
	})
	watchCtx, stopWatch := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		manager.Watch(watchCtx, c.WatchInterval)
	}()
	stopWatcher := func() error {
		stopWatch()
		<-watchDone
		return nil
	}

	return &App{
		config:       c,
		logger:       logger,
		session:      manager,
		meetings:     services.NewMeetingService(manager, api, hist, prefs, sink, logger),
		prefs:        prefs,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
		credentialed: c.AuthMode == config.AuthModeRemote,
		watchDone:    watchDone,
		closers:      []func() error{stopWatcher, manager.Close},
	}, nil
}

func newSink(ctx context.Context, c *config.Config) (exports.Sink, error) {
	if c.S3.Bucket != "" {
		return exports.NewS3Sink(ctx, exports.S3Options{
			Bucket:    c.S3.Bucket,
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			Prefix:    c.S3.Prefix,
		})
	}
	return exports.NewFileSink(c.ExportDir)
}

// Run starts the REPL on stdin and blocks until the user exits or ctx is
// done. Resources are released on return.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to meetscribe (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close stops the watcher, then shuts down the session manager and the
// database.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close error", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().IsAuthenticated()
}

// getStatus renders the prompt status: identity and remaining quota.
func (a *App) getStatus() string {
	s := a.session.Session()
	who := "guest"
	if s.Identity != nil {
		who = s.Identity.Email
	}
	return fmt.Sprintf("(%s %d/%d)", who, s.Usage.Used, s.Usage.Limit)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// fail prints the user-facing text of err and returns err.
func (a *App) fail(ctx context.Context, op string, err error) error {
	a.logger.Debug(ctx, "command failed", "op", op, "error", err)
	a.println("Error:", services.UserMessage(err))
	return err
}
