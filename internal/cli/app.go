package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/movielib/internal/common"
	"github.com/dmitrijs2005/movielib/internal/config"
	"github.com/dmitrijs2005/movielib/internal/database"
	"github.com/dmitrijs2005/movielib/internal/logging"
	"github.com/dmitrijs2005/movielib/internal/models"
	"github.com/dmitrijs2005/movielib/internal/omdb"
	"github.com/dmitrijs2005/movielib/internal/publish"
	"github.com/dmitrijs2005/movielib/internal/services"
	"github.com/dmitrijs2005/movielib/internal/session"
	"github.com/dmitrijs2005/movielib/internal/website"
)

type UserService interface {
	CreateUser(ctx context.Context, userName string, password []byte) (*models.User, error)
	Authenticate(ctx context.Context, userName string, password []byte) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userName string) error
	Exists(ctx context.Context, userName string) (bool, error)
}

type MovieService interface {
	AddMovie(ctx context.Context, owner string, n models.NewMovie) (models.AddResult, *models.Movie, error)
	UpdateMovie(ctx context.Context, owner string, ref models.MovieRef, patch models.MoviePatch) (*models.Movie, error)
	RemoveMovie(ctx context.Context, owner string, ref models.MovieRef) error
	ListMovies(ctx context.Context, owner string) ([]models.Movie, error)
	FindBySubstring(ctx context.Context, owner string, needle string) ([]models.Movie, error)
	Filter(ctx context.Context, owner string, f models.Filter) ([]models.FilteredMovie, error)
	Stats(ctx context.Context, owner string) (*services.Stats, error)
	RandomMovie(ctx context.Context, owner string) (*models.Movie, error)
	SortedByRating(ctx context.Context, owner string) ([]models.Movie, error)
	Suggest(ctx context.Context, owner string, needle string, limit int) ([]models.Movie, error)
}

// MetadataSource looks movies up by free text and fetches their details.
type MetadataSource interface {
	Search(ctx context.Context, query string) ([]models.SearchHit, error)
	DetailsByID(ctx context.Context, id string) (*models.Candidate, error)
}

type Uploader interface {
	Enabled() bool
	Upload(ctx context.Context, key, localPath, contentType string) (string, error)
}

// SessionStore remembers the logged-in user between runs.
type SessionStore interface {
	Save(userName string) error
	Load() (string, error)
	Clear() error
}

type App struct {
	config    *config.Config
	users     UserService
	movies    MovieService
	metadata  MetadataSource
	publisher Uploader
	session   SessionStore
	gallery   *website.Generator
	log       logging.Logger

	reader   *bufio.Reader
	out      io.Writer
	userName string

	db *database.Database
}

// NewApp opens the store and builds every collaborator from c.
// Diagnostics go to logw.
func NewApp(ctx context.Context, c *config.Config, logw io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, logw)
	if err != nil {
		return nil, err
	}
	logger = logger.With("run", uuid.NewString())

	db, err := database.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	gallery, err := website.NewGenerator(c.TemplateFile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		config:   c,
		users:    services.NewUserService(db.DB, db.Repos),
		movies:   services.NewMovieService(db.DB, db.Repos),
		metadata: omdb.NewClient(c.OMDbBaseURL, c.OMDbAPIKey, c.HTTPTimeout),
		publisher: publish.NewPublisher(publish.Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			PresignTTL:   c.PresignTTL,
		}),
		gallery: gallery,
		log:     logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		db:      db,
	}

	if !c.SingleUser && c.SessionFile != "" {
		store, err := session.NewStore(c.SessionFile, c.SessionSecret, c.SessionTTL)
		if err != nil {
			logger.Warn(ctx, "remembered login disabled", "error", err)
		} else {
			app.session = store
		}
	}

	logger.Debug(ctx, "app ready", "dialect", string(db.Dialect), "single_user", c.SingleUser)
	return app, nil
}

// Run restores a remembered login and serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	a.println("Welcome to the Movie Library (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close(ctx context.Context) {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.config.SingleUser || a.userName != ""
}

// owner is the name movie operations are scoped to; "" is the whole table.
func (a *App) owner() string {
	if a.config.SingleUser {
		return ""
	}
	return a.userName
}

func (a *App) getStatus() string {
	switch {
	case a.config.SingleUser:
		return "(library)"
	case a.userName != "":
		return "(" + a.userName + ")"
	}
	return ""
}

func (a *App) restoreSession(ctx context.Context) {
	if a.session == nil || a.config.SingleUser {
		return
	}

	name, err := a.session.Load()
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			a.log.Debug(ctx, "discarding remembered login", "error", err)
			_ = a.session.Clear()
		}
		return
	}

	ok, err := a.users.Exists(ctx, name)
	if err != nil || !ok {
		_ = a.session.Clear()
		return
	}

	a.userName = name
	a.printf("Welcome back %s!\n", name)
}
