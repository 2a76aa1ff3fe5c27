package commands

import (
	"errors"
	"fmt"
	"net/http/cookiejar"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flexfit/gymctl/internal/api"
	"github.com/flexfit/gymctl/internal/config"
	"github.com/flexfit/gymctl/internal/logger"
	"github.com/flexfit/gymctl/internal/session"
)

type Globals struct {
	Debug   bool
	Version string
	Server  string
	DataDir string
}

// env holds everything a command needs to talk to the backend.
type env struct {
	cfg    *config.Config
	store  *session.FileStore
	client *api.Client
	logger zerolog.Logger
}

// setup builds the client environment shared by all commands: config, file
// session store, cookie jar, caching HTTP client and the API client wired
// through the authenticated pipeline.
func setup(globals *Globals) (*env, error) {
	lg := logger.Setup(globals.Debug)
	zerolog.DefaultContextLogger = &lg
	// Library code logs through the package-level global; without this the
	// configured level never applies to it.
	log.Logger = lg

	dir := globals.DataDir
	if dir == "" {
		var err error
		dir, err = config.DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if globals.Server != "" {
		cfg.ServerURL = globals.Server
	}
	if cfg.DataDir != "" {
		dir = cfg.DataDir
	}

	store, err := session.NewFileStore(dir)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	httpClient := api.NewCachingHTTPClient(filepath.Join(dir, "cache"), jar)
	if globals.Debug {
		httpClient.Transport = logger.NewHTTPRequests(httpClient.Transport, lg)
	}

	client, err := api.NewClient(cfg.ServerURL, store,
		api.WithHTTPClient(httpClient),
		api.WithCSRFToken(cfg.CSRFToken))
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, store: store, client: client, logger: lg}, nil
}

// friendly maps the terminal auth errors to a login hint instead of a raw
// error chain.
func friendly(err error) error {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return errors.New("not logged in, run `gymctl login` first")
	case api.IsAuthFailure(err):
		return errors.New("session expired, run `gymctl login` again")
	}
	return err
}
