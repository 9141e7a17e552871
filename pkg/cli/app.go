package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/adapter/api"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/auth"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/cache"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv/sqlite"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/mapper"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/repository"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/usecase/entity"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/usecase/session"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// app is the wired object graph shared by the commands of one process
type app struct {
	store     kv.Store
	drafts    *draft.Store
	resolver  *cache.Resolver
	creds     *auth.Credentials
	companies *entity.UseCase[model.Company, wire.Company, *model.Company]
	accounts  *entity.UseCase[model.Account, wire.Account, *model.Account]
	personas  *entity.UseCase[model.Persona, wire.Persona, *model.Persona]
	session   *session.UseCase
	closers   []func() error
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// setup resolves configuration, installs the logger and returns the app. The
// returned release function closes the app unless it is shared by a shell.
func (cfg *config) setup(ctx context.Context, c *cli.Command) (context.Context, *app, func(), error) {
	if err := cfg.resolve(); err != nil {
		return ctx, nil, nil, err
	}
	logger := logging.Discard()
	if cfg.logLevel != logLevelOff {
		logger = logging.New(cfg.logLevel, c.Root().ErrWriter)
	}
	ctx = logging.With(ctx, logger)

	if shared, ok := ctx.Value(appKey{}).(*app); ok {
		return ctx, shared, func() {}, nil
	}

	a, err := cfg.newApp(ctx)
	if err != nil {
		return ctx, nil, nil, err
	}
	release := func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close app", "error", err)
		}
	}
	return ctx, a, release, nil
}

func (cfg *config) newApp(ctx context.Context) (*app, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.storage), 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("path", cfg.storage))
	}
	store, err := sqlite.Open(cfg.storage)
	if err != nil {
		return nil, err
	}
	a := &app{store: store, closers: []func() error{store.Close}}

	validators, err := draft.WireValidators()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.drafts = draft.New(store, draft.WithValidators(validators))

	a.creds, err = auth.Load(ctx, store)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.resolver = cache.NewResolver(cache.New())
	a.resolver.Observe(ctx, a.creds.Signal())

	if err := cfg.wireEntities(ctx, a); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.session = session.New(session.Input{
		Drafts:      a.drafts,
		Resolver:    a.resolver,
		Credentials: a.creds,
		Companies:   a.companies,
		Accounts:    a.accounts,
		Personas:    a.personas,
	})
	return a, nil
}

func (cfg *config) wireEntities(ctx context.Context, a *app) error {
	var (
		companies repository.Client[wire.Company] = repository.Unavailable[wire.Company]{}
		accounts  repository.Client[wire.Account] = repository.Unavailable[wire.Account]{}
		personas  repository.Client[wire.Persona] = repository.Unavailable[wire.Persona]{}
	)

	switch cfg.backend {
	case backendAPI:
		if cfg.apiURL != "" {
			client, err := api.New(cfg.apiURL, a.creds)
			if err != nil {
				return err
			}
			companies = api.NewResource[wire.Company](client, model.EntityTypeCompany)
			accounts = api.NewResource[wire.Account](client, model.EntityTypeAccount)
			personas = api.NewResource[wire.Persona](client, model.EntityTypePersona)
		}

	case backendFirestore:
		if cfg.project == "" {
			return goerr.New("project is required for the firestore backend")
		}
		client, err := repository.NewFirestoreClient(ctx, cfg.project, cfg.database)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		companies = repository.NewFirestore[wire.Company](client, model.EntityTypeCompany, a.creds)
		accounts = repository.NewFirestore[wire.Account](client, model.EntityTypeAccount, a.creds)
		personas = repository.NewFirestore[wire.Persona](client, model.EntityTypePersona, a.creds)
	}

	a.companies = entity.New(mapper.Company, a.drafts, a.resolver, companies)
	a.accounts = entity.New(mapper.Account, a.drafts, a.resolver, accounts)
	a.personas = entity.New(mapper.Persona, a.drafts, a.resolver, personas)
	return nil
}

// Close releases the state database and backend clients
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// entities returns the JSON facing operations of one entity type
func (a *app) entities(t model.EntityType) entityOps {
	switch t {
	case model.EntityTypeCompany:
		return jsonEntities[model.Company, wire.Company, *model.Company]{uc: a.companies}
	case model.EntityTypeAccount:
		return jsonEntities[model.Account, wire.Account, *model.Account]{uc: a.accounts}
	default:
		return jsonEntities[model.Persona, wire.Persona, *model.Persona]{uc: a.personas}
	}
}
