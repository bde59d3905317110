package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	corepersistence "github.com/atlas-hq/atlas-admin/modules/core/infrastructure/persistence"
	coreservices "github.com/atlas-hq/atlas-admin/modules/core/services"
	orgpersistence "github.com/atlas-hq/atlas-admin/modules/org/infrastructure/persistence"
	orgservices "github.com/atlas-hq/atlas-admin/modules/org/services"
	"github.com/atlas-hq/atlas-admin/pkg/configuration"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/eventbus"
)

// app wires repositories, the authorization facade and the services around a
// single database pool.
type app struct {
	conf *configuration.Configuration
	pool *pgxpool.Pool
	bus  eventbus.EventBus

	orgRepo  *orgpersistence.OrgRepository
	roleRepo *corepersistence.RoleRepository
	userRepo *corepersistence.UserRepository

	orgSvc  *orgservices.OrgService
	roleSvc *coreservices.RoleService
	userSvc *coreservices.UserService
	authSvc *coreservices.AuthService
}

func buildApp(ctx context.Context) (*app, error) {
	conf := configuration.Use()
	logger := conf.Logger()

	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	orgRepo := orgpersistence.NewOrgRepository()
	roleRepo := corepersistence.NewRoleRepository()
	userRepo := corepersistence.NewUserRepository()

	facade := datascope.NewFacade(datascope.NewResolver(orgRepo, logger), logger)
	bus := eventbus.NewEventPublisher(logger)

	return &app{
		conf:     conf,
		pool:     pool,
		bus:      bus,
		orgRepo:  orgRepo,
		roleRepo: roleRepo,
		userRepo: userRepo,
		orgSvc:   orgservices.NewOrgService(orgRepo, userRepo, facade, bus),
		roleSvc:  coreservices.NewRoleService(roleRepo),
		userSvc:  coreservices.NewUserService(userRepo, roleRepo, facade),
		authSvc:  coreservices.NewAuthService(userRepo, roleRepo, orgRepo),
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}
