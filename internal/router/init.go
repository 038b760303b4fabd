package router

import (
	userapp "github.com/galeria-app/users-api/internal/application"
	"github.com/galeria-app/users-api/internal/container"
	repouser "github.com/galeria-app/users-api/internal/domain/repository"
	"github.com/galeria-app/users-api/internal/infrastructure/mongodb"
	handlers "github.com/galeria-app/users-api/internal/interface/http"
	"github.com/galeria-app/users-api/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	repo := mongodb.NewUserRepository(container.GetMongoDB())

	service := userapp.NewService(
		repo,
		container.GetJWT(),
		container.GetLogger(),
		container.GetRedis(),
		container.GetGCS(),
		container.GetConfig().GCSBucket,
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{Repo: repo, Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry.
// Called once during startup.
func InitModules(r *Registry) {
	deps := buildUserDeps()
	r.Add(modules.NewUserModule(deps.Handler, container.GetJWT(), deps.Repo))
	r.Add(modules.NewDebugModule())
}
