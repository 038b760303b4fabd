package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/galeria-app/users-api/internal/container"
	repouser "github.com/galeria-app/users-api/internal/domain/repository"
	handlers "github.com/galeria-app/users-api/internal/interface/http"
	"github.com/galeria-app/users-api/internal/interface/middleware"
	"github.com/galeria-app/users-api/pkg/helpers"
)

// UserModule wires the account handlers and bearer-token middleware into routes.
// Public: GET/POST /users/register, GET/POST /users/login
// Protected: GET/PUT/DELETE /users/profile, POST /users/profile/picture,
// PUT /users/change-password

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Repo    repouser.UserRepository
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, repo repouser.UserRepository) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Repo: repo}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public, rate limited per IP when Redis is configured
	registerLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/register", m.Handler.RegisterPage)
	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.GET("/login", m.Handler.LoginPage)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.JWT, m.Repo))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.DELETE("/profile", m.Handler.DeleteProfile)
		auth.POST("/profile/picture", m.Handler.UploadProfilePicture)
		// Guarded like the other profile mutations; the current password is
		// still verified in the handler.
		auth.PUT("/change-password", m.Handler.ChangePassword)
	}
}
