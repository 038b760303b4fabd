package router

import "github.com/gin-gonic/gin"

// Registry mounts feature modules under a common path prefix.
type Registry struct {
	Engine      *gin.Engine
	Users       *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	users := engine.Group("/users")
	return &Registry{Engine: engine, Users: users}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.Users.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.Users)
	}
}
