package router

import "github.com/gin-gonic/gin"

// Module is a feature that registers its routes on a RouterGroup.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them under one base group.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry mounts modules at basePath; the user API lives at the root.
func NewRegistry(engine *gin.Engine, basePath string) *Registry {
	return &Registry{Engine: engine, API: engine.Group(basePath)}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod ...Module) {
	r.modules = append(r.modules, mod...)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
