package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Mounter attaches a set of routes below the versioned API group
type Mounter interface {
	Mount(api *gin.RouterGroup)
}

// Router mounts domain route groups under /api/<version>
type Router struct {
	engine  *gin.Engine
	version string
	mounts  []Mounter
}

// Option configures a Router
type Option func(*Router)

// WithAPIVersion sets the version segment of the API base path
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.version = version
	}
}

// NewRouter creates a Router serving /api/v1 unless configured otherwise
func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BasePath is the prefix every mounted group is served under
func (r *Router) BasePath() string {
	return path.Join("/api", r.version)
}

// Register queues groups for Setup
func (r *Router) Register(mounts ...Mounter) *Router {
	r.mounts = append(r.mounts, mounts...)
	return r
}

// Setup mounts every registered group on the engine
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group(r.BasePath())
	for _, m := range r.mounts {
		m.Mount(api)
	}
	return api
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// DomainGroup collects the routes of one resource before they are mounted.
// Middleware given to the group runs ahead of every route in it and in its
// child groups.
type DomainGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*DomainGroup
}

// NewDomainGroup creates a group served under prefix
func NewDomainGroup(prefix string, middleware ...gin.HandlerFunc) *DomainGroup {
	return &DomainGroup{prefix: prefix, middleware: middleware}
}

// Handle adds a route for any HTTP method
func (g *DomainGroup) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{method: method, path: relativePath, handlers: handlers})
	return g
}

func (g *DomainGroup) GET(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodGet, p, h...)
}

func (g *DomainGroup) POST(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPost, p, h...)
}

func (g *DomainGroup) PUT(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPut, p, h...)
}

func (g *DomainGroup) PATCH(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPatch, p, h...)
}

func (g *DomainGroup) DELETE(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodDelete, p, h...)
}

// Group adds a child group below this one
func (g *DomainGroup) Group(prefix string, middleware ...gin.HandlerFunc) *DomainGroup {
	child := NewDomainGroup(prefix, middleware...)
	g.children = append(g.children, child)
	return child
}

// Mount implements Mounter
func (g *DomainGroup) Mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		rg.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, child := range g.children {
		child.Mount(rg)
	}
}
