package router

import (
	"net/http"

	"github.com/ferdiebergado/goexpress"
)

// goexpressRouter adapts goexpress to the Router interface.
type goexpressRouter struct {
	handler *goexpress.Router
}

var _ Router = (*goexpressRouter)(nil)

func NewGoexpressRouter() Router {
	return &goexpressRouter{
		handler: goexpress.New(),
	}
}

func (r *goexpressRouter) Get(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler) {
	r.handler.Get(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Post(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler) {
	r.handler.Post(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Put(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler) {
	r.handler.Put(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Patch(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler) {
	r.handler.Patch(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Delete(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler) {
	r.handler.Delete(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Options(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler) {
	r.handler.Options(pattern, handler, middlewares...)
}

func (r *goexpressRouter) Use(middleware func(next http.Handler) http.Handler) {
	r.handler.Use(middleware)
}

// Group mounts a sub-router under prefix. Routes registered inside the
// callback see paths with the prefix stripped.
func (r *goexpressRouter) Group(prefix string, fn func(r Router), middlewares ...func(next http.Handler) http.Handler) {
	r.handler.Group(prefix, func(gr *goexpress.Router) {
		fn(&goexpressRouter{handler: gr})
	}, middlewares...)
}

func (r *goexpressRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}
