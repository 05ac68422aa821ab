// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package router

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

// Routes is a node of the route tree. Pat must be anchored with ^; the
// matched prefix is consumed before Subs are tried. Named groups of every
// matched pattern become path variables. A route with Method GET also
// serves HEAD.
type Routes struct {
	Method      string
	Pat         *regexp.Regexp
	HandlerFunc http.HandlerFunc
	Subs        []*Routes
}

type RouterOption func(r *Router)

// WithNotFoundHandler replaces http.NotFound for unmatched requests.
func WithNotFoundHandler(h http.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.notFound = h
	}
}

type Router struct {
	c        *Routes
	rootPath *regexp.Regexp
	notFound http.HandlerFunc
}

func NewRouter(rootPath *regexp.Regexp, c *Routes, opts ...RouterOption) *Router {
	router := &Router{
		c:        c,
		rootPath: rootPath,
		notFound: http.NotFound,
	}
	for _, opt := range opts {
		opt(router)
	}
	return router
}

type varsKey struct{}

// Vars returns the path variables captured while routing r.
func Vars(r *http.Request) map[string]string {
	if v := r.Context().Value(varsKey{}); v != nil {
		return v.(map[string]string)
	}
	return nil
}

func Var(r *http.Request, name string) string {
	return Vars(r)[name]
}

func methodMatches(routeMethod, method string) bool {
	return routeMethod == "" || routeMethod == method ||
		(routeMethod == http.MethodGet && method == http.MethodHead)
}

func capture(pat *regexp.Regexp, m []string, vars map[string]string) {
	for i, name := range pat.SubexpNames() {
		if i > 0 && name != "" {
			vars[name] = m[i]
		}
	}
}

func (router *Router) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	routes := router.c
	path := r.URL.Path
	vars := map[string]string{}
	if router.rootPath != nil {
		m := router.rootPath.FindStringSubmatch(path)
		if m == nil {
			router.notFound(rw, r)
			return
		}
		capture(router.rootPath, m, vars)
		path = "/" + strings.TrimPrefix(path[len(m[0]):], "/")
	}
	if routes.Pat != nil {
		m := routes.Pat.FindStringSubmatch(path)
		if m == nil {
			router.notFound(rw, r)
			return
		}
		capture(routes.Pat, m, vars)
		path = path[len(m[0]):]
	}
mainLoop:
	for {
		var defaultRoutes *Routes
		for _, obj := range routes.Subs {
			if !methodMatches(obj.Method, r.Method) {
				continue
			}
			if obj.Pat == nil {
				defaultRoutes = obj
				continue
			}
			if m := obj.Pat.FindStringSubmatch(path); m != nil {
				capture(obj.Pat, m, vars)
				path = path[len(m[0]):]
				routes = obj
				continue mainLoop
			}
		}
		if defaultRoutes != nil {
			routes = defaultRoutes
			continue
		}
		break
	}
	if routes.HandlerFunc == nil || strings.Trim(path, "/") != "" {
		router.notFound(rw, r)
		return
	}
	routes.HandlerFunc(rw, r.WithContext(context.WithValue(r.Context(), varsKey{}, vars)))
}
