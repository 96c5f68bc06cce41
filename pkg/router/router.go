// Package router is a small HTTP router with colored request logging and a
// segment wildcard, enough for the run-submission API without pulling in a
// framework.
package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	mux       *http.ServeMux
	routes    map[string]HandlerFunc // key = METHOD:PATH
	paths     map[string]bool        // registered paths, for 405 vs 404
	wildcards []string               // wildcard patterns, in registration order
	mounts    map[string]http.Handler
}

func New() *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		mounts: make(map[string]http.Handler),
	}

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		r.dispatch(lrw, req)

		log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
			colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
			methodColor(req.Method), req.Method, colorReset,
			req.URL.Path,
			statusColor(lrw.statusCode), lrw.statusCode, colorReset,
			colorBlue, time.Since(start), colorReset,
		)
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	// Mounted handlers (e.g. swagger) take the whole subtree.
	for prefix, h := range r.mounts {
		if strings.HasPrefix(req.URL.Path, prefix) {
			h.ServeHTTP(w, req)
			return
		}
	}

	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h(w, req)
		return
	}

	// Wildcard routes: a '*' segment matches exactly one path segment; a
	// trailing '*' matches the remainder. Earlier registrations win, so
	// specific patterns must be registered before catch-alls.
	for _, routePath := range r.wildcards {
		if !matchWildcardRoute(req.URL.Path, routePath) {
			continue
		}
		if h, ok := r.routes[req.Method+":"+routePath]; ok {
			h(w, req)
			return
		}
	}

	if r.paths[req.URL.Path] {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern.
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// Trailing wildcard swallows the remaining segments, at least one.
	if len(routeSegments) > 0 && routeSegments[len(routeSegments)-1] == "*" {
		if len(requestSegments) < len(routeSegments) {
			return false
		}
		for i := 0; i < len(routeSegments)-1; i++ {
			if routeSegments[i] != "*" && requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, seg := range routeSegments {
		if seg != "*" && requestSegments[i] != seg {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	r.routes[method+":"+path] = handler
	if !r.paths[path] {
		r.paths[path] = true
		if strings.Contains(path, "/*") {
			r.wildcards = append(r.wildcards, path)
		}
	}
}

func (r *Router) GET(path string, handler HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }

// Handle mounts an http.Handler under a path prefix, for handlers that do
// their own sub-routing.
func (r *Router) Handle(prefix string, handler http.Handler) {
	r.mounts[prefix] = handler
}

// --- Start server ---
func (r *Router) Start(addr string) {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	log.Fatal(http.ListenAndServe(addr, r.mux))
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	default:
		return colorCyan
	}
}
