package httprouter

import (
	"net/http"
	"strings"

	jshttprouter "github.com/julienschmidt/httprouter"

	"github.com/caasmo/notefold/router"
)

// Router implements router.Router on top of julienschmidt/httprouter.
type Router struct {
	rt *jshttprouter.Router
}

func New() router.Router {
	rt := jshttprouter.New()
	rt.SaveMatchedRoutePath = false
	return &Router{rt: rt}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

// Handle registers an endpoint in "METHOD /path/{param}" form. Parameters use
// the ServeMux brace syntax and are translated to httprouter's ":param" form.
func (r *Router) Handle(endpoint string, handler http.Handler) {
	method, path := splitEndpoint(endpoint)
	r.rt.Handler(method, translatePath(path), handler)
}

func (r *Router) HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request)) {
	r.Handle(endpoint, http.HandlerFunc(handler))
}

// Param reads a named path parameter from the request context.
func (r *Router) Param(req *http.Request, key string) string {
	params := jshttprouter.ParamsFromContext(req.Context())
	return params.ByName(key)
}

// splitEndpoint separates "GET /path" into method and path. A bare path
// defaults to GET.
func splitEndpoint(endpoint string) (method, path string) {
	method = http.MethodGet
	path = endpoint
	if before, after, found := strings.Cut(endpoint, " "); found {
		method = before
		path = strings.TrimSpace(after)
	}
	return method, path
}

// translatePath rewrites "{param}" segments to ":param".
func translatePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			segments[i] = ":" + seg[1:len(seg)-1]
		}
	}
	return strings.Join(segments, "/")
}
