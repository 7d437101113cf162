package router

import (
	"net/http"
)

// Router registers handlers for endpoints and dispatches requests. Endpoints
// use the http.ServeMux pattern syntax, "METHOD /path/{param}", regardless of
// the backing implementation.
type Router interface {
	http.Handler

	Handle(endpoint string, handler http.Handler)
	HandleFunc(endpoint string, handler func(http.ResponseWriter, *http.Request))

	// Param returns the value of a named path parameter for a request routed
	// by this router, or "" when absent.
	Param(req *http.Request, key string) string
}
