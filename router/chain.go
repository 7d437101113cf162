package router

import (
	"net/http"
)

// Chain builds an http.Handler out of a base handler and a stack of
// middlewares.
type Chain struct {
	handler     http.Handler
	middlewares []func(http.Handler) http.Handler
}

func NewChain(h http.Handler) *Chain {
	if h == nil {
		panic("chain handler cannot be nil")
	}
	return &Chain{handler: h}
}

// WithMiddleware adds one or more middlewares. They execute in the order
// given, left to right, outermost first, same semantics as alice
// (github.com/justinas/alice).
func (c *Chain) WithMiddleware(middlewares ...func(http.Handler) http.Handler) *Chain {
	for _, mw := range middlewares {
		c.middlewares = append([]func(http.Handler) http.Handler{mw}, c.middlewares...)
	}
	return c
}

// Handler returns the final handler with all middlewares applied.
func (c *Chain) Handler() http.Handler {
	handler := c.handler
	for _, mw := range c.middlewares {
		handler = mw(handler)
	}
	return handler
}
