// Package authenticator declares the middleware contract the router consumes,
// so tests can swap the real session check for a stub.
package authenticator

import "net/http"

type Authenticator interface {
	RequireSession(h http.Handler) http.Handler
}
