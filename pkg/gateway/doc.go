// Package gateway is the request path between widgets and the server API.
//
// Every mutating request is a form-encoded POST carrying the CSRF token in
// the X-CSRFToken header; every response must be valid JSON. Failures at
// this layer (non-2xx, network error, unparseable body) surface one generic
// notification and a *errors.TransportError so callers can roll back
// optimistic state.
package gateway
