// Package api is the HTTP boundary of the task tracker. Handlers decode and
// validate JSON requests, call the services with the authenticated actor and
// map the domain error taxonomy onto HTTP status codes.
package api
