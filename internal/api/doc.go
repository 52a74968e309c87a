// Package api exposes the library, study session, backup and smart sort
// services over HTTP. Handlers translate requests into service calls and
// map service errors to status codes without leaking internal details.
package api
