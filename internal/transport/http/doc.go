// Package http contains the chi HTTP handlers exposing the dashboard
// API: indicator data, election data, exports, and health. Handlers
// depend on service interfaces and return structured JSON errors via the
// errors package.
package http
