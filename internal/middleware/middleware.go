// Package middleware holds the global and route-specific Echo middleware:
// request IDs, request-scoped logging, CORS, Clerk authentication, New
// Relic tracing, rate limiting, panic recovery and the error funnel.
package middleware
