// Package errs defines the error shapes returned to API clients.
//
// Every error that reaches the HTTP boundary is turned into an HTTPError,
// so clients always receive the same JSON body:
//
//	{"code": "NOT_FOUND", "message": "...", "status": 404, "override": false, "errors": null, "action": null}
//
// Field-level validation failures travel in Errors and optional client
// instructions (like a redirect) travel in Action.
package errs
