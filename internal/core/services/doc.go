// Package services implements the driving port interfaces.
// Services contain the core business logic: the five checkers, the
// validation engine that fans them out, and the feedback integrator.
//
// Services are pure Go. They reach infrastructure only through the
// driven ports and never mutate the document under validation.
package services
