// Package httpapi hosts form wizards over HTTP. Each wizard lives in an
// in-memory session keyed by UUID; clients set fields, attach document
// descriptors and move between steps with JSON requests. Bearer tokens are
// HS256 JWTs issued by /auth/token and gate submission.
//
// The package also serves a simulated submission backend that validates
// payloads against the OpenAPI schema of their form, so a server started
// with a backend URL pointing at itself exercises the full HTTP path.
package httpapi
