// Package openapi publishes the submission contract of a form catalog as an
// OpenAPI 3 document and validates payloads against it. The kin-openapi
// types stay inside internal/openapi; callers only see JSON and errors.
package openapi
