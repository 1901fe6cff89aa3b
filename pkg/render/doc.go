// Package render turns wizard state into text pages with pongo2 templates:
// the review summary shown on the last step and the acknowledgement shown
// once a submission succeeds. Templates ship embedded and can be overridden
// from a directory.
package render
