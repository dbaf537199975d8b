// Package template defines the template renderer seam shared by the reference
// views and the vanilla child components. The gotemplate subpackage provides the
// pongo2-backed implementation.
package template
