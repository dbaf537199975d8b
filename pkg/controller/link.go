package controller

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-refs/pkg/record"
)

// LinkType selects the page a single reference links to.
type LinkType string

const (
	// LinkEdit links to the edit page (the default).
	LinkEdit LinkType = "edit"
	// LinkShow links to the show page.
	LinkShow LinkType = "show"
	// LinkNone disables the link.
	LinkNone LinkType = "none"
)

// ParseLinkType accepts "edit", "show", "none", "false" and "". The empty
// value means the default (edit); "false" mirrors a boolean-disabled link in
// configuration files.
func ParseLinkType(value string) (LinkType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "edit", "true":
		return LinkEdit, nil
	case "show":
		return LinkShow, nil
	case "none", "false":
		return LinkNone, nil
	default:
		return "", fmt.Errorf("controller: unknown link type %q", value)
	}
}

// Enabled reports whether the link type produces a link.
func (l LinkType) Enabled() bool {
	return l != LinkNone
}

func (l LinkType) orDefault() LinkType {
	if l == "" {
		return LinkEdit
	}
	return l
}

// LinkToRecord builds the path of a record page under basePath.
func LinkToRecord(basePath string, id record.Identifier, linkType LinkType) string {
	link := strings.TrimRight(basePath, "/") + "/" + url.PathEscape(record.Key(id))
	if linkType == LinkShow {
		return link + "/show"
	}
	return link
}

// ReferenceBasePath derives the base path of reference from the base path of
// the current resource: "/posts" becomes "/users" for resource "posts" and
// reference "users". When basePath does not mention resource (a nested field
// inheriting its parent's path) the last segment is swapped instead.
func ReferenceBasePath(basePath, resource, reference string) string {
	if resource != "" && strings.Contains(basePath, resource) {
		return strings.Replace(basePath, resource, reference, 1)
	}
	trimmed := strings.TrimRight(basePath, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[:idx] + "/" + reference
	}
	return "/" + reference
}

// ResourceLinkPath returns the link for a single reference, or "" when the link
// is disabled or there is no identifier.
func ResourceLinkPath(basePath, resource, reference string, id record.Identifier, linkType LinkType) string {
	linkType = linkType.orDefault()
	if !linkType.Enabled() || record.Key(id) == "" {
		return ""
	}
	return LinkToRecord(ReferenceBasePath(basePath, resource, reference), id, linkType)
}
