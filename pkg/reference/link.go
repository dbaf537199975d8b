package reference

import "github.com/goliatone/go-refs/pkg/controller"

// LinkType selects the page a ReferenceField links to.
type LinkType = controller.LinkType

const (
	LinkEdit = controller.LinkEdit
	LinkShow = controller.LinkShow
	LinkNone = controller.LinkNone
)

// ParseLinkType parses "edit", "show", "none" or "false".
func ParseLinkType(value string) (LinkType, error) {
	return controller.ParseLinkType(value)
}

// LinkToRecord builds the path of a record page under basePath.
func LinkToRecord(basePath string, id any, linkType LinkType) string {
	return controller.LinkToRecord(basePath, id, linkType)
}
