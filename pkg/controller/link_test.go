package controller

import "testing"

func TestParseLinkType(t *testing.T) {
	tests := map[string]LinkType{
		"":      LinkEdit,
		"edit":  LinkEdit,
		"SHOW":  LinkShow,
		"false": LinkNone,
		"none":  LinkNone,
	}
	for input, want := range tests {
		got, err := ParseLinkType(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseLinkType("list"); err == nil {
		t.Fatalf("expected error for unknown link type")
	}
}

func TestResourceLinkPath(t *testing.T) {
	tests := []struct {
		name     string
		basePath string
		resource string
		id       any
		linkType LinkType
		want     string
	}{
		{name: "default edit", basePath: "/posts", resource: "posts", id: 7, want: "/users/7"},
		{name: "show", resource: "posts", basePath: "/posts", id: 7, linkType: LinkShow, want: "/users/7/show"},
		{name: "disabled", resource: "posts", basePath: "/posts", id: 7, linkType: LinkNone, want: ""},
		{name: "no id", resource: "posts", basePath: "/posts", id: nil, want: ""},
		{name: "escaped id", resource: "posts", basePath: "/admin/posts", id: "a b/c", want: "/admin/users/a%20b%2Fc"},
		{name: "inherited base path", resource: "posts", basePath: "/admin/comments", id: 7, want: "/admin/users/7"},
		{name: "empty base path", resource: "posts", basePath: "", id: 7, want: "/users/7"},
		{name: "no resource", basePath: "", id: 7, want: "/users/7"},
		{name: "no resource with base path", basePath: "/admin/posts", id: 7, want: "/admin/users/7"},
		{name: "no resource root base path", basePath: "/", id: 7, linkType: LinkShow, want: "/users/7/show"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResourceLinkPath(tt.basePath, tt.resource, "users", tt.id, tt.linkType)
			if got != tt.want {
				t.Fatalf("link = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReferenceBasePath(t *testing.T) {
	tests := []struct {
		basePath, resource, want string
	}{
		{basePath: "/posts", resource: "posts", want: "/users"},
		{basePath: "/admin/comments", resource: "posts", want: "/admin/users"},
		{basePath: "/admin/posts/", resource: "", want: "/admin/users"},
		{basePath: "", resource: "", want: "/users"},
	}
	for _, tt := range tests {
		if got := ReferenceBasePath(tt.basePath, tt.resource, "users"); got != tt.want {
			t.Fatalf("ReferenceBasePath(%q, %q) = %q, want %q", tt.basePath, tt.resource, got, tt.want)
		}
	}
}
