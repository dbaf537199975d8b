package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-refs/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-refs/pkg/schema"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flags := newFlagSet(os.Stderr)
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{"definitions"}
	}

	violations, err := lintPaths(context.Background(), paths, components.NewDefaultRegistry())
	if err != nil {
		fmt.Fprintf(os.Stderr, "refs-lint: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		report(os.Stderr, violations)
		os.Exit(1)
	}
}

func report(w io.Writer, violations []violation) {
	for _, v := range violations {
		fmt.Fprintf(w, "%s: %s -> %s\n", v.file, v.location, v.message)
	}
}

func lintPaths(ctx context.Context, paths []string, registry *components.Registry) ([]violation, error) {
	var violations []violation
	for _, root := range paths {
		files, err := collectFiles(root)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			linted, err := lintFile(ctx, path, registry)
			if err != nil {
				return nil, fmt.Errorf("lint %s: %w", path, err)
			}
			violations = append(violations, linted...)
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	return violations, nil
}

func collectFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func lintFile(ctx context.Context, path string, registry *components.Registry) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if isOpenAPI(raw) {
		issues, err := schema.LintOpenAPI(ctx, raw)
		if err != nil {
			return nil, err
		}
		result := make([]violation, 0, len(issues))
		for _, issue := range issues {
			result = append(result, violation{file: path, location: issue.Location, message: issue.Message})
		}
		return result, nil
	}

	set, err := schema.Parse(raw, path)
	if err != nil {
		return []violation{{file: path, location: "document", message: err.Error()}}, nil
	}

	var result []violation
	for _, name := range set.Names() {
		def, _ := set.Definition(name)
		result = append(result, lintChild(path, []string{name, "child"}, def.Child, registry)...)
	}
	return result, nil
}

// lintChild reports child components the default registry cannot render.
func lintChild(file string, path []string, child schema.ChildDefinition, registry *components.Registry) []violation {
	var result []violation
	if !child.IsReference() {
		if _, ok := registry.Descriptor(child.Component); !ok {
			result = append(result, violation{
				file:     file,
				location: formatLocation(path),
				message:  fmt.Sprintf("unknown component %q (registered: %s)", child.Component, strings.Join(registry.Names(), ", ")),
			})
		}
	}
	for i, nested := range child.Children {
		result = append(result, lintChild(file, appendPath(path, fmt.Sprintf("children[%d]", i)), nested, registry)...)
	}
	return result
}

func isOpenAPI(raw []byte) bool {
	var head struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return false
	}
	return strings.TrimSpace(head.OpenAPI) != ""
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	next = append(next, segment)
	return next
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
