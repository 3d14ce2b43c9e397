package faastests

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// excludedDirs are path segments whose contents never hold deployable
// functions: language templates, build output, and shelved functions.
var excludedDirs = map[string]bool{
	"template": true,
	"build":    true,
	"archived": true,
}

// FunctionManifest identifies one discovered function stack file. Name is the
// first function declared in the file; it is empty when the file could not be
// read or declares no functions, in which case the runner records a skip
// rather than aborting the run.
type FunctionManifest struct {
	Name string
	Path string
}

// DiscoverFunctions walks root and returns one manifest per stack file, in
// lexicographic path order so runs are deterministic.
func DiscoverFunctions(root string) ([]FunctionManifest, error) {
	var manifests []FunctionManifest
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excludedDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}
		if hasExcludedSegment(path) {
			return nil
		}
		name, _ := FunctionNameFromStackFile(path)
		manifests = append(manifests, FunctionManifest{Name: name, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not scan %s: %w", root, err)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Path < manifests[j].Path })
	return manifests, nil
}

func hasExcludedSegment(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if excludedDirs[part] {
			return true
		}
	}
	return false
}

// FunctionNameFromStackFile extracts the first function declared in a stack
// file's "functions" mapping. Declaration order matters, so the document is
// inspected through the yaml node API rather than decoded into a Go map.
func FunctionNameFromStackFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", path, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("could not parse %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return "", fmt.Errorf("%s is empty", path)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return "", fmt.Errorf("%s does not contain a functions mapping", path)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "functions" {
			continue
		}
		functions := root.Content[i+1]
		if functions.Kind != yaml.MappingNode || len(functions.Content) < 2 {
			break
		}
		return functions.Content[0].Value, nil
	}
	return "", fmt.Errorf("%s declares no functions", path)
}
