package faastests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStackFile(t *testing.T, root, relPath, content string) string {
	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const alphaStack = `version: 1.0
provider:
  name: openfaas
  gateway: http://127.0.0.1:8080
functions:
  alpha-fn:
    lang: python3-http
    handler: ./alpha-fn
    image: alpha-fn:latest
`

func TestDiscoveryFindsStackFilesInPathOrder(t *testing.T) {
	root := t.TempDir()
	writeStackFile(t, root, "b/stack.yml", alphaStack)
	writeStackFile(t, root, "a/stack.yaml", alphaStack)
	writeStackFile(t, root, "c/stack.yaml", alphaStack)

	manifests, err := DiscoverFunctions(root)
	require.NoError(t, err)
	require.Len(t, manifests, 3)
	assert.Equal(t, filepath.Join(root, "a/stack.yaml"), manifests[0].Path)
	assert.Equal(t, filepath.Join(root, "b/stack.yml"), manifests[1].Path)
	assert.Equal(t, filepath.Join(root, "c/stack.yaml"), manifests[2].Path)
	for _, m := range manifests {
		assert.Equal(t, "alpha-fn", m.Name)
	}
}

func TestDiscoverySkipsTemplateBuildAndArchivedDirs(t *testing.T) {
	root := t.TempDir()
	writeStackFile(t, root, "good/stack.yaml", alphaStack)
	writeStackFile(t, root, "template/python3/stack.yaml", alphaStack)
	writeStackFile(t, root, "good/build/out.yaml", alphaStack)
	writeStackFile(t, root, "archived/old/stack.yaml", alphaStack)

	manifests, err := DiscoverFunctions(root)
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, filepath.Join(root, "good/stack.yaml"), manifests[0].Path)
}

func TestDiscoveryIgnoresNonYamlFiles(t *testing.T) {
	root := t.TempDir()
	writeStackFile(t, root, "fn/stack.yaml", alphaStack)
	writeStackFile(t, root, "fn/handler.py", "def handle(req): return req")
	writeStackFile(t, root, "fn/README.md", "docs")

	manifests, err := DiscoverFunctions(root)
	require.NoError(t, err)
	require.Len(t, manifests, 1)
}

func TestDiscoveryYieldsUnparseableManifestWithoutName(t *testing.T) {
	root := t.TempDir()
	writeStackFile(t, root, "bad/stack.yaml", "functions: [unclosed\n  nope")
	writeStackFile(t, root, "empty/stack.yaml", "")
	writeStackFile(t, root, "noentry/stack.yaml", "provider:\n  name: openfaas\n")
	writeStackFile(t, root, "ok/stack.yaml", alphaStack)

	manifests, err := DiscoverFunctions(root)
	require.NoError(t, err)
	require.Len(t, manifests, 4)
	assert.Equal(t, "", manifests[0].Name) // bad
	assert.Equal(t, "", manifests[1].Name) // empty
	assert.Equal(t, "", manifests[2].Name) // noentry
	assert.Equal(t, "alpha-fn", manifests[3].Name)
}

func TestFunctionNameUsesFirstDeclaredEntry(t *testing.T) {
	root := t.TempDir()
	path := writeStackFile(t, root, "multi/stack.yaml", `functions:
  zeta-fn:
    lang: python3-http
  alpha-fn:
    lang: python3-http
`)
	name, err := FunctionNameFromStackFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zeta-fn", name, "declaration order decides, not alphabetical order")
}

func TestFunctionNameErrorsOnEmptyFunctionsMapping(t *testing.T) {
	root := t.TempDir()
	path := writeStackFile(t, root, "none/stack.yaml", "functions: {}\n")
	_, err := FunctionNameFromStackFile(path)
	assert.Error(t, err)
}
