package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, yamlText string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0o644))
	return path
}

func TestLoadManifestAndBuildResolves(t *testing.T) {
	path := writeManifest(t, `
plugins:
  - name: logger
    version: 1.0.0
  - name: trace
    version: 1.0.0
    depends:
      - target: logger
        constraint: "^1"
    extends: [logger]
`)

	manifest, err := loadManifest(path)
	require.NoError(t, err)
	require.Len(t, manifest.Plugins, 2)

	builder, err := manifest.build()
	require.NoError(t, err)

	result, err := builder.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"logger", "trace"}, result.Order)
}

func TestBuildRejectsMissingDependency(t *testing.T) {
	path := writeManifest(t, `
plugins:
  - name: a
    version: 1.0.0
    depends:
      - target: ghost
        constraint: "*"
`)

	manifest, err := loadManifest(path)
	require.NoError(t, err)
	builder, err := manifest.build()
	require.NoError(t, err)

	result, resolveErr := builder.Resolve()
	require.Error(t, resolveErr)
	assert.Len(t, result.Conflicts, 1)
}

func TestBuildStrictOverrideFromManifest(t *testing.T) {
	permissive := false
	path := writeManifest(t, `
strict: false
plugins:
  - name: a
    version: 1.0.0
    depends:
      - target: ghost
        constraint: "*"
        optional: true
`)

	manifest, err := loadManifest(path)
	require.NoError(t, err)
	require.NotNil(t, manifest.Strict)
	assert.Equal(t, permissive, *manifest.Strict)

	builder, err := manifest.build()
	require.NoError(t, err)

	result, err := builder.Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Order)
	assert.NotEmpty(t, result.Warnings)
}
