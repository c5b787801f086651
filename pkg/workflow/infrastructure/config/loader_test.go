package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tss-calculator/project-workflow/pkg/workflow/application/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{"url": "http://localhost:7777/", "name": "calculator", "branchPrefix": "task/", "timeoutSeconds": 10}`)

	project, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, model.Project{
		ServerURL:    "http://localhost:7777/",
		Name:         "calculator",
		BranchPrefix: "task/",
		Timeout:      10 * time.Second,
	}, project)
}

func TestLoadMissingFile(t *testing.T) {
	project, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultBranchPrefix, project.BranchPrefix)
	assert.Empty(t, project.ServerURL)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, `{"url": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")

	_, err = Load(writeConfig(t, `{"timeoutSeconds": -1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative timeout")
}
