package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	confComplete = `
---
root: public
path: blog
recursive: false
extensions:
  - .html
  - .htm
concurrency: 2
remoteconcurrency: 4
timeout: 5s
agent: deadlinks-test
usecookies: true
ignore:
  - https://twitter.com
policy: fail-fast
respectrobots: true
checkremote: false
...
`
	confMinimal = `
---
root: public
...
`
)

func TestLoad(t *testing.T) {
	cnf, errCnf := Load([]byte(confComplete))
	require.NoError(t, errCnf)
	assert.Equal(t, "public", cnf.Root)
	assert.Equal(t, "blog", cnf.Path)
	assert.False(t, cnf.Recursive)
	assert.Equal(t, []string{".html", ".htm"}, cnf.Extensions)
	assert.Equal(t, 2, cnf.Concurrency)
	assert.Equal(t, 4, cnf.RemoteConcurrency)
	assert.Equal(t, 5*time.Second, cnf.Timeout)
	assert.Equal(t, "deadlinks-test", cnf.Agent)
	assert.True(t, cnf.UseCookies)
	assert.Equal(t, []string{"https://twitter.com"}, cnf.Ignore)
	assert.Equal(t, PolicyFailFast, cnf.Policy)
	assert.True(t, cnf.RespectRobots)
	assert.False(t, cnf.CheckRemote)
	assert.NoError(t, cnf.Validate())

	cnf, errCnf = Load([]byte(confMinimal))
	require.NoError(t, errCnf)
	assert.Equal(t, "public", cnf.Root)
	assert.True(t, cnf.Recursive)
	assert.Equal(t, DefaultTimeout, cnf.Timeout)
	assert.Equal(t, PolicyCollectAll, cnf.Policy)
	assert.True(t, cnf.CheckRemote)
	assert.NoError(t, cnf.Validate())
}

func TestGet(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "deadlinks.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(confMinimal), 0o644))
	cnf, errCnf := Get(filename)
	require.NoError(t, errCnf)
	assert.Equal(t, "public", cnf.Root)

	_, errCnf = Get(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, errCnf)
}

func TestValidate(t *testing.T) {
	cnf := Default()
	assert.ErrorIs(t, cnf.Validate(), ErrNoRoot)
	cnf.Root = "public"
	cnf.Timeout = 0
	assert.ErrorIs(t, cnf.Validate(), ErrInvalidTimeout)
	cnf.Timeout = time.Second
	cnf.Concurrency = 0
	assert.ErrorIs(t, cnf.Validate(), ErrInvalidConcurrency)
	cnf.Concurrency = 1
	cnf.Policy = "sometimes"
	assert.ErrorIs(t, cnf.Validate(), ErrInvalidPolicy)
	cnf.Policy = PolicyCollectAll
	cnf.Extensions = nil
	assert.ErrorIs(t, cnf.Validate(), ErrNoExtensions)
}
