package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	httpapi "rainpath-cases/internal/http"
	"rainpath-cases/internal/repository"
	"rainpath-cases/internal/service"
	"rainpath-cases/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startAPI(t *testing.T) string {
	t.Helper()
	logger := zap.NewNop()
	cases := service.NewCaseService(repository.NewMemoryCasesRepo(), nil, logger)
	drafts := service.NewDraftService(store.NewMemoryKV(), 0, logger)

	router := httpapi.NewRouter(logger, nil)
	router.RegisterCaseRoutes(httpapi.NewCasesHandler(cases, drafts, nil, logger))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCasectl_CreateListGetDelete(t *testing.T) {
	server := startAPI(t)
	caseFile := writeFile(t, "case.json", `{"identifier":"DOS-1","specimens":[{"blocks":[{"slides":[{"staining":"HES"},{"staining":"IHC"}]}]}]}`)

	out, err := run(t, "--server", server, "create", "-f", caseFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Created case")
	assert.Contains(t, out, "(DOS-1): 1 specimens, 1 blocks, 2 slides")

	out, err = run(t, "--server", server, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, "DOS-1")

	// id 1 is the case: one id sequence is shared by every level, the case is created first
	out, err = run(t, "--server", server, "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"identifier": "DOS-1"`)
	assert.Contains(t, out, `"staining": "IHC"`)

	out, err = run(t, "--server", server, "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted case 1\n", out)

	out, err = run(t, "--server", server, "list")
	require.NoError(t, err)
	assert.Equal(t, "No cases yet\n", out)
}

func TestCasectl_ServerErrorsSurface(t *testing.T) {
	server := startAPI(t)
	caseFile := writeFile(t, "case.json", `{"identifier":"","specimens":[]}`)

	_, err := run(t, "--server", server, "create", "-f", caseFile)
	require.Error(t, err)
	assert.Equal(t, "identifier should not be empty, specimens should not be empty", err.Error())

	_, err = run(t, "--server", server, "get", "99")
	require.Error(t, err)
	assert.Equal(t, "Case with id 99 not found", err.Error())

	_, err = run(t, "--server", server, "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid case id")
}

func TestCasectl_Drafts(t *testing.T) {
	server := startAPI(t)
	draftFile := writeFile(t, "draft.json", `{"identifier":"DOS-7","specimens":[]}`)

	out, err := run(t, "--server", server, "draft", "show", "--key", "bench")
	require.NoError(t, err)
	assert.Equal(t, "No draft saved\n", out)

	_, err = run(t, "--server", server, "draft", "save", "--key", "bench", "-f", draftFile)
	require.NoError(t, err)

	out, err = run(t, "--server", server, "draft", "show", "--key", "bench")
	require.NoError(t, err)
	assert.Contains(t, out, `"identifier": "DOS-7"`)

	_, err = run(t, "--server", server, "draft", "clear", "--key", "bench")
	require.NoError(t, err)
	out, err = run(t, "--server", server, "draft", "show", "--key", "bench")
	require.NoError(t, err)
	assert.Equal(t, "No draft saved\n", out)
}

func TestCasectl_ServerFromEnvAndConfig(t *testing.T) {
	server := startAPI(t)

	t.Setenv("CASECTL_SERVER", server)
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "No cases yet\n", out)

	cfgFile := writeFile(t, "casectl.yaml", "server: "+server+"\n")
	t.Setenv("CASECTL_SERVER", "")
	out, err = run(t, "--config", cfgFile, "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}
