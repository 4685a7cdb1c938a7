package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/areacheck/internal/client/api"
	"github.com/iudanet/areacheck/internal/client/iocli"
	"github.com/iudanet/areacheck/internal/server"
	"github.com/iudanet/areacheck/internal/server/credentials"
	"github.com/iudanet/areacheck/internal/server/jwt"
	"github.com/iudanet/areacheck/internal/server/points"
	"github.com/iudanet/areacheck/internal/server/storage/sqlite"
	"github.com/iudanet/areacheck/pkg/api"
)

// testEnv поднимает сервер в памяти и общий для команд файл сессии
type testEnv struct {
	server *httptest.Server
	dbPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(EnvPassword, "")
	t.Setenv(EnvServer, "")

	store, err := sqlite.New(context.Background(), ":memory:", nil)
	require.NoError(t, err)

	tokens, err := jwt.NewManager(jwt.Config{
		Secret: []byte("cli-test-secret-0123456789"),
		TTL:    time.Hour,
	}, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(server.NewRouter(server.RouterConfig{
		Credentials: credentials.NewService(store, nil, nil),
		Tokens:      tokens,
		Points:      points.NewService(store, nil),
		DB:          store,
		Version:     "test",
	}))
	t.Cleanup(func() {
		srv.Close()
		_ = store.Close()
	})

	return &testEnv{
		server: srv,
		dbPath: filepath.Join(t.TempDir(), "client.db"),
	}
}

// run выполняет команду клиента; input подается на stdin
func (e *testEnv) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	c := New(iocli.New(strings.NewReader(input), &out), BuildInfo{Version: "1.2.3"})

	full := append([]string{"--server", e.server.URL, "--db", e.dbPath}, args...)
	err := c.Execute(context.Background(), full)
	return out.String(), err
}

func TestCli_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "alice\nsecret\n", "register")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Registration successful!")

	// Повторная регистрация того же имени
	_, err = env.run(t, "secret\n", "register", "alice")
	require.Error(t, err)
	assert.True(t, clientapi.IsConflict(err))

	out, err = env.run(t, "secret\n", "login", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful!")

	_, err = env.run(t, "wrong\n", "login", "alice")
	require.Error(t, err)
	assert.True(t, clientapi.IsUnauthorized(err))

	_, err = env.run(t, "secret\n", "login", "nobody")
	require.Error(t, err)
	assert.True(t, clientapi.IsUnauthorized(err))
}

func TestCli_CheckHistoryClear(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "secret\n", "register", "alice")
	require.NoError(t, err)

	out, err := env.run(t, "", "check", "--x", "0.5", "--y", "0.5", "--r", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "x=0.5 y=0.5 r=2: hit")

	out, err = env.run(t, "", "check", "--x", "3", "--y", "3", "--r", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "miss")

	// Недопустимое R отклоняется сервером
	_, err = env.run(t, "", "check", "--x", "0", "--y", "0", "--r", "5")
	require.Error(t, err)
	assert.True(t, clientapi.IsBadRequest(err))

	// Отсутствующая координата
	_, err = env.run(t, "", "check", "--x", "0", "--r", "1")
	require.Error(t, err)
	assert.True(t, clientapi.IsBadRequest(err))

	out, err = env.run(t, "", "-o", "json", "history")
	require.NoError(t, err)
	var history []api.PointResponse
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history, 2)
	assert.Equal(t, 3.0, history[0].X)
	assert.False(t, history[0].Hit)
	assert.True(t, history[1].Hit)

	out, err = env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2")

	out, err = env.run(t, "", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 record(s)")

	out, err = env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No checks yet")
}

func TestCli_NotAuthenticated(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{
		{"check", "--x", "0", "--y", "0", "--r", "1"},
		{"history"},
		{"clear"},
	} {
		_, err := env.run(t, "", args...)
		assert.ErrorContains(t, err, "not authenticated", args[0])
	}
}

func TestCli_StatusAndLogout(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: Not authenticated")

	_, err = env.run(t, "secret\n", "register", "alice")
	require.NoError(t, err)

	out, err = env.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: Authenticated")
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "Server: "+env.server.URL)

	out, err = env.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = env.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	_, err = env.run(t, "", "history")
	assert.ErrorContains(t, err, "not authenticated")
}

func TestCli_PasswordSources(t *testing.T) {
	env := newTestEnv(t)

	// Пароль из файла, ввод с stdin не нужен
	passwordFile := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("from-file\n"), 0600))

	_, err := env.run(t, "", "--password-file", passwordFile, "register", "alice")
	require.NoError(t, err)

	_, err = env.run(t, "from-file\n", "login", "alice")
	require.NoError(t, err)

	// Переменная окружения важнее файла
	t.Setenv(EnvPassword, "from-env")
	_, err = env.run(t, "", "--password-file", passwordFile, "register", "bob")
	require.NoError(t, err)
	t.Setenv(EnvPassword, "")

	_, err = env.run(t, "from-env\n", "login", "bob")
	require.NoError(t, err)

	emptyFile := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(emptyFile, nil, 0600))
	_, err = env.run(t, "", "--password-file", emptyFile, "login", "bob")
	assert.ErrorContains(t, err, "password file is empty")

	_, err = env.run(t, "", "--password-file", filepath.Join(t.TempDir(), "missing"), "login", "bob")
	assert.ErrorContains(t, err, "failed to read password file")

	_, err = env.run(t, "\n", "login", "bob")
	assert.ErrorContains(t, err, "password cannot be empty")
}

func TestCli_Health(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: ok")
	assert.Contains(t, out, "Version: test")
}

func TestCli_Version(t *testing.T) {
	var out bytes.Buffer
	c := New(iocli.New(strings.NewReader(""), &out), BuildInfo{
		Version:   "1.2.3",
		BuildDate: "2025-06-01",
		GitCommit: "abc123",
	})

	require.NoError(t, c.Execute(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), "AreaCheck Client")
	assert.Contains(t, out.String(), "Version:    1.2.3")
	assert.Contains(t, out.String(), "Git Commit: abc123")
}

func TestCli_InvalidOutput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "-o", "yaml", "health")
	assert.ErrorContains(t, err, `unknown output format "yaml"`)
}
