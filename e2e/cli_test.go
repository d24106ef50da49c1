package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpserver-go/internal/api"
	"github.com/mcoot/rpserver-go/internal/factory"
	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/transport/ws"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "rpctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rpctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "RPCTL_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app  *factory.TestApp
	addr string
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp(t)

	// Seed an admin account
	hash, err := app.AuthService.HashPassword("hunter22")
	require.NoError(t, err)
	require.NoError(t, app.Storage.InsertAccount(context.Background(), &model.Account{
		ID: 1000, Name: "admin", PasswordHash: hash, AdminLevel: 3,
	}))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	server := api.NewServer(app.Router(), api.DefaultServerConfig(addr), app.Logger)
	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{app: app, addr: serverURL}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// joinGame connects a websocket player and puts a fresh character in play
func joinGame(t *testing.T, serverURL, name, first, last string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	cmds := []ws.Command{
		{Command: ws.CmdCreateAccount, Password: "secret1"},
		{Command: ws.CmdCreateCharacter, FirstName: first, LastName: last, Model: "a_m_y_hipster_01"},
		{Command: ws.CmdSelectCharacter, Name: first + " " + last},
	}
	for _, cmd := range cmds {
		require.NoError(t, conn.WriteJSON(cmd))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f ws.Frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Event == model.EventCloseCharacterSelectMenu {
			return conn
		}
	}
}

// Response types for JSON parsing
type loginResponse struct {
	Account struct {
		Name       string `json:"name"`
		AdminLevel int    `json:"admin_level"`
	} `json:"account"`
	Token string `json:"token"`
}

type characterResponse struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Money       int    `json:"money"`
	PhoneNumber string `json:"phone_number"`
	Online      bool   `json:"online"`
}

type onlineResponse struct {
	Characters []struct {
		CharacterID int64  `json:"character_id"`
		FullName    string `json:"full_name"`
	} `json:"characters"`
}

type moneyResponse struct {
	Money int `json:"money"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_LoginRequiredForAdminCommands(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("online")
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_AdminFlow(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	// Login saves the token
	output, err := cli.run("login", "--name", "admin", "--pass", "hunter22")
	require.NoError(t, err, "output: %s", output)

	var login loginResponse
	require.NoError(t, json.Unmarshal([]byte(output), &login))
	assert.Equal(t, "admin", login.Account.Name)
	assert.Equal(t, 3, login.Account.AdminLevel)

	// A player joins over the websocket
	joinGame(t, ts.addr, "alice", "Alice", "Smith")

	output, err = cli.run("online")
	require.NoError(t, err, "output: %s", output)
	var online onlineResponse
	require.NoError(t, json.Unmarshal([]byte(output), &online))
	require.Len(t, online.Characters, 1)
	assert.Equal(t, "Alice Smith", online.Characters[0].FullName)

	output, err = cli.run("character", "by-name", "Alice Smith")
	require.NoError(t, err, "output: %s", output)
	var character characterResponse
	require.NoError(t, json.Unmarshal([]byte(output), &character))
	assert.True(t, character.Online)
	assert.Equal(t, 1000, character.Money)

	id := strconv.FormatInt(character.ID, 10)
	output, err = cli.run("money", "add", id, "--amount", "250")
	require.NoError(t, err, "output: %s", output)
	var money moneyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &money))
	assert.Equal(t, 1250, money.Money)

	output, err = cli.run("character", "get", id)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &character))
	assert.Equal(t, 1250, character.Money)
}
