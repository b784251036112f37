//go:build integration

package integration

import (
	"errors"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServerGracefulShutdown(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "mcp-vcenter-test")
	buildCmd := exec.Command("go", "build", "-o", binary, ".")
	buildCmd.Dir = "../../"
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build server: %v\n%s", err, out)
	}

	t.Run("SIGTERM handling", func(t *testing.T) {
		testSignalHandling(t, binary, syscall.SIGTERM)
	})

	t.Run("SIGINT handling", func(t *testing.T) {
		testSignalHandling(t, binary, syscall.SIGINT)
	})
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	return port
}

func waitForHealth(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server did not become healthy at %s", url)
}

func testSignalHandling(t *testing.T, binary string, signal syscall.Signal) {
	vc := newFakeVCenter(t)
	port := freePort(t)

	cmd := exec.Command(binary, "serve")
	cmd.Env = append(os.Environ(),
		"VCENTER_HOST="+vc.URL,
		"VCENTER_USERNAME="+fakeUsername,
		"VCENTER_PASSWORD="+fakePassword,
		"HOST=127.0.0.1",
		"PORT="+port,
	)

	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	waitForHealth(t, "http://127.0.0.1:"+port+"/health")

	if err := cmd.Process.Signal(signal); err != nil {
		t.Fatalf("Failed to send %s signal: %v", signal, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Fatalf("Server exited with %v after %s", exitErr, signal)
		}
		require.NoError(t, err)
		t.Logf("Server gracefully handled %s signal", signal)
	case <-time.After(5 * time.Second):
		if err := cmd.Process.Kill(); err != nil {
			t.Logf("Failed to force kill process: %v", err)
		}
		t.Fatalf("Server did not exit within 5 seconds after %s signal", signal)
	}
}
