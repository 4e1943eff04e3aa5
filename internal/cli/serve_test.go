package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/repository"
)

// mockHandler creates a simple test handler
func mockHandler(response string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	})
}

// createTestDeps creates ServerDependencies with a mock handler for testing
func createTestDeps(port string) ServerDependencies {
	return ServerDependencies{
		ServerConfig: config.ServerConfig{Port: port},
		Handler:      mockHandler("storefront"),
	}
}

// startTestServer starts a server with the given dependencies and returns listener, server, and port
func startTestServer(t *testing.T, deps ServerDependencies) (net.Listener, *http.Server, int) {
	t.Helper()
	listener, server, err := StartServer(deps)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	return listener, server, port
}

// httpGet makes an HTTP GET request and returns response body and status
func httpGet(t *testing.T, url string) (string, int) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode
}

func TestStartServer_SuccessfulStartup(t *testing.T) {
	// GIVEN
	core, logs := observer.New(zapcore.InfoLevel)
	deps := createTestDeps("0")
	deps.Logger = zap.New(core)

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	if port == 0 {
		t.Error("Expected non-zero port")
	}

	time.Sleep(50 * time.Millisecond)
	body, status := httpGet(t, fmt.Sprintf("http://localhost:%d/", port))

	if status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if body != "storefront" {
		t.Errorf("Expected 'storefront', got '%s'", body)
	}
	if logs.FilterMessage("server listening").Len() != 1 {
		t.Errorf("Expected one 'server listening' log entry, got %v", logs.All())
	}
}

func TestStartServer_MissingHandler(t *testing.T) {
	// GIVEN
	deps := ServerDependencies{ServerConfig: config.ServerConfig{Port: "0"}}

	// WHEN
	_, _, err := StartServer(deps)

	// THEN
	if err == nil {
		t.Error("Expected error for missing handler, got nil")
	}
}

func TestStartServer_InvalidPort(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999") // Invalid port

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for invalid port, got nil")
	}
}

func TestStartServer_PortAlreadyInUse(t *testing.T) {
	// GIVEN
	existingListener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}
	defer existingListener.Close()

	port := existingListener.Addr().(*net.TCPAddr).Port
	deps := createTestDeps(fmt.Sprintf("%d", port))

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for port already in use, got nil")
	}
}

func TestStartServer_ServesStorefront(t *testing.T) {
	// GIVEN
	handler, err := NewStorefrontHandler(repository.NewMemoryOrderRepository(), config.ServerConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to build storefront: %v", err)
	}
	deps := createTestDeps("0")
	deps.Handler = handler

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	time.Sleep(50 * time.Millisecond)
	baseURL := fmt.Sprintf("http://localhost:%d", port)
	testCases := []struct {
		path     string
		expected string
	}{
		{"/", `id="login-button"`},
		{"/inventory.html", "You can only access"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			body, status := httpGet(t, baseURL+tc.path)
			if status != http.StatusOK {
				t.Errorf("Expected status 200, got %d", status)
			}
			if !strings.Contains(body, tc.expected) {
				t.Errorf("Expected body to contain '%s'", tc.expected)
			}
		})
	}
}

func TestStartServer_ConcurrentServers(t *testing.T) {
	// GIVEN
	deps1 := createTestDeps("0")
	deps1.Handler = mockHandler("server1")

	deps2 := createTestDeps("0")
	deps2.Handler = mockHandler("server2")

	// WHEN
	listener1, server1, port1 := startTestServer(t, deps1)
	defer listener1.Close()
	defer server1.Close()

	listener2, server2, port2 := startTestServer(t, deps2)
	defer listener2.Close()
	defer server2.Close()

	// THEN
	if port1 == port2 {
		t.Error("Both servers got the same port")
	}

	time.Sleep(50 * time.Millisecond)

	if body, _ := httpGet(t, fmt.Sprintf("http://localhost:%d/", port1)); body != "server1" {
		t.Errorf("Server 1 returned wrong response: %s", body)
	}
	if body, _ := httpGet(t, fmt.Sprintf("http://localhost:%d/", port2)); body != "server2" {
		t.Errorf("Server 2 returned wrong response: %s", body)
	}
}

func TestStartServer_GracefulShutdown(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	if _, status := httpGet(t, fmt.Sprintf("http://localhost:%d/", port)); status != http.StatusOK {
		t.Fatal("Server not responding")
	}

	// WHEN
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Failed to shutdown server gracefully: %v", err)
	}

	// THEN
	time.Sleep(100 * time.Millisecond)
	if _, err := http.Get(fmt.Sprintf("http://localhost:%d/", port)); err == nil {
		t.Error("Expected error after shutdown, server still responding")
	}
}

func TestWaitForShutdown_Signals(t *testing.T) {
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT} {
		t.Run(sig.String(), func(t *testing.T) {
			// GIVEN
			core, logs := observer.New(zapcore.InfoLevel)
			listener, server, _ := startTestServer(t, createTestDeps("0"))
			defer listener.Close()

			shutdown := make(chan os.Signal, 1)

			// WHEN
			errCh := make(chan error, 1)
			go func() {
				errCh <- WaitForShutdown(server, shutdown, zap.New(core))
			}()

			time.Sleep(50 * time.Millisecond)
			shutdown <- sig

			// THEN
			select {
			case err := <-errCh:
				if err != nil {
					t.Errorf("Expected nil error, got: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("WaitForShutdown did not complete")
			}
			if logs.FilterMessage("server stopped").Len() != 1 {
				t.Errorf("Expected 'server stopped' log entry, got %v", logs.All())
			}
		})
	}
}

func TestWaitForShutdown_WithActiveRequests(t *testing.T) {
	// GIVEN
	slowHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("done"))
	})

	deps := createTestDeps("0")
	deps.Handler = slowHandler

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	requestComplete := make(chan bool, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/", port))
		if err == nil {
			resp.Body.Close()
		}
		requestComplete <- true
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)

	// WHEN
	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitForShutdown(server, shutdown, nil)
	}()

	shutdown <- syscall.SIGTERM

	// THEN
	select {
	case <-requestComplete:
	case <-time.After(2 * time.Second):
		t.Error("Request did not complete in time")
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForShutdown did not complete")
	}
}

func TestWaitForShutdownWithTimeout_ForcesClose(t *testing.T) {
	// GIVEN
	release := make(chan struct{})
	blocking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	deps := createTestDeps("0")
	deps.Handler = blocking
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/", port))
		if err == nil {
			resp.Body.Close()
		}
	}()
	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)
	shutdown <- syscall.SIGTERM

	// WHEN
	start := time.Now()
	err := WaitForShutdownWithTimeout(server, shutdown, 100*time.Millisecond, nil)

	// THEN
	if err != nil {
		t.Errorf("Expected nil error after forced close, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Forced close took too long: %v", elapsed)
	}
}

func TestRunServe_StartupFailure(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999") // Invalid port

	// WHEN
	err := RunServe(deps)

	// THEN
	if err == nil {
		t.Error("Expected error for invalid port, got nil")
	}
}

// BenchmarkStartServer benchmarks server startup
func BenchmarkStartServer(b *testing.B) {
	deps := createTestDeps("0")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		listener, server, err := StartServer(deps)
		if err != nil {
			b.Fatalf("Failed to start server: %v", err)
		}
		server.Close()
		listener.Close()
	}
}
