package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"unihub/internal/config"
	"unihub/pkg/client"
)

// chdir moves the test into an empty directory so nothing is read from the
// module tree at startup.
func chdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestRun_ServesFromEmptyDirectoryAndShutsDown(t *testing.T) {
	chdir(t)
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		ServerPort:  "0",
		Env:         "test",
		DBDriver:    "sqlite",
		DatabaseDSN: "file:run_test?mode=memory&cache=shared",
		RedisAddr:   mr.Addr(),
		JWTSecret:   "run-test-secret",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, zap.NewNop(), func(a net.Addr) { addrCh <- a })
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("run exited before listening: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not start")
	}
	port := addr.(*net.TCPAddr).Port
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	resp, err := http.Get(baseURL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c := client.New(baseURL)
	_, err = c.Register(ctx, client.RegisterRequest{
		Email:     "runner@metu.edu.tr",
		Password:  "password123",
		Name:      "Run",
		Surname:   "Ner",
		StudentID: "2300000001",
	})
	require.NoError(t, err)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "runner@metu.edu.tr", me.Email)
	assert.True(t, mr.Exists(fmt.Sprintf("user:%d", me.ID)), "profile account should be cached in redis")

	_, err = client.New(baseURL).Register(ctx, client.RegisterRequest{
		Email:     "someone@mailinator.com",
		Password:  "password123",
		Name:      "Throw",
		Surname:   "Away",
		StudentID: "2300000002",
	})
	assert.Error(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRun_ReportsListenFailure(t *testing.T) {
	chdir(t)
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := &config.Config{
		ServerPort:  fmt.Sprint(busy.Addr().(*net.TCPAddr).Port),
		Env:         "test",
		DBDriver:    "sqlite",
		DatabaseDSN: "file:run_listen_test?mode=memory&cache=shared",
		RedisAddr:   "127.0.0.1:1",
		JWTSecret:   "run-test-secret",
	}
	err = run(context.Background(), cfg, zap.NewNop(), nil)
	assert.ErrorContains(t, err, "listen")
}
