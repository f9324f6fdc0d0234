package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/plugin/ai"
	"github.com/hrygo/northstar/store"
	storetest "github.com/hrygo/northstar/store/test"
)

func TestServer_RunAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prof := &profile.Profile{Mode: "dev", Addr: "127.0.0.1", Port: 0, RateLimitPerSecond: 2, RateLimitBurst: 5}
	st := storetest.NewTestingStore(ctx, t)
	s, err := NewServer(ctx, prof, st, ai.NewDisabledLLMService())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	require.Eventually(t, func() bool { return s.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + s.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Service ready.", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_DisabledBackend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prof := &profile.Profile{Mode: "dev", Addr: "127.0.0.1", Port: 0, RateLimitPerSecond: 2, RateLimitBurst: 5}
	st := storetest.NewTestingStore(ctx, t)
	s, err := NewServer(ctx, prof, st, ai.NewDisabledLLMService())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	require.Eventually(t, func() bool { return s.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	user, err := st.CreateUser(ctx, &store.User{Email: "server@example.com"})
	require.NoError(t, err)

	body := fmt.Sprintf(`{"user_id":%d,"message":"What is a persona?"}`, user.ID)
	resp, err := http.Post("http://"+s.Addr().String()+"/api/v1/conversations/process", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	cancel()
	<-done
}
