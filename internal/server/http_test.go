package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestHTTPServer_Stop(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":0")
	err := s.Stop(context.Background())
	assert.NoError(t, err)
}

func TestHTTPServer_StartAndServe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewHTTPServer(mux, ln.Addr().String())
	sec := &fixedListener{ln: ln}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(sec) }()

	url := fmt.Sprintf("http://%s/ping", ln.Addr().String())
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-errCh)
}

// fixedListener hands out a pre-opened listener regardless of address.
type fixedListener struct {
	ln net.Listener
}

func (f *fixedListener) Listen(_, _ string) (net.Listener, error) {
	return f.ln, nil
}
