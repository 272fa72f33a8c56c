package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerShutdownAfterInterrupt(t *testing.T) {
	server, err := NewServer(map[string]string{"PORT": "0"}, testDependencies(t))
	require.NoError(t, err)

	errChannel := make(chan error, 2)
	go server.Start(errChannel)

	// the signal listener reports first, then the server reports its close
	errChannel <- errors.New("interrupt")
	assert.EqualError(t, <-errChannel, "interrupt")

	server.ShutdownGracefully(time.Second)

	select {
	case err := <-errChannel:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not report shutdown")
	}
}
