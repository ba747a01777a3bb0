package websocketPkg

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			reply := append([]byte("ack:"), msg...)
			if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
		}
	}))
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestExchange(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	client := NewClient("ws"+strings.TrimPrefix(srv.URL, "http"), time.Second, quietLogger())
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reply, err := client.Exchange(ctx, []byte("frame-1"))
	require.NoError(t, err)
	assert.Equal(t, "ack:frame-1", string(reply))

	reply, err = client.Exchange(ctx, []byte("frame-2"))
	require.NoError(t, err)
	assert.Equal(t, "ack:frame-2", string(reply))
	assert.True(t, client.IsConnected())

	require.NoError(t, client.Reconnect())
	reply, err = client.Exchange(ctx, []byte("frame-3"))
	require.NoError(t, err)
	assert.Equal(t, "ack:frame-3", string(reply))

	client.Close()
	assert.False(t, client.IsConnected())
}

func TestExchange_NoURL(t *testing.T) {
	client := NewClient("", time.Second, quietLogger())
	_, err := client.Exchange(context.Background(), []byte("x"))
	assert.Error(t, err)
}
