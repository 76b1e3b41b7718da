package socket

import (
	"context"
	"errors"
	"net/http"

	"github.com/DedS3t/richman/platform/channel"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Server exposes the host to remote peers: socket.io for browsers and a
// plain websocket endpoint for native peers.
type Server struct {
	http *http.Server
	io   *socketio.Server
}

func NewServer(addr string, origins []string, localId string, h channel.Handler) (*Server, error) {
	io, err := CreateSocketIOServer(h)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io)
	mux.Handle("/ws", NewWebsocketHandler(localId, origins, h))

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
	})
	return &Server{
		http: &http.Server{Addr: addr, Handler: c.Handler(mux)},
		io:   io,
	}, nil
}

func (s *Server) ListenAndServe() error {
	go func() {
		if err := s.io.Serve(); err != nil {
			logrus.WithError(err).Warn("socket.io stopped")
		}
	}()
	logrus.WithField("addr", s.http.Addr).Info("peer server listening")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	_ = s.io.Close()
	return s.http.Shutdown(ctx)
}
