// Package natsbus runs an embedded NATS server for zone event fan-out.
// The tick runner publishes each zone's events to zone.<id>.events and
// the stream gateway subscribes per connection.
package natsbus

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

type Server struct {
	ns   *server.Server
	conn *nats.Conn

	startupTimeout time.Duration
	host           string
	port           int
}

type ServerOpt func(*Server)

// WithStartTimeout sets how long Start waits for the server to accept
// connections.
func WithStartTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.startupTimeout = d
	}
}

func WithHost(host string) ServerOpt {
	return func(s *Server) {
		s.host = host
	}
}

// WithPort sets the listen port. The default -1 picks a free port.
func WithPort(port int) ServerOpt {
	return func(s *Server) {
		s.port = port
	}
}

func NewServer(opts ...ServerOpt) (*Server, error) {
	s := &Server{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		port:           -1,
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true,
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

// Start brings the server up and opens the internal client connection.
// It returns once the server accepts connections; Close shuts it down.
func (s *Server) Start() error {
	s.ns.Start()

	if !s.ns.ReadyForConnections(s.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	conn, err := nats.Connect(s.ns.ClientURL())
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	s.conn = conn

	return nil
}

func (s *Server) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
}

func (s *Server) ClientURL() string {
	return s.ns.ClientURL()
}

// Subscribe calls handler for each message on the subject. The
// returned func removes the subscription.
func (s *Server) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	if s.conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

func (s *Server) Publish(subject string, data []byte) error {
	if s.conn == nil {
		return fmt.Errorf("nats server not started")
	}
	return s.conn.Publish(subject, data)
}
