// Package socket serves a debug session's command loop to remote clients
// over a line-oriented protocol. One client is attached at a time; its
// interface is pushed on the session's interface stack on accept and pops
// off again when the connection drops.
package socket

import (
	"errors"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/wnxd/symdbg/debugger"
)

type Network = string

const (
	TCP  Network = "tcp"
	TCP4 Network = "tcp4"
	TCP6 Network = "tcp6"
	Unix Network = "unix"
)

type Server struct {
	dbg    debugger.Debugger
	log    *zap.Logger
	mu     sync.Mutex
	ln     net.Listener
	curr   *remoteInterface
	closed bool
}

type Option func(*Server)

func WithLogger(log *zap.Logger) Option {
	return func(srv *Server) {
		srv.log = log
	}
}

func New(dbg debugger.Debugger, opts ...Option) *Server {
	srv := &Server{dbg: dbg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Listen binds addr and starts accepting clients in the background.
func Listen(dbg debugger.Debugger, addr string, opts ...Option) (*Server, error) {
	srv := New(dbg, opts...)
	if err := srv.Listen(TCP, addr); err != nil {
		return nil, err
	}
	return srv, nil
}

func (srv *Server) Listen(network Network, addr string) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.closed {
		return ErrServerClosed
	}
	if srv.ln != nil {
		return ErrAlreadyListen
	}
	ln, err := net.Listen(network, addr)
	if err != nil {
		return err
	}
	srv.ln = ln
	go srv.serve(ln)
	return nil
}

// Addr reports the bound address, nil before Listen. Useful when listening
// on port 0.
func (srv *Server) Addr() net.Addr {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.ln == nil {
		return nil
	}
	return srv.ln.Addr()
}

func (srv *Server) Close() error {
	srv.mu.Lock()
	srv.closed = true
	ln := srv.ln
	srv.ln = nil
	curr := srv.curr
	srv.curr = nil
	srv.mu.Unlock()
	var result *multierror.Error
	if ln != nil {
		result = multierror.Append(result, ln.Close())
	}
	if curr != nil {
		result = multierror.Append(result, curr.Close())
	}
	return result.ErrorOrNil()
}

func (srv *Server) serve(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				srv.log.Warn("accept", zap.Error(err))
			}
			return
		}
		srv.handle(conn)
	}
}

func (srv *Server) handle(conn net.Conn) {
	id, err := uuid.NewV4()
	if err != nil {
		srv.log.Warn("connection id", zap.Error(err))
	}
	srv.mu.Lock()
	if srv.curr != nil || srv.closed {
		srv.mu.Unlock()
		conn.Write([]byte(errmsgPrefix + "debugger busy\n"))
		conn.Close()
		return
	}
	remote := newRemoteInterface(id, conn, srv.log, func() {
		srv.release(id)
	})
	srv.curr = remote
	srv.mu.Unlock()
	srv.log.Info("remote client connected",
		zap.Stringer("conn", id), zap.Stringer("addr", conn.RemoteAddr()))
	srv.dbg.PushInterface(remote)
}

func (srv *Server) release(id uuid.UUID) {
	srv.mu.Lock()
	srv.curr = nil
	srv.mu.Unlock()
	srv.log.Info("remote client disconnected", zap.Stringer("conn", id))
}
