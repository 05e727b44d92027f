package socket

import (
	"bufio"
	"net"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Wire prefixes of the line protocol. Every line the server sends starts
// with one of these, so a client can route output without further framing.
const (
	msgPrefix    = ". "
	errmsgPrefix = "*** "
	promptPrefix = "? "
)

// remoteInterface adapts one accepted connection to the command loop's
// interface. Reads block on the client; writes tag each line with its
// protocol prefix.
type remoteInterface struct {
	id      uuid.UUID
	conn    net.Conn
	in      *bufio.Reader
	wmu     sync.Mutex
	log     *zap.Logger
	once    sync.Once
	onClose func()
}

func newRemoteInterface(id uuid.UUID, conn net.Conn, log *zap.Logger, onClose func()) *remoteInterface {
	return &remoteInterface{
		id:      id,
		conn:    conn,
		in:      bufio.NewReader(conn),
		log:     log.With(zap.Stringer("conn", id)),
		onClose: onClose,
	}
}

func (r *remoteInterface) Close() error {
	var err error
	r.once.Do(func() {
		err = r.conn.Close()
		if r.onClose != nil {
			r.onClose()
		}
	})
	return err
}

func (r *remoteInterface) ReadCommand(prompt string) (string, error) {
	if err := r.writeLine(promptPrefix + prompt); err != nil {
		return "", err
	}
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *remoteInterface) Msg(text string) {
	for _, line := range strings.Split(text, "\n") {
		if err := r.writeLine(msgPrefix + line); err != nil {
			r.log.Debug("write msg", zap.Error(err))
			return
		}
	}
}

func (r *remoteInterface) Errmsg(text string) {
	for _, line := range strings.Split(text, "\n") {
		if err := r.writeLine(errmsgPrefix + line); err != nil {
			r.log.Debug("write errmsg", zap.Error(err))
			return
		}
	}
}

func (r *remoteInterface) Confirm(prompt string, def bool) bool {
	for {
		reply, err := r.ReadCommand(prompt + " (N/y)")
		if err != nil {
			return def
		}
		switch strings.ToLower(strings.TrimSpace(reply)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		r.Msg("Please answer y or n.")
	}
}

func (r *remoteInterface) Interactive() bool {
	return true
}

func (r *remoteInterface) writeLine(line string) error {
	r.wmu.Lock()
	defer r.wmu.Unlock()
	_, err := r.conn.Write([]byte(line + "\n"))
	return err
}
