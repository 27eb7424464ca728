package bridge

import (
	"context"
	"net"
	"runtime"

	"github.com/chabad360/osc2midi/osc"
	"github.com/pkg/errors"
	log "github.com/schollz/logger"
)

// ErrTransport is returned by Serve when the socket fails for any reason
// other than being closed.
var ErrTransport = errors.New("bridge: transport failed")

// Listener receives OSC datagrams on Addr and plays them through Emitter.
// Datagrams are handled one at a time in arrival order.
type Listener struct {
	Addr       string
	Dispatcher *Dispatcher
	Emitter    *Emitter

	buf []byte
}

// Listen binds an IPv4 UDP socket on addr. The address may be reused by
// other listeners where the platform allows it.
func Listen(ctx context.Context, addr string) (net.PacketConn, error) {
	lc := listenConfig()
	c, err := lc.ListenPacket(ctx, "udp4", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "binding %s", addr)
	}
	return c, nil
}

// ListenAndServe binds Addr and serves it until ctx is done or the socket
// fails.
func (l *Listener) ListenAndServe(ctx context.Context) error {
	c, err := Listen(ctx, l.Addr)
	if err != nil {
		return err
	}
	defer c.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	return l.Serve(c)
}

// Serve reads datagrams from c until it is closed, in which case it returns
// nil. Bad datagrams are logged and dropped; any other read error is fatal.
func (l *Listener) Serve(c net.PacketConn) error {
	if l.Emitter == nil {
		return errors.New("Serve: no Emitter")
	}
	if l.Dispatcher == nil {
		l.Dispatcher = NewDispatcher()
	}
	if l.buf == nil {
		// One spare byte tells an oversized datagram from a full one.
		l.buf = make([]byte, osc.MaxPacketSize+1)
	}

	for {
		n, addr, err := c.ReadFrom(l.buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				log.Debugf("listener on %s closed", c.LocalAddr())
				return nil
			}
			log.Errorf("receiving on %s: %v", c.LocalAddr(), err)
			return errors.Wrapf(ErrTransport, "receiving: %v", err)
		}

		if n > osc.MaxPacketSize {
			log.Warnf("dropping datagram from %s: larger than %d bytes", addr, osc.MaxPacketSize)
			continue
		}

		l.handle(l.buf[:n], addr)
	}
}

func (l *Listener) handle(data []byte, from net.Addr) {
	defer recoverer(from)

	p, err := osc.ParsePacket(data)
	if err != nil {
		log.Warnf("dropping datagram from %s: %v", from, err)
		return
	}

	cmd, err := l.Dispatcher.Dispatch(p)
	if err != nil {
		log.Warnf("dropping message from %s: %v", from, err)
		return
	}
	if cmd == nil {
		return
	}

	if err := l.Emitter.Emit(cmd); err != nil {
		log.Errorf("%s from %s: %v", cmd, from, err)
		return
	}
	log.Debugf("%s from %s", cmd, from)
}

func recoverer(a net.Addr) {
	if err := recover(); err != nil {
		buf := make([]byte, 4096)
		buf = buf[:runtime.Stack(buf, false)]
		log.Errorf("panic handling datagram from %s: %v\n%s", a, err, buf)
	}
}
