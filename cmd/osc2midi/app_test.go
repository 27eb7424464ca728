package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/chabad360/osc2midi/midiout"
	"github.com/chabad360/osc2midi/osc"
)

type fakeConn struct {
	sent   chan []byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{sent: make(chan []byte, 16)}
}

func (c *fakeConn) Send(msg []byte) error {
	c.sent <- append([]byte(nil), msg...)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeSystem struct {
	names   []string
	conns   []*fakeConn
	virtual *fakeConn
	closed  bool
}

func newFakeSystem(names ...string) *fakeSystem {
	s := &fakeSystem{names: names, virtual: newFakeConn()}
	for range names {
		s.conns = append(s.conns, newFakeConn())
	}
	return s
}

func (s *fakeSystem) Names() ([]string, error) { return s.names, nil }

func (s *fakeSystem) Open(i int) (midiout.Conn, error) { return s.conns[i], nil }

func (s *fakeSystem) OpenVirtual(string) (midiout.Conn, error) { return s.virtual, nil }

func (s *fakeSystem) Close() error {
	s.closed = true
	return nil
}

func testApp(sys midiSystem, w *bytes.Buffer) *cli.App {
	app := newApp(func() (midiSystem, error) { return sys, nil }, nil)
	app.Writer = w
	app.ErrWriter = w
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func runApp(ctx context.Context, app *cli.App, args ...string) error {
	return app.RunContext(ctx, append([]string{app.Name}, args...))
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	require.True(t, errors.As(err, &ec), "not an exit error: %v", err)
	return ec.ExitCode()
}

// freeAddr returns a loopback address nothing is listening on.
func freeAddr(t *testing.T) string {
	t.Helper()
	c, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	addr := c.LocalAddr().String()
	require.NoError(t, c.Close())
	return addr
}

// serveApp runs the listen action in the background. The returned function
// stops it and returns its error.
func serveApp(t *testing.T, app *cli.App, args ...string) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- runApp(ctx, app, args...) }()

	return func() error {
		cancel()
		select {
		case err := <-errc:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("app did not stop")
		}
		return nil
	}
}

// play sends /note to addr until out receives something, and returns it.
func play(t *testing.T, addr string, out *fakeConn, note, velocity float32) []byte {
	t.Helper()
	client, err := osc.Dial(addr)
	require.NoError(t, err)
	defer client.Close()

	deadline := time.After(3 * time.Second)
	for {
		_ = client.Send(osc.NewMessage("/note", note, velocity))
		select {
		case msg := <-out.sent:
			return msg
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for MIDI output")
			return nil
		}
	}
}

func TestListenUsage(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"127.0.0.1:9000", "extra"},
		{"localhost:9000"},
		{"[::1]:9000"},
		{"127.0.0.1"},
		{"--channel", "16", "127.0.0.1:0"},
		{"--channel", "-1", "127.0.0.1:0"},
		{"--log-level", "loud", "127.0.0.1:0"},
		{"--port", "0", "--virtual", "osc2midi", "127.0.0.1:0"},
	} {
		var w bytes.Buffer
		err := runApp(context.Background(), testApp(newFakeSystem("a"), &w), args...)
		require.Equalf(t, exitUsage, exitCode(t, err), "args %q", args)
		require.Contains(t, w.String(), "USAGE")
	}
}

func TestListenBindFailure(t *testing.T) {
	var w bytes.Buffer
	// TEST-NET-1 is never assigned to a local interface.
	err := runApp(context.Background(), testApp(newFakeSystem("a"), &w), "192.0.2.1:9000")
	require.Equal(t, exitBind, exitCode(t, err))
}

func TestListenNoOutputs(t *testing.T) {
	var w bytes.Buffer
	sys := newFakeSystem()
	err := runApp(context.Background(), testApp(sys, &w), "127.0.0.1:0")
	require.Equal(t, exitUsage, exitCode(t, err))
	require.Contains(t, err.Error(), midiout.ErrNoOutputs.Error())
	require.Contains(t, w.String(), "Listening to 127.0.0.1:")
	require.True(t, sys.closed)
}

func TestListenOpenFailure(t *testing.T) {
	var w bytes.Buffer
	app := newApp(func() (midiSystem, error) { return nil, errors.New("no MIDI backend") }, nil)
	app.Writer = &w
	app.ErrWriter = &w
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := runApp(context.Background(), app, "127.0.0.1:0")
	require.Equal(t, exitUsage, exitCode(t, err))
}

func TestListenAndShutdown(t *testing.T) {
	var w bytes.Buffer
	sys := newFakeSystem("FluidSynth")
	addr := freeAddr(t)

	stop := serveApp(t, testApp(sys, &w), addr)
	require.Equal(t, []byte{0x90, 64, 90}, play(t, addr, sys.conns[0], 64, 90))
	require.NoError(t, stop())

	require.Contains(t, w.String(), "Listening to "+addr)
	require.Contains(t, w.String(), "Choosing the only available output port: FluidSynth")
	require.True(t, sys.conns[0].closed)
	require.True(t, sys.closed)
}

func TestListenPortAndChannel(t *testing.T) {
	var w bytes.Buffer
	sys := newFakeSystem("Midi Through", "FluidSynth")
	addr := freeAddr(t)

	stop := serveApp(t, testApp(sys, &w), "--port", "fluid", "-c", "9", addr)
	require.Equal(t, []byte{0x99, 36, 127}, play(t, addr, sys.conns[1], 36, 127))
	require.NoError(t, stop())
}

func TestListenVirtual(t *testing.T) {
	var w bytes.Buffer
	sys := newFakeSystem()
	addr := freeAddr(t)

	stop := serveApp(t, testApp(sys, &w), "--virtual", "osc2midi", addr)
	require.Equal(t, []byte{0x90, 60, 100}, play(t, addr, sys.virtual, 60, 100))
	require.NoError(t, stop())

	require.Contains(t, w.String(), "Created virtual output port: osc2midi")
	require.True(t, sys.virtual.closed)
}

func TestListenConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "osc2midi.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: synth\nchannel: 3\nlog-level: debug\n"), 0o600))

	var w bytes.Buffer
	sys := newFakeSystem("Midi Through", "FluidSynth")
	addr := freeAddr(t)

	stop := serveApp(t, testApp(sys, &w), "--load", file, addr)
	require.Equal(t, []byte{0x93, 48, 64}, play(t, addr, sys.conns[1], 48, 64))
	require.NoError(t, stop())
}

func TestPorts(t *testing.T) {
	var w bytes.Buffer
	require.NoError(t, runApp(context.Background(), testApp(newFakeSystem("Midi Through", "FluidSynth"), &w), "ports"))
	require.Equal(t, "Available output ports:\n0: Midi Through\n1: FluidSynth\n", w.String())

	w.Reset()
	require.NoError(t, runApp(context.Background(), testApp(newFakeSystem(), &w), "ports"))
	require.Equal(t, "No output ports found\n", w.String())
}

func TestSend(t *testing.T) {
	c, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer c.Close()

	var w bytes.Buffer
	require.NoError(t, runApp(context.Background(), testApp(newFakeSystem(), &w), "send", c.LocalAddr().String(), "60", "100.5"))

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, osc.MaxPacketSize)
	n, _, err := c.ReadFrom(buf)
	require.NoError(t, err)

	p, err := osc.ParsePacket(buf[:n])
	require.NoError(t, err)
	require.Equal(t, osc.NewMessage("/note", float32(60), float32(100.5)), p)
}

func TestSendUsage(t *testing.T) {
	for _, args := range [][]string{
		{"send"},
		{"send", "127.0.0.1:9000", "60"},
		{"send", "localhost:9000", "60", "100"},
		{"send", "127.0.0.1:9000", "C4", "100"},
		{"send", "127.0.0.1:9000", "60", "loud"},
	} {
		var w bytes.Buffer
		err := runApp(context.Background(), testApp(newFakeSystem(), &w), args...)
		require.Equalf(t, exitUsage, exitCode(t, err), "args %q", args)
	}
}
