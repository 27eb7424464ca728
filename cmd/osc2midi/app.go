package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/schollz/logger"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	"golang.org/x/sync/errgroup"

	"github.com/chabad360/osc2midi/bridge"
	"github.com/chabad360/osc2midi/midiout"
	"github.com/chabad360/osc2midi/osc"
)

type app struct {
	open    func() (midiSystem, error)
	chooser midiout.Chooser
}

func newApp(open func() (midiSystem, error), chooser midiout.Chooser) *cli.App {
	a := &app{open: open, chooser: chooser}

	flags := []cli.Flag{
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "use the MIDI output with this index or name instead of asking",
			EnvVars: []string{"OSC2MIDI_PORT"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "virtual",
			Usage:   "create a virtual MIDI output with this name",
			EnvVars: []string{"OSC2MIDI_VIRTUAL"},
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:    "channel",
			Aliases: []string{"c"},
			Value:   0,
			Usage:   "MIDI channel to play on, 0-15",
			EnvVars: []string{"OSC2MIDI_CHANNEL"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "trace, debug, info, warn or error",
			EnvVars: []string{"OSC2MIDI_LOG_LEVEL"},
		}),
		&cli.StringFlag{
			Name:    "load",
			Aliases: []string{"l"},
			Usage:   "read flags from a YAML `FILE`",
		},
	}

	return &cli.App{
		Name:      "osc2midi",
		Usage:     "play OSC /note messages on a MIDI output",
		ArgsUsage: "IP:PORT",
		Flags:     flags,
		Before:    altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc("load")),
		Action:    a.listen,
		Commands: []*cli.Command{
			{
				Name:   "ports",
				Usage:  "list the available MIDI outputs",
				Action: a.ports,
			},
			{
				Name:      "send",
				Usage:     "send one /note message to a running bridge",
				ArgsUsage: "IP:PORT NOTE VELOCITY",
				Action:    send,
			},
		},
	}
}

func (a *app) listen(cCtx *cli.Context) error {
	cfg, err := newConfig(cCtx)
	if err != nil {
		_ = cli.ShowAppHelp(cCtx)
		return cli.Exit(err, exitUsage)
	}
	log.SetLevel(cfg.LogLevel)
	w := cCtx.App.Writer

	conn, err := bridge.Listen(cCtx.Context, cfg.Addr.String())
	if err != nil {
		return cli.Exit(err, exitBind)
	}
	defer conn.Close()
	fmt.Fprintf(w, "Listening to %s\n", conn.LocalAddr())

	sys, err := a.open()
	if err != nil {
		return cli.Exit(err, exitUsage)
	}
	defer sys.Close()

	out, err := a.output(cfg, sys, cCtx)
	if err != nil {
		return cli.Exit(err, exitUsage)
	}
	defer out.Close()

	emitter, err := bridge.NewEmitter(out, cfg.Channel)
	if err != nil {
		return cli.Exit(err, exitUsage)
	}
	l := &bridge.Listener{Addr: cfg.Addr.String(), Emitter: emitter}

	ctx, stop := signal.NotifyContext(cCtx.Context, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.Serve(conn)
	})
	g.Go(func() error {
		<-gCtx.Done()
		return conn.Close()
	})

	if err := g.Wait(); err != nil {
		return cli.Exit(err, exitTransport)
	}
	log.Info("shut down")
	return nil
}

func (a *app) output(cfg *config, sys midiSystem, cCtx *cli.Context) (midiout.Conn, error) {
	if cfg.Virtual != "" {
		out, err := sys.OpenVirtual(cfg.Virtual)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(cCtx.App.Writer, "Created virtual output port: %s\n", cfg.Virtual)
		return out, nil
	}

	out, name, err := midiout.Select(sys, cfg.Port, a.chooser, cCtx.App.Writer)
	if err != nil {
		return nil, err
	}
	log.Debugf("playing on %q, channel %d", name, cfg.Channel)
	return out, nil
}

func (a *app) ports(cCtx *cli.Context) error {
	sys, err := a.open()
	if err != nil {
		return cli.Exit(err, exitUsage)
	}
	defer sys.Close()

	names, err := sys.Names()
	if err != nil {
		return cli.Exit(errors.Wrap(err, "listing MIDI outputs"), exitUsage)
	}
	if len(names) == 0 {
		fmt.Fprintln(cCtx.App.Writer, "No output ports found")
		return nil
	}

	fmt.Fprintln(cCtx.App.Writer, "Available output ports:")
	midiout.List(cCtx.App.Writer, names)
	return nil
}

func send(cCtx *cli.Context) error {
	args := cCtx.Args()
	if args.Len() != 3 {
		_ = cli.ShowSubcommandHelp(cCtx)
		return cli.Exit(errors.Errorf("want IP:PORT NOTE VELOCITY, got %d arguments", args.Len()), exitUsage)
	}

	addr, err := parseAddr(args.Get(0))
	if err != nil {
		return cli.Exit(err, exitUsage)
	}

	var vals [2]float32
	for i, s := range []string{args.Get(1), args.Get(2)} {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return cli.Exit(errors.Wrapf(err, "argument %q", s), exitUsage)
		}
		vals[i] = float32(v)
	}

	client, err := osc.Dial(addr.String())
	if err != nil {
		return cli.Exit(err, exitUsage)
	}
	defer client.Close()

	msg := osc.NewMessage(bridge.NoteAddress, vals[0], vals[1])
	if err := client.Send(msg); err != nil {
		return cli.Exit(errors.Wrapf(err, "sending %s", msg), exitUsage)
	}
	log.Debugf("sent %s to %s", msg, addr)
	return nil
}
