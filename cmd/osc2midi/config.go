package main

import (
	"net/netip"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	exitUsage     = 1
	exitBind      = 2
	exitTransport = 3
)

const maxChannel = 15

var (
	ErrInvalidAddr     = errors.New("invalid address, want IP:PORT with an IPv4 address")
	ErrInvalidChannel  = errors.New("invalid MIDI channel, want 0-15")
	ErrInvalidLogLevel = errors.New("invalid log level, want trace, debug, info, warn or error")
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

type config struct {
	Addr     netip.AddrPort
	Port     string
	Virtual  string
	Channel  uint8
	LogLevel string
}

// newConfig reads and validates the listen command line.
func newConfig(cCtx *cli.Context) (*config, error) {
	if cCtx.NArg() != 1 {
		return nil, errors.Errorf("want exactly one IP:PORT argument, got %d", cCtx.NArg())
	}

	addr, err := parseAddr(cCtx.Args().First())
	if err != nil {
		return nil, err
	}

	channel := cCtx.Int("channel")
	if channel < 0 || channel > maxChannel {
		return nil, errors.Wrapf(ErrInvalidChannel, "%d", channel)
	}

	level, err := parseLogLevel(cCtx.String("log-level"))
	if err != nil {
		return nil, err
	}

	cfg := &config{
		Addr:     addr,
		Port:     cCtx.String("port"),
		Virtual:  cCtx.String("virtual"),
		Channel:  uint8(channel),
		LogLevel: level,
	}
	if cfg.Port != "" && cfg.Virtual != "" {
		return nil, errors.New("--port and --virtual can't be used together")
	}
	return cfg, nil
}

// parseAddr accepts A.B.C.D:PORT only.
func parseAddr(s string) (netip.AddrPort, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, errors.Wrapf(ErrInvalidAddr, "%q", s)
	}
	if !ap.Addr().Is4() {
		return netip.AddrPort{}, errors.Wrapf(ErrInvalidAddr, "%q is not IPv4", s)
	}
	return ap, nil
}

func parseLogLevel(s string) (string, error) {
	level := strings.ToLower(strings.TrimSpace(s))
	for _, l := range logLevels {
		if level == l {
			return level, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidLogLevel, "%q", s)
}
