//go:build !unix

package bridge

import "net"

func listenConfig() net.ListenConfig {
	return net.ListenConfig{}
}
