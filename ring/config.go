package ring

import (
	"fmt"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Config controls how a Server is constructed. Mirrors node.Config from the
// reference implementation: a single struct with defaulted fields, never
// read from the environment directly — cmd/chfsd is responsible for mapping
// env vars and flags into this struct.
type Config struct {
	// Self is this server's transport address. Must be set; equality between
	// nodes is by byte comparison of this string.
	Self string

	// HeartbeatTimeout is the quiet interval after which a missed heartbeat
	// triggers an election. Defaults to 10s.
	HeartbeatTimeout time.Duration

	// HeartbeatInterval is how often the heartbeat task probes next.
	// Defaults to HeartbeatTimeout / 3.
	HeartbeatInterval time.Duration

	// RPCTimeout bounds every outbound RPC. Defaults to 2s.
	RPCTimeout time.Duration

	Log        log.Logger
	Registerer prometheus.Registerer
}

func (c *Config) applyDefaults() error {
	if c.Self == "" {
		return fmt.Errorf("ring: Config.Self must be set")
	}
	if c.HeartbeatTimeout == 0 {
		c.HeartbeatTimeout = 10 * time.Second
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = c.HeartbeatTimeout / 3
	}
	if c.RPCTimeout == 0 {
		c.RPCTimeout = 2 * time.Second
	}
	if c.Log == nil {
		c.Log = log.NewNopLogger()
	}
	return nil
}
