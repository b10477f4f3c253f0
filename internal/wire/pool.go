package wire

import (
	"net"
	"sync"
	"time"
)

// pool caches outbound TCP connections to ring peers, keyed by address. It
// is adapted directly from the reference implementation's
// internal/connpool.Pool: same bounded-size, close-the-oldest-idle-entry
// design, but holding raw *net.Conn since the ring transport speaks the
// hand-rolled wire schema rather than gRPC. Unlike a *grpc.ClientConn, a raw
// net.Conn is not safe for concurrent writers to interleave frames on, so
// each pooledConn carries its own writeMu that callers must hold across a
// full request (and, for Join, its response read too).
type pool struct {
	mut sync.Mutex

	dialTimeout time.Duration
	maxConns    int
	conns       map[string]*pooledConn
}

type pooledConn struct {
	conn     net.Conn
	lastUsed time.Time

	writeMu sync.Mutex
}

func newPool(maxConns int, dialTimeout time.Duration) *pool {
	return &pool{
		dialTimeout: dialTimeout,
		maxConns:    maxConns,
		conns:       make(map[string]*pooledConn, maxConns),
	}
}

// get retrieves the cached *pooledConn for addr or dials a new one. Callers
// must hold the returned conn's writeMu for the duration of one full frame
// exchange before another goroutine may use it.
func (p *pool) get(addr string) (*pooledConn, error) {
	p.mut.Lock()
	if c, ok := p.conns[addr]; ok {
		c.lastUsed = time.Now()
		p.mut.Unlock()
		return c, nil
	}
	p.mut.Unlock()

	conn, err := net.DialTimeout("tcp", addr, p.dialTimeout)
	if err != nil {
		return nil, err
	}
	pc := &pooledConn{conn: conn, lastUsed: time.Now()}

	p.mut.Lock()
	p.conns[addr] = pc
	if len(p.conns) > p.maxConns {
		p.evictOldest()
	}
	p.mut.Unlock()

	return pc, nil
}

// evictOldest must be called with mut held.
func (p *pool) evictOldest() {
	var (
		oldestAddr string
		oldestTime time.Time
		first      = true
	)
	for addr, c := range p.conns {
		if first || c.lastUsed.Before(oldestTime) {
			oldestAddr, oldestTime, first = addr, c.lastUsed, false
		}
	}
	if !first {
		_ = p.conns[oldestAddr].conn.Close()
		delete(p.conns, oldestAddr)
	}
}

// remove evicts and closes a cached connection, forcing a redial on next
// get. Called after a transport failure to avoid reusing a broken conn.
func (p *pool) remove(addr string) {
	p.mut.Lock()
	defer p.mut.Unlock()

	if c, ok := p.conns[addr]; ok {
		_ = c.conn.Close()
		delete(p.conns, addr)
	}
}

func (p *pool) closeAll() {
	p.mut.Lock()
	defer p.mut.Unlock()
	for addr, c := range p.conns {
		_ = c.conn.Close()
		delete(p.conns, addr)
	}
}
