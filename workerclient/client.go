// Package workerclient implements the worker side of the framed wire
// protocol: dialing a ManagerDispatcher's control socket, serializing one
// request/response pair at a time over that connection, and reconnecting
// with backoff if the initial dial fails. A Client is the shared connection;
// a Proxy (one per queue id) is a thin hqueue.Queue adapter over it.
package workerclient

import (
	"bufio"
	"net"
	"sync"
	"time"

	"github.com/everyday-items/hqueue/internal/obslog"
	"github.com/everyday-items/hqueue/retry"
	"github.com/everyday-items/hqueue/wire"
)

// Client owns one control-socket connection to a manager. All requests on
// one Client are serialized by chanMu: the wire protocol is lockstep, so a
// second request must never be written before the first response has been
// read back.
type Client struct {
	chanMu sync.Mutex
	conn   net.Conn
	r      *bufio.Reader
	log    *obslog.Logger
}

// Dial connects to a manager's control socket at addr over network,
// retrying the initial connection with exponential backoff (the manager
// process may still be starting up). network/addr follow net.Dial, e.g.
// ("unix", "/tmp/hqueue.sock") or ("tcp", "127.0.0.1:4730").
func Dial(network, addr string, dialTimeout time.Duration) (*Client, error) {
	var conn net.Conn
	err := retry.Do(func() error {
		c, dialErr := net.DialTimeout(network, addr, dialTimeout)
		if dialErr != nil {
			return dialErr
		}
		conn = c
		return nil
	},
		retry.Attempts(5),
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.DelayType(retry.ExponentialBackoff),
	)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		r:    bufio.NewReader(conn),
		log:  obslog.Default().With(obslog.Component("workerclient")),
	}, nil
}

// NewClientFromConn wraps an already-established connection. The local
// package uses this to pair a Client directly with a net.Pipe half feeding
// a same-process Dispatcher.Serve goroutine, bypassing Dial's retry/backoff
// loop entirely since there is no real dial in that configuration.
func NewClientFromConn(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		r:    bufio.NewReader(conn),
		log:  obslog.Default().With(obslog.Component("workerclient")),
	}
}

// call writes req and reads back exactly one response, holding chanMu for
// the round trip so no other goroutine's frame can interleave on the wire.
func (c *Client) call(req wire.Request) (wire.Response, error) {
	c.chanMu.Lock()
	defer c.chanMu.Unlock()
	if err := wire.WriteRequest(c.conn, req); err != nil {
		return wire.Response{}, err
	}
	return wire.ReadResponse(c.r)
}

// Close closes the underlying connection. Every Proxy sharing this Client
// stops working once this is called.
func (c *Client) Close() error {
	return c.conn.Close()
}
