package commandstation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// receiverState tracks the client's lifecycle: Created -> Connected (after
// Connect) -> Running (after Listen) -> Stopped (on Close).
type receiverState int

const (
	stateCreated receiverState = iota
	stateConnected
	stateRunning
	stateStopped
)

// DefaultPort is the Z21 station's well-known UDP port.
const DefaultPort = "21105"

// receiveBufferSize is MTU-sized so a single recv can hold several coalesced
// DataSets without truncation.
const receiveBufferSize = 1500

// Event is delivered on the client's Events() channel for every DataSet the
// receiver decodes (or fails to decode), so a host can range over station
// broadcasts without blocking the receive loop.
type Event struct {
	Message DataSetMessage
	Err     error
}

// Client is a Z21 LAN protocol session: a UDP socket bound to one station
// endpoint, a background receiver that keeps a StatusAggregator up to date,
// and the send path the Public Client API (client.go) builds requests on.
type Client struct {
	host string
	port string

	SessionID string

	mu     sync.Mutex
	state  receiverState
	conn   *net.UDPConn
	remote *net.UDPAddr
	cancel context.CancelFunc
	wg     sync.WaitGroup

	status  *StatusAggregator
	metrics *metrics

	events chan Event

	subMu        sync.Mutex
	internalSubs []chan Event

	log *logrus.Entry
}

// NewClient creates a Client targeting host:port (port defaults to
// DefaultPort when empty). The returned client is in the Created state;
// call Connect then Listen before sending anything.
func NewClient(host, port string) *Client {
	if port == "" {
		port = DefaultPort
	}
	sessionID := uuid.NewString()
	return &Client{
		host:      host,
		port:      port,
		SessionID: sessionID,
		status:    newStatusAggregator(),
		metrics:   newMetrics(sessionID),
		events:    make(chan Event, 64),
		log:       logrus.WithField("session", sessionID),
	}
}

// Events returns the channel broadcasts and responses are published on.
// Callers that never range over it still see state land in Status()/Loco().
func (c *Client) Events() <-chan Event { return c.events }

// RegisterMetrics registers this client's Prometheus collectors on reg.
func (c *Client) RegisterMetrics(reg prometheus.Registerer) {
	c.metrics.register(reg)
}

// Connect resolves the station's UDP endpoint and opens a local socket. It
// does not start receiving; call Listen for that.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	remote, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(c.host, c.port))
	if err != nil {
		return fmt.Errorf("%w: %s:%s: %v", ErrAddressResolution, c.host, c.port, err)
	}
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSocketOpen, err)
	}

	c.remote = remote
	c.conn = conn
	c.state = stateConnected
	c.log.Debugf("connected to %s", remote)
	return nil
}

// Listen starts the background receiver. It is a no-op if already running.
func (c *Client) Listen(ctx context.Context) error {
	c.mu.Lock()
	if c.state == stateRunning {
		c.mu.Unlock()
		return nil
	}
	if c.state != stateConnected {
		c.mu.Unlock()
		return fmt.Errorf("%w: Listen called before Connect", ErrNotConnected)
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = stateRunning
	c.wg.Add(1)
	conn := c.conn
	c.mu.Unlock()

	go c.receiveLoop(ctx, conn)
	return nil
}

func (c *Client) receiveLoop(ctx context.Context, conn *net.UDPConn) {
	defer c.wg.Done()
	buf := make([]byte, receiveBufferSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
				c.log.Debugf("receive error: %v", err)
				continue
			}
		}
		if c.remote != nil && (!from.IP.Equal(c.remote.IP) || from.Port != c.remote.Port) {
			continue
		}

		c.metrics.datagramsReceived.Inc()
		c.log.Debugf("recv % X", buf[:n])
		messages, err := ParseDatagram(append([]byte(nil), buf[:n]...))
		if err != nil {
			if errors.Is(err, ErrChecksum) {
				c.metrics.checksumFailures.Inc()
			} else {
				c.metrics.decodeErrors.Inc()
			}
			c.log.Errorf("decode error: %v", err)
			c.publish(Event{Err: err})
			continue
		}
		for _, msg := range messages {
			c.status.Apply(msg)
			c.publish(Event{Message: msg})
		}
	}
}

func (c *Client) publish(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Debugf("event channel full, dropping event")
	}

	c.subMu.Lock()
	for _, s := range c.internalSubs {
		select {
		case s <- ev:
		default:
		}
	}
	c.subMu.Unlock()
}

// subscribe registers an internal listener fed from the same receive loop
// as the public Events() channel, used by the blocking helpers in client.go
// to wait for a specific response without racing the host's own consumer.
func (c *Client) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	c.subMu.Lock()
	c.internalSubs = append(c.internalSubs, ch)
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, s := range c.internalSubs {
			if s == ch {
				c.internalSubs = append(c.internalSubs[:i], c.internalSubs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// send serialises and transmits one DataSet. It is best-effort: a dropped
// UDP datagram is not retried at this layer.
func (c *Client) send(msg DataSetMessage) error {
	c.mu.Lock()
	conn := c.conn
	remote := c.remote
	connected := c.state == stateConnected || c.state == stateRunning
	c.mu.Unlock()

	if !connected {
		return fmt.Errorf("%w: send before Connect", ErrNotConnected)
	}

	payload := PackDataSet(msg)
	c.log.Debugf("send % X", payload)
	if _, err := conn.WriteToUDP(payload, remote); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	c.metrics.datagramsSent.Inc()
	return nil
}

func (c *Client) sendLanX(msg LanXMessage) error {
	return c.send(LanXEnvelope{Message: msg})
}

// Status returns a snapshot of the current station state.
func (c *Client) Status() Z21Status { return c.status.Snapshot() }

// LocoState returns the last known decoded state for addr.
func (c *Client) LocoState(addr LocoAddr) (LocoState, bool) { return c.status.Loco(addr) }

// AccessoryState returns the last known decoded state for addr.
func (c *Client) AccessoryState(addr TurnoutAddr) (AccessoryState, bool) {
	return c.status.Accessory(addr)
}

// Close stops the receiver and releases the socket. In-flight sends issued
// after Close return ErrNotConnected.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == stateStopped {
		c.mu.Unlock()
		return nil
	}
	c.state = stateStopped
	cancel := c.cancel
	conn := c.conn
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	if conn != nil {
		return conn.Close()
	}
	return nil
}
