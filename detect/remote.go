package detect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/phanxgames/riverlight"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// ErrNotConnected is returned by EstimateHands while no bridge is connected.
var ErrNotConnected = errors.New("detect: pose bridge not connected")

// maxStaleReplies bounds how many out-of-order replies EstimateHands skips
// before giving up on a request.
const maxStaleReplies = 4

// RemoteConfig configures a Remote detector.
type RemoteConfig struct {
	// URL is the websocket address of the pose bridge, e.g.
	// "ws://127.0.0.1:8765/hands".
	URL            string
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	RetryInterval  time.Duration
	Logger         *zap.Logger
}

// Remote talks to an external pose bridge over a websocket. The bridge owns
// the camera and the hand model; Remote sends one estimate request per poll
// cycle and reads the matching reply. It implements both
// riverlight.Detector and riverlight.VideoSource: the frame size comes from
// the bridge greeting and every reply.
type Remote struct {
	cfg RemoteConfig
	log *zap.Logger

	mu    sync.Mutex
	conn  *websocket.Conn
	lost  chan struct{}
	frame riverlight.Frame
	seq   uint64
}

// NewRemote creates a disconnected Remote. Run Connect as a session task to
// establish and keep the connection.
func NewRemote(cfg RemoteConfig) *Remote {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Remote{cfg: cfg, log: log.Named("remote").With(zap.String("url", cfg.URL))}
}

// Ready reports whether a bridge is connected and has announced its frame
// size.
func (r *Remote) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn != nil && r.frame.Width > 0 && r.frame.Height > 0
}

// Frame returns the most recently announced camera frame.
func (r *Remote) Frame() riverlight.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Connect dials the bridge and redials whenever the connection drops,
// until ctx is cancelled. Dial failures are logged and retried; they never
// end the task.
func (r *Remote) Connect(ctx context.Context) error {
	defer r.drop(nil, websocket.StatusNormalClosure, "session ended")

	for {
		lost, err := r.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.log.Warn("pose bridge unavailable, retrying",
				zap.Error(err), zap.Duration("retry_in", r.cfg.RetryInterval))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(r.cfg.RetryInterval):
			}
			continue
		}

		r.log.Info("pose bridge connected", zap.Float64("frame_w", r.Frame().Width), zap.Float64("frame_h", r.Frame().Height))
		select {
		case <-ctx.Done():
			return nil
		case <-lost:
			r.log.Warn("pose bridge connection lost")
		}
	}
}

func (r *Remote) dial(ctx context.Context) (<-chan struct{}, error) {
	dctx, cancel := context.WithTimeout(ctx, r.cfg.DialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dctx, r.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", r.cfg.URL, err)
	}

	_, data, err := conn.Read(dctx)
	if err != nil {
		_ = conn.Close(websocket.StatusProtocolError, "no greeting")
		return nil, fmt.Errorf("read greeting: %w", err)
	}
	hello, err := ParseReply(data)
	if err != nil || hello.Type != TypeHello {
		_ = conn.Close(websocket.StatusProtocolError, "bad greeting")
		return nil, fmt.Errorf("bad greeting %q: %w", data, errors.Join(ErrMalformed, err))
	}

	lost := make(chan struct{})
	r.mu.Lock()
	r.conn, r.lost, r.frame = conn, lost, hello.Frame
	r.mu.Unlock()
	return lost, nil
}

// drop closes the current connection and wakes Connect. When only is set,
// nothing happens unless it is still the current connection, so a request
// that failed on an old connection cannot close its replacement.
func (r *Remote) drop(only *websocket.Conn, code websocket.StatusCode, reason string) {
	r.mu.Lock()
	conn, lost := r.conn, r.lost
	if conn == nil || (only != nil && only != conn) {
		r.mu.Unlock()
		return
	}
	r.conn, r.lost = nil, nil
	r.mu.Unlock()

	_ = conn.Close(code, reason)
	close(lost)
}

// EstimateHands sends one estimate request and waits for its reply. Any
// transport failure drops the connection so Connect can redial.
func (r *Remote) EstimateHands(ctx context.Context, _ riverlight.Frame) ([]riverlight.Hand, error) {
	r.mu.Lock()
	conn := r.conn
	r.seq++
	seq := r.seq
	r.mu.Unlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	rctx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	req, err := EncodeRequest(seq)
	if err != nil {
		return nil, err
	}
	if err := conn.Write(rctx, websocket.MessageText, req); err != nil {
		r.drop(conn, websocket.StatusInternalError, "write failed")
		return nil, fmt.Errorf("detect: send request %d: %w", seq, err)
	}

	for i := 0; i <= maxStaleReplies; i++ {
		_, data, err := conn.Read(rctx)
		if err != nil {
			r.drop(conn, websocket.StatusInternalError, "read failed")
			return nil, fmt.Errorf("detect: read reply %d: %w", seq, err)
		}
		reply, err := ParseReply(data)
		if err != nil {
			return nil, fmt.Errorf("detect: reply %d: %w", seq, err)
		}
		if reply.Type != TypeHands || reply.Seq != seq {
			r.log.Debug("skipping stale reply", zap.Uint64("want", seq), zap.Uint64("got", reply.Seq), zap.String("type", reply.Type))
			continue
		}
		if reply.Frame.Width > 0 && reply.Frame.Height > 0 {
			r.mu.Lock()
			r.frame = reply.Frame
			r.mu.Unlock()
		}
		return reply.Hands, nil
	}
	return nil, fmt.Errorf("detect: no reply for request %d after %d messages", seq, maxStaleReplies+1)
}
