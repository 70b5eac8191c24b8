// Package remote implements host.Application over a socket.io connection to
// a bridge plugin running inside the host process. Every host call becomes a
// request event with a correlation id; the bridge answers on a reply event
// carrying the same id. Scene events pushed by the bridge are delivered to
// installed hooks on a single goroutine owned by Run.
package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/host"
)

const (
	rpcEvent        = "rpc"
	rpcResultEvent  = "rpc_result"
	sceneEventEvent = "scene_event"
	menuInvokeEvent = "menu_invoke"
)

// menuInvokeMsg is the wire form of a menu click pushed by the bridge.
type menuInvokeMsg struct {
	Path string `json:"path"`
}

// Options configures a bridge connection.
type Options struct {
	// URL of the bridge endpoint, e.g. http://127.0.0.1:18600/bridge.
	URL string

	// Namespace of the socket.io namespace the bridge serves. Empty means
	// the default namespace.
	Namespace string

	// CallTimeout bounds each request round trip. Zero means 10s.
	CallTimeout time.Duration

	InsecureSkipVerify bool
}

// request is the wire form of one host call.
type request struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// response is the wire form of one reply.
type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// sceneEventMsg is the wire form of a pushed scene event.
type sceneEventMsg struct {
	Event string `json:"event"`
}

// Client speaks to the in-host bridge. It satisfies host.Application.
type Client struct {
	opts   Options
	io     *socket.Socket
	mgr    *socket.Manager
	nextID atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan response
	hooks   map[string]host.Hook
	menuFns map[string]func()

	deferred  chan func()
	connected atomic.Bool
}

// Dial connects to the bridge and waits for the connection to come up.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx)

	if opts.CallTimeout == 0 {
		opts.CallTimeout = 10 * time.Second
	}

	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse bridge url: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	sopts := socket.DefaultOptions()
	sopts.SetPath(parsed.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification for the bridge connection.")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	mgr := socket.NewManager(baseURL, sopts)
	io := mgr.Socket(opts.Namespace, sopts)

	c := &Client{
		opts:     opts,
		io:       io,
		mgr:      mgr,
		pending:  map[uint64]chan response{},
		hooks:    map[string]host.Hook{},
		menuFns:  map[string]func(){},
		deferred: make(chan func(), 64),
	}

	ready := make(chan error, 1)

	io.On(types.EventName("connect"), func(...any) {
		c.connected.Store(true)
		logger.Debug("Connected to host bridge.", "sid", io.Id())
		select {
		case ready <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		select {
		case ready <- err:
		default:
		}
	})
	io.On(types.EventName(rpcResultEvent), func(data ...any) {
		c.dispatchResult(ctx, data...)
	})
	io.On(types.EventName(sceneEventEvent), func(data ...any) {
		c.dispatchSceneEvent(ctx, data...)
	})
	io.On(types.EventName(menuInvokeEvent), func(data ...any) {
		var msg menuInvokeMsg
		if err := decodePayload(data, &msg); err != nil {
			logger.Warn("Discarding malformed menu invocation.", "error", err)
			return
		}
		c.handleMenuInvoke(msg.Path)
	})

	io.Connect()

	select {
	case <-ctx.Done():
		io.Disconnect()
		return nil, ctx.Err()
	case err := <-ready:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("connect to bridge: %w", err)
		}
	}
	return c, nil
}

// Close tears down the bridge connection.
func (c *Client) Close() {
	c.io.Disconnect()
	close(c.deferred)
}

// Run delivers deferred work and pushed scene events on the calling
// goroutine until ctx is cancelled. Hooks and deferred functions never run
// concurrently with each other.
func (c *Client) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn, ok := <-c.deferred:
			if !ok {
				return
			}
			fn()
		}
	}
}

func (c *Client) dispatchResult(ctx context.Context, data ...any) {
	logger := ctxlog.FromContext(ctx)
	var resp response
	if err := decodePayload(data, &resp); err != nil {
		logger.Warn("Discarding malformed bridge reply.", "error", err)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[resp.ID]
	delete(c.pending, resp.ID)
	c.mu.Unlock()
	if !ok {
		logger.Warn("Discarding bridge reply with unknown id.", "id", resp.ID)
		return
	}
	ch <- resp
}

func (c *Client) dispatchSceneEvent(ctx context.Context, data ...any) {
	logger := ctxlog.FromContext(ctx)
	var msg sceneEventMsg
	if err := decodePayload(data, &msg); err != nil {
		logger.Warn("Discarding malformed scene event.", "error", err)
		return
	}

	c.mu.Lock()
	hook := c.hooks[msg.Event]
	c.mu.Unlock()
	if hook == nil {
		return
	}
	// Deliver on the Run goroutine, never on the socket callback.
	select {
	case c.deferred <- func() { hook() }:
	default:
		logger.Warn("Dropping scene event, deferred queue is full.", "event", msg.Event)
	}
}

// call performs one request round trip.
func (c *Client) call(method string, result any, params ...any) error {
	id := c.nextID.Add(1)
	ch := make(chan response, 1)

	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	c.io.Emit(rpcEvent, request{ID: id, Method: method, Params: params})

	select {
	case <-time.After(c.opts.CallTimeout):
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("bridge call %q: timed out after %s", method, c.opts.CallTimeout)
	case resp := <-ch:
		if resp.Error != "" {
			return fmt.Errorf("bridge call %q: %s", method, resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("bridge call %q: decode result: %w", method, err)
			}
		}
		return nil
	}
}

// mustCallString wraps call for the host.Application accessors, which have
// no error channel. Failures return the zero value.
func (c *Client) mustCallString(method string) string {
	var s string
	_ = c.call(method, &s)
	return s
}

// decodePayload round-trips the socket.io payload through JSON into out.
// Payloads arrive as already-decoded generic values.
func decodePayload(data []any, out any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty payload")
	}
	raw, err := json.Marshal(data[0])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// --- host.Application ---

// IsGUI reports whether the host runs with a user interface.
func (c *Client) IsGUI() bool {
	var gui bool
	_ = c.call("app.is_gui", &gui)
	return gui
}

// Version returns the host build version string.
func (c *Client) Version() string {
	return c.mustCallString("app.version")
}

// VersionName returns the marketing version of the host.
func (c *Client) VersionName() string {
	return c.mustCallString("app.version_name")
}

// CurrentProjectFilename returns the path of the open scene, or "".
func (c *Client) CurrentProjectFilename() string {
	return c.mustCallString("app.current_project_filename")
}

// MainMenu returns a proxy for the host's main menu bar.
func (c *Client) MainMenu() host.Menu {
	return &menu{c: c, path: ""}
}

// Disable pauses host event processing.
func (c *Client) Disable() {
	_ = c.call("app.disable", nil)
}

// Enable resumes host event processing.
func (c *Client) Enable() {
	_ = c.call("app.enable", nil)
}

// CheckForEvents flushes the host event loop.
func (c *Client) CheckForEvents() {
	_ = c.call("app.check_for_events", nil)
}

// ExecuteDeferred schedules fn on the Run goroutine.
func (c *Client) ExecuteDeferred(fn func()) {
	c.deferred <- fn
}

// MessageBox shows a modal dialog in the host.
func (c *Client) MessageBox(title, message string) {
	_ = c.call("app.message_box", nil, title, message)
}

// LogInfo writes to the host log at info level.
func (c *Client) LogInfo(msg string) {
	_ = c.call("app.log_info", nil, msg)
}

// LogWarning writes to the host log at warning level.
func (c *Client) LogWarning(msg string) {
	_ = c.call("app.log_warning", nil, msg)
}

// LogError writes to the host log at error level.
func (c *Client) LogError(msg string) {
	_ = c.call("app.log_error", nil, msg)
}

// Hook returns the installed hook for event.
func (c *Client) Hook(event string) (host.Hook, error) {
	if !validEvent(event) {
		return nil, fmt.Errorf("unknown scene event %q", event)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	hook := c.hooks[event]
	if hook == nil {
		hook = func() {}
	}
	return hook, nil
}

// SetHook installs hook for event and asks the bridge to start pushing it.
func (c *Client) SetHook(event string, hook host.Hook) error {
	if !validEvent(event) {
		return fmt.Errorf("unknown scene event %q", event)
	}
	c.mu.Lock()
	first := c.hooks[event] == nil
	c.hooks[event] = hook
	c.mu.Unlock()
	if first {
		return c.call("events.subscribe", nil, event)
	}
	return nil
}

func validEvent(event string) bool {
	for _, e := range host.SceneEvents {
		if e == event {
			return true
		}
	}
	return event == host.EventQuit
}
