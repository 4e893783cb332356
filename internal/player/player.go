// Package player drives an mpv process over its JSON IPC socket.
package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrNotConnected = errors.New("mpv not connected")
	ErrDisconnected = errors.New("mpv closed the connection")
)

// Event describes playback state updates emitted by mpv.
type Event struct {
	TimePos   *float64
	Duration  *float64
	Started   string // location of the file mpv just started
	Ended     bool   // true when track ended naturally (eof)
	EndReason string // "eof", "stop", "quit", "error", "redirect"
	Err       error
}

// Song is one file handed to mpv. It keeps reporting Playing until mpv has
// started it and then reached its end.
type Song struct {
	Location string

	started atomic.Bool
	ended   atomic.Bool
}

func (s *Song) Playing() bool { return !s.ended.Load() }

// Started reports whether mpv has begun decoding the song.
func (s *Song) Started() bool { return s.started.Load() }

// Options configures the Controller.
type Options struct {
	MPVPath        string
	IPCPath        string
	Logger         *slog.Logger
	DisableProcess bool
	Dial           func(ctx context.Context, network, addr string) (net.Conn, error)
	ExtraArgs      []string
}

// Controller manages the mpv process and IPC connection.
type Controller struct {
	opts   Options
	cmd    *exec.Cmd
	conn   net.Conn
	mu     sync.Mutex
	events chan Event
	done   chan struct{}

	songMu  sync.Mutex
	pending *Song
	current *Song
}

func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		opts:   opts,
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}
}

func DefaultIPCPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("tunecast-mpv-%d.sock", os.Getpid()))
}

// Start launches mpv (unless disabled) and connects to the IPC socket.
func (c *Controller) Start(ctx context.Context) error {
	if c.opts.IPCPath == "" {
		c.opts.IPCPath = DefaultIPCPath()
	}
	c.opts.Logger.Debug("starting player controller", slog.String("ipc_path", c.opts.IPCPath), slog.Bool("disable_process", c.opts.DisableProcess))
	if !c.opts.DisableProcess {
		if err := c.spawnMPV(ctx); err != nil {
			c.opts.Logger.Error("failed to spawn mpv", slog.Any("err", err))
			return err
		}
	}
	if err := c.connect(ctx); err != nil {
		c.opts.Logger.Error("failed to connect to mpv ipc", slog.Any("err", err))
		return err
	}
	if err := c.observeProperties(); err != nil {
		c.opts.Logger.Error("failed to observe mpv properties", slog.Any("err", err))
		return err
	}
	go c.readLoop()
	c.opts.Logger.Debug("player controller started")
	return nil
}

func (c *Controller) spawnMPV(ctx context.Context) error {
	args := []string{
		"--idle=yes",
		"--force-window=no",
		"--no-terminal",
		"--no-video",
		"--input-ipc-server=" + c.opts.IPCPath,
	}
	args = append(args, c.opts.ExtraArgs...)
	c.opts.Logger.Debug("spawning mpv process", slog.String("mpv_path", c.opts.MPVPath), slog.Any("args", args))
	c.cmd = exec.CommandContext(ctx, c.opts.MPVPath, args...)
	if err := c.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}
	c.opts.Logger.Debug("mpv process started", slog.Int("pid", c.cmd.Process.Pid))
	return nil
}

func (c *Controller) connect(ctx context.Context) error {
	dial := c.opts.Dial
	if dial == nil {
		dial = (&net.Dialer{Timeout: 5 * time.Second}).DialContext
	}
	var err error
	baseDelay := 50 * time.Millisecond
	maxDelay := 500 * time.Millisecond
	maxRetries := 10
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < maxRetries; i++ {
		var conn net.Conn
		conn, err = dial(ctx, "unix", c.opts.IPCPath)
		if err == nil {
			c.conn = conn
			c.opts.Logger.Debug("connected to mpv ipc", slog.Int("attempt", i+1))
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("connect mpv ipc: %w", ctx.Err())
		}
		if i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<uint(i))
			if delay > maxDelay {
				delay = maxDelay
			}
			jitter := time.Duration(float64(delay) * 0.2 * rng.Float64())
			c.opts.Logger.Debug("mpv ipc connection failed, retrying", slog.Int("attempt", i+1), slog.Any("err", err), slog.Duration("delay", delay+jitter))
			select {
			case <-ctx.Done():
				return fmt.Errorf("connect mpv ipc: %w", ctx.Err())
			case <-time.After(delay + jitter):
			}
		}
	}
	return fmt.Errorf("connect mpv ipc: %w", err)
}

func (c *Controller) observeProperties() error {
	for i, p := range []string{"time-pos", "duration"} {
		if err := c.send(map[string]any{
			"command": []any{"observe_property", i + 1, p},
		}); err != nil {
			return err
		}
	}
	return nil
}

// Events returns the event channel. It is closed when the connection ends.
func (c *Controller) Events() <-chan Event { return c.events }

func (c *Controller) send(cmd map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	b, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(append(b, '\n'))
	return err
}

// Play replaces whatever mpv is playing with the file at location.
func (c *Controller) Play(location string) (*Song, error) {
	c.opts.Logger.Debug("playing track", slog.String("location", location))
	song := &Song{Location: location}
	c.songMu.Lock()
	c.pending = song
	c.songMu.Unlock()

	if err := c.send(map[string]any{
		"command": []any{"loadfile", location, "replace"},
	}); err != nil {
		c.opts.Logger.Error("failed to send play command", slog.Any("err", err))
		return nil, fmt.Errorf("play %s: %w", location, err)
	}
	return song, nil
}

func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
	default:
		close(c.done)
	}

	if c.conn != nil {
		b, _ := json.Marshal(map[string]any{"command": []any{"quit"}})
		_, _ = c.conn.Write(append(b, '\n'))
		_ = c.conn.Close()
		c.conn = nil
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
		c.cmd = nil
	}
	return nil
}

func (c *Controller) emit(evt Event) {
	select {
	case c.events <- evt:
	case <-c.done:
	}
}

func (c *Controller) readLoop() {
	defer close(c.events)
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			c.emit(Event{Err: fmt.Errorf("decode: %w", err)})
			continue
		}
		switch msg.Event {
		case "property-change":
			c.handlePropertyChange(msg)
		case "start-file":
			c.handleStartFile()
		case "end-file":
			c.handleEndFile(msg)
		}
	}
	select {
	case <-c.done:
		return
	default:
	}
	err := ErrDisconnected
	if scanErr := scanner.Err(); scanErr != nil {
		err = fmt.Errorf("%w: %w", ErrDisconnected, scanErr)
	}
	c.opts.Logger.Warn("mpv connection lost", slog.Any("err", err))
	c.emit(Event{Err: err})
}

type ipcMessage struct {
	Event  string `json:"event"`
	Name   string `json:"name"`
	Data   any    `json:"data"`
	Reason string `json:"reason"`
	Error  string `json:"file_error"`
}

func (c *Controller) handleStartFile() {
	c.songMu.Lock()
	song := c.pending
	if song != nil {
		c.current = song
		c.pending = nil
		song.started.Store(true)
	}
	c.songMu.Unlock()
	if song != nil {
		c.emit(Event{Started: song.Location})
	}
}

// handleEndFile ends the current song on eof or a playback error. A "stop"
// is what mpv reports for the file replaced by the next loadfile.
func (c *Controller) handleEndFile(msg ipcMessage) {
	c.songMu.Lock()
	song := c.current
	eof := msg.Reason == "eof"
	if (eof || msg.Reason == "error") && song != nil && song.started.Load() {
		song.ended.Store(true)
	}
	c.songMu.Unlock()

	evt := Event{Ended: eof, EndReason: msg.Reason}
	if msg.Reason == "error" {
		evt.Err = fmt.Errorf("mpv could not play file: %s", msg.Error)
	}
	c.emit(evt)
}

func (c *Controller) handlePropertyChange(msg ipcMessage) {
	switch msg.Name {
	case "time-pos":
		if v, ok := toFloat(msg.Data); ok {
			c.emit(Event{TimePos: &v})
		}
	case "duration":
		if v, ok := toFloat(msg.Data); ok {
			c.emit(Event{Duration: &v})
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
