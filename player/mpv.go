package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pipetube-cli/pipetube/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements the Engine interface using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	videoless  bool
	ontop      bool
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	events     chan Event
	listener   *EventListener
	mu         sync.Mutex // Protects socket writes
	closeOnce  sync.Once
}

// NewMPV creates a new MPV engine instance (does not start a process).
// With videoless set, mpv runs without a video output for audio-only sessions.
func NewMPV(videoless bool) *MPV {
	return &MPV{
		videoless: videoless,
		exited:    make(chan struct{}),
		events:    make(chan Event, 8),
	}
}

// Prepare loads the media into mpv, paused. If mpv is already running, the new
// media replaces the current one via IPC; otherwise a fresh process is spawned.
func (m *MPV) Prepare(media Media) error {
	// Sanitize the URL to prevent flag injection
	safeURL, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	safeTitle := sanitizeTitle(media.Title)

	if m.isRunning() {
		if _, err := m.sendCommand([]interface{}{"loadfile", safeURL}); err != nil {
			return fmt.Errorf("load media: %w", err)
		}
		_ = m.Set("force-media-title", safeTitle)
		_ = m.Set("pause", true)
		return nil
	}

	return m.spawn(safeURL, safeTitle, media.Headers)
}

func (m *MPV) spawn(safeURL, safeTitle string, headers map[string]string) error {
	// Construct header string if present
	var headerString string
	if len(headers) > 0 {
		var hBuilder strings.Builder
		for k, v := range headers {
			if hBuilder.Len() > 0 {
				hBuilder.WriteString(",")
			}
			val := strings.ReplaceAll(v, ",", "%2C")
			hBuilder.WriteString(fmt.Sprintf("%s: %s", k, val))
		}
		headerString = hBuilder.String()
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/)
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("pipetube-%x.sock", randomBytes))
	}

	m.cmd = exec.Command("mpv", m.spawnArgs(safeURL, safeTitle, headerString)...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	// Disable standard pipes to prevent resource leaks.
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	// Wait for the IPC socket to become available
	if err := m.waitForSocket(); err != nil {
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
				// Already exited
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.dispatchEvent)
	if err := m.listener.Start(); err != nil {
		log.Warnf("mpv event listener unavailable: %v", err)
	}

	return nil
}

// spawnArgs builds the mpv command line. Pass ONLY the socket, title, and URL
// plus window flags; do NOT pass --vo, --profile, --hwdec — respect the user's
// mpv.conf.
func (m *MPV) spawnArgs(safeURL, safeTitle, headerString string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--pause",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle), // Some mpv builds only respect --title
		"--idle=yes",
	}

	if m.videoless {
		args = append(args, "--no-video", "--force-window=no")
	} else {
		args = append(args, "--force-window=yes")
	}
	if m.ontop {
		args = append(args, "--ontop")
	}

	if headerString != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", headerString))
	}

	return append(args, safeURL)
}

// dispatchEvent translates raw mpv property changes into engine state events.
func (m *MPV) dispatchEvent(property string, data interface{}) {
	var event Event
	switch property {
	case "eof-reached":
		if reached, ok := data.(bool); !ok || !reached {
			return
		}
		event = Event{State: StateEnded}
	case "seeking":
		if seeking, ok := data.(bool); !ok || !seeking {
			return
		}
		event = Event{State: StateBuffering}
	case "core-idle":
		if idle, ok := data.(bool); !ok || idle {
			return
		}
		// Decoder actively producing frames - media is ready.
		event = Event{State: StateReady}
	case "playback-restart":
		event = Event{State: StateReady}
	case "idle":
		event = Event{State: StateIdle}
	default:
		return
	}

	select {
	case m.events <- event:
	default:
		// Drop rather than block the IPC read loop.
	}
}

// Events returns the engine state notification stream.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		// Check if process already exited
		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Play resumes playback.
func (m *MPV) Play() error {
	return m.Set("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.Set("pause", true)
}

// TogglePause inverts the pause state.
func (m *MPV) TogglePause() error {
	_, err := m.sendCommand([]interface{}{"cycle", "pause"})
	return err
}

// Position returns the current playback position in milliseconds.
func (m *MPV) Position() (int64, error) {
	sec, err := m.getFloatProperty("time-pos")
	if err != nil {
		return 0, err
	}
	return int64(sec * 1000), nil
}

// Duration returns the total duration of the current media in milliseconds.
func (m *MPV) Duration() (int64, error) {
	sec, err := m.getFloatProperty("duration")
	if err != nil {
		return 0, err
	}
	return int64(sec * 1000), nil
}

// Playing reports whether media is loaded and not paused.
// Returns false (not error) for "property unavailable" — nothing loaded.
func (m *MPV) Playing() (bool, error) {
	data, err := m.sendCommand([]interface{}{"get_property", "pause"})
	if err != nil {
		if strings.Contains(err.Error(), "property unavailable") {
			return false, nil
		}
		return false, err
	}
	paused, ok := data.(bool)
	if !ok {
		return false, nil
	}
	return !paused, nil
}

// SeekTo moves playback to the given absolute position in milliseconds.
func (m *MPV) SeekTo(ms int64) error {
	_, err := m.sendCommand([]interface{}{"seek", float64(ms) / 1000, "absolute"})
	return err
}

// isRunning reports whether mpv is responding to IPC commands.
func (m *MPV) isRunning() bool {
	if m.socketPath == "" {
		return false
	}

	// Fast check: process already exited?
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources. Safe to call more
// than once; only the first call performs the shutdown.
func (m *MPV) Close() error {
	m.closeOnce.Do(m.shutdown)
	return nil
}

func (m *MPV) shutdown() {
	if m.listener != nil {
		m.listener.Stop()
	}
	defer close(m.events)

	if m.socketPath == "" {
		return
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	// Wait for process to exit (with timeout)
	select {
	case <-m.exited:
		// Clean exit
	case <-time.After(3 * time.Second):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	// Clean up the socket file
	_ = os.Remove(m.socketPath)
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set a property
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	// If it contains "://", validate as URL
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title for MPV
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	// Remove null bytes
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
