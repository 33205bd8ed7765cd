//go:build llama_server

package llamacpp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"studiod/internal/backend"
)

const (
	serverStartTimeout = 60 * time.Second
	serverStopGrace    = 3 * time.Second
	healthPollInterval = 200 * time.Millisecond
)

// serverProcess is one managed llama-server child bound to localhost.
type serverProcess struct {
	cmd  *exec.Cmd
	port int
}

func startServerProcess(ctx context.Context, bin, modelPath string, opts backend.LoadOptions) (*serverProcess, error) {
	port, err := findFreePort()
	if err != nil {
		return nil, err
	}
	args := []string{
		"--host", "127.0.0.1",
		"--port", strconv.Itoa(port),
		"-m", modelPath,
		"--ctx-size", strconv.Itoa(opts.ContextLength),
	}
	if opts.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(opts.Threads))
	}
	if opts.AcceleratorLayers > 0 {
		args = append(args, "--n-gpu-layers", strconv.Itoa(opts.AcceleratorLayers))
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}

	cmd := exec.Command(bin, args...)
	// Relative assets (mmproj files etc.) resolve against the model dir.
	cmd.Dir = filepath.Dir(modelPath)
	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go drainServerLog(stdout)
	go drainServerLog(stderr)

	p := &serverProcess{cmd: cmd, port: port}
	if err := waitForHealth(ctx, port, serverStartTimeout); err != nil {
		p.stop()
		return nil, err
	}
	return p, nil
}

func (p *serverProcess) baseURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", p.port)
}

// stop terminates the child, politely first.
func (p *serverProcess) stop() {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		_ = p.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(serverStopGrace):
		_ = p.cmd.Process.Kill()
		<-done
	}
	p.cmd = nil
}

// drainServerLog keeps the child's pipes from filling and surfaces its
// lines at debug level.
func drainServerLog(r io.Reader) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	for s.Scan() {
		if zlog != nil {
			zlog.Debug().Str("proc", "llama-server").Msg(s.Text())
		}
	}
}

func findFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitForHealth(ctx context.Context, port int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		if err := checkHealth(ctx, port); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("llama-server health check timeout on :%d: %w", port, ctx.Err())
		case <-time.After(healthPollInterval):
		}
	}
}

func checkHealth(ctx context.Context, port int) error {
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("health status %d", resp.StatusCode)
	}
	return nil
}

// discoverServerBin locates a llama-server binary in common install spots
// or on PATH.
func discoverServerBin() string {
	home, _ := os.UserHomeDir()
	candidates := []string{
		filepath.Join(home, "apps", "llama.cpp", "build", "bin", "llama-server"),
		"/usr/local/bin/llama-server",
		"/opt/homebrew/bin/llama-server",
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	if lp, err := exec.LookPath("llama-server"); err == nil {
		return lp
	}
	return ""
}
