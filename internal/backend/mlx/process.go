package mlx

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"studiod/internal/backend"
)

const (
	// A first start may pull the model from the hub, so readiness gets a
	// long leash.
	serverStartTimeout = 15 * time.Minute
	serverStopGrace    = 3 * time.Second
	readyPollInterval  = 200 * time.Millisecond
)

// serverHandle is one live engine child. Tests substitute their own.
type serverHandle interface {
	baseURL() string
	stop()
}

// spawnFunc starts an engine child serving ref and returns once it
// answers requests.
type spawnFunc func(ctx context.Context, ref string, opts backend.LoadOptions) (serverHandle, error)

// mlxProcess is one managed mlx_lm.server child bound to localhost.
type mlxProcess struct {
	cmd     *exec.Cmd
	port    int
	exited  chan struct{}
	exitErr error
}

// spawnServer launches mlx_lm.server for ref and waits until its OpenAI
// surface answers. The child downloads and loads the model itself.
func spawnServer(ctx context.Context, ref string, _ backend.LoadOptions) (serverHandle, error) {
	launcher := discoverLauncher()
	if launcher == nil {
		return nil, backend.ErrUnavailable("mlx_lm.server not found (pip install mlx-lm)")
	}
	port, err := findFreePort()
	if err != nil {
		return nil, err
	}
	args := append(launcher[1:],
		"--model", ref,
		"--host", "127.0.0.1",
		"--port", strconv.Itoa(port),
	)
	cmd := exec.Command(launcher[0], args...)
	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()
	if err := cmd.Start(); err != nil {
		return nil, backend.ErrUnavailable("mlx_lm.server failed to start: " + err.Error())
	}
	go drainServerLog(stdout)
	go drainServerLog(stderr)

	p := &mlxProcess{cmd: cmd, port: port, exited: make(chan struct{})}
	go func() {
		p.exitErr = cmd.Wait()
		close(p.exited)
	}()

	if err := p.waitReady(ctx); err != nil {
		p.stop()
		return nil, err
	}
	return p, nil
}

func (p *mlxProcess) baseURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", p.port)
}

// waitReady polls the child's model listing until it answers, the child
// dies, or the deadline passes.
func (p *mlxProcess) waitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, serverStartTimeout)
	defer cancel()
	for {
		if err := checkReady(ctx, p.port); err == nil {
			return nil
		}
		select {
		case <-p.exited:
			return fmt.Errorf("mlx_lm.server exited during startup: %v", p.exitErr)
		case <-ctx.Done():
			return fmt.Errorf("mlx_lm.server not ready on :%d: %w", p.port, ctx.Err())
		case <-time.After(readyPollInterval):
		}
	}
}

// stop terminates the child, politely first.
func (p *mlxProcess) stop() {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-p.exited:
	case <-time.After(serverStopGrace):
		_ = p.cmd.Process.Kill()
		<-p.exited
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
			zlog.Debug().Str("proc", "mlx_lm.server").Msg(s.Text())
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

func checkReady(ctx context.Context, port int) error {
	url := fmt.Sprintf("http://127.0.0.1:%d/v1/models", port)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("ready status %d", resp.StatusCode)
	}
	return nil
}

// discoverLauncher finds the mlx_lm.server entry point: the installed
// console script, else python3 -m.
func discoverLauncher() []string {
	if lp, err := exec.LookPath("mlx_lm.server"); err == nil {
		return []string{lp}
	}
	if py, err := exec.LookPath("python3"); err == nil {
		return []string{py, "-m", "mlx_lm.server"}
	}
	return nil
}

// launcherAvailable reports whether this host can run the engine at all.
func launcherAvailable() bool {
	if runtime.GOOS != "darwin" || runtime.GOARCH != "arm64" {
		return false
	}
	return discoverLauncher() != nil
}
