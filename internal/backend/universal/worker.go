package universal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

const workerStopGrace = 3 * time.Second

// workerProcess is one managed transformers worker child.
type workerProcess struct {
	cmd     *exec.Cmd
	writeMu sync.Mutex
	stdin   io.WriteCloser
	stdout  *bufio.Scanner
	exited  chan struct{}
	exitErr error
}

// spawnWorker launches the worker command and wires its pipes.
func spawnWorker(_ context.Context, command []string) (worker, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("empty worker command")
	}
	cmd := exec.Command(command[0], command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, _ := cmd.StderrPipe()
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go drainWorkerLog(stderr)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	p := &workerProcess{cmd: cmd, stdin: stdin, stdout: scanner, exited: make(chan struct{})}
	go func() {
		p.exitErr = cmd.Wait()
		close(p.exited)
	}()
	return p, nil
}

func (p *workerProcess) send(req workerRequest) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_, err = p.stdin.Write(append(b, '\n'))
	return err
}

// readEvent returns the next event line. A dead worker reads as an
// error carrying its exit state.
func (p *workerProcess) readEvent() (workerEvent, error) {
	for p.stdout.Scan() {
		line := p.stdout.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev workerEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			// Stray prints from model code land on stdout sometimes;
			// skip anything that is not an event.
			continue
		}
		return ev, nil
	}
	if err := p.stdout.Err(); err != nil {
		return workerEvent{}, err
	}
	select {
	case <-p.exited:
		return workerEvent{}, fmt.Errorf("worker exited: %v", p.exitErr)
	default:
		return workerEvent{}, io.EOF
	}
}

// stop terminates the child, politely first.
func (p *workerProcess) stop() {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	_ = p.stdin.Close()
	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-p.exited:
	case <-time.After(workerStopGrace):
		_ = p.cmd.Process.Kill()
		<-p.exited
	}
	p.cmd = nil
}

// drainWorkerLog keeps the child's stderr from filling and surfaces its
// lines at debug level.
func drainWorkerLog(r io.Reader) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	for s.Scan() {
		if zlog != nil {
			zlog.Debug().Str("proc", "transformers-worker").Msg(s.Text())
		}
	}
}

// discoverWorker finds the worker entry point: the installed console
// script, else python3 -m.
func discoverWorker() []string {
	if lp, err := exec.LookPath("studiod-worker"); err == nil {
		return []string{lp}
	}
	if py, err := exec.LookPath("python3"); err == nil {
		return []string{py, "-m", "studiod_worker"}
	}
	return nil
}
