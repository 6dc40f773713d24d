// Package main runs the device daemon and the runtime host in one container.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

// defaultDeviceAddr is the internal address the runtime host dials to reach
// the device daemon.
const defaultDeviceAddr = "127.0.0.1:7071"

// defaultRuntimePort is the admin HTTP port exposed by the container.
const defaultRuntimePort = "7070"

// childDialTimeout gives the runtime host time to reach the device daemon
// while it is still starting up.
const childDialTimeout = 10 * time.Second

// shutdownTimeout is the grace period before forcing child exit.
const shutdownTimeout = 10 * time.Second

// childProcess describes a managed child command.
type childProcess struct {
	name string
	cmd  *exec.Cmd
}

// processExit reports a child process exit result.
type processExit struct {
	name string
	err  error
}

// main starts the device daemon and the runtime host, then supervises them.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deviceCmd := exec.Command("/app/devicesim", "-port=7071")
	device, err := startChild("devicesim", deviceCmd)
	if err != nil {
		log.Fatalf("failed to start device daemon: %v", err)
	}

	deviceAddr := getenvDefault("VERGENCE_DEVICE_ADDR", defaultDeviceAddr)
	runtimePort := getenvDefault("VERGENCE_RUNTIME_PORT", defaultRuntimePort)
	runtimeCmd := exec.Command(
		"/app/runtime",
		"-port="+runtimePort,
		"-device-addr="+deviceAddr,
		"-dial-timeout="+childDialTimeout.String(),
	)
	runtime, err := startChild("runtime", runtimeCmd)
	if err != nil {
		terminateChildren([]*childProcess{device})
		log.Fatalf("failed to start runtime host: %v", err)
	}

	children := []*childProcess{device, runtime}
	exitCh := make(chan processExit, len(children))
	go waitChild(device, exitCh)
	go waitChild(runtime, exitCh)

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
		terminateChildren(children)
		waitForChildren(exitCh, len(children), shutdownTimeout, children)
		return
	case exit := <-exitCh:
		log.Printf("%s exited: %v", exit.name, exit.err)
		terminateChildren(children)
		waitForChildren(exitCh, len(children)-1, shutdownTimeout, children)
		os.Exit(exitCode(exit.err))
	}
}

// startChild starts a child process with inherited stdio streams.
func startChild(name string, cmd *exec.Cmd) (*childProcess, error) {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	return &childProcess{name: name, cmd: cmd}, nil
}

// waitChild waits for a child process and reports its exit.
func waitChild(child *childProcess, exitCh chan<- processExit) {
	err := child.cmd.Wait()
	exitCh <- processExit{name: child.name, err: err}
}

// terminateChildren sends SIGTERM to all child processes.
func terminateChildren(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		_ = child.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// waitForChildren waits for the remaining exits or forces shutdown.
func waitForChildren(exitCh <-chan processExit, remaining int, timeout time.Duration, children []*childProcess) {
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for remaining > 0 {
		select {
		case <-exitCh:
			remaining--
		case <-timer.C:
			forceKill(children)
			return
		}
	}
}

// forceKill sends SIGKILL to any child still running.
func forceKill(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		if child.cmd.ProcessState != nil {
			continue
		}
		_ = child.cmd.Process.Kill()
	}
}

// exitCode derives a process exit code from a wait error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return 1
}

// getenvDefault returns the env value or a fallback when unset.
func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
