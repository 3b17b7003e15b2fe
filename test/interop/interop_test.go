//go:build interop

// Package interop_test provides Go-driven interoperability tests for
// gomsdp against FRR (pimd, which implements MSDP). These tests require
// a running container stack defined in test/interop/compose.yml and are
// NOT run as part of the regular test suite.
//
// Run with:
//
//	go test -tags interop -v -count=1 -timeout 300s ./test/interop/
//
// Prerequisites:
//   - podman-compose -f test/interop/compose.yml up --build -d
//   - Both containers (gomsdp, frr) must be running and healthy.
package interop_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// gomsdpIP is the static IP address assigned to the gomsdp container
// in the interop compose network (172.20.0.0/24).
const gomsdpIP = "172.20.0.10"

// pollInterval is the polling interval for waitForCondition.
const pollInterval = 2 * time.Second

// composeFile is the path to the interop compose file, overridable via
// the INTEROP_COMPOSE_FILE environment variable.
func composeFile() string {
	if f := os.Getenv("INTEROP_COMPOSE_FILE"); f != "" {
		return f
	}
	return "test/interop/compose.yml"
}

// podmanCompose runs a podman-compose command and returns combined output.
func podmanCompose(ctx context.Context, args ...string) (string, error) {
	allArgs := append([]string{"-f", composeFile()}, args...)
	cmd := exec.CommandContext(ctx, "podman-compose", allArgs...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}

// frrVtysh runs a vtysh command inside the FRR container.
func frrVtysh(ctx context.Context, command string) (string, error) {
	return podmanCompose(ctx, "exec", "-T", "frr", "vtysh", "-c", command)
}

// frrMSDPPeerState returns the MSDP peer state for gomsdpIP from FRR's
// JSON output ("established", "listen", ...), or an error.
func frrMSDPPeerState(ctx context.Context) (string, error) {
	output, err := frrVtysh(ctx, "show ip msdp peer json")
	if err != nil {
		return "", fmt.Errorf("vtysh show ip msdp peer json: %w: %s", err, output)
	}

	var peers map[string]struct {
		Peer  string `json:"peer"`
		State string `json:"state"`
	}
	if err := json.Unmarshal([]byte(output), &peers); err != nil {
		return "", fmt.Errorf("parse msdp peer json: %w: raw=%s", err, output)
	}

	p, ok := peers[gomsdpIP]
	if !ok {
		return "", fmt.Errorf("peer %s not found in FRR MSDP peers", gomsdpIP)
	}

	return strings.ToLower(p.State), nil
}

// frrHasSAEntry returns true if FRR's SA cache holds an entry for the
// given source and group.
func frrHasSAEntry(ctx context.Context, source, group string) (bool, error) {
	output, err := frrVtysh(ctx, "show ip msdp sa json")
	if err != nil {
		return false, fmt.Errorf("vtysh show ip msdp sa json: %w: %s", err, output)
	}

	var groups map[string]map[string]json.RawMessage
	if err := json.Unmarshal([]byte(output), &groups); err != nil {
		return false, fmt.Errorf("parse msdp sa json: %w: raw=%s", err, output)
	}

	sources, ok := groups[group]
	if !ok {
		return false, nil
	}
	_, ok = sources[source]

	return ok, nil
}

// waitForEstablished waits until FRR reports the gomsdp peering
// Established.
func waitForEstablished(t *testing.T, ctx context.Context, desc string) {
	t.Helper()
	waitForCondition(t, desc, 120*time.Second, func() (bool, error) {
		state, err := frrMSDPPeerState(ctx)
		if err != nil {
			return false, err
		}
		return state == "established", nil
	})
}

// waitForCondition polls a condition function at pollInterval until
// it returns true or the timeout expires.
func waitForCondition(t *testing.T, desc string, timeout time.Duration, fn func() (bool, error)) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var lastErr error

	for time.Now().Before(deadline) {
		ok, err := fn()
		if err != nil {
			lastErr = err
		}
		if ok {
			return
		}
		time.Sleep(pollInterval)
	}

	if lastErr != nil {
		t.Fatalf("condition %q not met within %v: last error: %v", desc, timeout, lastErr)
	}
	t.Fatalf("condition %q not met within %v", desc, timeout)
}

// TestFRRPeerEstablished verifies that the TCP peering completes
// between gomsdp and FRR, with both sides reporting Established.
func TestFRRPeerEstablished(t *testing.T) {
	t.Cleanup(func() {
		if t.Failed() {
			dumpTsharkCapture(t, 50)
		}
	})
	ctx := t.Context()

	waitForEstablished(t, ctx, "FRR MSDP peer established")

	// The gomsdp side logs the same transition.
	logs, err := podmanCompose(ctx, "logs", "gomsdp")
	if err != nil {
		t.Fatalf("get gomsdp logs: %v", err)
	}
	if !strings.Contains(logs, "peer state changed") || !strings.Contains(logs, "established") {
		t.Error("gomsdp did not log the established transition")
		t.Logf("gomsdp logs (tail):\n%s", lastNLines(logs, 30))
	}
}

// TestSAPropagationToFRR verifies that the static local source declared
// in the gomsdp container config (see test/interop/gomsdp.yml) shows up
// in FRR's SA cache.
func TestSAPropagationToFRR(t *testing.T) {
	t.Cleanup(func() {
		if t.Failed() {
			dumpTsharkCapture(t, 100)
		}
	})
	ctx := t.Context()

	waitForEstablished(t, ctx, "FRR MSDP peer established before SA check")

	waitForCondition(t, "SA entry learned by FRR", 120*time.Second, func() (bool, error) {
		return frrHasSAEntry(ctx, "10.99.0.1", "232.99.0.1")
	})
}

// TestFRRStopTeardown verifies that gomsdp tears the session down when
// the FRR peer goes away, and falls back to awaiting a new connection.
func TestFRRStopTeardown(t *testing.T) {
	t.Cleanup(func() {
		if t.Failed() {
			dumpTsharkCapture(t, 100)
		}
	})
	ctx := t.Context()

	waitForEstablished(t, ctx, "FRR MSDP peer established before stop")

	// Stop FRR to simulate peer failure.
	output, err := podmanCompose(ctx, "stop", "frr")
	if err != nil {
		t.Fatalf("stop FRR: %v: %s", err, output)
	}

	// The TCP reset from the container teardown drops the session
	// immediately; the hold timer covers the silent-failure case.
	time.Sleep(10 * time.Second)

	logs, err := podmanCompose(ctx, "logs", "gomsdp")
	if err != nil {
		t.Fatalf("get gomsdp logs: %v", err)
	}
	if !strings.Contains(logs, "peer state changed") || !strings.Contains(logs, "listen") {
		t.Error("gomsdp did not log the session teardown after FRR stop")
		t.Logf("gomsdp logs (tail):\n%s", lastNLines(logs, 30))
	}

	// Restart FRR for subsequent tests.
	output, err = podmanCompose(ctx, "start", "frr")
	if err != nil {
		t.Fatalf("restart FRR: %v: %s", err, output)
	}
}

// TestGracefulShutdown verifies that when gomsdp is stopped (SIGTERM)
// the TCP peering closes and FRR leaves Established. MSDP carries no
// wire-level withdrawal, so FRR's learned SA entries simply age out.
func TestGracefulShutdown(t *testing.T) {
	t.Cleanup(func() {
		if t.Failed() {
			dumpTsharkCapture(t, 100)
		}
	})
	ctx := t.Context()

	waitForEstablished(t, ctx, "FRR MSDP peer established before shutdown")

	// Send SIGTERM to gomsdp for graceful shutdown.
	output, err := podmanCompose(ctx, "stop", "gomsdp")
	if err != nil {
		t.Fatalf("stop gomsdp: %v: %s", err, output)
	}

	// Wait for FRR to notice the connection going away.
	time.Sleep(5 * time.Second)

	state, err := frrMSDPPeerState(ctx)
	if err != nil {
		// Peer might be reported as removed, which is acceptable.
		t.Logf("FRR peer lookup error (acceptable if removed): %v", err)
		return
	}

	if state == "established" {
		t.Errorf("FRR MSDP peer state = %q after gomsdp shutdown, want not established", state)
	}
}

// dumpTsharkCapture logs the last N MSDP packets captured by tshark.
// Useful for post-mortem debugging when sessions fail to establish.
func dumpTsharkCapture(t *testing.T, count int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "podman", "exec", "tshark-interop",
		"tshark", "-r", "/captures/msdp.pcapng", "-Y", "msdp",
		"-c", fmt.Sprintf("%d", count),
		"-T", "fields",
		"-e", "frame.time_relative",
		"-e", "ip.src",
		"-e", "ip.dst",
		"-e", "msdp.type",
		"-e", "msdp.length",
		"-e", "msdp.sa.entry_count",
		"-e", "msdp.sa.rp_addr",
		"-E", "header=y",
		"-E", "separator=\t",
	)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		t.Logf("tshark dump unavailable: %v", err)
		return
	}
	t.Logf("MSDP packet capture (last %d packets):\n%s", count, buf.String())
}

// lastNLines returns the last n lines of s.
func lastNLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
