/*
 * Copyright (c) 2025 NetLOX Inc
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at:
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package receiver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tk "github.com/loxilb-io/loxilib"
)

func TestMain(m *testing.M) {
	tk.LogItInit(filepath.Join(os.TempDir(), "dgramd_test.log"), tk.LogError, false)
	os.Exit(m.Run())
}

func bindLocal(t *testing.T, bufSz int) *Receiver {
	t.Helper()
	r := New(ConfigArgs{Host: "127.0.0.1", Port: 0, BufSz: bufSz})
	if err := r.Bind(); err != nil {
		t.Fatalf("failed to bind: %s", err)
	}
	return r
}

func dialReceiver(t *testing.T, r *Receiver) *net.UDPConn {
	t.Helper()
	c, err := net.DialUDP("udp4", nil, r.Conn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("failed to dial receiver: %s", err)
	}
	return c
}

func TestBindInUse(t *testing.T) {
	r1 := bindLocal(t, 0)
	defer r1.Close()

	port := r1.Conn.LocalAddr().(*net.UDPAddr).Port
	r2 := New(ConfigArgs{Host: "127.0.0.1", Port: port})
	err := r2.Bind()
	if err == nil {
		r2.Close()
		t.Fatalf("bind succeeded on port %d already in use", port)
	}
	var be *BindError
	if !errors.As(err, &be) {
		t.Errorf("expected BindError, got %T", err)
	}
}

func TestBindTwice(t *testing.T) {
	r := bindLocal(t, 0)
	defer r.Close()

	if err := r.Bind(); err == nil {
		t.Errorf("second bind did not fail")
	}
}

func TestReceivePayloadAndSender(t *testing.T) {
	r := bindLocal(t, 0)
	defer r.Close()

	c := dialReceiver(t, r)
	defer c.Close()

	if _, err := c.Write([]byte("hello")); err != nil {
		t.Fatalf("failed to send: %s", err)
	}

	payload, sender, err := r.Receive()
	if err != nil {
		t.Fatalf("receive failed: %s", err)
	}
	if string(payload) != "hello" {
		t.Errorf("payload %q, want %q", payload, "hello")
	}
	if sender.String() != c.LocalAddr().String() {
		t.Errorf("sender %s, want %s", sender, c.LocalAddr())
	}

	s := r.Stats()
	if s.Datagrams != 1 || s.Bytes != 5 {
		t.Errorf("stats %v datagrams %v bytes, want 1/5", s.Datagrams, s.Bytes)
	}
}

func TestReceiveTruncation(t *testing.T) {
	r := bindLocal(t, 0)
	defer r.Close()

	c := dialReceiver(t, r)
	defer c.Close()

	big := bytes.Repeat([]byte("x"), DfltBufSz+500)
	big[0] = 'a'
	big[DfltBufSz-1] = 'z'
	if _, err := c.Write(big); err != nil {
		t.Fatalf("failed to send: %s", err)
	}

	payload, _, err := r.Receive()
	if err != nil {
		t.Fatalf("receive failed: %s", err)
	}
	if len(payload) != DfltBufSz {
		t.Errorf("payload length %d, want %d", len(payload), DfltBufSz)
	}
	if !bytes.Equal(payload, big[:DfltBufSz]) {
		t.Errorf("payload does not match first %d sent bytes", DfltBufSz)
	}

	s := r.Stats()
	if s.FullReads != 1 {
		t.Errorf("full reads %v, want 1", s.FullReads)
	}
}

func TestReceiveOrder(t *testing.T) {
	r := bindLocal(t, 0)
	defer r.Close()

	c := dialReceiver(t, r)
	defer c.Close()

	for i := 0; i < 2; i++ {
		msg := fmt.Sprintf("dgram-%d", i)
		if _, err := c.Write([]byte(msg)); err != nil {
			t.Fatalf("failed to send %s: %s", msg, err)
		}
	}

	for i := 0; i < 2; i++ {
		payload, _, err := r.Receive()
		if err != nil {
			t.Fatalf("receive failed: %s", err)
		}
		want := fmt.Sprintf("dgram-%d", i)
		if string(payload) != want {
			t.Errorf("payload %q, want %q", payload, want)
		}
	}
}

func TestRunOutputAndCancel(t *testing.T) {
	r := bindLocal(t, 0)
	defer r.Close()

	var sink bytes.Buffer
	r.Sink = &sink

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	c := dialReceiver(t, r)
	defer c.Close()

	for _, msg := range []string{"hello", "world"} {
		if _, err := c.Write([]byte(msg)); err != nil {
			t.Fatalf("failed to send %s: %s", msg, err)
		}
	}

	// wait for the loop to drain both datagrams before cancelling
	for i := 0; i < 100; i++ {
		if r.Stats().Datagrams == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %s on cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on cancel")
	}

	lines := strings.Split(strings.TrimSpace(sink.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d output lines, want 2", len(lines))
	}
	sender := c.LocalAddr().String()
	for i, want := range []string{"hello", "world"} {
		expect := fmt.Sprintf("Received %q from %s", want, sender)
		if lines[i] != expect {
			t.Errorf("line %d is %q, want %q", i, lines[i], expect)
		}
	}
}

func TestRunIdleCancel(t *testing.T) {
	r := bindLocal(t, 0)
	defer r.Close()

	var sink bytes.Buffer
	r.Sink = &sink

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	// no datagrams, the loop must stay blocked without output
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %s on idle cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop on idle cancel")
	}

	if sink.Len() != 0 {
		t.Errorf("unexpected output: %q", sink.String())
	}
	if s := r.Stats(); s.Datagrams != 0 {
		t.Errorf("stats show %v datagrams, want 0", s.Datagrams)
	}
}

func TestRunUnbound(t *testing.T) {
	r := New(ConfigArgs{Host: "127.0.0.1"})
	if err := r.Run(context.Background()); err == nil {
		t.Errorf("run on unbound receiver did not fail")
	}
}

func TestReceiveAfterClose(t *testing.T) {
	r := bindLocal(t, 0)
	conn := r.Conn
	r.Close()

	r.Conn = conn // exercise the read error path on a closed socket
	_, _, err := r.Receive()
	if err == nil {
		t.Fatal("receive on closed socket did not fail")
	}
	var re *ReceiveError
	if !errors.As(err, &re) {
		t.Errorf("expected ReceiveError, got %T", err)
	}
	if s := r.Stats(); s.Errors != 1 {
		t.Errorf("stats show %v errors, want 1", s.Errors)
	}
}
