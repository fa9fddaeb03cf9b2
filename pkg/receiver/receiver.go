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
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	cmn "github.com/loxilb-io/dgramd/common"
	"github.com/loxilb-io/dgramd/pkg/utils"
	tk "github.com/loxilb-io/loxilib"
)

// defaults matching the classic receiver behavior
const (
	DfltHost  = "0.0.0.0"
	DfltPort  = 12000
	DfltBufSz = 1024
)

// ConfigArgs - arguments to create a datagram receiver
type ConfigArgs struct {
	Host      string
	Port      int
	BufSz     int
	RcvBufSz  int
	ReuseAddr bool
}

// BindError - socket create or bind failure. Fatal to the caller.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// ReceiveError - failure of an individual socket read
type ReceiveError struct {
	Err error
}

func (e *ReceiveError) Error() string {
	return fmt.Sprintf("receive: %v", e.Err)
}

func (e *ReceiveError) Unwrap() error {
	return e.Err
}

// Receiver - owns one bound UDP socket and reads datagrams off it
// one at a time. No process-wide singleton, callers construct one
// with New and hold on to it.
type Receiver struct {
	Conn *net.UDPConn
	Args ConfigArgs
	// Sink receives one line per datagram, os.Stdout unless overridden
	Sink  io.Writer
	stats cmn.DgramStats
	smtx  sync.RWMutex
}

// New - returns an unbound receiver. Zero-valued args fall back to
// the classic defaults, port 0 binds an ephemeral port.
func New(args ConfigArgs) *Receiver {
	if args.Host == "" {
		args.Host = DfltHost
	}
	if args.BufSz <= 0 {
		args.BufSz = DfltBufSz
	}
	return &Receiver{Args: args, Sink: os.Stdout}
}

// Bind - Unbound to Bound transition. Binding an already-bound
// receiver or an in-use port fails with a BindError.
func (r *Receiver) Bind() error {
	localName := fmt.Sprintf("%s:%d", r.Args.Host, r.Args.Port)

	if r.Conn != nil {
		return &BindError{Addr: localName, Err: errors.New("already bound")}
	}

	conn, err := utils.ListenUDP(localName, r.Args.RcvBufSz, r.Args.ReuseAddr)
	if err != nil {
		return &BindError{Addr: localName, Err: err}
	}

	r.Conn = conn
	tk.LogIt(tk.LogInfo, "receiver bound to %s\n", conn.LocalAddr())
	return nil
}

// Receive - blocks until one datagram arrives. The payload is at most
// BufSz bytes, the OS silently discards the remainder of a larger
// datagram.
func (r *Receiver) Receive() ([]byte, *net.UDPAddr, error) {
	buf := make([]byte, r.Args.BufSz)

	n, addr, err := r.Conn.ReadFromUDP(buf)
	if err != nil {
		r.smtx.Lock()
		r.stats.Errors++
		r.smtx.Unlock()
		return nil, nil, &ReceiveError{Err: err}
	}

	r.smtx.Lock()
	r.stats.Datagrams++
	r.stats.Bytes += uint64(n)
	if n == r.Args.BufSz {
		r.stats.FullReads++
	}
	r.smtx.Unlock()

	return buf[:n], addr, nil
}

// Run - the receive loop. Emits one line per datagram to the sink and
// only returns on a fatal receive error or when ctx is cancelled. The
// latter closes the socket to unblock the pending read and yields a
// nil error.
func (r *Receiver) Run(ctx context.Context) error {
	if r.Conn == nil {
		return &ReceiveError{Err: errors.New("not bound")}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.Conn.Close()
		case <-done:
		}
	}()

	for {
		msg, addr, err := r.Receive()
		if err != nil {
			if ctx.Err() != nil {
				tk.LogIt(tk.LogInfo, "receiver stopped\n")
				return nil
			}
			tk.LogIt(tk.LogError, "%s\n", err)
			return err
		}
		fmt.Fprintf(r.Sink, "Received %q from %s\n", msg, addr)
	}
}

// Close - release the socket
func (r *Receiver) Close() error {
	if r.Conn == nil {
		return nil
	}
	err := r.Conn.Close()
	r.Conn = nil
	return err
}

// Stats - snapshot of the receive counters
func (r *Receiver) Stats() cmn.DgramStats {
	r.smtx.RLock()
	defer r.smtx.RUnlock()
	return r.stats
}
