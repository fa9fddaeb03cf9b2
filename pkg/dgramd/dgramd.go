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

package dgramd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/loxilb-io/dgramd/api/prometheus"
	cmn "github.com/loxilb-io/dgramd/common"
	opts "github.com/loxilb-io/dgramd/options"
	"github.com/loxilb-io/dgramd/pkg/receiver"
	"github.com/loxilb-io/dgramd/pkg/utils"
	tk "github.com/loxilb-io/loxilib"
)

// constants
const (
	DgramdTiVal = 10
)

type dgramdH struct {
	rcvr   *receiver.Receiver
	mtx    sync.RWMutex
	ticker *time.Ticker
	tDone  chan bool
	sigCh  chan os.Signal
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *tk.Logger
}

var mh dgramdH

// ParamSet - Set dgramd Params
func (dh *dgramdH) ParamSet(param cmn.ParamMod) (int, error) {
	logLevel := LogString2Level(param.LogLevel)

	if dh.logger != nil {
		dh.logger.LogItSetLevel(logLevel)
	}

	return 0, nil
}

// ParamGet - Get dgramd Params
func (dh *dgramdH) ParamGet(param *cmn.ParamMod) (int, error) {
	logLevel := "n/a"

	if dh.logger == nil {
		param.LogLevel = logLevel
		return -1, errors.New("logger not ready")
	}

	switch dh.logger.CurrLogLevel {
	case tk.LogTrace:
		logLevel = "trace"
	case tk.LogDebug:
		logLevel = "debug"
	case tk.LogInfo:
		logLevel = "info"
	case tk.LogError:
		logLevel = "error"
	case tk.LogNotice:
		logLevel = "notice"
	case tk.LogWarning:
		logLevel = "warning"
	case tk.LogAlert:
		logLevel = "alert"
	case tk.LogCritical:
		logLevel = "critical"
	case tk.LogEmerg:
		logLevel = "emergency"
	default:
		param.LogLevel = logLevel
		return -1, errors.New("unknown log level")
	}

	param.LogLevel = logLevel
	return 0, nil
}

// dgramdTicker - housekeeping and signal handling, runs every
// DgramdTiVal seconds in between signals
func dgramdTicker() {
	defer mh.wg.Done()
	for {
		select {
		case <-mh.tDone:
			return
		case sig := <-mh.sigCh:
			if sig == syscall.SIGHUP {
				tk.LogIt(tk.LogCritical, "SIGHUP received\n")
			} else if sig == syscall.SIGINT || sig == syscall.SIGTERM {
				tk.LogIt(tk.LogCritical, "Shutdown on sig %v\n", sig)
				if opts.Opts.Prometheus {
					prometheus.Off()
				}
				mh.cancel()
			}
		case t := <-mh.ticker.C:
			tk.LogIt(-1, "Tick at %v\n", t)
			s := mh.rcvr.Stats()
			tk.LogIt(tk.LogDebug, "rx stats: %v datagrams %v bytes %v errors\n",
				s.Datagrams, s.Bytes, s.Errors)
		}
	}
}

// logFileName - logs go to /var/log keyed by hostname unless
// overridden, with a tmp dir fallback for unprivileged runs
func logFileName() string {
	logfile := string(opts.Opts.Logfile)
	if logfile == "" {
		logfile = fmt.Sprintf("%s%s.log", "/var/log/dgramd", os.Getenv("HOSTNAME"))
	}
	if !utils.FileExists(logfile) && utils.FileCreate(logfile) != 0 {
		return filepath.Join(os.TempDir(), "dgramd.log")
	}
	return logfile
}

func dgramdInit() {
	// Initialize logger and specify the log file
	logLevel := LogString2Level(opts.Opts.LogLevel)
	mh.logger = tk.LogItInit(logFileName(), logLevel, true)

	mh.ctx, mh.cancel = context.WithCancel(context.Background())
	mh.sigCh = make(chan os.Signal, 5)
	signal.Notify(mh.sigCh, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	mh.tDone = make(chan bool)
	mh.ticker = time.NewTicker(DgramdTiVal * time.Second)
	mh.wg.Add(1)
	go dgramdTicker()

	// Initialize the datagram receiver and bind its socket. A bind
	// failure is fatal.
	mh.rcvr = receiver.New(receiver.ConfigArgs{
		Host:      opts.Opts.Host,
		Port:      opts.Opts.Port,
		BufSz:     opts.Opts.BufSz,
		RcvBufSz:  opts.Opts.SockRcvBuf,
		ReuseAddr: opts.Opts.ReuseAddr,
	})
	if err := mh.rcvr.Bind(); err != nil {
		tk.LogIt(tk.LogCritical, "%s\n", err)
		os.Exit(1)
	}

	// Initialize and register the prometheus subsystem
	if opts.Opts.Prometheus {
		prometheus.PrometheusRegister(DgramAPIInit())
		prometheus.Init()
	}
}

// dgramdRun - spawns the receive loop, does not return until the loop
// ends. A receive error is fatal, cancellation is a clean exit.
func dgramdRun() {
	mh.wg.Add(1)
	go func() {
		defer mh.wg.Done()
		if err := mh.rcvr.Run(mh.ctx); err != nil {
			tk.LogIt(tk.LogCritical, "receiver exited: %s\n", err)
			os.Exit(1)
		}
		mh.rcvr.Close()
		close(mh.tDone)
	}()
	mh.wg.Wait()
}

// Main - main routine of dgramd
func Main() {
	dgramdInit()
	dgramdRun()
}
