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
package prometheus

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-openapi/errors"
	"github.com/loxilb-io/dgramd/options"

	cmn "github.com/loxilb-io/dgramd/common"
	tk "github.com/loxilb-io/loxilib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// StatusResponse - the /status endpoint payload
type StatusResponse struct {
	Stats    cmn.DgramStats `json:"stats"`
	LogLevel string         `json:"logLevel"`
}

var (
	hooks                  cmn.DgramHookInterface
	mutex                  *sync.Mutex
	PromethusDefaultPeriod = 10 * time.Second
	prometheusCtx          context.Context
	prometheusCancel       context.CancelFunc

	receivedDatagrams = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "received_datagrams",
			Help: "The total number of datagrams read off the socket.",
		},
	)
	receivedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "received_bytes",
			Help: "The total number of payload bytes delivered, after any OS-level truncation.",
		},
	)
	receiveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receive_errors",
			Help: "The total number of failed socket reads.",
		},
	)
	fullReads = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "full_reads",
			Help: "Number of reads that filled the whole buffer and were possibly truncated.",
		},
	)
	receiverUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "receiver_up",
			Help: "Whether the receive loop is being scraped.",
		},
	)
)

// PrometheusRegister - register the daemon hook to poll stats from
func PrometheusRegister(hook cmn.DgramHookInterface) {
	hooks = hook
}

// RunReceiverStats - poll receiver counters and drive the prometheus
// metrics. Counters are monotonic on both sides so each round adds the
// delta against the previously exported value.
func RunReceiverStats(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			stats, err := hooks.DgramStatsGet()
			if err != nil {
				tk.LogIt(tk.LogError, "[Prometheus] stats get failed: %v\n", err)
			} else {
				var prevDatagrams = &dto.Metric{}
				var prevBytes = &dto.Metric{}
				var prevErrors = &dto.Metric{}

				mutex.Lock()

				if err := receivedDatagrams.Write(prevDatagrams); err != nil {
					tk.LogIt(tk.LogError, "[Prometheus] Error writing receivedDatagrams: %v\n", err)
				}
				if err := receivedBytes.Write(prevBytes); err != nil {
					tk.LogIt(tk.LogError, "[Prometheus] Error writing receivedBytes: %v\n", err)
				}
				if err := receiveErrors.Write(prevErrors); err != nil {
					tk.LogIt(tk.LogError, "[Prometheus] Error writing receiveErrors: %v\n", err)
				}

				// prometheus counters reject negative increments, a
				// lower snapshot only happens on hook re-registration
				if d := float64(stats.Datagrams) - prevDatagrams.GetCounter().GetValue(); d > 0 {
					receivedDatagrams.Add(d)
				}
				if d := float64(stats.Bytes) - prevBytes.GetCounter().GetValue(); d > 0 {
					receivedBytes.Add(d)
				}
				if d := float64(stats.Errors) - prevErrors.GetCounter().GetValue(); d > 0 {
					receiveErrors.Add(d)
				}
				fullReads.Set(float64(stats.FullReads))
				receiverUp.Set(1)

				mutex.Unlock()
			}
		}
		time.Sleep(PromethusDefaultPeriod)
	}
}

// ServeMux - handlers for the metrics exposition and the json status
// endpoint
func ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if hooks == nil {
			errors.ServeError(w, r, errors.New(http.StatusServiceUnavailable, "hook not registered"))
			return
		}
		stats, err := hooks.DgramStatsGet()
		if err != nil {
			errors.ServeError(w, r, errors.New(http.StatusInternalServerError, "%s", err.Error()))
			return
		}
		var param cmn.ParamMod
		hooks.DgramParamGet(&param)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(StatusResponse{Stats: stats, LogLevel: param.LogLevel})
	})
	return mux
}

func Init() {
	prometheusCtx, prometheusCancel = context.WithCancel(context.Background())
	mutex = &sync.Mutex{}

	go RunReceiverStats(prometheusCtx)
}

func Off() error {
	if !options.Opts.Prometheus {
		return errors.New(http.StatusBadRequest, "already prometheus turned off")
	}
	options.Opts.Prometheus = false
	prometheusCancel()
	receiverUp.Set(0)
	return nil
}

func TurnOn() error {
	if options.Opts.Prometheus {
		return errors.New(http.StatusBadRequest, "already prometheus turned on")
	}
	options.Opts.Prometheus = true
	Init()
	return nil
}
