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

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/loxilb-io/dgramd/api/prometheus"
	opts "github.com/loxilb-io/dgramd/options"
	dg "github.com/loxilb-io/dgramd/pkg/dgramd"
)

// dgramPrometheusMain - Prometheus exposition thread
func dgramPrometheusMain() {
	for {
		listener := fmt.Sprintf(":%d", opts.Opts.PrometheusPort)
		http.ListenAndServe(listener, prometheus.ServeMux())
		time.Sleep(2 * time.Second)
	}
}

var version string = "0.1.0"
var buildInfo string = ""

func main() {
	fmt.Printf("dgramd start\n")

	// Parse command-line arguments
	_, err := flags.Parse(&opts.Opts)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if opts.Opts.Version {
		fmt.Printf("dgramd version: %s %s\n", version, buildInfo)
		os.Exit(0)
	}

	if opts.Opts.Prometheus {
		go dgramPrometheusMain()
	}

	dg.Main()
}
