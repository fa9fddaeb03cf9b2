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
package common

// DgramStats - receive-side counters of the datagram receiver
type DgramStats struct {
	// Datagrams delivered off the socket so far
	Datagrams uint64
	// Bytes delivered, after any OS-level truncation
	Bytes uint64
	// Errors returned by individual reads
	Errors uint64
	// FullReads counts reads which filled the whole buffer. Such a
	// datagram may have been truncated by the OS.
	FullReads uint64
}

// ParamMod - tunable runtime parameters
type ParamMod struct {
	LogLevel string
}

// DgramHookInterface - interface implementation to glue the daemon
// with api subsystems
type DgramHookInterface interface {
	DgramStatsGet() (DgramStats, error)
	DgramParamSet(ParamMod) (int, error)
	DgramParamGet(*ParamMod) (int, error)
}
