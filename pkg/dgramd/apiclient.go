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
	"errors"

	cmn "github.com/loxilb-io/dgramd/common"
)

// DgramAPIStruct - empty struct for anchoring the hook interface
// handed out to api subsystems
type DgramAPIStruct struct{}

// DgramAPIInit - Initialize the api interface of dgramd
func DgramAPIInit() cmn.DgramHookInterface {
	nA := new(DgramAPIStruct)
	return nA
}

// DgramStatsGet - counters of the running receiver
func (na *DgramAPIStruct) DgramStatsGet() (cmn.DgramStats, error) {
	if mh.rcvr == nil {
		return cmn.DgramStats{}, errors.New("receiver not initialized")
	}
	return mh.rcvr.Stats(), nil
}

// DgramParamSet - Set daemon params
func (na *DgramAPIStruct) DgramParamSet(param cmn.ParamMod) (int, error) {
	return mh.ParamSet(param)
}

// DgramParamGet - Get daemon params
func (na *DgramAPIStruct) DgramParamGet(param *cmn.ParamMod) (int, error) {
	return mh.ParamGet(param)
}
