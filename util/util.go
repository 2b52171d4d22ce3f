/*
Copyright(C)2020-2022. Huawei Technologies Co.,Ltd. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package util is using for the total variable.
package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Status the result code every fallible deploy operation maps to.
type Status int

const (
	// StatusSuccess success.
	StatusSuccess Status = iota
	// StatusFailed generic failure.
	StatusFailed
	// StatusParamInvalid parameter invalid.
	StatusParamInvalid
)

// String for log.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusParamInvalid:
		return "PARAM_INVALID"
	default:
		return "FAILED"
	}
}

// StatusOf map an error chain to its status code.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	if errors.Is(err, ErrParamInvalid) {
		return StatusParamInvalid
	}
	return StatusFailed
}

// ParamInvalidf build a parameter-invalid error.
func ParamInvalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrParamInvalid, fmt.Sprintf(format, args...))
}

// IsPowerOfTwo true when v is a nonzero power of two.
func IsPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// ParseInt32 parse a decimal string to int32, overflow is an error.
func ParseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), Base10, BitSize32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ParseBoolFlag "1"/"true" style flag value.
func ParseBoolFlag(s string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}

// DeviceTypeName for log.
func DeviceTypeName(deviceType int32) string {
	switch deviceType {
	case DeviceTypeNPU:
		return "NPU"
	case DeviceTypeCPU:
		return "CPU"
	default:
		return "UNKNOWN(" + strconv.Itoa(int(deviceType)) + ")"
	}
}
