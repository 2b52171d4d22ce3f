/*
Copyright(C)2020-2023. Huawei Technologies Co.,Ltd. All rights reserved.

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

/*
Package util is using for the total variable.
*/
package util

import (
	"errors"
	"fmt"
	"testing"
)

type statusOfTest struct {
	name string
	err  error
	want Status
}

func buildStatusOfTestCase() []statusOfTest {
	return []statusOfTest{
		{name: "01-StatusOf nil is success", err: nil, want: StatusSuccess},
		{name: "02-StatusOf plain error is failed", err: errors.New("open failed"), want: StatusFailed},
		{name: "03-StatusOf wrapped param invalid", err: fmt.Errorf("model m1: %w",
			ParamInvalidf("device type %d", DeviceTypeCPU)), want: StatusParamInvalid},
		{name: "04-StatusOf wrapped failed", err: fmt.Errorf("load: %w", ErrFailed), want: StatusFailed},
	}
}

func TestStatusOf(t *testing.T) {
	for _, tt := range buildStatusOfTestCase() {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		v    uint64
		want bool
	}{
		{0, false}, {1, true}, {2, true}, {3, false}, {4096, true}, {4097, false}, {2 * 1024 * 1024, true},
	}
	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.v); got != tt.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

type parseInt32Test struct {
	name    string
	s       string
	want    int32
	wantErr bool
}

func TestParseInt32(t *testing.T) {
	tests := []parseInt32Test{
		{name: "01-ParseInt32 positive", s: "10", want: 10},
		{name: "02-ParseInt32 negative with space", s: " -3 ", want: -3},
		{name: "03-ParseInt32 max", s: "2147483647", want: 2147483647},
		{name: "04-ParseInt32 overflow", s: "2147483648", wantErr: true},
		{name: "05-ParseInt32 not a number", s: "high", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt32(tt.s)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseInt32() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseInt32() = %v, want %v", got, tt.want)
			}
		})
	}
}
