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

/*

Package test is using for udf deploy tests.

*/
package test

import (
	"github.com/hicann/ge-sub017/npuinterface"
)

// FakeBackend in memory npu scheduler backend. Fail makes the named call return a status error.
type FakeBackend struct {
	Fail       map[string]bool
	Calls      []string
	Params     []npuinterface.LoadParam
	Unloaded   []npuinterface.ModelHandle
	Destroyed  []npuinterface.ModelHandle
	InitDevice int32
	nextHandle npuinterface.ModelHandle
	loadNum    uint32
}

// NewFakeBackend a backend where every call succeeds.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{Fail: make(map[string]bool), InitDevice: -1}
}

func (f *FakeBackend) call(name string) error {
	f.Calls = append(f.Calls, name)
	if f.Fail[name] {
		return &npuinterface.StatusError{Func: name, Code: -1}
	}
	return nil
}

// Open fake.
func (f *FakeBackend) Open() error {
	return f.call(FakeFuncOpen)
}

// Close fake.
func (f *FakeBackend) Close() error {
	return f.call(FakeFuncClose)
}

// InitializeNpuSched fake, records the device.
func (f *FakeBackend) InitializeNpuSched(deviceID int32) error {
	if err := f.call(FakeFuncInitialize); err != nil {
		return err
	}
	f.InitDevice = deviceID
	return nil
}

// CreateModelHandler fake, handles start from 1.
func (f *FakeBackend) CreateModelHandler() (npuinterface.ModelHandle, error) {
	if err := f.call(FakeFuncCreate); err != nil {
		return 0, err
	}
	f.nextHandle++
	return f.nextHandle, nil
}

// LoadModel fake, generates FakeReqQueueID+n and FakeRespQueueID+n for the n-th load.
func (f *FakeBackend) LoadModel(_ npuinterface.ModelHandle, param *npuinterface.LoadParam) error {
	f.Params = append(f.Params, *param)
	if err := f.call(FakeFuncLoad); err != nil {
		return err
	}
	param.ReqMsgQueueID = FakeReqQueueID + f.loadNum
	param.RespMsgQueueID = FakeRespQueueID + f.loadNum
	f.loadNum++
	return nil
}

// UnloadModel fake.
func (f *FakeBackend) UnloadModel(handle npuinterface.ModelHandle) error {
	f.Unloaded = append(f.Unloaded, handle)
	return f.call(FakeFuncUnload)
}

// DestroyModelHandler fake.
func (f *FakeBackend) DestroyModelHandler(handle npuinterface.ModelHandle) error {
	f.Destroyed = append(f.Destroyed, handle)
	return f.call(FakeFuncDestroy)
}

// FinalizeNpuSched fake.
func (f *FakeBackend) FinalizeNpuSched(int32) error {
	return f.call(FakeFuncFinalize)
}

// CallCount times the named call was made.
func (f *FakeBackend) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}
