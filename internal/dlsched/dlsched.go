//go:build cgo

/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.

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
Package dlsched is using for loading the npu scheduler runtime library with dlopen.
*/
package dlsched

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct {
    uint32_t queue_id;
    int32_t device_type;
    int32_t device_id;
    int32_t logic_id;
} npu_sched_queue_attrs_t;

typedef struct {
    uint32_t align_max_cache_num;
    int32_t align_timeout;
    int32_t drop_when_not_align;
} npu_sched_input_align_attrs_t;

typedef struct {
    uint32_t model_id;
    int32_t device_id;
    uint32_t model_uuid;
    uint32_t input_queue_num;
    npu_sched_queue_attrs_t *input_queues;
    uint32_t output_queue_num;
    npu_sched_queue_attrs_t *output_queues;
    npu_sched_queue_attrs_t status_output_queue;
    int32_t has_status_output_queue;
    int32_t is_dynamic_sched;
    int32_t need_report_status;
    int32_t is_head;
    npu_sched_input_align_attrs_t input_align_attrs;
    int32_t has_input_align;
    uint32_t req_msg_queue_id;
    uint32_t resp_msg_queue_id;
} npu_sched_load_param_t;

typedef int32_t (*device_fn)(int32_t);
typedef uintptr_t (*create_fn)(void);
typedef int32_t (*load_fn)(uintptr_t, npu_sched_load_param_t *);
typedef int32_t (*handle_fn)(uintptr_t);

static int32_t call_device_fn(void *fn, int32_t device_id) {
    return ((device_fn)fn)(device_id);
}

static uintptr_t call_create_fn(void *fn) {
    return ((create_fn)fn)();
}

static int32_t call_load_fn(void *fn, uintptr_t handle, npu_sched_load_param_t *param) {
    return ((load_fn)fn)(handle, param);
}

static int32_t call_handle_fn(void *fn, uintptr_t handle) {
    return ((handle_fn)fn)(handle);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"k8s.io/klog"

	"github.com/hicann/ge-sub017/npuinterface"
	"github.com/hicann/ge-sub017/util"
)

// Backend the npu scheduler backend over the runtime shared library.
type Backend struct {
	libName string
	handle  unsafe.Pointer
}

// New a backend of the given library, DefaultLibName when empty.
func New(libName string) *Backend {
	if libName == "" {
		libName = DefaultLibName
	}
	return &Backend{libName: libName}
}

// Open dlopen the library, opening twice is a no-op.
func (b *Backend) Open() error {
	if b == nil {
		return errors.New(util.ArgumentError)
	}
	if b.handle != nil {
		return nil
	}
	name := C.CString(b.libName)
	defer C.free(unsafe.Pointer(name))
	handle := C.dlopen(name, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		klog.V(util.LogErrorLev).Infof("dlopen %s failed: %s.", b.libName, C.GoString(C.dlerror()))
		return fmt.Errorf("%w: %s", ErrLibraryNotLoaded, b.libName)
	}
	b.handle = handle
	klog.V(util.LogInfoLev).Infof("dlopen %s success.", b.libName)
	return nil
}

// Close dlclose the library.
func (b *Backend) Close() error {
	if b == nil || b.handle == nil {
		return nil
	}
	ret := C.dlclose(b.handle)
	b.handle = nil
	if ret != 0 {
		return fmt.Errorf("dlclose %s return %d", b.libName, int(ret))
	}
	return nil
}

func (b *Backend) symbol(name string) (unsafe.Pointer, error) {
	if b == nil || b.handle == nil {
		return nil, ErrLibraryNotLoaded
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	fn := C.dlsym(b.handle, cName)
	if fn == nil {
		klog.V(util.LogErrorLev).Infof("dlsym %s from %s failed.", name, b.libName)
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	return fn, nil
}

func checkStatus(funcName string, ret C.int32_t) error {
	if ret != 0 {
		return &npuinterface.StatusError{Func: funcName, Code: int32(ret)}
	}
	return nil
}

func (b *Backend) callDevice(funcName string, deviceID int32) error {
	fn, err := b.symbol(funcName)
	if err != nil {
		return err
	}
	return checkStatus(funcName, C.call_device_fn(fn, C.int32_t(deviceID)))
}

func (b *Backend) callHandle(funcName string, handle npuinterface.ModelHandle) error {
	fn, err := b.symbol(funcName)
	if err != nil {
		return err
	}
	return checkStatus(funcName, C.call_handle_fn(fn, C.uintptr_t(handle)))
}

// InitializeNpuSched call InitializeNpuSched.
func (b *Backend) InitializeNpuSched(deviceID int32) error {
	return b.callDevice(SymInitialize, deviceID)
}

// FinalizeNpuSched call FinalizeNpuSched.
func (b *Backend) FinalizeNpuSched(deviceID int32) error {
	return b.callDevice(SymFinalize, deviceID)
}

// CreateModelHandler call CreateNpuSchedModelHandler, a zero handle is a failure.
// LoadNpuSchedModel must resolve too, no handler is created for a model that can not load.
func (b *Backend) CreateModelHandler() (npuinterface.ModelHandle, error) {
	if _, err := b.symbol(SymLoad); err != nil {
		return 0, err
	}
	fn, err := b.symbol(SymCreateHandler)
	if err != nil {
		return 0, err
	}
	handle := C.call_create_fn(fn)
	if handle == 0 {
		return 0, &npuinterface.StatusError{Func: SymCreateHandler, Code: util.ErrorInt}
	}
	return npuinterface.ModelHandle(handle), nil
}

// UnloadModel call UnloadNpuSchedModel.
func (b *Backend) UnloadModel(handle npuinterface.ModelHandle) error {
	return b.callHandle(SymUnload, handle)
}

// DestroyModelHandler call DestroyNpuSchedModelHandler.
func (b *Backend) DestroyModelHandler(handle npuinterface.ModelHandle) error {
	return b.callHandle(SymDestroyHandler, handle)
}

func boolToC(b bool) C.int32_t {
	if b {
		return 1
	}
	return 0
}

func toCQueue(q npuinterface.QueueAttrs) C.npu_sched_queue_attrs_t {
	return C.npu_sched_queue_attrs_t{
		queue_id:    C.uint32_t(q.QueueID),
		device_type: C.int32_t(q.DeviceType),
		device_id:   C.int32_t(q.DeviceID),
		logic_id:    C.int32_t(q.LogicID),
	}
}

// mallocQueues the array lives in C memory, the caller frees it.
func mallocQueues(queues []npuinterface.QueueAttrs) *C.npu_sched_queue_attrs_t {
	if len(queues) == 0 {
		return nil
	}
	size := C.size_t(len(queues)) * C.size_t(unsafe.Sizeof(C.npu_sched_queue_attrs_t{}))
	ptr := (*C.npu_sched_queue_attrs_t)(C.malloc(size))
	arr := unsafe.Slice(ptr, len(queues))
	for i, q := range queues {
		arr[i] = toCQueue(q)
	}
	return ptr
}

// LoadModel call LoadNpuSchedModel and read back the generated message queue ids.
func (b *Backend) LoadModel(handle npuinterface.ModelHandle, param *npuinterface.LoadParam) error {
	if param == nil {
		return errors.New(util.ArgumentError)
	}
	fn, err := b.symbol(SymLoad)
	if err != nil {
		return err
	}
	cParam := (*C.npu_sched_load_param_t)(C.malloc(C.size_t(unsafe.Sizeof(C.npu_sched_load_param_t{}))))
	defer C.free(unsafe.Pointer(cParam))
	*cParam = C.npu_sched_load_param_t{
		model_id:                C.uint32_t(param.ModelID),
		device_id:               C.int32_t(param.DeviceID),
		model_uuid:              C.uint32_t(param.ModelUUID),
		input_queue_num:         C.uint32_t(len(param.InputQueues)),
		input_queues:            mallocQueues(param.InputQueues),
		output_queue_num:        C.uint32_t(len(param.OutputQueues)),
		output_queues:           mallocQueues(param.OutputQueues),
		status_output_queue:     toCQueue(param.StatusOutputQueue),
		has_status_output_queue: boolToC(param.HasStatusQueue),
		is_dynamic_sched:        boolToC(param.IsDynamicSched),
		need_report_status:      boolToC(param.NeedReportStatus),
		is_head:                 boolToC(param.IsHead),
		input_align_attrs: C.npu_sched_input_align_attrs_t{
			align_max_cache_num: C.uint32_t(param.InputAlign.AlignMaxCacheNum),
			align_timeout:       C.int32_t(param.InputAlign.AlignTimeout),
			drop_when_not_align: boolToC(param.InputAlign.DropWhenNotAlign),
		},
		has_input_align: boolToC(param.HasInputAlign),
	}
	defer C.free(unsafe.Pointer(cParam.input_queues))
	defer C.free(unsafe.Pointer(cParam.output_queues))
	if err := checkStatus(SymLoad, C.call_load_fn(fn, C.uintptr_t(handle), cParam)); err != nil {
		return err
	}
	param.ReqMsgQueueID = uint32(cParam.req_msg_queue_id)
	param.RespMsgQueueID = uint32(cParam.resp_msg_queue_id)
	return nil
}
