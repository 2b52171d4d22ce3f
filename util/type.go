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

// Package util is using for the total variable.
package util

import "errors"

const (
	// LogErrorLev for log error.
	LogErrorLev = 1
	// LogWarningLev for log warning.
	LogWarningLev = 2
	// LogInfoLev for log information.
	LogInfoLev = 3
	// LogDebugLev for log debug.
	LogDebugLev = 4
	// ErrorInt return -1 when get error for int
	ErrorInt = -1
	// MapInitNum for map init length.
	MapInitNum = 3
	// Base10 for const 10.
	Base10 = 10
	// BitSize32 for const 32
	BitSize32 = 32

	// DeviceTypeNPU queue endpoint lives on an Ascend NPU.
	DeviceTypeNPU int32 = 0
	// DeviceTypeCPU queue endpoint lives on the host cpu.
	DeviceTypeCPU int32 = 1

	// InvalidDeviceID the uninitialized device id sentinel.
	InvalidDeviceID int32 = -1

	// BuiltinUdfBinName reserved built-in udf binary, resolved by the runtime instead of the model dir.
	BuiltinUdfBinName = "libbuilt_in_flowfunc.so"
	// UdfWorkDirSuffix appended to the real model path to get the udf working directory.
	UdfWorkDirSuffix = "_dir"

	// AttrVisibleDeviceEnable udf attr, expose the physical device id to the udf process.
	AttrVisibleDeviceEnable = "_visible_device_enable"
	// AttrDataFlowScope udf attr, data flow scope of the udf.
	AttrDataFlowScope = "_dflow_data_flow_scope"
	// AttrDataFlowInvokedScopes udf attr, scopes invoked by the udf.
	AttrDataFlowInvokedScopes = "_dflow_data_flow_invoked_scopes"

	// AttrEschedProcessPriority request attr, process priority of the udf.
	AttrEschedProcessPriority = "_eschedProcessPriority"
	// AttrEschedEventPriority request attr, event priority of the udf.
	AttrEschedEventPriority = "_eschedEventPriority"
	// AttrNpuSchedModel request attr, the model is loaded through the npu scheduler plugin.
	AttrNpuSchedModel = "_npu_sched_model"

	// VisibleDevicesEnv env name set when visible device is enabled.
	VisibleDevicesEnv = "ASCEND_RT_VISIBLE_DEVICES"

	// ArgumentError argument nil error.
	ArgumentError = "invalid argument"
)

var (
	// ErrParamInvalid the parameter-invalid status.
	ErrParamInvalid = errors.New("parameter invalid")
	// ErrFailed the generic-failure status.
	ErrFailed = errors.New("failed")
)
