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
Package plugin is using for driving the npu scheduler runtime.
*/

package plugin

const (
	// PluginName the npu scheduler bridge name.
	PluginName = "npuSchedBridge"
	// DlschedBackendName the backend over the runtime shared library.
	DlschedBackendName = "dlsched"

	// uninitializedDeviceID device id before Initialize succeeds.
	uninitializedDeviceID int32 = -1

	objectNilError = "object or argument is nil"
)
