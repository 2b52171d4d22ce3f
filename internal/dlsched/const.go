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

import (
	"errors"
)

const (
	// DefaultLibName the npu scheduler runtime library.
	DefaultLibName = "libnpu_sched.so"

	// SymInitialize runtime entry points.
	SymInitialize     = "InitializeNpuSched"
	SymCreateHandler  = "CreateNpuSchedModelHandler"
	SymLoad           = "LoadNpuSchedModel"
	SymUnload         = "UnloadNpuSchedModel"
	SymDestroyHandler = "DestroyNpuSchedModelHandler"
	SymFinalize       = "FinalizeNpuSched"
)

var (
	// ErrLibraryNotLoaded the runtime library can not be opened or is not open.
	ErrLibraryNotLoaded = errors.New("npu scheduler library not loaded")
	// ErrSymbolNotFound an entry point is missing in the runtime library.
	ErrSymbolNotFound = errors.New("npu scheduler symbol not found")
)
