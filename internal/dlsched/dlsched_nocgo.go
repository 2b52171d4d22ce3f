//go:build !cgo

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
	"fmt"

	"github.com/hicann/ge-sub017/npuinterface"
)

// Backend without cgo the library can never be opened.
type Backend struct {
	libName string
}

// New a backend of the given library, DefaultLibName when empty.
func New(libName string) *Backend {
	if libName == "" {
		libName = DefaultLibName
	}
	return &Backend{libName: libName}
}

// Open always fails, dlopen needs cgo.
func (b *Backend) Open() error {
	return fmt.Errorf("%w: %s, built without cgo", ErrLibraryNotLoaded, b.libName)
}

// Close nothing to release.
func (b *Backend) Close() error {
	return nil
}

// InitializeNpuSched library not loaded.
func (b *Backend) InitializeNpuSched(int32) error {
	return ErrLibraryNotLoaded
}

// FinalizeNpuSched library not loaded.
func (b *Backend) FinalizeNpuSched(int32) error {
	return ErrLibraryNotLoaded
}

// CreateModelHandler library not loaded.
func (b *Backend) CreateModelHandler() (npuinterface.ModelHandle, error) {
	return 0, ErrLibraryNotLoaded
}

// LoadModel library not loaded.
func (b *Backend) LoadModel(npuinterface.ModelHandle, *npuinterface.LoadParam) error {
	return ErrLibraryNotLoaded
}

// UnloadModel library not loaded.
func (b *Backend) UnloadModel(npuinterface.ModelHandle) error {
	return ErrLibraryNotLoaded
}

// DestroyModelHandler library not loaded.
func (b *Backend) DestroyModelHandler(npuinterface.ModelHandle) error {
	return ErrLibraryNotLoaded
}
