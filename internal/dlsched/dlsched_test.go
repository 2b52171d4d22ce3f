/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package dlsched is using for loading the npu scheduler runtime library with dlopen.
*/
package dlsched

import (
	"errors"
	"strings"
	"testing"

	"github.com/hicann/ge-sub017/npuinterface"
)

var _ npuinterface.NpuSchedulerBackend = (*Backend)(nil)

func TestNewDefaultLibName(t *testing.T) {
	if got := New("").libName; got != DefaultLibName {
		t.Errorf("New() lib name = %s, want %s", got, DefaultLibName)
	}
}

func TestOpenMissingLibrary(t *testing.T) {
	b := New("libnpu_sched_not_exist.so")
	if err := b.Open(); !errors.Is(err, ErrLibraryNotLoaded) {
		t.Errorf("Open() error = %v, want %v", err, ErrLibraryNotLoaded)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestCallBeforeOpen(t *testing.T) {
	b := New("")
	if err := b.InitializeNpuSched(0); !errors.Is(err, ErrLibraryNotLoaded) {
		t.Errorf("InitializeNpuSched() error = %v", err)
	}
	if _, err := b.CreateModelHandler(); !errors.Is(err, ErrLibraryNotLoaded) {
		t.Errorf("CreateModelHandler() error = %v", err)
	}
	if err := b.LoadModel(1, &npuinterface.LoadParam{}); !errors.Is(err, ErrLibraryNotLoaded) {
		t.Errorf("LoadModel() error = %v", err)
	}
	if err := b.FinalizeNpuSched(0); !errors.Is(err, ErrLibraryNotLoaded) {
		t.Errorf("FinalizeNpuSched() error = %v", err)
	}
}

func TestCreateHandlerNeedsLoadSymbol(t *testing.T) {
	b := New("libc.so.6")
	if err := b.Open(); err != nil {
		t.Skipf("libc not loadable: %v", err)
	}
	defer b.Close()
	handle, err := b.CreateModelHandler()
	if !errors.Is(err, ErrSymbolNotFound) || !strings.Contains(err.Error(), SymLoad) {
		t.Errorf("CreateModelHandler() error = %v, want %s not found", err, SymLoad)
	}
	if handle != 0 {
		t.Errorf("CreateModelHandler() handle = %d, want 0", handle)
	}
}
