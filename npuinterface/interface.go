/*
Copyright(C) 2021. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*

Package npuinterface is using for the npu scheduler runtime library interface.

*/
package npuinterface

import (
	"fmt"
)

// ModelHandle opaque handle of a model handler created by the runtime.
type ModelHandle uint64

// QueueAttrs queue attributes passed to the runtime.
type QueueAttrs struct {
	QueueID    uint32
	DeviceType int32
	DeviceID   int32
	LogicID    int32
}

// InputAlignAttrs input align policy passed to the runtime.
type InputAlignAttrs struct {
	AlignMaxCacheNum uint32
	AlignTimeout     int32
	DropWhenNotAlign bool
}

// LoadParam the load parameter of one model. ReqMsgQueueID and RespMsgQueueID are written by the runtime.
type LoadParam struct {
	ModelID           uint32
	DeviceID          int32
	ModelUUID         uint32
	InputQueues       []QueueAttrs
	OutputQueues      []QueueAttrs
	StatusOutputQueue QueueAttrs
	HasStatusQueue    bool
	IsDynamicSched    bool
	NeedReportStatus  bool
	IsHead            bool
	InputAlign        InputAlignAttrs
	HasInputAlign     bool
	ReqMsgQueueID     uint32
	RespMsgQueueID    uint32
}

// NpuSchedulerBackend the npu scheduler runtime entry points.
type NpuSchedulerBackend interface {
	// Open load the runtime library.
	Open() error
	// Close release the runtime library.
	Close() error
	InitializeNpuSched(deviceID int32) error
	CreateModelHandler() (ModelHandle, error)
	LoadModel(handle ModelHandle, param *LoadParam) error
	UnloadModel(handle ModelHandle) error
	DestroyModelHandler(handle ModelHandle) error
	FinalizeNpuSched(deviceID int32) error
}

// StatusError a non zero status returned by a runtime entry point.
type StatusError struct {
	Func string
	Code int32
}

// Error the func name and return code.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s return %d", e.Func, e.Code)
}
