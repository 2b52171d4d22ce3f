/*
Copyright(C)2020-2022. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*

Package test is using for udf deploy tests.

*/
package test

const (
	// FakeNamespace namespace of the fake deploy configmap.
	FakeNamespace = "udf-system"
	// FakeConfigMapName name of the fake deploy configmap.
	FakeConfigMapName = "udf-deploy-config"

	// FakeReqQueueID request message queue id the fake backend generates first.
	FakeReqQueueID uint32 = 1000
	// FakeRespQueueID response message queue id the fake backend generates first.
	FakeRespQueueID uint32 = 2000

	// FakeFuncInitialize fake backend call names.
	FakeFuncInitialize = "InitializeNpuSched"
	FakeFuncCreate     = "CreateNpuSchedModelHandler"
	FakeFuncLoad       = "LoadNpuSchedModel"
	FakeFuncUnload     = "UnloadNpuSchedModel"
	FakeFuncDestroy    = "DestroyNpuSchedModelHandler"
	FakeFuncFinalize   = "FinalizeNpuSched"
	FakeFuncOpen       = "Open"
	FakeFuncClose      = "Close"
)
