/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package parser is using for parsing the batch load model message into udf model descriptors.
*/
package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hicann/ge-sub017/config"
	"github.com/hicann/ge-sub017/internal/model"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/internal/udfproto"
	"github.com/hicann/ge-sub017/util"
)

type checkInputAlignTest struct {
	name    string
	align   *model.InputAlign
	wantErr bool
}

func buildCheckInputAlignTestCase() []checkInputAlignTest {
	return []checkInputAlignTest{
		{name: "01-CheckInputAlign will return nil when align is nil", align: nil},
		{name: "02-CheckInputAlign will accept timeout -1", align: &model.InputAlign{Timeout: -1}},
		{name: "03-CheckInputAlign will reject timeout 0", align: &model.InputAlign{Timeout: 0}, wantErr: true},
		{name: "04-CheckInputAlign will accept timeout 600000", align: &model.InputAlign{Timeout: 600000}},
		{
			name:    "05-CheckInputAlign will reject timeout 600001",
			align:   &model.InputAlign{Timeout: 600001},
			wantErr: true,
		},
		{name: "06-CheckInputAlign will reject timeout -2", align: &model.InputAlign{Timeout: -2}, wantErr: true},
		{name: "07-CheckInputAlign will accept cache 1024", align: &model.InputAlign{MaxCacheNum: 1024, Timeout: 1}},
		{
			name:    "08-CheckInputAlign will reject cache 1025",
			align:   &model.InputAlign{MaxCacheNum: 1025, Timeout: 1},
			wantErr: true,
		},
	}
}

func TestCheckInputAlign(t *testing.T) {
	for _, tt := range buildCheckInputAlignTestCase() {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInputAlign(tt.align)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckInputAlign() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, util.ErrParamInvalid) {
				t.Errorf("CheckInputAlign() error = %v, want param invalid", err)
			}
		})
	}
}

func TestDedupQueues(t *testing.T) {
	q := func(id uint32) queue.Descriptor { return queue.NewNpuProxy(id, 0) }
	got := DedupQueues([]queue.Descriptor{q(5), q(3), q(5), q(4), q(3)})
	want := []queue.Descriptor{q(5), q(3), q(4)}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(queue.Descriptor{})); diff != "" {
		t.Errorf("DedupQueues() mismatch (-want +got):\n%s", diff)
	}
	if got := DedupQueues(nil); len(got) != 0 {
		t.Errorf("DedupQueues() got = %v, want empty", got)
	}
}

type constructModelParamTest struct {
	name    string
	req     *udfproto.LoadModelRequest
	baseDir string
	want    string
	wantErr bool
}

func buildConstructModelParamTestCase() []constructModelParamTest {
	return []constructModelParamTest{
		{name: "01-ConstructModelParam will return err when request is nil", wantErr: true},
		{
			name:    "02-ConstructModelParam will join relative path to base dir",
			req:     &udfproto.LoadModelRequest{ModelPath: "udf/a.udf"},
			baseDir: "/models",
			want:    "/models/udf/a.udf",
		},
		{
			name:    "03-ConstructModelParam will keep absolute path",
			req:     &udfproto.LoadModelRequest{ModelPath: "/data/a.udf"},
			baseDir: "/models",
			want:    "/data/a.udf",
		},
	}
}

func TestConstructModelParam(t *testing.T) {
	ctx := config.NewDeployContext(config.Options{})
	for _, tt := range buildConstructModelParamTestCase() {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConstructModelParam(ctx, tt.req, tt.baseDir)
			if (err != nil) != tt.wantErr {
				t.Errorf("ConstructModelParam() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && got.ModelPath != tt.want {
				t.Errorf("ConstructModelParam() model path = %s, want %s", got.ModelPath, tt.want)
			}
		})
	}
}

func TestConstructModelParamStatusQueue(t *testing.T) {
	ctx := config.NewDeployContext(config.Options{PhysicalDeviceID: 1})
	req := &udfproto.LoadModelRequest{
		ModelPath: "a.udf",
		StatusOutputQueues: []udfproto.QueueAttrs{
			{QueueID: 8, DeviceType: util.DeviceTypeNPU, DeviceID: 1},
			{QueueID: 9, DeviceType: util.DeviceTypeNPU, DeviceID: 1},
		},
		InputAlignAttrs: &udfproto.InputAlignAttrs{AlignMaxCacheNum: 4, AlignTimeout: 100},
	}
	got, err := ConstructModelParam(ctx, req, "/models")
	if err != nil {
		t.Fatalf("ConstructModelParam() error = %v", err)
	}
	if got.StatusQueueNum != 2 || got.StatusOutputQueue == nil || got.StatusOutputQueue.QueueID != 8 ||
		!got.StatusOutputQueue.IsProxy() {
		t.Errorf("ConstructModelParam() status queue got = %d %v", got.StatusQueueNum, got.StatusOutputQueue)
	}
	if !cmp.Equal(got.InputAlign, &model.InputAlign{MaxCacheNum: 4, Timeout: 100}) {
		t.Errorf("ConstructModelParam() input align got = %+v", got.InputAlign)
	}
}
