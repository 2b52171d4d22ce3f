/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package config is using for the deploy context shared by the model parser and the npu scheduler bridge.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/hicann/ge-sub017/internal/bufpool"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/test"
)

type loadFileTest struct {
	name      string
	content   string
	want      Options
	wantErr   bool
	notCreate bool
}

func buildLoadFileTestCase() []loadFileTest {
	return []loadFileTest{
		{
			name:      "01-LoadFile will return err when file not exist",
			notCreate: true,
			wantErr:   true,
		},
		{
			name:    "02-LoadFile will return err when yaml is broken",
			content: "onDevice: [true",
			wantErr: true,
		},
		{
			name:    "03-LoadFile will return err when physical device id below sentinel",
			content: "physicalDeviceId: -2",
			wantErr: true,
		},
		{
			name: "04-LoadFile will return context when yaml is ok",
			content: "onDevice: true\nphysicalDeviceId: 2\nrunningDeviceId: 2\nlimitBuiltinUdf: true\n" +
				"modelBaseDir: /home/models\n",
			want: Options{OnDevice: true, PhysicalDeviceID: 2, RunningDeviceID: 2, LimitBuiltinUdf: true,
				ModelBaseDir: "/home/models"},
		},
	}
}

func optionsOf(dc *DeployContext) Options {
	return Options{
		OnDevice:         dc.OnDevice(),
		PhysicalDeviceID: dc.PhysicalDeviceID(),
		RunningDeviceID:  dc.RunningDeviceID(),
		LimitBuiltinUdf:  dc.LimitBuiltinUdf(),
		ModelBaseDir:     dc.ModelBaseDir(),
	}
}

func TestLoadFile(t *testing.T) {
	for _, tt := range buildLoadFileTestCase() {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "deploy.yaml")
			if !tt.notCreate {
				if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			got, err := LoadFile(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(optionsOf(got), tt.want) {
				t.Errorf("LoadFile() got = %+v, want %+v", optionsOf(got), tt.want)
			}
		})
	}
}

func TestLoadFromConfigMap(t *testing.T) {
	client := fake.NewSimpleClientset(test.FakeDeployConfigMap(CMInitParamKey,
		"onDevice: false\nphysicalDeviceId: 1\n"))
	got, err := LoadFromConfigMap(context.TODO(), client, test.FakeNamespace, test.FakeConfigMapName)
	if err != nil {
		t.Fatalf("LoadFromConfigMap() error = %v", err)
	}
	if got.OnDevice() || got.PhysicalDeviceID() != 1 {
		t.Errorf("LoadFromConfigMap() got = %+v", optionsOf(got))
	}
	if got.Placement() != (queue.Placement{OnDevice: false, LocalDeviceID: 1}) {
		t.Errorf("Placement() got = %+v", got.Placement())
	}
	if _, err := LoadFromConfigMap(context.TODO(), client, test.FakeNamespace, "absent"); err == nil {
		t.Errorf("LoadFromConfigMap() want error for absent configmap")
	}
}

func TestBufferPoolConfigIsCopied(t *testing.T) {
	dc := NewDeployContext(Options{})
	items := []bufpool.Item{{TotalSize: 4096, BlockSize: 64, MaxBufSize: 64, PageType: bufpool.PageTypeNormal}}
	dc.SetBufferPoolConfig(items)
	items[0].TotalSize = 0
	got := dc.BufferPoolConfig()
	if len(got) != 1 || got[0].TotalSize != 4096 {
		t.Errorf("BufferPoolConfig() got = %v", got)
	}
	got[0].BlockSize = 0
	if dc.BufferPoolConfig()[0].BlockSize != 64 {
		t.Errorf("BufferPoolConfig() should return a copy")
	}
	dc.SetRunningDeviceID(0)
	if dc.RunningDeviceID() != 0 {
		t.Errorf("RunningDeviceID() got = %d", dc.RunningDeviceID())
	}
}
