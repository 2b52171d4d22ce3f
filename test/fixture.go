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

Package test is using for udf deploy tests.

*/
package test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/hicann/ge-sub017/internal/udfproto"
)

// WriteText pack a text format message of the kind and write it to dir/name.
func WriteText(t *testing.T, dir, name, kind, text string) string {
	t.Helper()
	data, err := udfproto.PackText(kind, text)
	if err != nil {
		t.Fatalf("pack %s %s: %v", kind, name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteUdf write a udf definition file.
func WriteUdf(t *testing.T, dir, name, text string) string {
	return WriteText(t, dir, name, udfproto.KindUdf, text)
}

// WriteBatch write a batch load model file.
func WriteBatch(t *testing.T, dir, name, text string) string {
	return WriteText(t, dir, name, udfproto.KindBatch, text)
}

// UdfDef text of one udf definition. extra is inserted in the udf_def body as is.
func UdfDef(name, binName, extra string) string {
	return fmt.Sprintf("udf_def { name: %q func_name: %q bin_name: %q %s }\n", name, "Compute", binName, extra)
}

// BufCfg text of one buffer pool item.
func BufCfg(total, blk, maxBuf uint32, pageType string) string {
	return fmt.Sprintf("buf_cfg { total_size: %d blk_size: %d max_buf_size: %d page_type: %q } ",
		total, blk, maxBuf, pageType)
}

// QueueAttrs text of one queue attrs message with the field name.
func QueueAttrs(fieldName string, queueID uint32, deviceType, deviceID, logicID int32) string {
	return fmt.Sprintf("%s { queue_id: %d device_type: %d device_id: %d logic_id: %d } ", fieldName, queueID,
		deviceType, deviceID, logicID)
}

// Model text of one load model request. extra is inserted in the request body as is.
func Model(modelPath, instance string, extra ...string) string {
	return fmt.Sprintf("models { model_path: %q model_instance_name: %q %s }\n", modelPath, instance,
		strings.Join(extra, " "))
}

// FakeDeployConfigMap configmap carrying the deploy options yaml.
func FakeDeployConfigMap(key, data string) *v1.ConfigMap {
	return &v1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      FakeConfigMapName,
			Namespace: FakeNamespace,
		},
		Data: map[string]string{key: data},
	}
}
