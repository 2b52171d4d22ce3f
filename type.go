/*
Copyright(C) 2021. Huawei Technologies Co.,Ltd. All rights reserved.

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

package main

// AppName use in log and usage.
var AppName = "udf-deployer"

const (
	cmdParse = "parse"
	cmdPack  = "pack"

	usage = `usage:
  udf-deployer parse --batch <file> [--config <yaml> | --configmap <ns>/<name> [--kubeconfig <path>]]
                     [--npu-sched [--backend <name>] [--device <id>]]
  udf-deployer pack --kind batch|udf --in <text file> --out <binary file>

--npu-sched loads the marked models to check them and prints the generated queues, the models
are unloaded and the runtime finalized before parse exits.
`
)

// parseOptions flags of the parse command.
type parseOptions struct {
	batchPath  string
	configPath string
	configMap  string
	kubeconfig string
	npuSched   bool
	backend    string
	deviceID   int
}

// packOptions flags of the pack command.
type packOptions struct {
	kind    string
	inPath  string
	outPath string
}

// queueSummary one queue in the printed summary.
type queueSummary struct {
	QueueID  uint32 `yaml:"queueId"`
	Device   string `yaml:"device"`
	DeviceID int32  `yaml:"deviceId"`
	Proxy    bool   `yaml:"proxy"`
}

// modelSummary one parsed model in the printed summary.
type modelSummary struct {
	Instance string         `yaml:"instance"`
	LibPath  string         `yaml:"libPath"`
	Func     string         `yaml:"func"`
	NpuSched bool           `yaml:"npuSched,omitempty"`
	Inputs   []queueSummary `yaml:"inputs,omitempty"`
	Outputs  []queueSummary `yaml:"outputs,omitempty"`
}

// deploySummary what the parse command prints.
type deploySummary struct {
	Models       []modelSummary `yaml:"models"`
	NpuSchedReqs []queueSummary `yaml:"npuSchedRequestQueues,omitempty"`
	NpuSchedResp []queueSummary `yaml:"npuSchedResponseQueues,omitempty"`
}
