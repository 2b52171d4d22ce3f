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

/*

Package main is the udf deployer, parsing udf batch load model files and loading npu scheduled models.

*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog"

	"github.com/hicann/ge-sub017/config"
	"github.com/hicann/ge-sub017/internal/dlsched"
	"github.com/hicann/ge-sub017/internal/model"
	"github.com/hicann/ge-sub017/internal/parser"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/internal/udfproto"
	"github.com/hicann/ge-sub017/npuinterface"
	"github.com/hicann/ge-sub017/plugin"
	"github.com/hicann/ge-sub017/util"
)

func main() {
	BackendStart()
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	klog.Flush()
	os.Exit(code)
}

// BackendStart register the npu scheduler backends.
func BackendStart() {
	plugin.RegisterBackend(plugin.DlschedBackendName, func() npuinterface.NpuSchedulerBackend {
		return dlsched.New(dlsched.DefaultLibName)
	})
}

// run the sub command, the return is the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return int(util.StatusParamInvalid)
	}
	var err error
	switch args[0] {
	case cmdParse:
		err = runParse(args[1:], stdout, stderr)
	case cmdPack:
		err = runPack(args[1:], stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return int(util.StatusParamInvalid)
	}
	if err != nil {
		klog.V(util.LogErrorLev).Infof("%s %s failed: %v.", AppName, args[0], err)
		fmt.Fprintf(stderr, "%s %s: %v\n", AppName, args[0], err)
	}
	return int(util.StatusOf(err))
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(AppName+" "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	klog.InitFlags(fs)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", util.ErrParamInvalid, err)
	}
	return nil
}

func runParse(args []string, stdout, stderr io.Writer) error {
	opts := parseOptions{}
	fs := newFlagSet(cmdParse, stderr)
	fs.StringVar(&opts.batchPath, "batch", "", "batch load model file")
	fs.StringVar(&opts.configPath, "config", "", "deploy config yaml file")
	fs.StringVar(&opts.configMap, "configmap", "", "deploy config map as <namespace>/<name>")
	fs.StringVar(&opts.kubeconfig, "kubeconfig", "", "kubeconfig path, in cluster config when empty")
	fs.BoolVar(&opts.npuSched, "npu-sched", false,
		"load models marked _npu_sched_model through the runtime, unloaded again before exit")
	fs.StringVar(&opts.backend, "backend", plugin.DlschedBackendName, "npu scheduler backend")
	fs.IntVar(&opts.deviceID, "device", util.ErrorInt, "device to initialize, running device id when -1")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if opts.batchPath == "" {
		return util.ParamInvalidf("--batch is required")
	}
	ctx, err := loadDeployContext(opts)
	if err != nil {
		return err
	}
	descs, err := parser.NewBatchParser(ctx).ParseModels(opts.batchPath)
	if err != nil {
		return err
	}
	summary := summarize(descs)
	if opts.npuSched {
		infos, err := loadNpuSchedModels(ctx, opts, descs)
		if err != nil {
			return err
		}
		summary.NpuSchedReqs = toQueueSummaries(infos.Inputs)
		summary.NpuSchedResp = toQueueSummaries(infos.Outputs)
	}
	enc := yaml.NewEncoder(stdout)
	defer enc.Close()
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("%w: print summary: %v", util.ErrFailed, err)
	}
	return nil
}

func loadDeployContext(opts parseOptions) (*config.DeployContext, error) {
	if opts.configPath != "" && opts.configMap != "" {
		return nil, util.ParamInvalidf("--config and --configmap are exclusive")
	}
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	if opts.configMap == "" {
		klog.V(util.LogInfoLev).Infof("no deploy config given, use defaults.")
		return config.NewDeployContext(config.Options{}), nil
	}
	parts := strings.SplitN(opts.configMap, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, util.ParamInvalidf("--configmap %q must be <namespace>/<name>", opts.configMap)
	}
	client, err := newKubeClient(opts.kubeconfig)
	if err != nil {
		return nil, err
	}
	return config.LoadFromConfigMap(context.Background(), client, parts[0], parts[1])
}

func newKubeClient(kubeconfig string) (kubernetes.Interface, error) {
	restCfg, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("%w: build kube config: %v", util.ErrFailed, err)
	}
	client, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: new kube client: %v", util.ErrFailed, err)
	}
	return client, nil
}

func loadNpuSchedModels(ctx *config.DeployContext, opts parseOptions,
	descs []*model.Descriptor) (infos *plugin.QueueInfos, err error) {
	bridge, err := plugin.NewBridge(opts.backend, ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if finErr := bridge.Finalize(); finErr != nil {
			klog.V(util.LogWarningLev).Infof("finalize %s: %v.", plugin.PluginName, finErr)
			err = multierror.Append(err, fmt.Errorf("%w: %v", util.ErrFailed, finErr))
		}
	}()
	deviceID := int32(opts.deviceID)
	if deviceID == util.InvalidDeviceID {
		deviceID = ctx.RunningDeviceID()
	}
	if err := bridge.Initialize(deviceID); err != nil {
		return nil, err
	}
	return bridge.LoadNpuSchedModels(descs)
}

func toQueueSummaries(queues []queue.Descriptor) []queueSummary {
	out := make([]queueSummary, 0, len(queues))
	for _, q := range queues {
		out = append(out, queueSummary{QueueID: q.QueueID, Device: util.DeviceTypeName(q.DeviceType),
			DeviceID: q.DeviceID, Proxy: q.IsProxy()})
	}
	return out
}

func summarize(descs []*model.Descriptor) deploySummary {
	summary := deploySummary{Models: make([]modelSummary, 0, len(descs))}
	for _, desc := range descs {
		summary.Models = append(summary.Models, modelSummary{
			Instance: desc.InstanceName,
			LibPath:  desc.LibPath,
			Func:     desc.FuncName,
			NpuSched: desc.NeedNpuSched(),
			Inputs:   toQueueSummaries(desc.InputQueues),
			Outputs:  toQueueSummaries(desc.OutputQueues),
		})
	}
	return summary
}

func runPack(args []string, stderr io.Writer) error {
	opts := packOptions{}
	fs := newFlagSet(cmdPack, stderr)
	fs.StringVar(&opts.kind, "kind", udfproto.KindBatch, "message kind, batch or udf")
	fs.StringVar(&opts.inPath, "in", "", "text format input file")
	fs.StringVar(&opts.outPath, "out", "", "binary output file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if opts.inPath == "" || opts.outPath == "" {
		return util.ParamInvalidf("--in and --out are required")
	}
	text, err := os.ReadFile(opts.inPath)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", util.ErrFailed, opts.inPath, err)
	}
	data, err := udfproto.PackText(opts.kind, string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrParamInvalid, err)
	}
	if err := os.WriteFile(opts.outPath, data, 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", util.ErrFailed, opts.outPath, err)
	}
	klog.V(util.LogInfoLev).Infof("pack %s %s to %s, %d bytes.", opts.kind, opts.inPath, opts.outPath, len(data))
	return nil
}
