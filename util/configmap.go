/*
Copyright(C)2020-2022. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package util is using for the total variable.
*/
package util

import (
	"context"
	"fmt"

	"k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog"
)

// GetConfigMap Get config map from k8s.
func GetConfigMap(ctx context.Context, client kubernetes.Interface, namespace, cmName string) (*v1.ConfigMap, error) {
	if client == nil {
		return nil, fmt.Errorf("get configmap %s/%s: %s", namespace, cmName, ArgumentError)
	}
	cm, err := client.CoreV1().ConfigMaps(namespace).Get(ctx, cmName, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return cm, nil
}

// GetConfigMapData get one key of a configmap, missing key is an error.
func GetConfigMapData(ctx context.Context, client kubernetes.Interface, namespace, cmName, key string) (string,
	error) {
	cm, err := GetConfigMap(ctx, client, namespace, cmName)
	if err != nil {
		return "", err
	}
	data, ok := cm.Data[key]
	if !ok {
		klog.V(LogErrorLev).Infof("configmap %s/%s has no key %s.", namespace, cmName, key)
		return "", fmt.Errorf("configmap %s/%s has no key %s", namespace, cmName, key)
	}
	return data, nil
}
