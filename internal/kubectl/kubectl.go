package kubectl

import (
	"context"
	"encoding/json"
	"strings"
)

// ContextInfo is the current kubectl context.
type ContextInfo struct {
	Context string `json:"context"`
	Stderr  string `json:"stderr"`
	Code    int    `json:"code"`
}

// ClusterInfo is a cluster-info plus nodes summary.
type ClusterInfo struct {
	ClusterInfo string `json:"cluster_info"`
	Nodes       string `json:"nodes"`
	Stderr      string `json:"stderr"`
}

// ServiceAccount is one row of the service-account summary.
type ServiceAccount struct {
	Namespace         string `json:"namespace"`
	Name              string `json:"name"`
	UID               string `json:"uid"`
	CreationTimestamp string `json:"creationTimestamp"`
}

// ServiceAccountList summarizes `kubectl get sa -o json`.
type ServiceAccountList struct {
	Items  []ServiceAccount `json:"items"`
	Stderr string           `json:"stderr"`
	Raw    string           `json:"raw,omitempty"`
}

// CurrentContext returns the active kubectl context.
func (r *Runner) CurrentContext(ctx context.Context) ContextInfo {
	res := r.Run(ctx, "kubectl", "config", "current-context")
	return ContextInfo{Context: res.Stdout, Stderr: res.Stderr, Code: res.Code}
}

// Cluster returns cluster info and a wide nodes listing.
func (r *Runner) Cluster(ctx context.Context) ClusterInfo {
	info := r.Run(ctx, "kubectl", "cluster-info")
	nodes := r.Run(ctx, "kubectl", "get", "nodes", "-o", "wide")
	return ClusterInfo{
		ClusterInfo: info.Stdout,
		Nodes:       nodes.Stdout,
		Stderr:      strings.TrimSpace(info.Stderr + "\n" + nodes.Stderr),
	}
}

// ServiceAccounts lists service accounts, summarized to identity fields.
// Unparseable output comes back raw rather than failing.
func (r *Runner) ServiceAccounts(ctx context.Context, allNamespaces bool) ServiceAccountList {
	args := []string{"get", "sa"}
	if allNamespaces {
		args = append(args, "-A")
	}
	args = append(args, "-o", "json")
	res := r.Run(ctx, "kubectl", args...)

	out := res.Stdout
	if out == "" {
		out = "{}"
	}

	var payload struct {
		Items []struct {
			Metadata ServiceAccount `json:"metadata"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		stderr := res.Stderr
		if stderr == "" {
			stderr = err.Error()
		}
		return ServiceAccountList{Items: []ServiceAccount{}, Stderr: stderr, Raw: res.Stdout}
	}

	items := make([]ServiceAccount, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, it.Metadata)
	}
	return ServiceAccountList{Items: items, Stderr: res.Stderr}
}
