// Package k8s connects suite runs to a Kubernetes cluster: it publishes
// results as ConfigMaps and quarantines nodes whose kernels disagree with
// the reference variant.
package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"

	"github.com/justin-oleary/perfsuite/pkg/executor"
	"github.com/justin-oleary/perfsuite/pkg/metrics"
	"github.com/justin-oleary/perfsuite/pkg/report"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

const (
	mismatchTaintKey  = "perfsuite.io/checksum-mismatch"
	mismatchCondition = corev1.NodeConditionType("KernelChecksumMismatch")
)

// readyTransitionWindow is how recently a Ready transition must have occurred
// for us to treat the node as "just joined or rebooted."
// Override with READY_WINDOW_SECONDS (integer seconds).
var readyTransitionWindow = func() time.Duration {
	if s := os.Getenv("READY_WINDOW_SECONDS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	return 5 * time.Minute
}()

// suiteFunc runs the validation suite. Defined as a type so tests can
// inject canned results.
type suiteFunc func(ctx context.Context) (*executor.RunResult, error)

// Controller runs the validation suite when its node (re)joins the cluster.
type Controller struct {
	client    kubernetes.Interface
	runSuite  suiteFunc
	namespace string
	newPub    func(nodeName string) *Publisher
	logger    *slog.Logger
}

// NewController returns a Controller that runs ex and publishes results
// into namespace.
func NewController(client kubernetes.Interface, ex *executor.Executor, namespace string) *Controller {
	return newControllerWithSuite(client, ex.Run, namespace, report.DetectHost)
}

func newControllerWithSuite(client kubernetes.Interface, fn suiteFunc, namespace string, host func() report.Host) *Controller {
	c := &Controller{client: client, runSuite: fn, namespace: namespace, logger: slog.Default()}
	c.newPub = func(nodeName string) *Publisher {
		p := NewPublisher(client, namespace, ResultsConfigMapName(nodeName), nodeName)
		p.host = host
		return p
	}
	return c
}

// withLogger swaps the controller's logger. Used in tests to capture structured
// log output without touching the global default logger.
func (c *Controller) withLogger(l *slog.Logger) *Controller {
	c.logger = l
	return c
}

// ReconcileNode should be called whenever the node transitions to Ready. It:
//  1. Checks whether the node just joined or rebooted.
//  2. Runs the validation suite.
//  3. Publishes the results ConfigMap.
//  4. Clears the quarantine taint on a clean run, or applies it and logs
//     the deviating kernels otherwise.
func (c *Controller) ReconcileNode(ctx context.Context, nodeName string) error {
	node, err := c.client.CoreV1().Nodes().Get(ctx, nodeName, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("get node %s: %w", nodeName, err)
	}

	if !justBecameReady(node, readyTransitionWindow) {
		return nil
	}

	c.logger.Info("node ready after join/reboot, running kernel suite", "node", nodeName)

	res, err := c.runSuite(ctx)
	if res == nil {
		return fmt.Errorf("run suite on %s: %w", nodeName, err)
	}
	// a partial run must not clear a quarantine
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("run suite on %s: %w", nodeName, ctxErr)
	}
	if err != nil {
		// reporter failures do not invalidate the measurements
		c.logger.Warn("suite reporters failed", "node", nodeName, "err", err)
	}

	if err := c.newPub(nodeName).Report(ctx, res); err != nil {
		c.logger.Error("publish results failed", "node", nodeName, "err", err)
	}

	if res.Healthy() {
		c.logger.Info("kernel suite passed",
			"node", nodeName,
			"run_id", res.ID,
			"kernels", len(res.Kernels),
			"elapsed", res.End.Sub(res.Start),
		)
		return c.removeTaint(ctx, nodeName, node)
	}

	reason, message := quarantineReason(res)
	for _, d := range res.Mismatches() {
		c.logger.Warn("kernel checksum mismatch",
			"node_name", nodeName,
			"run_id", res.ID,
			"kernel", d.Kernel,
			"variant", d.Variant,
			"reference", d.Reference,
			"measured_value", d.MeasuredValue,
			"threshold_value", d.ThresholdValue,
		)
	}
	for _, err := range res.Failures() {
		c.logger.Error("kernel variant failed", "node_name", nodeName, "run_id", res.ID, "err", err)
	}
	for _, kid := range res.Unverified() {
		c.logger.Warn("kernel checksums not verified, reference variant did not run",
			"node_name", nodeName, "run_id", res.ID, "kernel", suite.FullKernelName(kid))
	}
	c.logger.Warn("node quarantined", "node_name", nodeName, "failure_reason", reason, "run_id", res.ID)

	metrics.QuarantineTotal.WithLabelValues(reason).Inc()
	return c.applyTaint(ctx, nodeName, node, reason, message)
}

// quarantineReason picks the metric reason and a condition message for an
// unhealthy run. Variant failures outrank mismatches, which outrank
// kernels left unverified.
func quarantineReason(res *executor.RunResult) (reason, message string) {
	if failures := res.Failures(); len(failures) > 0 {
		return "variant_failed", fmt.Sprintf("%d kernel variant(s) failed, first: %v", len(failures), failures[0])
	}
	if mismatches := res.Mismatches(); len(mismatches) > 0 {
		first := mismatches[0]
		return "checksum_mismatch", fmt.Sprintf("%d checksum mismatch(es), first: %s %s delta %.3g > %.3g",
			len(mismatches), first.Kernel, first.Variant, first.MeasuredValue, first.ThresholdValue)
	}
	unverified := res.Unverified()
	return "reference_missing", fmt.Sprintf("%d kernel(s) not compared against the reference variant, first: %s",
		len(unverified), suite.FullKernelName(unverified[0]))
}

// conditionReasons maps quarantine reasons to node condition reasons.
var conditionReasons = map[string]string{
	"variant_failed":    "VariantFailed",
	"checksum_mismatch": "ChecksumMismatch",
	"reference_missing": "ReferenceMissing",
}

// justBecameReady returns true when the node's Ready=True condition transitioned
// within the given window. Nodes that have been stable for hours return false.
func justBecameReady(node *corev1.Node, within time.Duration) bool {
	for _, c := range node.Status.Conditions {
		if c.Type == corev1.NodeReady && c.Status == corev1.ConditionTrue {
			return time.Since(c.LastTransitionTime.Time) < within
		}
	}
	return false
}

// IsNodeReady reports whether the node's Ready condition is True.
func IsNodeReady(node *corev1.Node) bool {
	for _, c := range node.Status.Conditions {
		if c.Type == corev1.NodeReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}

type specPatch struct {
	Spec struct {
		Taints []corev1.Taint `json:"taints"`
	} `json:"spec"`
}

type statusPatch struct {
	Status struct {
		Conditions []corev1.NodeCondition `json:"conditions"`
	} `json:"status"`
}

// applyTaint adds the checksum-mismatch NoSchedule taint to the node spec
// and records a KernelChecksumMismatch condition. An existing taint is
// rewritten only when its reason changed; the condition always carries the
// latest reason and message.
func (c *Controller) applyTaint(ctx context.Context, nodeName string, node *corev1.Node, reason, message string) error {
	want := corev1.Taint{
		Key:    mismatchTaintKey,
		Value:  reason,
		Effect: corev1.TaintEffectNoSchedule,
	}
	rest, current := splitTaint(node.Spec.Taints)
	if current == nil || current.Value != want.Value || current.Effect != want.Effect {
		sp := specPatch{}
		sp.Spec.Taints = append(rest, want)
		if err := c.patchNode(ctx, nodeName, sp); err != nil {
			return fmt.Errorf("patch node spec: %w", err)
		}
	}

	cond := corev1.NodeCondition{
		Type:               mismatchCondition,
		Status:             corev1.ConditionTrue,
		Reason:             conditionReasons[reason],
		Message:            message,
		LastTransitionTime: metav1.Now(),
	}
	st := statusPatch{}
	st.Status.Conditions = upsertCondition(node.Status.Conditions, cond)
	if err := c.patchNode(ctx, nodeName, st, "status"); err != nil {
		return fmt.Errorf("patch node status: %w", err)
	}
	return nil
}

// removeTaint strips the checksum-mismatch taint and clears the condition.
// Idempotent.
func (c *Controller) removeTaint(ctx context.Context, nodeName string, node *corev1.Node) error {
	filtered, current := splitTaint(node.Spec.Taints)
	if current == nil {
		return nil
	}

	sp := specPatch{}
	sp.Spec.Taints = filtered
	if err := c.patchNode(ctx, nodeName, sp); err != nil {
		return fmt.Errorf("patch node spec (remove taint): %w", err)
	}

	cond := corev1.NodeCondition{
		Type:               mismatchCondition,
		Status:             corev1.ConditionFalse,
		Reason:             "ChecksumsMatch",
		Message:            "all kernel variants match the reference checksum",
		LastTransitionTime: metav1.Now(),
	}
	st := statusPatch{}
	st.Status.Conditions = upsertCondition(node.Status.Conditions, cond)
	if err := c.patchNode(ctx, nodeName, st, "status"); err != nil {
		return fmt.Errorf("patch node status (clear condition): %w", err)
	}

	c.logger.Info("checksum taint removed, node cleared for scheduling", "node_name", nodeName)
	return nil
}

func (c *Controller) patchNode(ctx context.Context, nodeName string, patch any, subresources ...string) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}
	_, err = c.client.CoreV1().Nodes().Patch(
		ctx, nodeName, types.MergePatchType, b, metav1.PatchOptions{}, subresources...,
	)
	return err
}

// splitTaint separates the checksum-mismatch taint from the others.
func splitTaint(taints []corev1.Taint) (rest []corev1.Taint, found *corev1.Taint) {
	rest = make([]corev1.Taint, 0, len(taints))
	for i := range taints {
		if taints[i].Key == mismatchTaintKey {
			found = &taints[i]
			continue
		}
		rest = append(rest, taints[i])
	}
	return rest, found
}

// upsertCondition replaces the condition of c's type. The transition time
// is kept when the status did not change.
func upsertCondition(conditions []corev1.NodeCondition, c corev1.NodeCondition) []corev1.NodeCondition {
	for i, existing := range conditions {
		if existing.Type == c.Type {
			if existing.Status == c.Status {
				c.LastTransitionTime = existing.LastTransitionTime
			}
			conditions[i] = c
			return conditions
		}
	}
	return append(conditions, c)
}

// IsQuarantined reports whether node carries the checksum-mismatch taint.
func IsQuarantined(node *corev1.Node) bool {
	for _, t := range node.Spec.Taints {
		if t.Key == mismatchTaintKey {
			return true
		}
	}
	return false
}

var _ executor.Reporter = (*Publisher)(nil)
