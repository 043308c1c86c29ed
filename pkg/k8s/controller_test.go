package k8s

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/justin-oleary/perfsuite/pkg/executor"
	"github.com/justin-oleary/perfsuite/pkg/kernel"
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/report"
	"github.com/justin-oleary/perfsuite/pkg/suite"
)

const testNamespace = "perfsuite"

func TestReconcileNode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string

		// node pre-condition in the fake API server
		node *corev1.Node

		// suite mock
		result   *executor.RunResult
		suiteErr error

		// expected observable state after ReconcileNode
		wantErr       bool
		wantTaint     bool
		wantValue     string // taint value, only checked when wantTaint == true
		wantCond      corev1.ConditionStatus
		wantReason    string // condition reason, only checked when set
		wantRuns      int
		wantPublished string // verdict annotation; empty = no ConfigMap expected
		wantLogReason string // substring expected in structured log output; empty = skip check
	}{
		{
			// Node rebooted with a stale quarantine from an earlier bad run.
			// Every variant now agrees, so the taint must be lifted.
			name:          "clean run clears pre-existing quarantine",
			node:          quarantinedNode("cpu-node-0", 2*time.Minute),
			result:        healthyRun(),
			wantTaint:     false,
			wantCond:      corev1.ConditionFalse,
			wantRuns:      1,
			wantPublished: report.VerdictPass,
		},
		{
			name:          "checksum mismatch quarantines the node",
			node:          freshNode("cpu-node-1", time.Minute),
			result:        mismatchRun(),
			wantTaint:     true,
			wantValue:     "checksum_mismatch",
			wantCond:      corev1.ConditionTrue,
			wantRuns:      1,
			wantPublished: report.VerdictMismatch,
			wantLogReason: "kernel checksum mismatch",
		},
		{
			// The reference variant was not selected, so nothing was
			// compared; an earlier quarantine must stand.
			name:          "unverified run keeps pre-existing quarantine",
			node:          quarantinedNode("cpu-node-6", 2*time.Minute),
			result:        unverifiedRun(),
			wantTaint:     true,
			wantValue:     "reference_missing",
			wantCond:      corev1.ConditionTrue,
			wantReason:    "ReferenceMissing",
			wantRuns:      1,
			wantPublished: report.VerdictNoReference,
			wantLogReason: "kernel checksums not verified",
		},
		{
			// The cause moved from a failed variant to a mismatch; the node
			// must not keep describing the old cause.
			name:          "still quarantined node gets the new reason",
			node:          quarantinedNodeFor("cpu-node-7", 2*time.Minute, "variant_failed", "VariantFailed"),
			result:        mismatchRun(),
			wantTaint:     true,
			wantValue:     "checksum_mismatch",
			wantCond:      corev1.ConditionTrue,
			wantReason:    "ChecksumMismatch",
			wantRuns:      1,
			wantPublished: report.VerdictMismatch,
		},
		{
			// Running the suite on a busy node would perturb its workloads.
			name:     "steady-state node is left alone",
			node:     freshNode("cpu-node-2", 2*time.Hour),
			result:   healthyRun(),
			wantRuns: 0,
		},
		{
			name:          "failed variant quarantines the node",
			node:          freshNode("cpu-node-3", 3*time.Minute),
			result:        failedRun(),
			wantTaint:     true,
			wantValue:     "variant_failed",
			wantCond:      corev1.ConditionTrue,
			wantRuns:      1,
			wantPublished: report.VerdictFailed,
			wantLogReason: "kernel variant failed",
		},
		{
			// Reporter errors come back alongside a full result; the node
			// verdict still follows the measurements.
			name:          "reporter error does not block the verdict",
			node:          freshNode("cpu-node-4", time.Minute),
			result:        healthyRun(),
			suiteErr:      errors.New("write results: disk full"),
			wantCond:      corev1.ConditionStatus(""),
			wantRuns:      1,
			wantPublished: report.VerdictPass,
			wantLogReason: "suite reporters failed",
		},
		{
			name:     "suite that cannot start returns an error",
			node:     freshNode("cpu-node-5", time.Minute),
			suiteErr: executor.ErrNotRunnable,
			wantErr:  true,
			wantRuns: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clientset := fake.NewSimpleClientset(tc.node)

			runs := 0
			ctrl := newControllerWithSuite(clientset, func(context.Context) (*executor.RunResult, error) {
				runs++
				return tc.result, tc.suiteErr
			}, testNamespace, testHost)

			// A scoped logger avoids racing on slog.SetDefault across
			// parallel sub-tests.
			var logBuf bytes.Buffer
			ctrl = ctrl.withLogger(slog.New(slog.NewTextHandler(&logBuf, nil)))

			err := ctrl.ReconcileNode(context.Background(), tc.node.Name)
			if tc.wantErr != (err != nil) {
				t.Fatalf("ReconcileNode error = %v, wantErr %v", err, tc.wantErr)
			}

			if runs != tc.wantRuns {
				t.Errorf("suite ran %d time(s), want %d", runs, tc.wantRuns)
			}

			got, err := clientset.CoreV1().Nodes().Get(context.Background(), tc.node.Name, metav1.GetOptions{})
			if err != nil {
				t.Fatalf("Get node after reconcile: %v", err)
			}

			taint := findTaint(got, mismatchTaintKey)
			if (taint != nil) != tc.wantTaint {
				t.Errorf("hasTaint=%v, want %v (taints: %v)", taint != nil, tc.wantTaint, got.Spec.Taints)
			}
			if tc.wantTaint && taint != nil {
				if taint.Effect != corev1.TaintEffectNoSchedule {
					t.Errorf("taint effect=%v, want NoSchedule", taint.Effect)
				}
				if taint.Value != tc.wantValue {
					t.Errorf("taint value=%q, want %q", taint.Value, tc.wantValue)
				}
			}

			if tc.wantCond != "" {
				cond := findCondition(got, mismatchCondition)
				if cond == nil {
					t.Errorf("condition %s missing", mismatchCondition)
				} else {
					if cond.Status != tc.wantCond {
						t.Errorf("condition status=%v, want %v", cond.Status, tc.wantCond)
					}
					if tc.wantReason != "" && cond.Reason != tc.wantReason {
						t.Errorf("condition reason=%q, want %q (message %q)", cond.Reason, tc.wantReason, cond.Message)
					}
				}
			}

			cm, err := clientset.CoreV1().ConfigMaps(testNamespace).Get(
				context.Background(), ResultsConfigMapName(tc.node.Name), metav1.GetOptions{},
			)
			switch {
			case tc.wantPublished == "" && err == nil:
				t.Errorf("unexpected results ConfigMap %s", cm.Name)
			case tc.wantPublished != "" && err != nil:
				t.Errorf("results ConfigMap not published: %v", err)
			case tc.wantPublished != "":
				if v := cm.Annotations[annotationVer]; v != tc.wantPublished {
					t.Errorf("verdict annotation=%q, want %q", v, tc.wantPublished)
				}
				if cm.Labels[labelNode] != tc.node.Name {
					t.Errorf("node label=%q, want %q", cm.Labels[labelNode], tc.node.Name)
				}
			}

			if tc.wantLogReason != "" {
				if logged := logBuf.String(); !strings.Contains(logged, tc.wantLogReason) {
					t.Errorf("log output missing reason %q\ngot: %s", tc.wantLogReason, logged)
				}
			}
		})
	}
}

func TestSuiteWithoutReferenceKeepsQuarantine(t *testing.T) {
	t.Parallel()

	rp := params.New([]string{"-k", "Stream_DOT", "-v", "RAJA_Seq", "--sizefrac", "0.001", "--sampfrac", "0.001"})
	if rp.InputState() != params.GoodToRun {
		t.Fatalf("params: %v", rp.Errors())
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	ex := executor.New(rp, executor.WithLogger(quiet))

	node := quarantinedNode("cpu-node-8", time.Minute)
	clientset := fake.NewSimpleClientset(node)
	ctrl := newControllerWithSuite(clientset, ex.Run, testNamespace, testHost).withLogger(quiet)

	if err := ctrl.ReconcileNode(context.Background(), node.Name); err != nil {
		t.Fatalf("ReconcileNode: %v", err)
	}

	got, err := clientset.CoreV1().Nodes().Get(context.Background(), node.Name, metav1.GetOptions{})
	if err != nil {
		t.Fatalf("Get node after reconcile: %v", err)
	}
	if !IsQuarantined(got) {
		t.Errorf("quarantine lifted by a run that compared no checksums (taints: %v)", got.Spec.Taints)
	}
}

func TestPublisherReplacesExistingResults(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset()
	pub := NewPublisher(clientset, testNamespace, "perfsuite-results-a", "a")
	pub.host = testHost

	first := healthyRun()
	if err := pub.Report(context.Background(), first); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	second := mismatchRun()
	second.ID = "second-run"
	if err := pub.Report(context.Background(), second); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	cm, err := clientset.CoreV1().ConfigMaps(testNamespace).Get(context.Background(), "perfsuite-results-a", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("Get configmap: %v", err)
	}
	if cm.Annotations[annotationRun] != "second-run" {
		t.Errorf("run-id annotation=%q, want second-run", cm.Annotations[annotationRun])
	}

	var doc report.Results
	if err := json.Unmarshal([]byte(cm.Data[ResultsKey]), &doc); err != nil {
		t.Fatalf("decode %s: %v", ResultsKey, err)
	}
	if doc.Summary.Verdict != report.VerdictMismatch {
		t.Errorf("published verdict=%q, want %q", doc.Summary.Verdict, report.VerdictMismatch)
	}
	if doc.Host.Hostname != "test-host" {
		t.Errorf("published hostname=%q, want test-host", doc.Host.Hostname)
	}
}

func TestIsNodeReady(t *testing.T) {
	t.Parallel()

	if !IsNodeReady(freshNode("a", time.Minute)) {
		t.Error("fresh node should be Ready")
	}
	if IsNodeReady(&corev1.Node{}) {
		t.Error("node without conditions should not be Ready")
	}
	if IsQuarantined(freshNode("b", time.Minute)) {
		t.Error("fresh node should not be quarantined")
	}
	if !IsQuarantined(quarantinedNode("c", time.Minute)) {
		t.Error("quarantined node should carry the taint")
	}
}

func testHost() report.Host {
	return report.Host{Hostname: "test-host", GOOS: "linux", GOARCH: "amd64", NumCPU: 4, GPUName: "unknown"}
}

func healthyRun() *executor.RunResult {
	now := time.Now()
	return &executor.RunResult{
		ID:        "healthy-run",
		Start:     now.Add(-time.Second),
		End:       now,
		NumPasses: 1,
		Tolerance: 1e-9,
		Kernels: []executor.KernelResult{{
			Kernel:            suite.Stream_TRIAD,
			RunSize:           1000,
			RunReps:           10,
			Reference:         suite.Base_Seq,
			ReferenceChecksum: 5,
			Variants: []executor.VariantResult{
				{Variant: suite.Base_Seq, Status: kernel.Ran, Elapsed: time.Millisecond, Checksum: 5},
				{Variant: suite.RAJA_Seq, Status: kernel.Ran, Elapsed: time.Millisecond, Checksum: 5, Compared: true},
			},
		}},
	}
}

func mismatchRun() *executor.RunResult {
	res := healthyRun()
	res.ID = "mismatch-run"
	v := &res.Kernels[0].Variants[1]
	v.Checksum, v.Delta = 5.5, 0.1
	v.Warning = &executor.ChecksumDeviation{
		Cause:          fmt.Errorf("Stream_TRIAD RAJA_Seq vs Base_Seq: %w", executor.ErrChecksumMismatch),
		Kernel:         "Stream_TRIAD",
		Variant:        "RAJA_Seq",
		Reference:      "Base_Seq",
		MeasuredValue:  0.1,
		ThresholdValue: 1e-9,
	}
	return res
}

// unverifiedRun selected only RAJA_Seq, so the Base_Seq reference never ran.
func unverifiedRun() *executor.RunResult {
	res := healthyRun()
	res.ID = "unverified-run"
	kr := &res.Kernels[0]
	kr.Variants = kr.Variants[1:]
	kr.Variants[0].Compared = false
	kr.ReferenceChecksum = 0
	kr.Warning = fmt.Errorf("Stream_TRIAD: %w (Base_Seq)", executor.ErrReferenceMissing)
	return res
}

func failedRun() *executor.RunResult {
	res := healthyRun()
	res.ID = "failed-run"
	v := &res.Kernels[0].Variants[1]
	v.Status, v.Checksum, v.Compared = kernel.Failed, 0, false
	v.Err = errors.New("Stream_TRIAD RAJA_Seq: body failed")
	return res
}

// freshNode returns a node whose Ready condition just transitioned at -age.
func freshNode(name string, age time.Duration) *corev1.Node {
	return &corev1.Node{
		TypeMeta:   metav1.TypeMeta{Kind: "Node", APIVersion: "v1"},
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{
				Type:               corev1.NodeReady,
				Status:             corev1.ConditionTrue,
				LastTransitionTime: metav1.NewTime(time.Now().Add(-age)),
			}},
		},
	}
}

// quarantinedNode returns a freshly-ready node that already carries the
// checksum-mismatch taint from a previous run.
func quarantinedNode(name string, age time.Duration) *corev1.Node {
	return quarantinedNodeFor(name, age, "checksum_mismatch", "ChecksumMismatch")
}

// quarantinedNodeFor is quarantinedNode with a given taint value and
// condition reason.
func quarantinedNodeFor(name string, age time.Duration, value, reason string) *corev1.Node {
	n := freshNode(name, age)
	n.Spec.Taints = []corev1.Taint{{
		Key:    mismatchTaintKey,
		Value:  value,
		Effect: corev1.TaintEffectNoSchedule,
	}}
	n.Status.Conditions = append(n.Status.Conditions, corev1.NodeCondition{
		Type:   mismatchCondition,
		Status: corev1.ConditionTrue,
		Reason: reason,
	})
	return n
}

func findTaint(node *corev1.Node, key string) *corev1.Taint {
	for i := range node.Spec.Taints {
		if node.Spec.Taints[i].Key == key {
			return &node.Spec.Taints[i]
		}
	}
	return nil
}

func findCondition(node *corev1.Node, typ corev1.NodeConditionType) *corev1.NodeCondition {
	for i := range node.Status.Conditions {
		if node.Status.Conditions[i].Type == typ {
			return &node.Status.Conditions[i]
		}
	}
	return nil
}
