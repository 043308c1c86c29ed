package k8s

import (
	"bytes"
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/justin-oleary/perfsuite/pkg/executor"
	"github.com/justin-oleary/perfsuite/pkg/report"
)

const (
	// ResultsKey is the ConfigMap data key holding the JSON results.
	ResultsKey = "results.json"

	labelApp      = "app.kubernetes.io/name"
	labelNode     = "perfsuite.io/node"
	annotationRun = "perfsuite.io/run-id"
	annotationVer = "perfsuite.io/verdict"
)

// Publisher stores the JSON results of a run in a ConfigMap, creating it
// on first use and replacing its data afterwards. It implements
// executor.Reporter.
type Publisher struct {
	client    kubernetes.Interface
	namespace string
	name      string
	node      string
	host      func() report.Host
}

// NewPublisher returns a Publisher writing ConfigMap namespace/name. node
// is recorded as a label and may be empty.
func NewPublisher(client kubernetes.Interface, namespace, name, node string) *Publisher {
	return &Publisher{client: client, namespace: namespace, name: name, node: node, host: report.DetectHost}
}

// ResultsConfigMapName is the per-node ConfigMap name used by the agent.
func ResultsConfigMapName(nodeName string) string { return "perfsuite-results-" + nodeName }

// Report publishes res.
func (p *Publisher) Report(ctx context.Context, res *executor.RunResult) error {
	doc := report.Build(res, p.host())
	var buf bytes.Buffer
	if err := report.EncodeJSON(&buf, doc); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	labels := map[string]string{labelApp: "perfsuite"}
	if p.node != "" {
		labels[labelNode] = p.node
	}
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      p.name,
			Namespace: p.namespace,
			Labels:    labels,
			Annotations: map[string]string{
				annotationRun: res.ID,
				annotationVer: doc.Summary.Verdict,
			},
		},
		Data: map[string]string{ResultsKey: buf.String()},
	}

	cms := p.client.CoreV1().ConfigMaps(p.namespace)
	_, err := cms.Create(ctx, cm, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		_, err = cms.Update(ctx, cm, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("publish results configmap %s/%s: %w", p.namespace, p.name, err)
	}
	return nil
}
