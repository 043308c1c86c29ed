// Command agent watches its own Node and runs the kernel suite whenever the
// node (re)joins the cluster, quarantining it on checksum deviations.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/justin-oleary/perfsuite/pkg/executor"
	"github.com/justin-oleary/perfsuite/pkg/k8s"
	_ "github.com/justin-oleary/perfsuite/pkg/metrics" // register collectors
	"github.com/justin-oleary/perfsuite/pkg/params"
	"github.com/justin-oleary/perfsuite/pkg/report"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// nodeLocks ensures ReconcileNode never runs concurrently for the same node.
// Values are *sync.Mutex; TryLock discards duplicate Ready events that fire
// while a suite run is already in flight.
var nodeLocks sync.Map

type agentConfig struct {
	nodeName    string
	namespace   string
	suiteArgs   string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	cfg := agentConfig{
		nodeName:  os.Getenv("NODE_NAME"),
		namespace: envOr("POD_NAMESPACE", "default"),
		suiteArgs: envOr("PERFSUITE_ARGS", "-k Stream Basic --sizefrac 0.1"),
	}
	cmd := &cobra.Command{
		Use:          "perfsuite-agent",
		Short:        "Validate kernel checksums when a node becomes Ready",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgent(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.nodeName, "node", cfg.nodeName, "node to watch (env NODE_NAME)")
	f.StringVar(&cfg.namespace, "namespace", cfg.namespace, "namespace for results ConfigMaps (env POD_NAMESPACE)")
	f.StringVar(&cfg.suiteArgs, "suite-args", cfg.suiteArgs, "perfsuite arguments for the validation run (env PERFSUITE_ARGS)")
	f.StringVar(&cfg.metricsAddr, "metrics-addr", ":9090", "address for the Prometheus /metrics endpoint")
	return cmd
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("agent failed", "err", err)
		os.Exit(1)
	}
}

func runAgent(ctx context.Context, cfg agentConfig) error {
	if cfg.nodeName == "" {
		return errors.New("NODE_NAME not set, mount the node name via the downward API")
	}

	ex, err := newSuite(cfg.suiteArgs)
	if err != nil {
		return err
	}

	restCfg, err := rest.InClusterConfig()
	if err != nil {
		return fmt.Errorf("load in-cluster config: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return fmt.Errorf("create clientset: %w", err)
	}

	ctrl := k8s.NewController(clientset, ex, cfg.namespace)

	go serveMetrics(ctx, cfg.metricsAddr)

	slog.Info("perfsuite-agent starting", "node", cfg.nodeName, "namespace", cfg.namespace, "suite_args", cfg.suiteArgs)
	run(ctx, ctrl, clientset, cfg.nodeName)
	return nil
}

// newSuite builds the validation executor from a perfsuite argument string.
// Results are also written to the configured output directory so a node
// exporter textfile collector can pick up the metrics file.
func newSuite(args string) (*executor.Executor, error) {
	rp := params.New(strings.Fields(args))
	if rp.InputState() != params.GoodToRun {
		return nil, fmt.Errorf("suite arguments %q: state %s: %s",
			args, rp.InputState(), strings.Join(rp.Errors(), "; "))
	}
	return executor.New(rp, executor.WithReporters(report.NewWriter(rp))), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// serveMetrics runs the Prometheus /metrics endpoint until ctx is cancelled.
// Exits cleanly on SIGINT/SIGTERM via srv.Shutdown.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("metrics server shutdown error", "err", err)
		}
	}()

	slog.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server failed", "err", err)
	}
}

// run watches the node's Ready condition indefinitely, reconnecting with
// exponential backoff whenever the API server closes the watch channel.
// The API server closes watch streams every few minutes; that is not an
// error.
func run(ctx context.Context, ctrl *k8s.Controller, clientset kubernetes.Interface, nodeName string) {
	const maxBackoff = 30 * time.Second
	backoff := time.Second

	for {
		if err := watchOnce(ctx, ctrl, clientset, nodeName); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("watch ended, reconnecting", "node", nodeName, "err", err, "backoff", backoff)
		}
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff = min(backoff*2, maxBackoff)
		}
	}
}

// watchOnce opens a single watch stream and processes node events until the
// stream closes or the context is cancelled. A closed channel is returned as
// nil so run() reconnects without logging a spurious error.
func watchOnce(ctx context.Context, ctrl *k8s.Controller, clientset kubernetes.Interface, nodeName string) error {
	w, err := clientset.CoreV1().Nodes().Watch(ctx, metav1.ListOptions{
		FieldSelector: "metadata.name=" + nodeName,
	})
	if err != nil {
		return fmt.Errorf("watch node %s: %w", nodeName, err)
	}
	defer w.Stop()

	var wasReady bool

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.ResultChan():
			if !ok {
				return nil
			}
			if ev.Type != watch.Modified && ev.Type != watch.Added {
				continue
			}
			node, ok := ev.Object.(*corev1.Node)
			if !ok {
				continue
			}

			ready := k8s.IsNodeReady(node)
			if ready && !wasReady {
				go tryReconcile(ctx, ctrl, nodeName)
			}
			wasReady = ready
		}
	}
}

// tryReconcile acquires a per-node TryLock before calling ReconcileNode.
// Events arriving while a run is in flight are dropped; the running suite
// decides the taint.
func tryReconcile(ctx context.Context, ctrl *k8s.Controller, nodeName string) {
	v, _ := nodeLocks.LoadOrStore(nodeName, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	if !mu.TryLock() {
		slog.Info("reconcile already in progress, discarding duplicate ready event", "node", nodeName)
		return
	}
	defer mu.Unlock()

	if err := ctrl.ReconcileNode(ctx, nodeName); err != nil {
		slog.Error("reconcile failed", "node", nodeName, "err", err)
	}
}
