package report

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/justin-oleary/perfsuite/pkg/suite"
)

// Host describes the machine a run executed on.
type Host struct {
	Hostname   string   `json:"hostname"`
	GOOS       string   `json:"goos"`
	GOARCH     string   `json:"goarch"`
	GoVersion  string   `json:"go_version"`
	NumCPU     int      `json:"num_cpu"`
	GOMAXPROCS int      `json:"gomaxprocs"`
	Backends   []string `json:"backends"`
	GPUName    string   `json:"gpu_name"`
	GPUs       []GPU    `json:"gpus,omitempty"`
}

// GPU is one visible device as reported by nvidia-smi.
type GPU struct {
	Name          string `json:"name"`
	DriverVersion string `json:"driver_version"`
	MemoryMiB     int    `json:"memory_mib"`
}

// DetectHost gathers host information. GPU fields stay "unknown" or empty
// when nvidia-smi is unavailable.
func DetectHost() Host {
	hostname, _ := os.Hostname()
	gpus, _ := queryGPUs()
	return Host{
		Hostname:   hostname,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		GoVersion:  runtime.Version(),
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Backends:   suite.Backends(),
		GPUName:    DetectGPUName(),
		GPUs:       gpus,
	}
}

// DetectGPUName returns the name of GPU 0 as reported by nvidia-smi, or
// "unknown" if nvidia-smi is unavailable.
func DetectGPUName() string {
	out, err := exec.Command(
		"nvidia-smi", "--query-gpu=name", "--format=csv,noheader", "--id=0",
	).Output()
	if err != nil {
		return "unknown"
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "unknown"
	}
	return name
}

func queryGPUs() ([]GPU, error) {
	out, err := exec.Command(
		"nvidia-smi",
		"--query-gpu=name,driver_version,memory.total",
		"--format=csv,noheader,nounits",
	).Output()
	if err != nil {
		return nil, fmt.Errorf("nvidia-smi: %w", err)
	}
	return parseGPUs(string(out))
}

// parseGPUs reads one "name, driver, memory" CSV row per device.
func parseGPUs(out string) ([]GPU, error) {
	var result []GPU
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, ", ")
		if len(fields) != 3 {
			return nil, fmt.Errorf("nvidia-smi: unexpected field count in %q", line)
		}
		mem := strings.TrimSpace(fields[2])
		mib, _ := strconv.Atoi(mem) // "[N/A]" reads as 0
		result = append(result, GPU{
			Name:          strings.TrimSpace(fields[0]),
			DriverVersion: strings.TrimSpace(fields[1]),
			MemoryMiB:     mib,
		})
	}
	return result, nil
}
