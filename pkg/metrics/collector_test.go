// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-secretshare.
//
// go-secretshare is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.


package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectOnce(t *testing.T) {
	Enable()

	Goroutines.Set(0)
	MemoryAllocBytes.Set(0)
	LastRunTimestamp.Set(0)

	CollectOnce()

	if testutil.ToFloat64(Goroutines) < 1 {
		t.Error("Expected goroutines gauge to be set")
	}
	if testutil.ToFloat64(MemoryAllocBytes) <= 0 {
		t.Error("Expected memory alloc gauge to be set")
	}
	if testutil.ToFloat64(LastRunTimestamp) <= 0 {
		t.Error("Expected last run timestamp to be set")
	}
}

func TestCollectOnceWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	Goroutines.Set(0)
	CollectOnce()

	if testutil.ToFloat64(Goroutines) != 0 {
		t.Error("Expected goroutines gauge to stay unset when disabled")
	}
}

func TestWriteTextfile(t *testing.T) {
	Enable()
	OperationsTotal.Reset()
	RecordOperation(OpSplit, StatusSuccess, 0.001)

	path := filepath.Join(t.TempDir(), "secretshare.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}

	content := string(data)
	for _, want := range []string{
		`secretshare_operations_total{operation="split",status="success"} 1`,
		"secretshare_goroutines",
		"secretshare_last_run_timestamp_seconds",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected textfile to contain %q", want)
		}
	}
}

func TestWriteTextfileFrom_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_total", Help: "custom"})
	reg.MustRegister(counter)
	counter.Inc()

	path := filepath.Join(t.TempDir(), "custom.prom")
	if err := WriteTextfileFrom(reg, path); err != nil {
		t.Fatalf("WriteTextfileFrom() failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "custom_total 1") {
		t.Errorf("Expected custom counter in output, got:\n%s", data)
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.prom")
	if err := WriteTextfile(path); err == nil {
		t.Error("Expected error for unwritable path")
	}
}
