// Package analyzer_tests provides end-to-end tests over the programs in
// testdata.
//
// Each program is analyzed and its report compared against a snapshot
// stored in the snapshots/ directory. Snapshots can be rewritten with
// UPDATE_SNAPSHOTS=1.
package analyzer_tests

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/HugoDaniel/deadstore/internal/analyzer"
)

const (
	snapshotSeparator = "\n================================================================================\n"
	reportHeader      = "---------- /report.txt ----------"
)

// ----------------------------------------------------------------------------
// Snapshot Testing Infrastructure
// ----------------------------------------------------------------------------

type testSuite struct {
	t            *testing.T
	snapshotDir  string
	snapshotFile string
	snapshots    map[string]string
	results      []testResult
}

type testResult struct {
	name   string
	output string
}

func newTestSuite(t *testing.T, snapshotFile string) *testSuite {
	_, filename, _, _ := runtime.Caller(0)
	suite := &testSuite{
		t:            t,
		snapshotDir:  filepath.Join(filepath.Dir(filename), "snapshots"),
		snapshotFile: snapshotFile,
		snapshots:    make(map[string]string),
	}
	suite.loadSnapshots()
	return suite
}

// loadSnapshots reads entries of the form:
//
//	Name
//	---------- /report.txt ----------
//	<report>
//	================================================================================
func (s *testSuite) loadSnapshots() {
	data, err := os.ReadFile(filepath.Join(s.snapshotDir, s.snapshotFile))
	if err != nil {
		return
	}

	for _, entry := range strings.Split(string(data), snapshotSeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		lines := strings.SplitN(entry, "\n", 3)
		if len(lines) < 3 {
			continue
		}
		s.snapshots[strings.TrimSpace(lines[0])] = lines[2]
	}
}

func (s *testSuite) saveSnapshots() {
	var builder strings.Builder
	for _, result := range s.results {
		builder.WriteString(result.name)
		builder.WriteString("\n" + reportHeader + "\n")
		builder.WriteString(result.output)
		builder.WriteString(snapshotSeparator)
	}

	if err := os.MkdirAll(s.snapshotDir, 0o755); err != nil {
		s.t.Fatalf("creating snapshot dir: %v", err)
	}
	path := filepath.Join(s.snapshotDir, s.snapshotFile)
	if err := os.WriteFile(path, []byte(builder.String()), 0o644); err != nil {
		s.t.Fatalf("writing snapshots: %v", err)
	}
}

func (s *testSuite) expectReport(name string, source string) {
	s.t.Run(name, func(t *testing.T) {
		output := render(analyzer.Analyze(source))
		s.results = append(s.results, testResult{name: name, output: output})

		if expected, ok := s.snapshots[name]; ok {
			if output != expected {
				t.Errorf("\nexpected:\n%s\nactual:\n%s", expected, output)
			}
		} else if os.Getenv("UPDATE_SNAPSHOTS") == "" {
			t.Logf("No snapshot for %s (run with UPDATE_SNAPSHOTS=1 to create)", name)
		}
	})
}

func (s *testSuite) done() {
	if os.Getenv("UPDATE_SNAPSHOTS") == "1" {
		s.saveSnapshots()
		s.t.Logf("Updated snapshots in %s", s.snapshotFile)
	}
}

// render prints one line per error or dead store.
func render(result analyzer.Result) string {
	var lines []string
	for _, e := range result.Errors {
		lines = append(lines, fmt.Sprintf("error[%s] %d:%d: %s", e.Code, e.Line, e.Column, e.Message))
	}
	for _, f := range result.DeadStores {
		lines = append(lines, fmt.Sprintf("%d:%d: %s", f.Line, f.Column, f.Statement))
	}
	if len(lines) == 0 {
		return "(no dead stores)"
	}
	return strings.Join(lines, "\n")
}

// ----------------------------------------------------------------------------
// Test Data
// ----------------------------------------------------------------------------

func testdataDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata")
}

func loadTestFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testdataDir(), name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// ----------------------------------------------------------------------------
// Test Cases
// ----------------------------------------------------------------------------

func TestCorpus(t *testing.T) {
	suite := newTestSuite(t, "snapshots_corpus.txt")
	defer suite.done()

	for _, name := range []string{
		"loop",
		"straight",
		"negative",
		"if",
		"branchy",
		"branchy_read",
		"brackets",
		"brackets_no_z",
		"trailing_end",
	} {
		suite.expectReport(name, loadTestFile(t, name+".ds"))
	}
}

func TestCorpusHasSnapshots(t *testing.T) {
	suite := newTestSuite(t, "snapshots_corpus.txt")
	if len(suite.snapshots) == 0 {
		t.Fatal("no snapshots loaded")
	}
}
