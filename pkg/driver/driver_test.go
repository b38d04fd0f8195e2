package driver

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func loadTestdata(t *testing.T, name string) *Suite {
	t.Helper()
	suite, err := LoadSuite(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("LoadSuite(%s) failed: %v", name, err)
	}
	return suite
}

func TestCoreSuitePasses(t *testing.T) {
	for _, name := range []string{"core.yml", "errors.yml", "session.yml"} {
		suite := loadTestdata(t, name)
		for _, result := range Run(suite) {
			if !result.Passed {
				t.Errorf("%s/%s: %s", suite.Name, result.Case.Name, result.Detail)
			}
		}
	}
}

func TestSuiteNameDefaultsToFilename(t *testing.T) {
	suite := loadTestdata(t, "core.yml")
	if suite.Name != "core" {
		t.Errorf("suite name is %q, want %q", suite.Name, "core")
	}
}

func TestSharedFrameIsolation(t *testing.T) {
	suite := &Suite{Cases: []Case{
		{Name: "declare", Source: "let a = 1", Want: "1"},
		{Name: "leaked", Source: "a", WantError: "UndefinedVariable"},
	}}
	for _, result := range Run(suite) {
		if !result.Passed {
			t.Errorf("%s: %s", result.Case.Name, result.Detail)
		}
	}
}

func TestFailureReporting(t *testing.T) {
	suite := &Suite{Cases: []Case{
		{Name: "wrong value", Source: "1 + 1", Want: "3"},
		{Name: "wanted error", Source: "1 + 1", WantError: "TypeError"},
		{Name: "wrong kind", Source: "missing", WantError: "TypeError"},
	}}
	results := Run(suite)
	for _, result := range results {
		if result.Passed {
			t.Errorf("%s passed, want failure", result.Case.Name)
		}
		if result.Detail == "" {
			t.Errorf("%s carries no detail", result.Case.Name)
		}
	}
	if got := results[2].Got; got != "UndefinedVariable" {
		t.Errorf("wrong kind case got %q, want UndefinedVariable", got)
	}
}

func TestReadSuiteValidation(t *testing.T) {
	_, err := ReadSuite(strings.NewReader(`
name: broken
cases:
  - name: both
    source: "1"
    want: "1"
    error: TypeError
  - source: ""
`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error is %T, want *ValidationError", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("got %d issues, want 3: %v", len(verr.Issues), verr.Issues)
	}
}

func TestReadSuiteRejectsUnknownFields(t *testing.T) {
	_, err := ReadSuite(strings.NewReader("name: x\nbogus: true\ncases: [{name: a, source: \"1\", want: \"1\"}]"))
	if err == nil {
		t.Fatal("unknown field accepted")
	}
}

func TestLoadSuiteMissingFile(t *testing.T) {
	if _, err := LoadSuite(filepath.Join("testdata", "nope.yml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
