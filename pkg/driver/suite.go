// Package driver loads and runs scripted conformance suites: YAML files
// of source snippets paired with their expected result or error. The CLI
// exposes them through 'anilang test'; the language's own regression
// suites under testdata/ run through the same loader.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is one parsed suite file.
type Suite struct {
	Path  string
	Name  string
	Cases []Case

	// SharedFrame runs every case against one persistent global frame, the
	// way a REPL session would, so later cases see earlier declarations.
	SharedFrame bool
}

// Case is a single scripted check. Exactly one of Want and WantError is
// set: Want is compared against the rendering of the result value,
// WantError against the runtime or syntax error kind.
type Case struct {
	Name      string
	Source    string
	Want      string
	WantError string
}

// ValidationError aggregates suite validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "suite: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("suite validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadSuite parses a suite file from disk, returning a validated suite.
func LoadSuite(path string) (*Suite, error) {
	if path == "" {
		return nil, fmt.Errorf("suite: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("suite: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("suite: open %s: %w", absPath, err)
	}
	defer file.Close()

	suite, err := ReadSuite(file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("suite: parse %s: %w", absPath, err)
	}
	suite.Path = absPath
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	}
	return suite, nil
}

// ReadSuite parses a suite from a reader.
func ReadSuite(r io.Reader) (*Suite, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw suiteFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite is empty")
		}
		return nil, err
	}

	suite := raw.toSuite()
	if err := suite.validate(); err != nil {
		return nil, err
	}
	return suite, nil
}

func (s *Suite) validate() error {
	var errs ValidationError
	if len(s.Cases) == 0 {
		errs.Issues = append(errs.Issues, "suite defines no cases")
	}
	seen := make(map[string]struct{}, len(s.Cases))
	for i, c := range s.Cases {
		label := c.Name
		if label == "" {
			label = fmt.Sprintf("cases[%d]", i)
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s missing name", label))
		}
		if _, dup := seen[c.Name]; dup && c.Name != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("case %q defined twice", c.Name))
		}
		seen[c.Name] = struct{}{}
		if strings.TrimSpace(c.Source) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("case %q has no source", label))
		}
		if c.Want != "" && c.WantError != "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("case %q sets both want and error", label))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

type suiteFile struct {
	Name        string     `yaml:"name"`
	SharedFrame bool       `yaml:"shared_frame"`
	Cases       []caseYAML `yaml:"cases"`
}

type caseYAML struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Want   string `yaml:"want"`
	Error  string `yaml:"error"`
}

func (sf suiteFile) toSuite() *Suite {
	suite := &Suite{
		Name:        strings.TrimSpace(sf.Name),
		SharedFrame: sf.SharedFrame,
		Cases:       make([]Case, 0, len(sf.Cases)),
	}
	for _, c := range sf.Cases {
		suite.Cases = append(suite.Cases, Case{
			Name:      strings.TrimSpace(c.Name),
			Source:    c.Source,
			Want:      strings.TrimSpace(c.Want),
			WantError: strings.TrimSpace(c.Error),
		})
	}
	return suite
}
