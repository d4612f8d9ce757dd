package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"procurement/internal"
	"procurement/internal/template"
)

type Kind string

const (
	KindResolve Kind = "resolve"
	KindExtract Kind = "extract"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"

	VerifyNotRun = "NOT_RUN"
	VerifyPassed = "PASSED"
	VerifyFailed = "FAILED"
)

// Case is one verification scenario. For resolve cases Expect lists the
// canonical names in order, and an explicit empty list expects no match.
// For extract cases Expect lists substrings of the rendered text.
type Case struct {
	Name          string   `yaml:"name"`
	Complexity    string   `yaml:"complexity"`
	Kind          Kind     `yaml:"kind"`
	Input         string   `yaml:"input"`
	Expect        []string `yaml:"expect"`
	ExpectDialect string   `yaml:"expect_dialect"`
}

type Verification struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type Result struct {
	TestName        string       `json:"test_name"`
	Complexity      string       `json:"complexity"`
	Kind            Kind         `json:"kind"`
	TimestampUTC    string       `json:"timestamp_utc"`
	Status          string       `json:"status"`
	Input           string       `json:"input"`
	DurationSeconds float64      `json:"duration_seconds"`
	Output          any          `json:"output,omitempty"`
	Error           string       `json:"error,omitempty"`
	Verification    Verification `json:"verification"`
}

type Tally struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

func (t Tally) Total() int { return t.Success + t.Failure }

func (t *Tally) add(r Result) {
	if r.Status == StatusSuccess {
		t.Success++
	} else {
		t.Failure++
	}
}

type Report struct {
	RunID   string   `json:"run_id"`
	Results []Result `json:"results"`
	Tally   Tally    `json:"tally"`
}

type Resolver interface {
	Resolve(ctx context.Context, query string) (internal.Resolution, error)
}

type Runner struct {
	resolver  Resolver
	extractor *template.Extractor
	logger    *slog.Logger
	now       func() time.Time
}

func NewRunner(resolver Resolver, extractor *template.Extractor) *Runner {
	return &Runner{
		resolver:  resolver,
		extractor: extractor,
		logger:    slog.Default().With("component", "harness"),
		now:       time.Now,
	}
}

func LoadCases(path string) ([]Case, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCases(blob)
}

func ParseCases(blob []byte) ([]Case, error) {
	var doc struct {
		Cases []Case `yaml:"cases"`
	}
	if err := yaml.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("parse cases: %w", err)
	}
	for i, c := range doc.Cases {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("case %d: missing name", i+1)
		}
		if c.Kind != KindResolve && c.Kind != KindExtract {
			return nil, fmt.Errorf("case %q: unknown kind %q", c.Name, c.Kind)
		}
	}
	return doc.Cases, nil
}

// Run executes cases in order. The returned report carries its own tally.
func (r *Runner) Run(ctx context.Context, cases []Case) Report {
	report := Report{RunID: uuid.NewString(), Results: make([]Result, 0, len(cases))}
	for _, c := range cases {
		res := r.runCase(ctx, c)
		report.Tally.add(res)
		report.Results = append(report.Results, res)
	}
	r.logger.Info("verification finished",
		"run_id", report.RunID, "total", report.Tally.Total(), "success", report.Tally.Success, "failure", report.Tally.Failure)
	return report
}

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	res := Result{
		TestName:     c.Name,
		Complexity:   c.Complexity,
		Kind:         c.Kind,
		TimestampUTC: r.now().UTC().Format(time.RFC3339),
		Status:       StatusFailure,
		Input:        c.Input,
		Verification: Verification{Status: VerifyNotRun},
	}

	start := time.Now()
	switch c.Kind {
	case KindResolve:
		resolution, err := r.resolver.Resolve(ctx, c.Input)
		if err != nil {
			res.Error = err.Error()
			break
		}
		res.Output = resolution
		res.Status = StatusSuccess
		if c.Expect != nil {
			res.Verification = verifyNames(c.Expect, resolution.Names)
		}
	case KindExtract:
		doc := r.extractor.Extract(c.Input)
		res.Output = map[string]any{"dialect": doc.Dialect(), "text": doc.Text(), "document": doc}
		res.Status = StatusSuccess
		if c.ExpectDialect != "" || c.Expect != nil {
			res.Verification = verifyDocument(c, doc)
		}
	default:
		res.Error = fmt.Sprintf("unknown kind %q", c.Kind)
	}
	res.DurationSeconds = time.Since(start).Seconds()

	if res.Verification.Status == VerifyFailed {
		res.Status = StatusFailure
	}
	r.logger.Debug("case finished", "name", c.Name, "status", res.Status, "verification", res.Verification.Status)
	return res
}

func verifyNames(want, got []string) Verification {
	if slices.Equal(want, got) {
		return Verification{Status: VerifyPassed, Details: "resolved names match"}
	}
	return Verification{Status: VerifyFailed, Details: fmt.Sprintf("mismatch: resolved %q, expected %q", got, want)}
}

func verifyDocument(c Case, doc template.Document) Verification {
	if c.ExpectDialect != "" && string(doc.Dialect()) != c.ExpectDialect {
		return Verification{Status: VerifyFailed, Details: fmt.Sprintf("dialect %s, expected %s", doc.Dialect(), c.ExpectDialect)}
	}
	text := doc.Text()
	for _, fragment := range c.Expect {
		if !strings.Contains(text, fragment) {
			return Verification{Status: VerifyFailed, Details: fmt.Sprintf("text is missing %q", fragment)}
		}
	}
	return Verification{Status: VerifyPassed, Details: "document matches"}
}

// SaveReport writes the report as indented JSON into dir using a timestamped
// file name and returns the path.
func SaveReport(report Report, dir string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("test_results_%s.json", at.Format("2006-01-02_15-04-05")))
	blob, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
