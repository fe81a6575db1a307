// Package depaudit wraps `npm audit --json` so the site's JavaScript
// dependencies can be checked from the same ops binary as everything else.
package depaudit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"sort"
	"strings"
)

// Severity levels in ascending order of concern.
const (
	SeverityInfo     = "info"
	SeverityLow      = "low"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

var severityRank = map[string]int{
	SeverityInfo:     0,
	SeverityLow:      1,
	SeverityModerate: 2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Finding is one vulnerable package.
type Finding struct {
	Package      string `json:"package"`
	Severity     string `json:"severity"`
	Range        string `json:"range,omitempty"`
	FixAvailable bool   `json:"fix_available"`
}

// Report is the digest of one audit.
type Report struct {
	Dir      string         `json:"dir"`
	Counts   map[string]int `json:"counts"`
	Findings []Finding      `json:"findings,omitempty"`
}

// AboveFloor reports whether any finding meets or exceeds the given
// severity. Unknown severities are treated as critical so new npm
// levels fail loud instead of slipping through.
func (r *Report) AboveFloor(floor string) bool {
	min, ok := severityRank[floor]
	if !ok {
		min = severityRank[SeverityLow]
	}
	for _, f := range r.Findings {
		rank, known := severityRank[f.Severity]
		if !known || rank >= min {
			return true
		}
	}
	return false
}

// Auditor shells out to npm. execCommand is swapped in tests.
type Auditor struct {
	Dir string

	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewAuditor(dir string) *Auditor {
	return &Auditor{Dir: dir, execCommand: exec.CommandContext}
}

// npmAudit mirrors the npm v7+ audit JSON layout.
type npmAudit struct {
	Vulnerabilities map[string]struct {
		Name         string          `json:"name"`
		Severity     string          `json:"severity"`
		Range        string          `json:"range"`
		FixAvailable json.RawMessage `json:"fixAvailable"`
	} `json:"vulnerabilities"`
	Metadata struct {
		Vulnerabilities map[string]int `json:"vulnerabilities"`
	} `json:"metadata"`
}

// Run executes the audit. npm exits non-zero when vulnerabilities are
// found, so a failed exit with parseable JSON is still a valid report.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	cmd := a.execCommand(ctx, "npm", "audit", "--json")
	cmd.Dir = a.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var parsed npmAudit
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("npm audit: %w: %s", runErr, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("parse npm audit output: %w", err)
	}

	report := &Report{Dir: a.Dir, Counts: parsed.Metadata.Vulnerabilities}
	for _, v := range parsed.Vulnerabilities {
		report.Findings = append(report.Findings, Finding{
			Package:      v.Name,
			Severity:     v.Severity,
			Range:        v.Range,
			FixAvailable: fixAvailable(v.FixAvailable),
		})
	}
	sort.Slice(report.Findings, func(i, j int) bool {
		ri, rj := severityRank[report.Findings[i].Severity], severityRank[report.Findings[j].Severity]
		if ri != rj {
			return ri > rj
		}
		return report.Findings[i].Package < report.Findings[j].Package
	})

	log.Printf("[depaudit] %s: %d vulnerable packages", a.Dir, len(report.Findings))
	return report, nil
}

// fixAvailable in npm's output is either a bool or an object describing
// the fix; any non-false value means a fix exists.
func fixAvailable(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return true
}

// Text renders the report for terminal use.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "audit of %s: %d vulnerable packages\n", r.Dir, len(r.Findings))
	for _, f := range r.Findings {
		fix := "no fix"
		if f.FixAvailable {
			fix = "fix available"
		}
		fmt.Fprintf(&b, "  %-8s %-24s %s (%s)\n", f.Severity, f.Package, f.Range, fix)
	}
	return b.String()
}

// JSON renders the report for machine use.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
