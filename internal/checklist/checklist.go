// Package checklist infers which ADGM filing process a document batch serves
// and verifies the batch against that process's required document list.
package checklist

import (
	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/rulebook"
)

// Process names matching the rulebook checklist keys
const (
	ProcessIncorporation = "company_incorporation"
	ProcessLicensing     = "licensing"
	ProcessEmployment    = "employment"
	ProcessUnknown       = "unknown"
)

// Verifier matches a batch of classified documents against the rulebook's
// process checklists
type Verifier struct {
	rb *rulebook.Rulebook
}

// NewVerifier returns a Verifier backed by the given rulebook
func NewVerifier(rb *rulebook.Rulebook) *Verifier {
	return &Verifier{rb: rb}
}

// Verify infers the process for the classified types and reports which of
// its required documents are present or missing, in checklist order.
func (v *Verifier) Verify(types []model.DocumentType) *model.ChecklistReport {
	process := v.InferProcess(types)
	cl, ok := v.rb.Checklists[process]
	if !ok {
		return &model.ChecklistReport{Process: ProcessUnknown}
	}

	names := displayNames(types)
	report := &model.ChecklistReport{
		Process:       process,
		RequiredCount: len(cl.Required),
	}
	for _, required := range cl.Required {
		if names[required] {
			report.PresentDocs = append(report.PresentDocs, required)
		} else {
			report.MissingDocs = append(report.MissingDocs, required)
		}
	}
	return report
}

// InferProcess picks the filing process the batch most plausibly serves. Any
// incorporation document settles it; otherwise licensing and employment
// compete by match count. An unrecognizable batch defaults to incorporation,
// the most common ADGM filing.
func (v *Verifier) InferProcess(types []model.DocumentType) string {
	names := displayNames(types)

	switch {
	case v.matches(ProcessIncorporation, names) > 0:
		return ProcessIncorporation
	case v.matches(ProcessLicensing, names) > v.matches(ProcessEmployment, names):
		return ProcessLicensing
	case v.matches(ProcessEmployment, names) > 0:
		return ProcessEmployment
	default:
		return ProcessIncorporation
	}
}

// matches counts how many of the process's required documents appear in the
// batch. Duplicate types count once.
func (v *Verifier) matches(process string, names map[string]bool) int {
	n := 0
	for _, required := range v.rb.Checklists[process].Required {
		if names[required] {
			n++
		}
	}
	return n
}

func displayNames(types []model.DocumentType) map[string]bool {
	names := make(map[string]bool, len(types))
	for _, t := range types {
		names[t.DisplayName()] = true
	}
	return names
}
