// Package models defines data structures for Myntr
package models

import "strings"

// DefaultRiskTolerance is used when a query omits its risk label.
const DefaultRiskTolerance = "medium"

// FinancialQuery is the body of POST /analyze.
// RiskTolerance is free text (low/medium/high by convention) and is never validated.
type FinancialQuery struct {
	Question      string `json:"question"`
	RiskTolerance string `json:"risk_tolerance"`
}

// Normalize fills the default risk tolerance for a blank label.
func (q FinancialQuery) Normalize() FinancialQuery {
	if strings.TrimSpace(q.RiskTolerance) == "" {
		q.RiskTolerance = DefaultRiskTolerance
	}
	return q
}

// FinancialAdvice is the structured answer returned by POST /analyze.
type FinancialAdvice struct {
	Answer          string          `json:"answer"`
	Recommendations []string        `json:"recommendations"`
	AdditionalInfo  *AdditionalInfo `json:"additional_info"`
}

// AdditionalInfo carries optional structured extras parsed from the model output.
type AdditionalInfo struct {
	SuggestedAllocation map[string]string `json:"suggested_allocation"`
}

// Allocation returns the suggested allocation map, or nil when absent.
func (a *FinancialAdvice) Allocation() map[string]string {
	if a == nil || a.AdditionalInfo == nil {
		return nil
	}
	return a.AdditionalInfo.SuggestedAllocation
}
