package monitor

import "sitewatch/internal/differ"

// SourceOutcome is the structured result of one monitoring attempt on a
// source. It is ephemeral and only returned up the call chain.
type SourceOutcome struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	ArchivedKey string              `json:"archived_key,omitempty"`
	NewURLs     []string            `json:"new_urls"`
	ChangeStats *differ.ChangeStats `json:"change_stats,omitempty"`
}

// failureOutcome builds the canonical failure shape: no archived key, no
// new URLs, no state mutated.
func failureOutcome(message string) *SourceOutcome {
	return &SourceOutcome{
		Success: false,
		Message: message,
		NewURLs: []string{},
	}
}

// DomainResult accumulates the new URLs discovered for one domain during a
// pass.
type DomainResult struct {
	NewURLs  []string `json:"new_urls"`
	TotalNew int      `json:"total_new"`
}

// PassResult is the aggregate of one full pass across the feed registry.
type PassResult struct {
	PerDomain      map[string]*DomainResult `json:"per_domain"`
	AllNewURLs     []string                 `json:"all_new_urls"`
	ProcessedCount int                      `json:"processed_count"`
	ErrorCount     int                      `json:"error_count"`
}

// NewPassResult creates an empty pass result.
func NewPassResult() *PassResult {
	return &PassResult{
		PerDomain:  make(map[string]*DomainResult),
		AllNewURLs: []string{},
	}
}

// addSourceResult folds one successful source outcome into the aggregate.
func (pr *PassResult) addSourceResult(domain string, newURLs []string) {
	if len(newURLs) == 0 {
		return
	}
	domainResult, exists := pr.PerDomain[domain]
	if !exists {
		domainResult = &DomainResult{NewURLs: []string{}}
		pr.PerDomain[domain] = domainResult
	}
	domainResult.NewURLs = append(domainResult.NewURLs, newURLs...)
	domainResult.TotalNew += len(newURLs)
	pr.AllNewURLs = append(pr.AllNewURLs, newURLs...)
}
