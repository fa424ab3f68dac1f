// Package reconcile merges extraction results into draft documents under the
// per-field origin policy, screens implausible counterparty names, and
// validates drafts for submission.
package reconcile

import (
	"regexp"
	"strings"
	"unicode"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeEntity case-folds a name and strips everything but letters and
// digits, so "Acme, S.L." and "ACME SL" compare equal.
func NormalizeEntity(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}

// SameEntity reports whether candidate normalizes to any of the given
// company names.
func SameEntity(candidate string, companyNames []string) bool {
	normalized := NormalizeEntity(candidate)
	if normalized == "" {
		return false
	}
	for _, name := range companyNames {
		if normalized == NormalizeEntity(name) {
			return true
		}
	}
	return false
}

var legalFormTokens = []string{
	"SLU", "SL", "SLL", "SAU", "SA", "SLP", "SCP", "SC",
	"SCOOP", "COOP", "COOPERATIVA", "AIE", "UTE", "CB",
	"LTD", "LIMITED", "INC", "GMBH", "SARL", "BV", "NV", "SAS", "SRL",
}

var legalFormStrip = regexp.MustCompile(`[\s.]`)

// HasLegalForm reports whether a name carries a company legal-form token
// (S.L., S.A., Ltd, GmbH, ...), spacing and dots ignored.
func HasLegalForm(name string) bool {
	compact := strings.ToUpper(legalFormStrip.ReplaceAllString(name, ""))
	for _, token := range legalFormTokens {
		if strings.Contains(compact, token) {
			return true
		}
	}
	return false
}

var wordSplit = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// LooksLikePerson flags names shaped like a personal full name (two or three
// alphabetic tokens) that carry no legal form. Invoices name companies;
// person-shaped extractions are usually a clerk or salesperson.
func LooksLikePerson(name string) bool {
	cleaned := strings.TrimSpace(wordSplit.ReplaceAllString(name, " "))
	if cleaned == "" || HasLegalForm(name) {
		return false
	}
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if isAlphabetic(tok) {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) != 2 && len(tokens) != 3 {
		return false
	}
	for _, tok := range tokens {
		if len([]rune(tok)) <= 1 {
			return false
		}
	}
	return true
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

var forbiddenKeywords = []string{
	"vendedor", "comercial", "agente", "transporte", "reparto",
	"envío", "envio", "logística", "logistica", "shipping",
}

// ContainsForbiddenKeyword flags names that are role or shipping labels
// rather than a counterparty.
func ContainsForbiddenKeyword(name string) bool {
	lowered := strings.ToLower(name)
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// PlausibleCounterparty screens an extracted counterparty name: it must be
// non-empty, not person-shaped, not a role label, carry a legal form, and
// not be the active company itself.
func PlausibleCounterparty(candidate string, companyNames []string) bool {
	value := strings.TrimSpace(candidate)
	if value == "" {
		return false
	}
	if LooksLikePerson(value) {
		return false
	}
	if ContainsForbiddenKeyword(value) {
		return false
	}
	if !HasLegalForm(value) {
		return false
	}
	if SameEntity(value, companyNames) {
		return false
	}
	return true
}
