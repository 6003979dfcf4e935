package translate

import "regexp"

// Extraction defaults applied when the text carries no matching signal.
const (
	defaultAmount   = "$500.00"
	defaultApprover = "any-manager"
)

// Fixed approver identifiers for the role keywords.
const (
	adminApprover    = "any-admin"
	cfoApprover      = "john-smith"
	directorApprover = "john-fox"
)

// amountPattern matches an optional dollar sign followed by digits with
// optional thousands commas and optional two-digit cents, anywhere in the
// text. The first match wins.
var amountPattern = regexp.MustCompile(`\$?(\d+(?:,\d{3})*(?:\.\d{2})?)`)

// teamVocabulary is the fixed set of recognized team names, matched
// case-insensitively. The first occurrence in the text wins.
var teamVocabulary = []string{
	"engineering",
	"marketing",
	"sales",
	"hr",
	"finance",
	"operations",
}

// exclusionKeywords classify the text as an exclusion (auto-approve
// outcome) when any of them occurs as a case-insensitive substring.
var exclusionKeywords = []string{"skip", "auto-approve"}
