package constants

// PresenceStatus is the canonical status for a delivery in a presence report.
type PresenceStatus string

// Stable values (written verbatim into reports).
const (
	PresencePresent PresenceStatus = "Present"
	PresenceMissing PresenceStatus = "Missing"
	PresenceExtra   PresenceStatus = "Extra (No Manifest)"
)

// SortRank orders presence statuses the way the check report lists them:
// Missing first, then Present, then Extra.
func (s PresenceStatus) SortRank() int {
	switch s {
	case PresenceMissing:
		return 0
	case PresencePresent:
		return 1
	case PresenceExtra:
		return 2
	}
	return 3
}

// OverallMatch is the categorical outcome of a content comparison.
type OverallMatch string

const (
	MatchYes     OverallMatch = "Yes"     // all three checks passed
	MatchPartial OverallMatch = "Partial" // exactly two checks passed
	MatchNo      OverallMatch = "No"      // one or zero checks passed
	MatchError   OverallMatch = "Error"   // extraction failed, no checks attempted
)

// ResolutionStatus is the consolidated lifecycle label per delivery.
type ResolutionStatus string

const (
	ResolutionClosed       ResolutionStatus = "Closed"
	ResolutionHasIssues    ResolutionStatus = "Has Issues"
	ResolutionPendingPOD   ResolutionStatus = "Pending POD"
	ResolutionReadyToClose ResolutionStatus = "Ready to Close"
	ResolutionUnknown      ResolutionStatus = "Unknown"
)

// Severity grades a detected document issue.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// SortRank orders severities High < Medium < Low for report sorting.
func (s Severity) SortRank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 3
}

// SortRank orders resolution statuses the way the status report lists them:
// actionable rows first.
func (s ResolutionStatus) SortRank() int {
	switch s {
	case ResolutionReadyToClose:
		return 0
	case ResolutionHasIssues:
		return 1
	case ResolutionPendingPOD:
		return 2
	case ResolutionClosed:
		return 3
	}
	return 4
}
