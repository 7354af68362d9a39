// Package status joins manifest rows with presence and issue findings into a
// per-delivery resolution state. The derivation is a stateless classifier:
// every run re-evaluates all deliveries from scratch, there is no persisted
// transition history.
package status

import (
	"sort"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/issues"
	"github.com/freightdesk/podrec/internal/manifest"
)

// Received is the tri-state POD presence answer per delivery.
type Received string

const (
	ReceivedYes     Received = "Yes"
	ReceivedNo      Received = "No"
	ReceivedUnknown Received = "Unknown"
)

// Resolution is one delivery's consolidated state.
type Resolution struct {
	DeliveryID   string
	Customer     string
	Date         string
	PODReceived  Received
	HasIssues    bool
	IssueDetails string
	Severity     constants.Severity
	Status       constants.ResolutionStatus
	ReadyToClose bool
}

// IndexIssues reduces a list of detected issues to one actionable issue per
// delivery id. Low-severity findings are dropped; where a delivery has
// several actionable issues the last one wins.
func IndexIssues(list []issues.Issue) map[string]issues.Issue {
	idx := make(map[string]issues.Issue)
	for _, iss := range list {
		if !iss.NeedsAction() {
			continue
		}
		idx[iss.DeliveryID] = iss
	}
	return idx
}

// Consolidate derives a Resolution for every manifest record.
//
// Priority is strict: a closed manifest status wins over everything,
// then issues, then missing POD, then received POD; anything else is
// Unknown. Deliveries absent from the presence map (for example when no
// check report was supplied) count as Unknown, not missing.
func Consolidate(records []manifest.Record, presence map[string]constants.PresenceStatus, issueIdx map[string]issues.Issue) []Resolution {
	out := make([]Resolution, 0, len(records))

	for _, rec := range records {
		id := rec.Key()
		r := Resolution{
			DeliveryID: id,
			Customer:   rec.Customer,
			Date:       rec.Date,
		}

		if p, ok := presence[id]; ok {
			if p == constants.PresencePresent {
				r.PODReceived = ReceivedYes
			} else {
				r.PODReceived = ReceivedNo
			}
		} else {
			r.PODReceived = ReceivedUnknown
		}

		if iss, ok := issueIdx[id]; ok {
			r.HasIssues = true
			r.IssueDetails = iss.Details
			r.Severity = iss.Severity
		}

		switch {
		case rec.StatusClosed():
			r.Status = constants.ResolutionClosed
		case r.HasIssues:
			r.Status = constants.ResolutionHasIssues
		case r.PODReceived == ReceivedNo:
			r.Status = constants.ResolutionPendingPOD
		case r.PODReceived == ReceivedYes:
			r.Status = constants.ResolutionReadyToClose
		default:
			r.Status = constants.ResolutionUnknown
		}

		r.ReadyToClose = r.PODReceived == ReceivedYes &&
			!r.HasIssues &&
			r.Status != constants.ResolutionClosed

		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status.SortRank() < out[j].Status.SortRank()
		}
		return out[i].DeliveryID < out[j].DeliveryID
	})
	return out
}

// Summary tallies a consolidated batch for report headers.
type Summary struct {
	Total        int
	Received     int
	Missing      int
	HasIssues    int
	ReadyToClose int
	Closed       int
}

func Summarize(list []Resolution) Summary {
	var s Summary
	s.Total = len(list)
	for _, r := range list {
		if r.PODReceived == ReceivedYes {
			s.Received++
		}
		if r.PODReceived == ReceivedNo {
			s.Missing++
		}
		if r.HasIssues {
			s.HasIssues++
		}
		if r.ReadyToClose {
			s.ReadyToClose++
		}
		if r.Status == constants.ResolutionClosed {
			s.Closed++
		}
	}
	return s
}

// ReadyIDs lists the delivery ids cleared for closure, in report order.
func ReadyIDs(list []Resolution) []string {
	var ids []string
	for _, r := range list {
		if r.ReadyToClose {
			ids = append(ids, r.DeliveryID)
		}
	}
	return ids
}
