package analytics

// StageSet classifies pipeline stage IDs. Multiple stage IDs count as won
// because each pipeline category carries its own terminal stage.
type StageSet map[string]struct{}

func NewStageSet(stageIDs []string) StageSet {
	s := make(StageSet, len(stageIDs))
	for _, id := range stageIDs {
		s[id] = struct{}{}
	}
	return s
}

func (s StageSet) Won(stageID string) bool {
	_, ok := s[stageID]
	return ok
}

// Lead status semantics as the CRM encodes them: "S" success, "F" failure,
// anything else still open.
const (
	semanticSuccess = "S"
	semanticFailure = "F"
)

func IsSuccessful(semanticID string) bool {
	return semanticID == semanticSuccess
}

func IsOpen(semanticID string) bool {
	return semanticID != semanticSuccess && semanticID != semanticFailure
}

// NewLeadStatus is the sentinel status of an untouched lead, used by the
// missed-leads card.
const NewLeadStatus = "NEW"
