package types

import "fmt"

// SectionID identifies one of the fixed consent document sections.
type SectionID string

const (
	SectionSummary              SectionID = "summary"
	SectionBackground           SectionID = "background"
	SectionNumberOfParticipants SectionID = "number_of_participants"
	SectionStudyProcedures      SectionID = "study_procedures"
	SectionAltProcedures        SectionID = "alt_procedures"
	SectionRisks                SectionID = "risks"
	SectionBenefits             SectionID = "benefits"
)

// SectionIDs lists every section in document order.
var SectionIDs = []SectionID{
	SectionSummary,
	SectionBackground,
	SectionNumberOfParticipants,
	SectionStudyProcedures,
	SectionAltProcedures,
	SectionRisks,
	SectionBenefits,
}

// IsValid reports whether id names a known section.
func (id SectionID) IsValid() bool {
	for _, s := range SectionIDs {
		if s == id {
			return true
		}
	}
	return false
}

// ParseSectionID converts a request field name into a SectionID.
func ParseSectionID(field string) (SectionID, error) {
	id := SectionID(field)
	if !id.IsValid() {
		return "", fmt.Errorf("unknown section: %q", field)
	}
	return id, nil
}

// SectionTask is one fixed generation job. It is fully defined by its
// instruction text and length contract; the engine treats every task
// identically.
type SectionTask struct {
	ID       SectionID
	Title    string // heading required at the top of the generated text
	Prompt   string // instruction sent to the generation backend
	MinWords int
	MaxWords int
}
