package types

import "fmt"

// ConsentDraft holds the current best-known text for every section of
// the consent document. The shape is fixed: marshaling always produces
// exactly the seven section keys, each a string.
type ConsentDraft struct {
	Summary              string `json:"summary"`
	Background           string `json:"background"`
	NumberOfParticipants string `json:"number_of_participants"`
	StudyProcedures      string `json:"study_procedures"`
	AltProcedures        string `json:"alt_procedures"`
	Risks                string `json:"risks"`
	Benefits             string `json:"benefits"`
}

// Set replaces the text for one section. Unknown ids are a programming
// error and are rejected instead of silently dropped.
func (d *ConsentDraft) Set(id SectionID, text string) error {
	switch id {
	case SectionSummary:
		d.Summary = text
	case SectionBackground:
		d.Background = text
	case SectionNumberOfParticipants:
		d.NumberOfParticipants = text
	case SectionStudyProcedures:
		d.StudyProcedures = text
	case SectionAltProcedures:
		d.AltProcedures = text
	case SectionRisks:
		d.Risks = text
	case SectionBenefits:
		d.Benefits = text
	default:
		return fmt.Errorf("unknown section: %q", id)
	}
	return nil
}

// Get returns the current text for one section.
func (d *ConsentDraft) Get(id SectionID) (string, error) {
	switch id {
	case SectionSummary:
		return d.Summary, nil
	case SectionBackground:
		return d.Background, nil
	case SectionNumberOfParticipants:
		return d.NumberOfParticipants, nil
	case SectionStudyProcedures:
		return d.StudyProcedures, nil
	case SectionAltProcedures:
		return d.AltProcedures, nil
	case SectionRisks:
		return d.Risks, nil
	case SectionBenefits:
		return d.Benefits, nil
	default:
		return "", fmt.Errorf("unknown section: %q", id)
	}
}

// NewConsentDraftFromMap builds a draft from a field map, rejecting
// unknown keys. Missing keys default to the empty string.
func NewConsentDraftFromMap(fields map[string]string) (*ConsentDraft, error) {
	d := &ConsentDraft{}
	for field, text := range fields {
		id, err := ParseSectionID(field)
		if err != nil {
			return nil, err
		}
		if err := d.Set(id, text); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// DraftSnapshot is one complete view of a generation session's state.
// Sections always carries all seven keys; Errors records tasks that
// failed without aborting their siblings. Done marks the final
// snapshot of the session.
type DraftSnapshot struct {
	Sections ConsentDraft         `json:"sections"`
	Errors   map[SectionID]string `json:"errors,omitempty"`
	Done     bool                 `json:"done"`
}
