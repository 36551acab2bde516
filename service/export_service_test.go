package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/consent-draft-be/types"
)

func fullSectionData() map[string]string {
	data := make(map[string]string, len(types.SectionIDs))
	for _, id := range types.SectionIDs {
		data[string(id)] = "## Section\n\nGenerated text for " + string(id) + "."
	}
	return data
}

func TestExportRendersAllSections(t *testing.T) {
	svc := NewExportService(NewMarkdownRenderer())

	artifact, filename, contentType, err := svc.Export(types.ExportRequest{
		Title: "Gene Therapy Trial",
		Data:  fullSectionData(),
	})
	require.NoError(t, err)

	content := string(artifact)
	for _, id := range types.SectionIDs {
		assert.Contains(t, content, "Generated text for "+string(id))
	}
	assert.Contains(t, content, "**Study Title:** Gene Therapy Trial")
	assert.Contains(t, content, "## Right of the Investigator to Withdraw Participants")
	assert.Contains(t, content, "## New Information")

	assert.Equal(t, "Gene_Therapy_Trial.md", filename)
	assert.Equal(t, "text/markdown; charset=utf-8", contentType)
}

func TestExportMarksMissingSections(t *testing.T) {
	svc := NewExportService(NewMarkdownRenderer())
	data := fullSectionData()
	data["risks"] = "   "

	artifact, _, _, err := svc.Export(types.ExportRequest{Title: "Trial", Data: data})
	require.NoError(t, err)

	assert.Contains(t, string(artifact), "## Risks\n\n*This section has not been generated.*")
}

func TestExportRejectsMissingData(t *testing.T) {
	svc := NewExportService(NewMarkdownRenderer())

	_, _, _, err := svc.Export(types.ExportRequest{Title: "Trial"})
	assert.ErrorContains(t, err, "missing required field: data")
}

func TestExportRejectsUnknownField(t *testing.T) {
	svc := NewExportService(NewMarkdownRenderer())
	data := fullSectionData()
	data["conclusion"] = "not a real section"

	_, _, _, err := svc.Export(types.ExportRequest{Title: "Trial", Data: data})
	assert.ErrorContains(t, err, "unknown section")
}

func TestExportDefaultsTitle(t *testing.T) {
	svc := NewExportService(NewMarkdownRenderer())

	artifact, filename, _, err := svc.Export(types.ExportRequest{Data: fullSectionData()})
	require.NoError(t, err)

	assert.Equal(t, "Informed_Consent_Document.md", filename)
	assert.Contains(t, string(artifact), "**Study Title:** Informed Consent Document")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CAR-T Phase II", "CAR-T_Phase_II"},
		{"study/..\\evil", "studyevil"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in))
	}
}
