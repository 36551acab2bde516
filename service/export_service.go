package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/tieubaoca/consent-draft-be/types"
)

// Renderer turns a complete consent draft into a downloadable
// artifact. Rendering backends (PDF, docx) plug in behind this
// interface; the core only guarantees the draft's structure.
type Renderer interface {
	// Render returns the artifact bytes, its filename and MIME type.
	Render(title string, draft *types.ConsentDraft) ([]byte, string, string, error)
}

// MarkdownRenderer assembles the seven sections, a document heading
// and the static closing boilerplate into one Markdown file.
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

const consentPreamble = `**Parents/Guardians:**
You have the option of having your child or teen join a research study. This is a parental
permission form. It provides a summary of the information the research team will discuss with
you. If you decide that your child can take part in this study, you would sign this form to
confirm your decision. If you sign this form, you will receive a signed copy for your records.

**Assent Teen Participants:**
This form also serves as an assent form. That means that if you choose to take part in this
research study, you would sign this form to confirm your choice. Your parent or guardian would
also need to give their permission and sign this form for you to join the study.`

const consentBoilerplate = `## Right of the Investigator to Withdraw Participants
The investigator can withdraw you from the study without your approval. If at any time the
investigator believes participating in the study is not the best choice of care, the study may be
stopped and other care prescribed. If unexpected medical problems come up, the investigator may
decide to stop your participation in the study.

---

## New Information
Sometimes during the course of a research project, new information becomes available about the
drugs that are being studied. If this happens, your research doctor will tell you about it and
discuss with you whether you want to continue in the study. If you decide to continue in the
study, you may be asked to sign an updated consent form.`

func (r *MarkdownRenderer) Render(title string, draft *types.ConsentDraft) ([]byte, string, string, error) {
	if title == "" {
		title = "Informed Consent Document"
	}

	pieces := []string{
		fmt.Sprintf("## Parental Permission, Teen Assent and Authorization Document\n\n**Study Title:** %s\n\n**Version Date:** %s",
			title, time.Now().Format("January 2, 2006")),
		consentPreamble,
	}
	for _, task := range Registry() {
		text, err := draft.Get(task.ID)
		if err != nil {
			return nil, "", "", err
		}
		if strings.TrimSpace(text) == "" {
			// Keep the heading so the gap is visible in the artifact.
			text = fmt.Sprintf("## %s\n\n*This section has not been generated.*", task.Title)
		}
		pieces = append(pieces, text)
	}
	pieces = append(pieces, consentBoilerplate)

	content := strings.Join(pieces, "\n\n---\n\n")
	filename := sanitizeFilename(title) + ".md"
	return []byte(content), filename, "text/markdown; charset=utf-8", nil
}

// ExportService validates the incoming field set and hands it to the
// configured renderer.
type ExportService struct {
	renderer Renderer
}

func NewExportService(renderer Renderer) *ExportService {
	return &ExportService{renderer: renderer}
}

// Export builds the artifact from a complete set of section values.
// Unknown field names are rejected before any rendering happens.
func (s *ExportService) Export(req types.ExportRequest) ([]byte, string, string, error) {
	if req.Data == nil {
		return nil, "", "", fmt.Errorf("missing required field: data")
	}
	draft, err := types.NewConsentDraftFromMap(req.Data)
	if err != nil {
		return nil, "", "", err
	}
	return s.renderer.Render(req.Title, draft)
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		if r == ' ' {
			return '_'
		}
		return -1
	}, name)
}
