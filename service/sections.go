package service

import (
	"fmt"
	"strings"

	"github.com/tieubaoca/consent-draft-be/types"
)

// The section registry is static configuration: seven fixed generation
// tasks, each fully defined by its instruction and length contract.
// The fan-out engine iterates whatever Registry returns, so adding a
// section means adding an entry here (and a field on ConsentDraft),
// nothing else.

var sectionTasks = []types.SectionTask{
	{
		ID:       types.SectionSummary,
		Title:    "Study Summary",
		MinWords: 500,
		MaxWords: 1000,
		Prompt: `Please write a summary of the protocol that can be used as the introduction to an informed
consent document for a patient to participate in the study described in the protocol. The summary
should briefly explain the study, the rationale for the study, the risks and benefits of
participation, and that participation is entirely voluntary. You must explain any medical or
technical terms in a way that a high school graduate can understand.

Start the summary with a level 2 Markdown header (##) titled "Study Summary", then continue with
the content without any further subheadings. Produce the entire summary in Markdown format.
All the details of this introductory summary should be specific for this protocol.`,
	},
	{
		ID:       types.SectionBackground,
		Title:    "Background",
		MinWords: 500,
		MaxWords: 1000,
		Prompt: `Please write a summary of the protocol that can be used as the background section of an informed
consent document. It should briefly explain why this patient is being approached to be in the
study, including a brief description of the disease being studied, a description of the study
interventions, and the scientific reasons the investigators believe the intervention might help.

Do not include the specific study procedures, the risks and benefits, or a statement of
voluntariness, because these are presented in different sections of the document.

Start the summary with a level 2 Markdown header (##) titled "Background", then continue with the
content without any further subheadings. Produce the entire summary in Markdown format.
All the details of this background summary should be specific for this protocol.`,
	},
	{
		ID:       types.SectionNumberOfParticipants,
		Title:    "Number of Participants",
		MinWords: 50,
		MaxWords: 200,
		Prompt: `Please write a summary of the protocol for the "Number of Participants" section of the informed
consent document. Include where the study is being conducted, the funding source, the total number
of participants planned to be enrolled, and the total period of time the study is expected to
enroll subjects. This summary should not require more than 200 words.

Start the summary with a level 2 Markdown header (##) titled "Number of Participants", then
continue with the content without any further subheadings, in Markdown format.
All details should be specific for this protocol.`,
	},
	{
		ID:       types.SectionStudyProcedures,
		Title:    "Study Procedures",
		MinWords: 500,
		MaxWords: 2000,
		Prompt: `Please write a detailed summary of all the study procedures that will be carried out in this
protocol based on the provided context, for the "Study Procedures" section of the informed consent
document. All significant procedures should be included.

Ensure the language is understandable for a non-medical audience. Write the summary as if speaking
directly to the patient (use "you" instead of "the patient"). Exclude any discussion of risks,
benefits, or voluntariness, as they are covered in separate sections.

The summary should begin with a level 2 Markdown header (##) titled "Study Procedures" and include
subheadings to organize the information. Do not go deeper than two subheadings.`,
	},
	{
		ID:       types.SectionAltProcedures,
		Title:    "Alternative Procedures",
		MinWords: 100,
		MaxWords: 500,
		Prompt: `Please write a summary of alternatives to participation in this study, for the "Alternative
Procedures" section of the informed consent document. The summary must be specific to the protocol
and easily understandable by medically untrained readers. This section is usually less than 500
words in length.

Start the summary with a level 2 Markdown header (##) titled "Alternative Procedures", then
continue with the content without any further subheadings, in Markdown format.`,
	},
	{
		ID:       types.SectionRisks,
		Title:    "Risks",
		MinWords: 2000,
		MaxWords: 3000,
		Prompt: `Please write a detailed summary of the possible risks of participating in this clinical trial, for
the "Risks" section of the informed consent document. Cover risks related to the study drug,
device, or intervention; risks from study procedures like blood draws, imaging, or surgeries;
possible allergic reactions or unexpected side effects; risks of data breaches or loss of privacy;
and any unforeseeable or long-term risks.

Make the language simple and accessible for individuals without a medical background, speak
directly to the participant using "you", and define any technical terms. The summary should be
2000 to 3000 words, structured with a level 2 Markdown header (##) titled "Risks". Use subheadings
where appropriate, no deeper than two levels.`,
	},
	{
		ID:       types.SectionBenefits,
		Title:    "Benefits",
		MinWords: 500,
		MaxWords: 750,
		Prompt: `Please write a summary of the potential benefits of participating in the study, for the "Benefits"
section of the informed consent document. Include potential benefits for the patient (addressed as
"you") and potential benefits for others. Since this is a research study and it is not known if
the intervention is helpful, do not overstate potential benefits. Usually 500 to 750 words.

Start the summary with a level 2 Markdown header (##) titled "Benefits", then continue with a
subheading for "Potential Benefits for You" and another for "Potential Benefits for Others".
All the information should be specific to this protocol.`,
	},
}

// Registry returns the ordered section task catalogue.
func Registry() []types.SectionTask {
	return sectionTasks
}

// TaskByID looks a task up for single-section operations like revision.
func TaskByID(id types.SectionID) (types.SectionTask, error) {
	for _, task := range sectionTasks {
		if task.ID == id {
			return task, nil
		}
	}
	return types.SectionTask{}, fmt.Errorf("no task registered for section %q", id)
}

// BuildSectionPrompt composes the generation request for one task:
// the retrieved chunks as context, the task instruction as the
// question. Mirrors the usual RAG prompt shape.
func BuildSectionPrompt(task types.SectionTask, chunks []types.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Use the provided context to answer the question. If you cannot answer the question based on the context, say you don't know.\n\nContext:\n")
	for _, chunk := range chunks {
		b.WriteString(chunk.Content)
		b.WriteString("\n---\n")
	}
	b.WriteString("\nQuestion:\n")
	b.WriteString(task.Prompt)
	return b.String()
}

// BuildRevisePrompt composes a single-field revision request from the
// field's current content and the user's instruction.
func BuildRevisePrompt(task types.SectionTask, content, instruction string) string {
	var b strings.Builder
	b.WriteString("Below is the \"")
	b.WriteString(task.Title)
	b.WriteString("\" section of an informed consent document, followed by an instruction for revising it.\n\nCurrent section:\n")
	b.WriteString(content)
	b.WriteString("\n\nInstruction:\n")
	b.WriteString(instruction)
	b.WriteString(fmt.Sprintf(`

Rewrite the entire section applying the instruction. Keep the level 2 Markdown header (##) titled
%q, keep the Markdown formatting, and keep the language understandable for a non-medical audience.
Return only the revised section.`, task.Title))
	return b.String()
}
