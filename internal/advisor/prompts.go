package advisor

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs the prompts for the two generation calls.
type PromptBuilder struct{}

const questionsSystemMessage = "You are an expert resume consultant. Analyze resumes and job postings to identify gaps and generate targeted questions that will help improve the resume's alignment with the job requirements."

const editsSystemMessage = "You are an expert resume writer. Propose precise, targeted edits to LaTeX resumes so they better align with job requirements, while preserving LaTeX formatting."

func (pb *PromptBuilder) BuildQuestionsPrompt(resumeText, jobText string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this resume and job posting to identify gaps and generate exactly 3 targeted questions.\n\n")
	sb.WriteString("RESUME:\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\nJOB POSTING:\n")
	sb.WriteString(jobText)
	sb.WriteString("\n\nGenerate exactly 3 specific questions that will help fill gaps between the resume and the job requirements.\n")
	sb.WriteString("Focus on:\n")
	sb.WriteString("1. Missing skills or experiences that are mentioned in the job posting\n")
	sb.WriteString("2. Quantifiable achievements and metrics\n")
	sb.WriteString("3. Specific projects or accomplishments that demonstrate relevant experience\n\n")
	sb.WriteString("Return ONLY a JSON array of exactly 3 questions as strings. Example format:\n")
	sb.WriteString(`["Question 1?", "Question 2?", "Question 3?"]`)
	return sb.String()
}

func (pb *PromptBuilder) BuildEditsPrompt(resumeText, jobText string, questions, answers []string) string {
	var sb strings.Builder
	sb.WriteString("Propose edits to this LaTeX resume based on the answers provided, so it aligns better with the job posting.\n\n")
	sb.WriteString("CURRENT RESUME:\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\nJOB POSTING:\n")
	sb.WriteString(jobText)
	sb.WriteString("\n\nQUESTIONS AND ANSWERS:\n")
	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		fmt.Fprintf(&sb, "Q%d: %s\nA%d: %s\n", i+1, q, i+1, answer)
	}
	sb.WriteString("\nReturn ONLY a JSON array of edit objects. Each edit object has these fields:\n")
	sb.WriteString("- id: a short unique token\n")
	sb.WriteString(`- kind: one of "ReplaceSection", "AddItemToSection", "UpdateItemInSection", "AddNewSection"` + "\n")
	sb.WriteString("- targetSectionHeader: the \\section header the edit targets\n")
	sb.WriteString("- contextBefore, contextAfter: short snippets of existing resume text anchoring where the edit belongs (may be empty)\n")
	sb.WriteString("- originalSnippet: for UpdateItemInSection, the exact current item text\n")
	sb.WriteString("- suggestedSnippet: the new LaTeX content\n")
	sb.WriteString("- description: one sentence explaining the edit to the user\n\n")
	sb.WriteString("Prefer small, targeted AddItemToSection and UpdateItemInSection edits over whole-section rewrites.\n")
	sb.WriteString("Use information from the answers; do not invent experience the candidate did not mention.")
	return sb.String()
}
