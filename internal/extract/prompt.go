package extract

import (
	"fmt"
	"strings"
)

// extractionSystem keeps the model on-task: structured output only, no
// invention. Verification catches what the instructions don't.
const extractionSystem = `You are a resume parser. You extract only information that is explicitly present in the text. You never invent, infer, or embellish values. If a field is not present, output null for it.`

// maxResumeChars bounds the prompt size. Resumes longer than this are
// truncated at a line boundary; contact details live near the top, so
// losing the tail is cheap.
const maxResumeChars = 12000

// BuildExtractionPrompt renders the extraction instruction with the
// resume text inlined.
func BuildExtractionPrompt(resumeText string) string {
	text := truncateAtLine(resumeText, maxResumeChars)
	return fmt.Sprintf(`Extract the following fields from the resume below and respond with a single JSON object, nothing else:

{
  "name": "full name or null",
  "email": "email address or null",
  "phone": "phone number or null",
  "department": "department or null",
  "position": "current job title or null",
  "location": "city or null",
  "summary": "one-sentence professional summary or null",
  "skills": ["skill", ...],
  "experience": [{"company": "...", "role": "...", "duration": "..."}, ...],
  "education": ["degree/institution", ...],
  "certifications": ["certification", ...],
  "languages": ["spoken language", ...],
  "linkedin_url": "url or null",
  "github_url": "url or null"
}

Every value must appear verbatim in the resume text. Use null for anything that is missing.

Resume:
---
%s
---`, text)
}

func truncateAtLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if nl := strings.LastIndexByte(cut, '\n'); nl > max/2 {
		cut = cut[:nl]
	}
	return cut
}
