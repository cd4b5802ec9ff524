package services

import "fmt"

// SystemInstruction is sent as the system message of every analysis request.
const SystemInstruction = "You are an expert ATS evaluator. Provide the response in the exact format specified in the prompt, with clear section headers and consistent separators (e.g., ':'). Do not deviate from the requested structure."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt embeds both texts verbatim; nothing is validated or truncated.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`
Compare the following resume and job description and provide the response in this exact format:

Overall ATS Score: <score>/100
Keyword Match: <percentage>%%
Skill Match: <percentage>%%
Experience & Education Match: <percentage>%%
Formatting Quality: <percentage>%%

Matched Keywords:
- <keyword1>
- <keyword2>

Missing Keywords:
- <keyword> (type: <type>, years required: <years>, context: <context from JD>)

Improvement Tips:
- <tip1>
- <tip2>

Feedback Report:
<detailed feedback>

Resume:
"""%s"""

Job Description:
"""%s"""
`, resumeText, jobDescription)
}
