package models

// ParsedScores keeps the key names the original ATS frontend reads.
type ParsedScores struct {
	ATSScore                 int `json:"ATS Score"`
	KeywordMatch             int `json:"Keyword Match"`
	SkillMatch               int `json:"Skill Match"`
	ExperienceEducationMatch int `json:"Experience and Education Match"`
	FormattingQuality        int `json:"Formatting Quality"`
}

type AnalysisResult struct {
	ParsedScores
	MatchedKeywords []string `json:"Matched Keywords"`
	MissingKeywords []string `json:"Missing Keywords"`
}

type AnalyzeResponse struct {
	Result   AnalysisResult `json:"result"`
	AIOutput string         `json:"ai_output"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
