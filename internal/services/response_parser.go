package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"alfredoptarigan/ats-api/internal/models"
)

// ParsedReply is everything the parser could recover from a model reply.
// Tips and feedback stay as raw block text.
type ParsedReply struct {
	models.AnalysisResult
	ImprovementTips string
	FeedbackReport  string
}

const (
	labelMatchedKeywords = `Matched\s*Keywords`
	labelMissingKeywords = `Missing\s*Keywords`
	labelImprovementTips = `Improvement\s*Tips`
	labelFeedbackReport  = `Feedback\s*Report`
)

var (
	atsScorePattern            = regexp.MustCompile(`(?i)(?:Overall\s*)?ATS\s*Score\s*[:\-]?\s*(\d{1,3})\b(?:\s*/\s*\d{1,3})?`)
	keywordMatchPattern        = percentPattern(`Keyword\s*Match`)
	skillMatchPattern          = percentPattern(`Skill\s*Match`)
	experienceEducationPattern = percentPattern(`Experience\s*(?:&|and|/)\s*Education\s*Match`)
	formattingQualityPattern   = percentPattern(`Formatting\s*Quality`)

	blockLabelPatterns = map[string]*regexp.Regexp{
		labelMatchedKeywords: blockLabelPattern(labelMatchedKeywords),
		labelMissingKeywords: blockLabelPattern(labelMissingKeywords),
		labelImprovementTips: blockLabelPattern(labelImprovementTips),
		labelFeedbackReport:  blockLabelPattern(labelFeedbackReport),
	}

	// A section header line: optional bold marker, a capitalized word and up
	// to four more words, then ":" or a spaced "-".
	sectionHeaderPattern = regexp.MustCompile(`^(?:\*\*)?[A-Z][A-Za-z0-9]*(?:[ \t]+(?:&|/|[A-Za-z0-9]+)){0,4}(?:\*\*)?(?::|[ \t]+-(?:[ \t]|$)|-[ \t]*$)`)
)

func percentPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `\s*[:\-]?\s*(\d{1,3})\s*(?:%|percent)`)
}

func blockLabelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `\s*(?:\*\*)?\s*[:\-]?\s*(?:\*\*)?\s*`)
}

// ParseReply never fails: fields it cannot find come back as 0 or empty.
func ParseReply(reply string) ParsedReply {
	return ParsedReply{
		AnalysisResult: models.AnalysisResult{
			ParsedScores:    ParseScores(reply),
			MatchedKeywords: splitList(extractBlock(reply, labelMatchedKeywords)),
			MissingKeywords: splitList(extractBlock(reply, labelMissingKeywords)),
		},
		ImprovementTips: extractBlock(reply, labelImprovementTips),
		FeedbackReport:  extractBlock(reply, labelFeedbackReport),
	}
}

func ParseScores(reply string) models.ParsedScores {
	return models.ParsedScores{
		ATSScore:                 boundedScore(atsScorePattern, reply),
		KeywordMatch:             boundedScore(keywordMatchPattern, reply),
		SkillMatch:               boundedScore(skillMatchPattern, reply),
		ExperienceEducationMatch: boundedScore(experienceEducationPattern, reply),
		FormattingQuality:        boundedScore(formattingQualityPattern, reply),
	}
}

// boundedScore treats values outside [0,100] as invalid, not as clampable.
func boundedScore(pattern *regexp.Regexp, text string) int {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	value, err := strconv.Atoi(match[1])
	if err != nil || value < 0 || value > 100 {
		return 0
	}
	return value
}

// extractBlock returns the text after label up to the next section header,
// markdown heading or the end of the reply.
func extractBlock(text, label string) string {
	loc := blockLabelPatterns[label].FindStringIndex(text)
	if loc == nil {
		return ""
	}

	rest := text[loc[1]:]
	// empty section: the next line is already another header
	if strings.Contains(text[loc[0]:loc[1]], "\n") && endsBlock(rest) {
		return ""
	}

	end := len(rest)
	offset := 0
	for {
		i := strings.IndexByte(rest[offset:], '\n')
		if i < 0 {
			break
		}
		newline := offset + i
		if endsBlock(rest[newline+1:]) {
			end = newline
			break
		}
		offset = newline + 1
	}

	return strings.TrimSpace(rest[:end])
}

func endsBlock(following string) bool {
	following = strings.TrimLeftFunc(following, unicode.IsSpace)
	if following == "" || strings.HasPrefix(following, "#") {
		return true
	}

	line := following
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return sectionHeaderPattern.MatchString(strings.TrimRight(line, " \t\r"))
}

// splitList itemizes a block on newlines, commas and spaced hyphen bullets.
// Separators inside parentheses or brackets are kept, so annotations such as
// "(type: tool, years required: 3)" stay with their keyword.
func splitList(block string) []string {
	items := []string{}
	if block == "" {
		return items
	}

	for _, line := range strings.Split(block, "\n") {
		for _, part := range splitTopLevel(line) {
			item := strings.TrimSpace(strings.Trim(part, "-•* \t\r"))
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func splitTopLevel(line string) []string {
	var (
		parts []string
		depth int
		start int
	)
	runes := []rune(line)
	for i, r := range runes {
		switch {
		case r == '(' || r == '[':
			depth++
		case (r == ')' || r == ']') && depth > 0:
			depth--
		case depth > 0:
		case r == ',':
			parts = append(parts, string(runes[start:i]))
			start = i + 1
		case r == '-' && i > 0 && i < len(runes)-1 && unicode.IsSpace(runes[i-1]) && unicode.IsSpace(runes[i+1]):
			parts = append(parts, string(runes[start:i]))
			start = i + 1
		}
	}
	return append(parts, string(runes[start:]))
}
