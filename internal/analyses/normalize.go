package analyses

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// SentinelText stands in when no displayable analysis text could be
// recovered. It is not an error; a completed analysis without content is
// still completed.
const SentinelText = "no analysis text available"

// The backend has shipped several payload conventions over time. The
// normalizer tries each extraction in priority order; the first rule whose
// shape matches wins. Keeping the cascade as data makes each heuristic
// testable on its own.
type textRule struct {
	name    string
	extract func(*Analysis) (string, bool)
}

var textRules = []textRule{
	{name: "analysis_text", extract: fromAnalysisText},
	{name: "quoted_fragment", extract: fromQuotedFragment},
	{name: "json_payload", extract: fromJSONPayload},
	{name: "verbatim", extract: fromVerbatimResult},
}

// quotedFragmentRe recovers the analysis body from a single-quoted
// key/value blob. Known failure mode: a body containing the literal
// substring `', 'format'` truncates the match. The backend does not
// guarantee a stricter schema, so this stays a heuristic.
var quotedFragmentRe = regexp.MustCompile(`(?s)'analysis':\s*'(.*?)',\s*'format'`)

var (
	boldRe         = regexp.MustCompile(`\*\*`)
	headingRe      = regexp.MustCompile(`#{3,4}[ \t]*`)
	hrRe           = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)
	indentRe       = regexp.MustCompile(`\n[ \t]+`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

var divider = strings.Repeat("=", 50)

// Normalize converts a raw backend analysis record into the canonical
// shape: analysis_text filled from whichever payload convention matched,
// and score extracted when a score pattern is present in the text. The
// input is not mutated.
func Normalize(a Analysis) Analysis {
	for _, rule := range textRules {
		if text, ok := rule.extract(&a); ok {
			a.AnalysisText = text
			break
		}
	}
	if a.AnalysisText == "" {
		a.AnalysisText = SentinelText
	}
	if a.Score == nil {
		if score := ExtractScore(a.AnalysisText); score != nil {
			a.Score = score
		} else {
			a.Score = ExtractScore(string(a.AnalysisResult))
		}
	}
	return a
}

func fromAnalysisText(a *Analysis) (string, bool) {
	if strings.TrimSpace(a.AnalysisText) == "" {
		return "", false
	}
	return a.AnalysisText, true
}

func fromQuotedFragment(a *Analysis) (string, bool) {
	raw := string(a.AnalysisResult)
	m := quotedFragmentRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	inner := strings.ReplaceAll(m[1], `\n`, "\n")
	inner = strings.ReplaceAll(inner, `\'`, `'`)
	return cleanupText(inner), true
}

func fromJSONPayload(a *Analysis) (string, bool) {
	raw := strings.TrimSpace(string(a.AnalysisResult))
	if raw == "" {
		return "", false
	}
	var payload struct {
		Analysis        string   `json:"analysis"`
		Score           *int     `json:"score"`
		Strengths       []string `json:"strengths"`
		Improvements    []string `json:"improvements"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", false
	}
	if strings.TrimSpace(payload.Analysis) == "" {
		return "", false
	}
	if a.Score == nil {
		a.Score = payload.Score
	}
	if len(a.Strengths) == 0 {
		a.Strengths = payload.Strengths
	}
	if len(a.Improvements) == 0 {
		a.Improvements = payload.Improvements
	}
	if len(a.Recommendations) == 0 {
		a.Recommendations = payload.Recommendations
	}
	return cleanupText(payload.Analysis), true
}

func fromVerbatimResult(a *Analysis) (string, bool) {
	raw := string(a.AnalysisResult)
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}

func cleanupText(s string) string {
	s = boldRe.ReplaceAllString(s, "")
	s = headingRe.ReplaceAllString(s, "")
	s = hrRe.ReplaceAllString(s, divider)
	s = indentRe.ReplaceAllString(s, "\n")
	s = multiNewlineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Score patterns in order of preference: a bolded total-score line, its
// unbolded form, then a bare score line. The analysis may be written in
// Chinese, so the localized keyword and full-width colon are accepted.
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\*\*[ \t]*(?:总体评分|total score|overall score)[:：][ \t]*([0-5])[ \t]*/[ \t]*5[ \t]*\*\*`),
	regexp.MustCompile(`(?i)(?:总体评分|total score|overall score)[:：][ \t]*([0-5])[ \t]*/[ \t]*5`),
	regexp.MustCompile(`(?i)(?:评分|score)[:：][ \t]*([0-5])[ \t]*/[ \t]*5`),
}

// ExtractScore pulls an N/5 score out of analysis text. It returns nil
// when no pattern matches; absence is meaningful and distinct from zero.
func ExtractScore(text string) *int {
	if text == "" {
		return nil
	}
	for _, pattern := range scorePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}
