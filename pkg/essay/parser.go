package essay

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotEvaluatedComment is recorded for categories the model did not report.
const NotEvaluatedComment = "not evaluated"

var (
	overallScoreKeys  = []string{"score", "totalMarks", "totalScore"}
	scorecardKeys     = []string{"evaluation", "categories"}
	correctedTextKeys = []string{"corrected_text", "correctedText"}
)

// Parse coerces a raw model response into an EvaluationResult. The response is treated
// as untrusted: only the first JSON object is considered, optional lists of the wrong
// type become empty, category scores are clamped to the rubric and the total is
// recomputed from the categories. It fails with ErrMalformedResponse when no JSON object
// can be decoded or when no overall score in 0-100 is present.
func Parse(raw string) (EvaluationResult, error) {
	span, err := ExtractJSONObject(raw)
	if err != nil {
		return EvaluationResult{}, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return EvaluationResult{}, fmt.Errorf("%w: decode json: %v", ErrMalformedResponse, err)
	}

	if err := checkOverallScore(payload); err != nil {
		return EvaluationResult{}, err
	}

	result := EvaluationResult{
		CorrectedText:   strings.TrimSpace(firstString(payload, correctedTextKeys...)),
		Mistakes:        mistakeList(payload["mistakes"]),
		Suggestions:     stringList(payload["suggestions"]),
		Categories:      scorecard(firstObject(payload, scorecardKeys...)),
		IsOutlineOnly:   boolValue(payload["isOutlineOnly"]),
		ExaminerRemarks: examinerRemarks(payload["examinerRemarks"]),
		Source:          SourceAI,
	}
	result.TotalScore = result.Categories.Total()

	return result, nil
}

func checkOverallScore(payload map[string]interface{}) error {
	for _, key := range overallScoreKeys {
		value, ok := numberValue(payload[key])
		if !ok {
			continue
		}
		if value < 0 || value > MaxTotalScore {
			return fmt.Errorf("%w: %s %.2f outside 0-%d", ErrMalformedResponse, key, value, MaxTotalScore)
		}
		return nil
	}
	return fmt.Errorf("%w: missing numeric overall score", ErrMalformedResponse)
}

func scorecard(obj map[string]interface{}) Scorecard {
	var card Scorecard
	for _, c := range Categories() {
		entry, present := obj[c.Key()]
		if !present || entry == nil {
			card[c] = CategoryScore{Score: 0, Comment: NotEvaluatedComment}
			continue
		}

		var score float64
		comment := ""
		switch v := entry.(type) {
		case map[string]interface{}:
			score, _ = numberValue(v["score"])
			if text, ok := v["comment"].(string); ok {
				comment = strings.TrimSpace(text)
			}
		default:
			// Bare numbers are accepted as the score alone.
			score, _ = numberValue(v)
		}

		card[c] = CategoryScore{
			Score:   clampScore(c, roundScore(score)),
			Comment: comment,
		}
	}
	return card
}

// roundScore converts a reported score to an integer, bounding it first so huge
// values cannot overflow the conversion.
func roundScore(score float64) int {
	switch {
	case score <= 0:
		return 0
	case score >= MaxTotalScore:
		return MaxTotalScore
	default:
		return int(math.Round(score))
	}
}

func mistakeList(value interface{}) []Mistake {
	items, ok := value.([]interface{})
	if !ok {
		return []Mistake{}
	}

	mistakes := make([]Mistake, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		mistake := Mistake{
			Original:    stringField(obj, "original"),
			Correction:  stringField(obj, "correction"),
			Explanation: stringField(obj, "explanation"),
		}
		if mistake.Original == "" && mistake.Correction == "" {
			continue
		}
		mistakes = append(mistakes, mistake)
	}
	return mistakes
}

func examinerRemarks(value interface{}) ExaminerRemarks {
	obj, _ := value.(map[string]interface{})
	return ExaminerRemarks{
		Strengths:   stringList(obj["strengths"]),
		Weaknesses:  stringList(obj["weaknesses"]),
		Suggestions: stringList(obj["suggestions"]),
	}
}

func stringList(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func stringField(obj map[string]interface{}, key string) string {
	text, _ := obj[key].(string)
	return strings.TrimSpace(text)
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if text, ok := obj[key].(string); ok {
			return text
		}
	}
	return ""
}

func firstObject(obj map[string]interface{}, keys ...string) map[string]interface{} {
	for _, key := range keys {
		if nested, ok := obj[key].(map[string]interface{}); ok {
			return nested
		}
	}
	return nil
}

func numberValue(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func boolValue(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	default:
		return false
	}
}
