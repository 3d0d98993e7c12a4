package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/tidwall/gjson"
)

const (
	defaultAnswer    = "Unable to provide answer"
	defaultReasoning = "No reasoning provided"

	fallbackAnswer  = "Error processing response"
	RetrievalAnswer = "Query processed. Retrieved relevant document chunks."
)

// Result is the structured analysis extracted from a model reply.
type Result struct {
	Answer                   string
	Rationale                docModel.DecisionRationale
	AdditionalConsiderations string
}

// Fallback is used whenever generation or parsing fails. The query itself still succeeds.
func Fallback() Result {
	return Result{
		Answer: fallbackAnswer,
		Rationale: docModel.DecisionRationale{
			Reasoning:          "Unable to parse LLM response",
			ConfidenceScore:    0.0,
			SupportingEvidence: []string{},
			Conditions:         []string{},
			Limitations:        []string{"Response parsing failed"},
		},
	}
}

// RetrievalOnly is the canned result when no model call is made.
func RetrievalOnly() Result {
	return Result{
		Answer: RetrievalAnswer,
		Rationale: docModel.DecisionRationale{
			Reasoning:          "Basic retrieval without LLM analysis",
			ConfidenceScore:    0.0,
			SupportingEvidence: []string{},
			Conditions:         []string{},
			Limitations:        []string{},
		},
	}
}

// ParseResponse slices from the first '{' to the last '}' and decodes that span.
// Prose or code fences around the object are tolerated, a second JSON object is not.
func ParseResponse(raw string) (Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return Result{}, fmt.Errorf("%w: no JSON object found", docModel.ErrResponseParse)
	}
	body := raw[start : end+1]
	if !gjson.Valid(body) {
		return Result{}, fmt.Errorf("%w: invalid JSON", docModel.ErrResponseParse)
	}
	parsed := gjson.Parse(body)

	confidence, err := confidenceOf(parsed.Get("confidence_score"))
	if err != nil {
		return Result{}, err
	}
	evidence, err := stringList(parsed.Get("supporting_evidence"), "supporting_evidence")
	if err != nil {
		return Result{}, err
	}
	conditions, err := stringList(parsed.Get("conditions"), "conditions")
	if err != nil {
		return Result{}, err
	}
	limitations, err := stringList(parsed.Get("limitations"), "limitations")
	if err != nil {
		return Result{}, err
	}

	return Result{
		Answer: stringOr(parsed.Get("answer"), defaultAnswer),
		Rationale: docModel.DecisionRationale{
			Reasoning:          stringOr(parsed.Get("reasoning"), defaultReasoning),
			ConfidenceScore:    confidence,
			SupportingEvidence: evidence,
			Conditions:         conditions,
			Limitations:        limitations,
		},
		AdditionalConsiderations: stringOr(parsed.Get("additional_considerations"), ""),
	}, nil
}

func stringOr(v gjson.Result, fallback string) string {
	if !v.Exists() || v.Type == gjson.Null {
		return fallback
	}
	if v.IsObject() || v.IsArray() {
		return v.Raw
	}
	return v.String()
}

// confidenceOf accepts numbers and numeric strings and clamps into [0, 1].
func confidenceOf(v gjson.Result) (float64, error) {
	var f float64
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return 0.0, nil
	case v.Type == gjson.Number:
		f = v.Float()
	case v.Type == gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: confidence_score %q is not a number", docModel.ErrResponseParse, v.Str)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: confidence_score has type %s", docModel.ErrResponseParse, v.Type)
	}
	return min(max(f, 0.0), 1.0), nil
}

func stringList(v gjson.Result, field string) ([]string, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return []string{}, nil
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: %s is not a list", docModel.ErrResponseParse, field)
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringOr(item, ""))
	}
	return out, nil
}
