package analysis

import (
	"strings"
	"testing"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContext(t *testing.T) {
	results := []docModel.RetrievedResult{
		{Content: "Knee surgery is covered.", Score: 0.91234, Metadata: map[string]any{"filename": "policy.pdf"}},
		{Content: "Waiting period is 24 months.", Score: 0.5},
	}

	got := BuildContext(results)

	want := "Document 1 (Relevance: 0.912):\nSource: policy.pdf\nContent: Knee surgery is covered.\n" +
		"\n---\n" +
		"Document 2 (Relevance: 0.500):\nSource: Unknown\nContent: Waiting period is 24 months.\n"
	assert.Equal(t, want, got)
	assert.Equal(t, "", BuildContext(nil))
}

func TestBuildPrompt_DomainInstructions(t *testing.T) {
	p := BuildPrompt("Is knee surgery covered?", docModel.DomainInsurance, "ctx")

	assert.Contains(t, p, "specializing in insurance domains")
	assert.Contains(t, p, "Focus on:\n- Coverage details and limitations\n")
	assert.Contains(t, p, "Query: Is knee surgery covered?")
	assert.Contains(t, p, "Retrieved Context:\nctx")
	assert.Contains(t, p, `"confidence_score": 0.0-1.0`)
	assert.Contains(t, p, "Base your answer strictly on the provided context")
}

func TestBuildPrompt_NoDomain(t *testing.T) {
	for _, d := range []docModel.Domain{"", docModel.DomainGeneric} {
		p := BuildPrompt("q", d, "ctx")
		assert.Contains(t, p, "specializing in various domains")
		assert.NotContains(t, p, "Focus on:")
	}
}

func TestDomainInstructions_TotalOverDomains(t *testing.T) {
	for _, d := range docModel.AllDomains {
		_, ok := domainFocus[d]
		assert.True(t, ok, "domain %s missing from instruction table", d)
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, r Result)
	}{
		{
			name: "fenced json with prose",
			raw: "Here you go:\n```json\n{\"answer\":\"Yes\",\"reasoning\":\"Section 4\",\"confidence_score\":0.85," +
				"\"supporting_evidence\":[\"clause 4.2\"],\"conditions\":[\"pre-authorisation\"],\"limitations\":[]," +
				"\"additional_considerations\":\"check network\"}\n```",
			check: func(t *testing.T, r Result) {
				assert.Equal(t, "Yes", r.Answer)
				assert.Equal(t, "Section 4", r.Rationale.Reasoning)
				assert.InDelta(t, 0.85, r.Rationale.ConfidenceScore, 1e-9)
				assert.Equal(t, []string{"clause 4.2"}, r.Rationale.SupportingEvidence)
				assert.Equal(t, []string{"pre-authorisation"}, r.Rationale.Conditions)
				assert.Equal(t, []string{}, r.Rationale.Limitations)
				assert.Equal(t, "check network", r.AdditionalConsiderations)
			},
		},
		{
			name: "missing fields take defaults",
			raw:  `{}`,
			check: func(t *testing.T, r Result) {
				assert.Equal(t, "Unable to provide answer", r.Answer)
				assert.Equal(t, "No reasoning provided", r.Rationale.Reasoning)
				assert.Equal(t, 0.0, r.Rationale.ConfidenceScore)
				assert.NotNil(t, r.Rationale.SupportingEvidence)
			},
		},
		{
			name: "numeric string confidence is clamped",
			raw:  `{"answer":"a","confidence_score":"1.7"}`,
			check: func(t *testing.T, r Result) {
				assert.Equal(t, 1.0, r.Rationale.ConfidenceScore)
			},
		},
		{
			name: "negative confidence is clamped",
			raw:  `{"answer":"a","confidence_score":-3}`,
			check: func(t *testing.T, r Result) {
				assert.Equal(t, 0.0, r.Rationale.ConfidenceScore)
			},
		},
		{name: "no braces", raw: "I cannot answer that.", wantErr: true},
		{name: "braces reversed", raw: "} nope {", wantErr: true},
		{name: "two objects", raw: `{"answer":"a"} and {"answer":"b"}`, wantErr: true},
		{name: "truncated", raw: `{"answer":"a", "reasoning": "cut`, wantErr: true},
		{name: "list field not a list", raw: `{"conditions":"none"}`, wantErr: true},
		{name: "confidence not numeric", raw: `{"confidence_score":"high"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseResponse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, docModel.ErrResponseParse)
				return
			}
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestFallbackAndRetrievalOnly(t *testing.T) {
	f := Fallback()
	assert.Equal(t, "Error processing response", f.Answer)
	assert.Equal(t, "Unable to parse LLM response", f.Rationale.Reasoning)
	assert.Equal(t, []string{"Response parsing failed"}, f.Rationale.Limitations)
	assert.Equal(t, 0.0, f.Rationale.ConfidenceScore)

	r := RetrievalOnly()
	assert.Equal(t, "Query processed. Retrieved relevant document chunks.", r.Answer)
	assert.Equal(t, "Basic retrieval without LLM analysis", r.Rationale.Reasoning)
	assert.Empty(t, r.Rationale.Limitations)
	assert.True(t, strings.HasPrefix(r.Answer, "Query processed"))
}
