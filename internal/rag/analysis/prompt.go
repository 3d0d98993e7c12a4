package analysis

import (
	"fmt"
	"strings"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
)

const responseShape = `{
    "answer": "Direct answer to the query",
    "reasoning": "Detailed explanation of your analysis",
    "confidence_score": 0.0-1.0,
    "supporting_evidence": ["Evidence point 1", "Evidence point 2"],
    "conditions": ["Condition 1", "Condition 2"],
    "limitations": ["Limitation 1", "Limitation 2"],
    "additional_considerations": "Any other relevant information"
}`

const guidelines = `Important guidelines:
- Base your answer strictly on the provided context
- If information is insufficient, clearly state this
- Provide specific evidence from the documents
- Include relevant conditions and limitations
- Rate your confidence based on the clarity and completeness of the evidence`

// BuildContext renders the retrieved chunks in retrieval order, numbered from 1.
func BuildContext(results []docModel.RetrievedResult) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		source := r.Filename()
		if source == "" {
			source = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("Document %d (Relevance: %.3f):\nSource: %s\nContent: %s\n",
			i+1, r.Score, source, r.Content))
	}
	return strings.Join(parts, "\n---\n")
}

func BuildPrompt(query string, domain docModel.Domain, context string) string {
	role := string(domain)
	if role == "" || domain == docModel.DomainGeneric {
		role = "various"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert document analyst specializing in %s domains.\n", role)
	sb.WriteString("Analyze the following query and provide a comprehensive, accurate response based on the retrieved context.\n\n")
	if focus := DomainInstructions(domain); focus != "" {
		sb.WriteString(focus)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Query: %s\n\n", query)
	fmt.Fprintf(&sb, "Retrieved Context:\n%s\n\n", context)
	sb.WriteString("Provide your response in the following JSON format:\n")
	sb.WriteString(responseShape)
	sb.WriteString("\n\n")
	sb.WriteString(guidelines)
	sb.WriteString("\n")
	return sb.String()
}
