package analysis

import "github.com/akolanti/intelliquery/internal/domain/docModel"

// domainFocus is the per-domain instruction block placed in the analysis prompt.
// Generic has no block on purpose, the prompt then reads as a general analysis.
var domainFocus = map[docModel.Domain][]string{
	docModel.DomainInsurance: {
		"Coverage details and limitations",
		"Exclusions and conditions",
		"Claim procedures and requirements",
		"Policy terms and definitions",
	},
	docModel.DomainLegal: {
		"Legal clauses and provisions",
		"Rights and obligations",
		"Compliance requirements",
		"Regulatory implications",
	},
	docModel.DomainHR: {
		"Employee policies and procedures",
		"Benefits and entitlements",
		"Compliance with labor laws",
		"Performance and conduct standards",
	},
	docModel.DomainCompliance: {
		"Regulatory requirements",
		"Audit standards",
		"Risk assessments",
		"Compliance procedures",
	},
	docModel.DomainGeneric: nil,
}

// DomainInstructions renders the "Focus on:" block for d, or "" when d has none.
func DomainInstructions(d docModel.Domain) string {
	points := domainFocus[d]
	if len(points) == 0 {
		return ""
	}
	out := "Focus on:\n"
	for _, p := range points {
		out += "- " + p + "\n"
	}
	return out
}
