package docModel

import (
	"fmt"
	"strings"
)

// Domain is the closed set of business areas a document can belong to.
type Domain string

const (
	DomainInsurance  Domain = "insurance"
	DomainLegal      Domain = "legal"
	DomainHR         Domain = "hr"
	DomainCompliance Domain = "compliance"
	DomainGeneric    Domain = "generic"
)

var AllDomains = []Domain{DomainInsurance, DomainLegal, DomainHR, DomainCompliance, DomainGeneric}

// ParseDomain is case-insensitive. An empty value yields "" with no error so callers
// can tell "not given" apart from an invalid value.
func ParseDomain(s string) (Domain, error) {
	v := Domain(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return "", nil
	}
	for _, d := range AllDomains {
		if v == d {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown domain %q", ErrInvalidRequest, s)
}

func (d Domain) Valid() bool {
	for _, known := range AllDomains {
		if d == known {
			return true
		}
	}
	return false
}
