package detector

import (
	"strings"

	"SenateInsight/internal/domain/models"
)

// committeeDomain ties an oversight domain to two keyword sets: company
// keywords matched against the transacted company's name, and committee
// keywords matched against the member's committee names. Committee keywords
// always include the domain label itself, plus the names Congress actually
// uses for that jurisdiction (the Senate's technology committee is
// "Commerce, Science, and Transportation", not "Technology").
type committeeDomain struct {
	company   []string
	committee []string
}

// Static lookup table, built once.
var committeeDomains = map[string]committeeDomain{
	"banking": {
		company:   []string{"financial", "bank", "insurance", "credit"},
		committee: []string{"banking", "financial services", "finance"},
	},
	"energy": {
		company:   []string{"oil", "gas", "energy", "utility", "solar", "wind"},
		committee: []string{"energy", "natural resources"},
	},
	"technology": {
		company:   []string{"tech", "software", "internet", "telecommunications"},
		committee: []string{"technology", "commerce", "science"},
	},
	"healthcare": {
		company:   []string{"pharma", "biotech", "medical", "hospital"},
		committee: []string{"healthcare", "health"},
	},
	"defense": {
		company:   []string{"defense", "aerospace", "military"},
		committee: []string{"defense", "armed services"},
	},
	"agriculture": {
		company:   []string{"agriculture", "food", "farming"},
		committee: []string{"agriculture", "nutrition", "forestry"},
	},
	"transportation": {
		company:   []string{"airline", "automotive", "railroad", "shipping"},
		committee: []string{"transportation", "commerce"},
	},
}

// committeeCorrelationScore returns 0.7 when the member sits on a committee
// whose oversight domain matches the transacted company's industry, 0
// otherwise. Correlation is binary with a fixed magnitude; it is not
// weighted by the number of matching domains.
func (d *Detector) committeeCorrelationScore(txn models.Transaction, assignments []models.CommitteeAssignment) float64 {
	companyLower := strings.ToLower(txn.CompanyName)

	var stockDomains []string
	for domain, kws := range committeeDomains {
		for _, kw := range kws.company {
			if strings.Contains(companyLower, kw) {
				stockDomains = append(stockDomains, domain)
				break
			}
		}
	}
	if len(stockDomains) == 0 {
		return 0.0
	}

	memberCommittees := make([]string, 0, len(assignments))
	for _, a := range assignments {
		memberCommittees = append(memberCommittees, strings.ToLower(a.CommitteeName))
	}

	for _, domain := range stockDomains {
		for _, kw := range committeeDomains[domain].committee {
			for _, committee := range memberCommittees {
				if strings.Contains(committee, kw) {
					return 0.7
				}
			}
		}
	}
	return 0.0
}
