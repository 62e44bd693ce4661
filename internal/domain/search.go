package domain

import "strings"

type GroupSearchField string

const (
	GroupByName         GroupSearchField = "name"
	GroupByCategoryName GroupSearchField = "categoryName"
	GroupBySortName     GroupSearchField = "sortName"
)

type PlantationSearchField string

const (
	PlantationByName            PlantationSearchField = "name"
	PlantationByLegalEntityName PlantationSearchField = "legalEntityName"
)

type GroupFilter struct {
	Search string `form:"search"`
	Type   string `form:"type" binding:"omitempty,oneof=name categoryName sortName"`
}

type PlantationFilter struct {
	Search         string `form:"search"`
	Type           string `form:"type" binding:"omitempty,oneof=name legalEntityName"`
	Country        string `form:"country"`
	TermsOfPayment string `form:"termsOfPayment"`
}

// Page bounds a listing. Limit 0 means no limit.
type Page struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

// GroupPredicate is the structured filter shared by search and count.
// An empty Field matches every non-deleted group.
type GroupPredicate struct {
	Field GroupSearchField
	Term  string
}

type PlantationPredicate struct {
	Field          PlantationSearchField
	Term           string
	Country        string
	TermsOfPayment []TermsOfPayment
}

func BuildGroupPredicate(f GroupFilter) GroupPredicate {
	term := strings.TrimSpace(f.Search)
	if term == "" {
		return GroupPredicate{}
	}
	switch field := GroupSearchField(f.Type); field {
	case GroupByName, GroupByCategoryName, GroupBySortName:
		return GroupPredicate{Field: field, Term: term}
	}
	return GroupPredicate{}
}

func BuildPlantationPredicate(f PlantationFilter) PlantationPredicate {
	p := PlantationPredicate{Country: strings.TrimSpace(f.Country)}
	for _, t := range strings.Split(f.TermsOfPayment, ",") {
		if t = strings.TrimSpace(t); t != "" {
			p.TermsOfPayment = append(p.TermsOfPayment, TermsOfPayment(t))
		}
	}
	term := strings.TrimSpace(f.Search)
	if term == "" {
		return p
	}
	switch field := PlantationSearchField(f.Type); field {
	case PlantationByName, PlantationByLegalEntityName:
		p.Field, p.Term = field, term
	}
	return p
}

// ContainsPattern lowercases term and escapes LIKE wildcards with '!'.
func ContainsPattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
