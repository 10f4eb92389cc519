package extract

import (
	"github.com/quantav/stockscope/pkg/models"
)

// sectionFields is the fixed extraction vocabulary per section. Headlines for
// the news section travel separately as a list, not as named fields.
var sectionFields = map[models.Section][]string{
	models.SectionCompany:   {"companyName", "sector", "industry", "marketCap", "description"},
	models.SectionFinancial: {"revenue", "netIncome", "profitMargin", "eps", "peRatio", "debtToEquity"},
	models.SectionTechnical: {"beta", "avgVolume", "fiftyTwoWeekChange"},
	models.SectionOptions:   {"impliedVolatility", "putCallRatio", "openInterest", "optionVolume"},
	models.SectionNews:      {},
}

// FieldNames returns the extraction vocabulary for a section.
func FieldNames(section models.Section) []string {
	return sectionFields[section]
}

// EmptyFields builds a SectionFields with every vocabulary key present and
// explicitly empty. Resolvers merge extracted values into this shape so
// downstream code always sees the full key set.
func EmptyFields(section models.Section) models.SectionFields {
	names := sectionFields[section]
	out := make(models.SectionFields, len(names))
	for _, n := range names {
		out[n] = ""
	}
	return out
}
