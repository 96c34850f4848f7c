package portal

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// SuspiciousDeath is the category that needs a sub-category selection
	// before its periods become available
	SuspiciousDeath = "MorteSuspeita"

	// categoryIML is the only category whose export control has its own id
	categoryIML = "IML"

	exportIMLID     = "cphBody_ExportarIMLButton"
	exportDefaultID = "cphBody_ExportarBOLink"

	// excludedCategoryID marks the homicide rate button, which is not an
	// exportable dataset
	excludedCategoryID = "cphBody_btnTaxaHomicidio"
)

var (
	categoryPattern = regexp.MustCompile(`btn(\w+)`)
	digitsPattern   = regexp.MustCompile(`\d+`)
)

// Field is a number recovered from a DOM id. When the id carries no digits
// Valid is false and Raw holds the id unchanged.
type Field struct {
	Value int
	Raw   string
	Valid bool
}

// String renders the number, or the raw id when no number was found
func (f Field) String() string {
	if f.Valid {
		return strconv.Itoa(f.Value)
	}
	return f.Raw
}

// CategoryName extracts the category token from a button id, e.g.
// "cphBody_btnHomicidio" -> "Homicidio". Ids without the btn prefix are
// returned verbatim. The portal's "Homicicio" typo is corrected.
func CategoryName(id string) string {
	name := id
	if m := categoryPattern.FindStringSubmatch(id); m != nil {
		name = m[1]
	}
	return strings.ReplaceAll(name, "Homicicio", "Homicidio")
}

// YearFromID recovers a four digit year from the first digit run of id.
// Short runs are padded: "8" -> 2008, "98" -> 2098, "018" -> 2018.
func YearFromID(id string) Field {
	digits := digitsPattern.FindString(id)
	if digits == "" {
		return Field{Raw: id}
	}
	switch len(digits) {
	case 1:
		digits = "200" + digits
	case 2:
		digits = "20" + digits
	case 3:
		digits = "2" + digits
	}
	return number(id, digits)
}

// MonthFromID recovers the month from the first digit run of id, e.g.
// "cphBody_lkMes07" -> 7
func MonthFromID(id string) Field {
	digits := digitsPattern.FindString(id)
	if digits == "" {
		return Field{Raw: id}
	}
	return number(id, digits)
}

func number(raw, digits string) Field {
	n, err := strconv.Atoi(digits)
	if err != nil {
		// digit runs too long for an int
		return Field{Raw: raw}
	}
	return Field{Value: n, Raw: raw, Valid: true}
}

// ExportTriggerID returns the id of the export control for category
func ExportTriggerID(category string) string {
	if category == categoryIML {
		return exportIMLID
	}
	return exportDefaultID
}

// IsExcludedCategory reports whether a category button id must be skipped
func IsExcludedCategory(id string) bool {
	return strings.Contains(id, excludedCategoryID)
}
