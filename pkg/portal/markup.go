package portal

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors describing the portal markup. Together with the export ids in
// ids.go they are the whole contract with the site. Class attributes are
// compared as whole strings, so a control carrying an extra class (an active
// tab, a disabled button) is not matched.
const (
	CategorySelector = `a[class="btnNat dynWidth block"], a[class="btnNat2 dynWidth block"]`
	YearSelector     = `ul[class="nav nav-tabs anoNav"] a[class="block"]`
	MonthSelector    = `ul[class="nav nav-pills mesNav"] a[class="block"]`

	subCategoryContainer = `div[class="col-lg-3 col-md-3 col-sm-3 col-xs-3 nopadd centered"]`
	SubCategorySelector  = subCategoryContainer + ` a[class="btnItem dynWidth block"], ` +
		subCategoryContainer + ` a[class="btnItem2 dynWidth block"]`
)

// SubCategory is one selectable item under a category with two selection levels
type SubCategory struct {
	Text string
	ID   string
}

// Periods holds the year and month control ids of the active category
type Periods struct {
	Years  []string
	Months []string
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}
	return doc, nil
}

// ids collects the id attribute of every match, in document order
func ids(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.AttrOr("id", ""))
	})
	return out
}

// CategoryIDs lists the category button ids in document order, leaving out
// the homicide rate button
func CategoryIDs(html string) ([]string, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	var categories []string
	for _, id := range ids(doc, CategorySelector) {
		if IsExcludedCategory(id) {
			continue
		}
		categories = append(categories, id)
	}
	return categories, nil
}

// PeriodIDs lists the year tab and month tab ids currently rendered
func PeriodIDs(html string) (Periods, error) {
	doc, err := parse(html)
	if err != nil {
		return Periods{}, err
	}
	return Periods{
		Years:  ids(doc, YearSelector),
		Months: ids(doc, MonthSelector),
	}, nil
}

// SubCategories lists the sub-category buttons with their link text
func SubCategories(html string) ([]SubCategory, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	var subs []SubCategory
	doc.Find(SubCategorySelector).Each(func(_ int, s *goquery.Selection) {
		subs = append(subs, SubCategory{
			Text: strings.TrimSpace(s.Text()),
			ID:   s.AttrOr("id", ""),
		})
	})
	return subs, nil
}
