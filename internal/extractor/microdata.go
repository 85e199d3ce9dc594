package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// extractMicrodata selects [itemscope][itemtype*='Scholarship'] containers
// and reads name/value/amount/applicationDeadline/deadline itemprops from
// within each one.
func extractMicrodata(lead *leadmodel.Lead, doc *goquery.Document, pageURL string) {
	doc.Find("[itemscope][itemtype]").Each(func(_ int, sel *goquery.Selection) {
		itemType, _ := sel.Attr("itemtype")
		if !strings.Contains(itemType, "Scholarship") {
			return
		}

		if name := itemPropText(sel, "name"); name != "" {
			fillField(lead, &lead.Name, "name", name, name, "[itemprop=name]", pageURL, leadmodel.MethodMicrodata)
		}
		amount := itemPropText(sel, "value")
		if amount == "" {
			amount = itemPropText(sel, "amount")
		}
		if amount != "" {
			fillField(lead, &lead.Amount, "amount", amount, amount, "[itemprop=value|amount]", pageURL, leadmodel.MethodMicrodata)
		}
		deadline := itemPropText(sel, "applicationDeadline")
		if deadline == "" {
			deadline = itemPropText(sel, "deadline")
		}
		if deadline != "" {
			fillField(lead, &lead.Deadline, "deadline", deadline, deadline, "[itemprop=applicationDeadline|deadline]", pageURL, leadmodel.MethodMicrodata)
		}
	})
}

func itemPropText(container *goquery.Selection, prop string) string {
	found := container.Find(`[itemprop="` + prop + `"]`).First()
	if found.Length() == 0 {
		return ""
	}
	if content, ok := found.Attr("content"); ok && content != "" {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(found.Text())
}
