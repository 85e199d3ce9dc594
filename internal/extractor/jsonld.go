package extractor

import (
	"encoding/json"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

var jsonLDTypes = map[string]bool{
	"Scholarship":      true,
	"FinancialProduct": true,
}

// extractJSONLD parses every <script type="application/ld+json"> block,
// recursively finds objects whose @type matches jsonLDTypes, and fills
// name/amount/deadline from them via named-key lookups (jsonpath), never
// typed struct reflection, per the generic-document-value design note.
func extractJSONLD(lead *leadmodel.Lead, doc *goquery.Document, pageURL string) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var parsed interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &parsed); err != nil {
			return
		}
		for _, node := range findScholarshipNodes(parsed) {
			applyJSONLDNode(lead, node, pageURL)
		}
	})
}

// findScholarshipNodes walks a decoded JSON-LD document value looking for
// objects tagged @type Scholarship or FinancialProduct, descending into
// arrays and an optional @graph wrapper.
func findScholarshipNodes(value interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	switch v := value.(type) {
	case map[string]interface{}:
		if typ, ok := v["@type"]; ok && typeMatches(typ) {
			out = append(out, v)
		}
		if graph, ok := v["@graph"]; ok {
			out = append(out, findScholarshipNodes(graph)...)
		}
	case []interface{}:
		for _, item := range v {
			out = append(out, findScholarshipNodes(item)...)
		}
	}
	return out
}

func typeMatches(typ interface{}) bool {
	switch v := typ.(type) {
	case string:
		return jsonLDTypes[v]
	case []interface{}:
		for _, t := range v {
			if s, ok := t.(string); ok && jsonLDTypes[s] {
				return true
			}
		}
	}
	return false
}

func applyJSONLDNode(lead *leadmodel.Lead, node map[string]interface{}, pageURL string) {
	if name := jsonpathString(node, "$.name"); name != "" {
		fillField(lead, &lead.Name, "name", name, name, "", pageURL, leadmodel.MethodJSONLD)
	}

	amount := jsonpathString(node, "$.value")
	if amount == "" {
		amount = jsonpathString(node, "$.amount")
	}
	if amount != "" {
		fillField(lead, &lead.Amount, "amount", amount, amount, "", pageURL, leadmodel.MethodJSONLD)
	}

	deadline := jsonpathString(node, "$.applicationDeadline")
	if deadline == "" {
		deadline = jsonpathString(node, "$.deadline")
	}
	if deadline != "" {
		fillField(lead, &lead.Deadline, "deadline", deadline, deadline, "", pageURL, leadmodel.MethodJSONLD)
	}
}

// jsonpathString evaluates path against node and stringifies scalar results;
// an object result yields its string "value" member (e.g. a MonetaryAmount),
// and any other non-scalar or missing result returns "".
func jsonpathString(node map[string]interface{}, path string) string {
	result, err := jsonpath.Get(path, node)
	if err != nil {
		return ""
	}
	switch v := result.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case map[string]interface{}:
		if s, ok := v["value"].(string); ok {
			return s
		}
	}
	return ""
}
