package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// genericFieldLimit caps copied field values before the ellipsis.
	genericFieldLimit = 20
	// defaultTitle stands in for absent or empty titles.
	defaultTitle = "Untitled Article"
	// maxSuggestedQuestions caps the retained suggested-questions entries.
	maxSuggestedQuestions = 1
)

// Transformer turns a fetch envelope into publishable article summaries.
// It never fails: anything malformed degrades to an empty slice with a
// logged diagnostic.
type Transformer struct{}

// Transform validates the envelope and summarizes each result item.
// Non-map items are skipped silently.
func (t *Transformer) Transform(env FetchEnvelope) []ArticleSummary {
	if env.Result == nil {
		log.Printf("Error: invalid response structure")
		return nil
	}
	if env.StatusCode != 200 {
		log.Printf("Error %d: %v", env.StatusCode, env.Result)
		return nil
	}
	items, ok := env.Result.([]any)
	if !ok {
		log.Printf("Error: result is not an array")
		return nil
	}

	summaries := make([]ArticleSummary, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		summaries = append(summaries, summarize(fields))
	}
	return summaries
}

// summarize trims one raw article into its summary shape. The three
// special fields get dedicated handling; everything else is copied with
// truncation.
func summarize(fields map[string]any) ArticleSummary {
	summary := make(ArticleSummary, len(fields)+1)
	for key, value := range fields {
		switch key {
		case "title", "body", "suggestedQuestionsList":
			continue
		default:
			summary[key] = ellipsize(fmt.Sprintf("%v", value), genericFieldLimit)
		}
	}
	summary["title"] = summarizeTitle(fields["title"])
	summary["body"] = summarizeBody(fields["body"])
	summary["suggestedQuestionsList"] = summarizeQuestions(fields["suggestedQuestionsList"])
	return summary
}

// summarizeTitle coerces the title to a string, substituting the
// default for every falsy value: null, empty string, false, zero and
// empty collections.
func summarizeTitle(value any) string {
	switch v := value.(type) {
	case nil:
		return defaultTitle
	case string:
		if v == "" {
			return defaultTitle
		}
		return v
	case bool:
		if !v {
			return defaultTitle
		}
		return "true"
	case float64:
		if v == 0 {
			return defaultTitle
		}
		return fmt.Sprintf("%v", v)
	case []any:
		if len(v) == 0 {
			return defaultTitle
		}
		return fmt.Sprintf("%v", v)
	case map[string]any:
		if len(v) == 0 {
			return defaultTitle
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// summarizeBody reduces an HTML fragment to its element count and the
// tag name of the first element. Unparseable or empty content counts as
// zero elements with a null main tag.
func summarizeBody(value any) map[string]any {
	out := map[string]any{
		"element_count": 0,
		"main_tag":      nil,
	}

	html, _ := value.(string)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}

	elements := doc.Find("body").Find("*")
	out["element_count"] = elements.Length()
	if elements.Length() > 0 {
		out["main_tag"] = goquery.NodeName(elements.First())
	}
	return out
}

// summarizeQuestions keeps only the first entry of the list, and only
// when that entry is itself a map. A non-list value is replaced with an
// error descriptor; an absent value yields an empty list.
func summarizeQuestions(value any) any {
	if value == nil {
		return []map[string]any{}
	}
	list, ok := value.([]any)
	if !ok {
		return map[string]any{"error": "Invalid format"}
	}

	limit := len(list)
	if limit > maxSuggestedQuestions {
		limit = maxSuggestedQuestions
	}
	kept := make([]map[string]any, 0, limit)
	for _, entry := range list[:limit] {
		if m, ok := entry.(map[string]any); ok {
			kept = append(kept, m)
		}
	}
	return kept
}

// ellipsize truncates s to limit runes, marking the cut with "...".
func ellipsize(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
