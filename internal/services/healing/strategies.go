package healing

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
)

// Confidence assigned by strategies that don't score per candidate.
const (
	roleLabelConfidence = 0.85
	textMatchConfidence = 0.70
)

const maxTextCandidates = 5

// strategyInput carries everything a strategy can consult: the page handle
// for probing, a DOM snapshot for offline discovery, and the parsed broken
// selector.
type strategyInput struct {
	page     interfaces.PageDriver
	snapshot *goquery.Document // may be nil if markup capture failed
	original string
	parsed   parsedSelector
	probe    func(ctx context.Context, selector string) bool
}

// Strategy produces zero or more probed candidates for a broken selector.
// Strategies are an explicit ordered list so they can be added, removed or
// reweighted without touching engine control flow.
type Strategy struct {
	Name     string
	Generate func(ctx context.Context, in *strategyInput) []models.SelectorSuggestion
}

func defaultStrategies() []Strategy {
	return []Strategy{
		{Name: "identifier variation", Generate: identifierVariationStrategy},
		{Name: "role/label match", Generate: roleLabelStrategy},
		{Name: "text match", Generate: textMatchStrategy},
		{Name: "structural similarity", Generate: structuralStrategy},
	}
}

// identifierVariationStrategy probes morphological variants of a stable
// identifier; confidence is the string similarity between the original and
// variant identifiers.
func identifierVariationStrategy(ctx context.Context, in *strategyInput) []models.SelectorSuggestion {
	if in.parsed.TestID == "" {
		return nil
	}
	suggestions := []models.SelectorSuggestion{}
	for _, variant := range identifierVariants(in.parsed.TestID) {
		selector := fmt.Sprintf(`[data-testid="%s"]`, variant)
		if !in.probe(ctx, selector) {
			continue
		}
		suggestions = append(suggestions, models.SelectorSuggestion{
			Selector:   selector,
			Type:       models.SuggestionIdentifierVariation,
			Confidence: Similarity(in.parsed.TestID, variant),
			Reason:     fmt.Sprintf("identifier %q varied to %q", in.parsed.TestID, variant),
		})
	}
	return suggestions
}

// roleTagFallbacks maps ARIA roles to element tags that carry the role
// implicitly.
var roleTagFallbacks = map[string]string{
	"button":   "button",
	"link":     "a",
	"textbox":  "input",
	"checkbox": `input[type="checkbox"]`,
}

// roleLabelStrategy probes role + label-contains combinations.
func roleLabelStrategy(ctx context.Context, in *strategyInput) []models.SelectorSuggestion {
	if in.parsed.Role == "" || in.parsed.Label == "" {
		return nil
	}
	candidates := []string{
		fmt.Sprintf(`[role="%s"][aria-label*="%s"]`, in.parsed.Role, in.parsed.Label),
	}
	if tag, ok := roleTagFallbacks[strings.ToLower(in.parsed.Role)]; ok {
		candidates = append(candidates, fmt.Sprintf(`%s[aria-label*="%s"]`, tag, in.parsed.Label))
	}

	suggestions := []models.SelectorSuggestion{}
	for _, selector := range candidates {
		if !in.probe(ctx, selector) {
			continue
		}
		suggestions = append(suggestions, models.SelectorSuggestion{
			Selector:   selector,
			Type:       models.SuggestionRoleLabel,
			Confidence: roleLabelConfidence,
			Reason:     fmt.Sprintf("role %q with label containing %q", in.parsed.Role, in.parsed.Label),
		})
	}
	return suggestions
}

// textMatchStrategy searches the DOM snapshot for elements containing the
// literal text and synthesizes a selector for each, preferring a stable
// identifier over a DOM id.
func textMatchStrategy(ctx context.Context, in *strategyInput) []models.SelectorSuggestion {
	if in.parsed.Text == "" || in.snapshot == nil {
		return nil
	}

	suggestions := []models.SelectorSuggestion{}
	in.snapshot.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(suggestions) >= maxTextCandidates {
			return false
		}
		if !strings.Contains(strings.TrimSpace(ownText(sel)), in.parsed.Text) {
			return true
		}

		candidate := ""
		if testID, ok := sel.Attr("data-testid"); ok && testID != "" {
			candidate = fmt.Sprintf(`[data-testid="%s"]`, testID)
		} else if id, ok := sel.Attr("id"); ok && id != "" {
			candidate = "#" + id
		}
		if candidate == "" || !in.probe(ctx, candidate) {
			return true
		}

		suggestions = append(suggestions, models.SelectorSuggestion{
			Selector:   candidate,
			Type:       models.SuggestionTextMatch,
			Confidence: textMatchConfidence,
			Reason:     fmt.Sprintf("element text contains %q", in.parsed.Text),
		})
		return true
	})
	return suggestions
}

// ownText returns the element's direct text content, excluding descendants,
// so container elements don't shadow the element the text belongs to.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				b.WriteString(child.Data)
			}
		}
	}
	return b.String()
}

// structuralStrategy is a reserved extension point for DOM-structure-based
// matching.
func structuralStrategy(ctx context.Context, in *strategyInput) []models.SelectorSuggestion {
	return nil
}
