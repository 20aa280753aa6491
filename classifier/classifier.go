// Package classifier tags free-text task descriptions with a category, a
// priority, date-like entities and suggested next actions.
//
// Classification is keyword based and fully deterministic. Classify holds no
// state and may be called from any number of goroutines.
package classifier

import (
	"regexp"
	"strings"

	"site-task-manager/models"
)

// CategoryRule associates a category with the keywords that select it.
type CategoryRule struct {
	Category models.Category
	Keywords []string
	pattern  *regexp.Regexp
}

// PriorityRule associates a priority with the keywords that select it.
type PriorityRule struct {
	Priority models.Priority
	Keywords []string
	pattern  *regexp.Regexp
}

// CategoryRules is evaluated top to bottom and the first matching rule wins.
// Safety must stay first so no later rule can override a hazard.
var CategoryRules = []CategoryRule{
	newCategoryRule(models.CategorySafety, "safety", "hazard", "inspection", "compliance", "ppe", "helmet", "danger", "gas", "leak"),
	newCategoryRule(models.CategoryScheduling, "meeting", "schedule", "call", "appointment", "deadline", "calendar"),
	newCategoryRule(models.CategoryFinance, "payment", "invoice", "bill", "budget", "cost", "expense", "price"),
	newCategoryRule(models.CategoryTechnical, "bug", "fix", "error", "install", "repair", "maintain", "broken"),
}

// PriorityRules is evaluated independently of the category, first match wins.
var PriorityRules = []PriorityRule{
	newPriorityRule(models.PriorityHigh, "urgent", "asap", "immediately", "today", "critical", "emergency"),
	newPriorityRule(models.PriorityMedium, "soon", "this week", "important", "needed"),
}

const (
	DefaultCategory = models.CategoryGeneral
	DefaultPriority = models.PriorityLow
)

// SuggestedActions maps a category to its fixed checklist. Categories without
// an entry get no suggestions.
var SuggestedActions = map[models.Category][]string{
	models.CategoryScheduling: {"Block calendar", "Send invite", "Set reminder"},
	models.CategoryFinance:    {"Check budget", "Get approval", "Process payment"},
	models.CategoryTechnical:  {"Diagnose issue", "Assign technician", "Order parts"},
	models.CategorySafety:     {"Conduct inspection", "File incident report", "Stop work"},
}

var datePattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b(?:today|tomorrow)\b`)

// Classify annotates a task. A nil description is treated as empty text.
func Classify(title string, description *string) models.Classification {
	corpus := Corpus(title, description)
	category := categoryOf(corpus)

	return models.Classification{
		Category: category,
		Priority: priorityOf(corpus),
		ExtractedEntities: models.ExtractedEntities{
			Dates:     extractDates(corpus),
			Locations: []string{},
		},
		SuggestedActions: actionsFor(category),
	}
}

// Corpus builds the lowercased text every rule is evaluated against.
func Corpus(title string, description *string) string {
	desc := ""
	if description != nil {
		desc = *description
	}
	return strings.ToLower(title + " " + desc)
}

func categoryOf(corpus string) models.Category {
	for _, rule := range CategoryRules {
		if rule.pattern.MatchString(corpus) {
			return rule.Category
		}
	}
	return DefaultCategory
}

func priorityOf(corpus string) models.Priority {
	for _, rule := range PriorityRules {
		if rule.pattern.MatchString(corpus) {
			return rule.Priority
		}
	}
	return DefaultPriority
}

func extractDates(corpus string) []string {
	matches := datePattern.FindAllString(corpus, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

func actionsFor(category models.Category) []string {
	// copy so callers cannot mutate the table
	return append([]string{}, SuggestedActions[category]...)
}

func newCategoryRule(category models.Category, keywords ...string) CategoryRule {
	return CategoryRule{Category: category, Keywords: keywords, pattern: keywordPattern(keywords)}
}

func newPriorityRule(priority models.Priority, keywords ...string) PriorityRule {
	return PriorityRule{Priority: priority, Keywords: keywords, pattern: keywordPattern(keywords)}
}

// keywordPattern matches any keyword as a substring.
func keywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile("(?:" + strings.Join(quoted, "|") + ")")
}
