// Package catalog holds the fixed memoir categories, their fifteen interview
// prompts and the labels used when rendering a booklet.
//
// Unknown keys resolve to Primary in the pure lookups (PromptsFor,
// LabelsFor, Prompt). Input validation goes through ParseCategory, which
// accepts the empty key as Primary and rejects anything else it does not
// know, so a category that passed validation always selects the same data
// at save time and at render time.
package catalog

import (
	"fmt"
	"strings"

	"github.com/lifememo/navi/internal/common"
)

// Category partitions an account's records and selects its prompt set.
type Category string

const (
	Primary   Category = "primary"
	Company   Category = "company"
	EndOfLife Category = "end_of_life"
	Other     Category = "other"
)

// Default is used when no category is given.
const Default = Primary

// PromptCount is the number of prompts in every category.
const PromptCount = 15

// Labels are the display strings for one category.
type Labels struct {
	CategoryNoun     string `json:"category_noun"`
	StoryTitle       string `json:"story_title"`
	InterviewTitle   string `json:"interview_title"`
	TimelineTitle    string `json:"timeline_title"`
	PhotosTitle      string `json:"photos_title"`
	PossessiveSuffix string `json:"possessive_suffix"`
}

type entry struct {
	prompts [PromptCount]string
	labels  Labels
}

// legacy keys used by earlier clients
var aliases = map[string]Category{
	"jibunshi":  Primary,
	"kaishashi": Company,
	"shukatsu":  EndOfLife,
}

// All returns the categories in display order.
func All() []Category {
	return []Category{Primary, Company, EndOfLife, Other}
}

// ParseCategory validates a caller-supplied category key.
func ParseCategory(key string) (Category, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return Default, nil
	}
	if _, ok := entries[Category(k)]; ok {
		return Category(k), nil
	}
	if c, ok := aliases[k]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", common.ErrValidation, key)
}

// Resolve returns c if it is known and Default otherwise.
func Resolve(c Category) Category {
	if _, ok := entries[c]; ok {
		return c
	}
	if a, ok := aliases[string(c)]; ok {
		return a
	}
	return Default
}

// PromptsFor returns the ordered prompts of c. The slice is a copy.
func PromptsFor(c Category) []string {
	e := entries[Resolve(c)]
	out := make([]string, PromptCount)
	copy(out, e.prompts[:])
	return out
}

// Prompt returns prompt number n (1-based) of c.
func Prompt(c Category, n int) (string, error) {
	if n < 1 || n > PromptCount {
		return "", fmt.Errorf("%w: prompt number must be between 1 and %d, got %d",
			common.ErrValidation, PromptCount, n)
	}
	return entries[Resolve(c)].prompts[n-1], nil
}

// LabelsFor returns the display labels of c.
func LabelsFor(c Category) Labels {
	return entries[Resolve(c)].labels
}
