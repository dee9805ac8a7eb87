package service

import (
	"strings"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
)

// keywordRule maps a keyword set to a category. Rules are evaluated in
// order; the first set with any match wins, regardless of keyword position
// in the text.
type keywordRule struct {
	category domain.Category
	keywords []string
}

// categoryRules is the fixed fallback precedence: dry vegetables, then wood
// craft, then metal/stone, then embroidery/textile.
var categoryRules = []keywordRule{
	{domain.CategoryDry, []string{"ker", "sangari", "sangri", "ker sangari", "ker-sangari"}},
	{domain.CategoryWood, []string{"wood", "sheesham", "teak", "charpai"}},
	{domain.CategoryMetal, []string{"metal", "stone", "brass", "marble"}},
	{domain.CategoryEmbroidery, []string{"embroider", "textile"}},
}

// explicitRules is the precedence applied to an explicit category field.
var explicitRules = []keywordRule{
	{domain.CategoryDry, []string{"dry"}},
	{domain.CategoryWood, []string{"wood"}},
	{domain.CategoryMetal, []string{"metal", "stone"}},
	{domain.CategoryEmbroidery, []string{"embroider", "textile"}},
}

// Classify derives the display category of a product.
//
// An explicit category field wins when it names a recognised category;
// otherwise the product's name and description are scanned against the
// fixed keyword sets. Products matching nothing fall back to embroidery.
// Classify is pure: identical input always yields the same tag.
func Classify(p domain.Product) domain.Category {
	if cat := strings.ToLower(p.Category); cat != "" {
		if c, ok := matchRules(explicitRules, cat); ok {
			return c
		}
		// Explicit field did not encode a recognised category; fall through
		// to the text heuristics.
	}

	text := strings.ToLower(p.Name)
	if p.Description != nil {
		text += " " + strings.ToLower(*p.Description)
	}
	if c, ok := matchRules(categoryRules, text); ok {
		return c
	}
	return domain.CategoryEmbroidery
}

func matchRules(rules []keywordRule, text string) (domain.Category, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category, true
			}
		}
	}
	return "", false
}
