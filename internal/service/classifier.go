package service

import (
	"strings"

	"github.com/mergington/activities-api/internal/models"
)

// categoryRule matches an activity against one category via keyword
// substrings over its lower-cased name and description.
type categoryRule struct {
	category     models.Category
	nameKeywords []string
	descKeywords []string
}

// categoryRules is evaluated in order with first-match-wins; the order is a
// contract, not an accident. An activity matching none falls back to
// academic.
var categoryRules = []categoryRule{
	{
		category:     models.CategorySports,
		nameKeywords: []string{"soccer", "basketball", "sport", "fitness"},
		descKeywords: []string{"team", "game", "athletic"},
	},
	{
		category:     models.CategoryArts,
		nameKeywords: []string{"art", "music", "theater", "drama"},
		descKeywords: []string{"creative", "paint"},
	},
	{
		category:     models.CategoryAcademic,
		nameKeywords: []string{"science", "math", "academic", "study", "olympiad"},
		descKeywords: []string{"learning", "education", "competition"},
	},
	{
		category:     models.CategoryCommunity,
		nameKeywords: []string{"volunteer", "community"},
		descKeywords: []string{"service", "volunteer"},
	},
	{
		category:     models.CategoryTechnology,
		nameKeywords: []string{"computer", "coding", "tech", "robotics"},
		descKeywords: []string{"programming", "technology", "digital", "robot"},
	},
}

// Classify maps an activity name and description to exactly one category.
// It is total: every input yields a category.
func Classify(name, description string) models.Category {
	loweredName := strings.ToLower(name)
	loweredDesc := strings.ToLower(description)
	for _, rule := range categoryRules {
		if containsAny(loweredName, rule.nameKeywords) || containsAny(loweredDesc, rule.descKeywords) {
			return rule.category
		}
	}
	return models.CategoryAcademic
}

// ClassifyActivity classifies by the activity's own name and description.
func ClassifyActivity(activity models.Activity) models.Category {
	return Classify(activity.Name, activity.Description)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
