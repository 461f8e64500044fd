package services

import (
	"math/rand"

	"github.com/kaushalkumar0001/StressLess/models"
)

// DefaultQuestionsPerCategory is how many questions each category contributes to one assessment.
const DefaultQuestionsPerCategory = 5

// SelectQuestions picks perCategory fresh questions from every category of
// pool, avoiding texts already in history, and returns them interleaved in
// random order together with the updated history. The input history is not
// modified.
//
// A category whose unused questions number fewer than perCategory has its
// history cleared and the whole pool becomes eligible again.
func SelectQuestions(pool models.QuestionPool, history models.QuestionHistory, perCategory int, rng *rand.Rand) ([]models.Question, models.QuestionHistory) {
	return selectQuestions(pool, history, perCategory, rng, nil)
}

func selectQuestions(pool models.QuestionPool, history models.QuestionHistory, perCategory int, rng *rand.Rand, onReset func(models.Category)) ([]models.Question, models.QuestionHistory) {
	updated := history.Clone()
	if updated == nil {
		updated = models.QuestionHistory{}
	}

	selected := make([]models.Question, 0, perCategory*len(models.Categories))
	for _, cat := range models.Categories {
		all := pool[cat]
		if len(all) == 0 {
			continue
		}

		available := unusedQuestions(all, updated[cat])
		if len(available) < perCategory {
			available = append([]string(nil), all...)
			updated[cat] = nil
			if onReset != nil {
				onReset(cat)
			}
		}

		rng.Shuffle(len(available), func(i, j int) {
			available[i], available[j] = available[j], available[i]
		})
		take := perCategory
		if take > len(available) {
			take = len(available)
		}
		chosen := available[:take]

		updated[cat] = append(updated[cat], chosen...)
		for _, text := range chosen {
			selected = append(selected, models.Question{Text: text, Category: cat})
		}
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected, updated
}

// unusedQuestions returns the texts of all that are not in used, in pool order.
func unusedQuestions(all []string, used []string) []string {
	seen := make(map[string]struct{}, len(used))
	for _, text := range used {
		seen[text] = struct{}{}
	}
	out := make([]string, 0, len(all))
	for _, text := range all {
		if _, ok := seen[text]; !ok {
			out = append(out, text)
		}
	}
	return out
}
