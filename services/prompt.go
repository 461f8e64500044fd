package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kaushalkumar0001/StressLess/models"
)

// AnalysisSystemPrompt frames the model for the post-assessment review.
const AnalysisSystemPrompt = "You are a wellness AI specializing in stress management. Generate PERSONALIZED tips based on the user's specific stress categories (Medical, Financial, Relationship). Output ONLY the formatted review. No intro text, no explanations - just the formatted tips starting with the 🌱 emoji."

// CalmBotSystemPrompt scopes the chat assistant to wellness topics.
const CalmBotSystemPrompt = `You are CalmBot, a supportive and empathetic mental health and wellness AI assistant for the StressLess platform.
Your instructions are:
1. GOAL: Provide stress-relief tips, emotional support, and explain wellness concepts.
2. TONE: Be kind, encouraging, professional, and concise. Format responses for chat bubbles.
3. STRICT SCOPE RESTRICTION: You are strictly limited to mental health and wellness topics.
   - If a user asks about ANY other topic (e.g., programming, "what is Java", math, general facts), you MUST refuse to answer.
   - In these cases, reply ONLY with: "I am designed to help with mental wellness and stress relief. I cannot assist with that topic, but I'm here if you'd like to talk about how you're feeling."
4. SAFETY: If a user expresses severe distress or self-harm, gently suggest they consult a professional immediately.`

// TotalMaxScore is the top of the overall scale shown to users.
const TotalMaxScore = DefaultQuestionsPerCategory * models.MaxAnswerValue * 3

// RankedCategory is one entry of RankCategories.
type RankedCategory struct {
	Category models.Category
	Score    int
}

// RankCategories orders the subtotals from highest to lowest. Ties keep
// declaration order (medical, financial, relationship).
func RankCategories(scores models.CategoryScores) []RankedCategory {
	ranked := make([]RankedCategory, 0, len(models.Categories))
	for _, cat := range models.Categories {
		ranked = append(ranked, RankedCategory{Category: cat, Score: scores.Get(cat)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

var categoryEmoji = map[models.Category]string{
	models.CategoryMedical:      "🏥",
	models.CategoryFinancial:    "💰",
	models.CategoryRelationship: "💑",
}

// BuildAnalysisPrompt renders the user prompt for the review. level is the
// overall level as stored on the result.
func BuildAnalysisPrompt(total int, scores models.CategoryScores, level models.StressLevel) string {
	ranked := RankCategories(scores)
	highest, second := ranked[0], ranked[1]

	var b strings.Builder
	b.WriteString("You are a wellness AI. Generate a PERSONALIZED stress management review.\n\n")
	b.WriteString("ASSESSMENT RESULTS:\n")
	fmt.Fprintf(&b, "- Overall Level: %s (%d/%d total)\n", level, total, TotalMaxScore)
	for _, cat := range models.Categories {
		sub := scores.Get(cat)
		fmt.Fprintf(&b, "- %s %s Stress: %d/%d (%s)\n", categoryEmoji[cat], cat.DisplayName(), sub, CategoryMaxScore, CategoryLevel(sub))
	}
	fmt.Fprintf(&b, "\nHIGHEST STRESS AREA: %s (%d/%d)\n", highest.Category.DisplayName(), highest.Score, CategoryMaxScore)
	fmt.Fprintf(&b, "SECOND HIGHEST: %s (%d/%d)\n\n", second.Category.DisplayName(), second.Score, CategoryMaxScore)

	b.WriteString(`IMPORTANT: Generate tips that SPECIFICALLY address the user's stress categories:
- If Medical/Health stress is high: Include tips about sleep, exercise, health checkups, physical relaxation
- If Financial stress is high: Include tips about budgeting, financial planning, reducing money anxiety, small savings habits
- If Relationship stress is high: Include tips about communication, setting boundaries, quality time, conflict resolution

OUTPUT FORMAT (follow exactly):

`)
	fmt.Fprintf(&b, "🌱 Personalized tips for your %s stress\n\n", level)
	fmt.Fprintf(&b, "📊 Your highest stress area: %s\n\n", highest.Category.DisplayName())

	tips := []string{
		fmt.Sprintf("1️⃣ [First tip title - related to %s]", highest.Category.DisplayName()),
		fmt.Sprintf("2️⃣ [Second tip title - related to %s]", second.Category.DisplayName()),
		"3️⃣ [Third tip - general wellness]",
		fmt.Sprintf("4️⃣ [Fourth tip - based on overall %s level]", level),
		"5️⃣ [Fifth tip - self-care/support]",
	}
	for _, tip := range tips {
		b.WriteString(tip)
		b.WriteString("\n\n[Step 1]\n\n[Step 2]\n\n[Step 3]\n\n")
	}

	b.WriteString(`💪 Remember: Small steps lead to big changes!

RULES:
- Use emojis 1️⃣ 2️⃣ 3️⃣ 4️⃣ 5️⃣
- Title on same line as emoji number
- Each step on separate line
- Empty line between each tip
- Make tips SPECIFIC to the stress categories shown above
- Keep steps short and actionable

Generate now:`)
	return b.String()
}
