package services

import "github.com/kaushalkumar0001/StressLess/models"

// DefaultQuestionPool returns the built-in question bank, 30 questions per category.
// A fresh map is returned on every call so callers may not alter the shared bank.
func DefaultQuestionPool() models.QuestionPool {
	return models.QuestionPool{
		models.CategoryMedical: {
			"Do you feel tired even after sleeping enough?",
			"Do you experience frequent headaches or migraines?",
			"Do you feel muscle tension in your neck or shoulders?",
			"Do you have trouble falling asleep?",
			"Do you wake up feeling unrefreshed?",
			"Do you feel physically weak without heavy activity?",
			"Do you experience sudden appetite changes?",
			"Do you feel mentally exhausted during the day?",
			"Do you find it hard to concentrate?",
			"Do you feel restless or unable to relax?",
			"Do you have stomach issues during stress?",
			"Do you feel dizzy or light-headed when stressed?",
			"Do you worry about your health frequently?",
			"Do you feel low energy most days?",
			"Do daily tasks feel overwhelming?",
			"Do you experience mood swings?",
			"Do you feel chest pressure during stress?",
			"Do you avoid exercise due to fatigue?",
			"Do you feel emotionally drained after work?",
			"Do health issues affect your productivity?",
			"Do you feel work-life imbalance?",
			"Do you feel nervous without clear reason?",
			"Do you feel burnout from responsibilities?",
			"Do emotional stress cause physical symptoms?",
			"Do you feel stress weakens your immunity?",
			"Do you rely on caffeine to function?",
			"Do you struggle to relax your body?",
			"Do you feel mentally overloaded?",
			"Do you feel stress even during rest?",
			"Do health stress reduce your happiness?",
		},
		models.CategoryFinancial: {
			"Do you worry about money regularly?",
			"Do you feel income is insufficient?",
			"Do you stress about financial future?",
			"Do unexpected expenses cause anxiety?",
			"Do you avoid checking your expenses?",
			"Do saving money stress you?",
			"Do you compare finances with others?",
			"Do you feel pressure to earn more?",
			"Do money worries affect sleep?",
			"Do you feel financially insecure?",
			"Do you struggle with monthly expenses?",
			"Do loans or debts stress you?",
			"Do you feel pressure to support family?",
			"Do you feel guilty spending money?",
			"Do you delay purchases due to stress?",
			"Do finances affect mental health?",
			"Do you feel anxious before payday?",
			"Do rising expenses stress you?",
			"Do money issues reduce confidence?",
			"Do finances affect work or studies?",
			"Do you feel no control over money?",
			"Do career income worries stress you?",
			"Do emergency savings worry you?",
			"Do social financial pressure stress you?",
			"Do you avoid money discussions?",
			"Do you feel financially dependent?",
			"Do future plans cause anxiety?",
			"Do finances limit life choices?",
			"Do money issues affect relationships?",
			"Do you feel trapped financially?",
		},
		models.CategoryRelationship: {
			"Do you feel misunderstood by close people?",
			"Do family conflicts disturb your peace?",
			"Do arguments affect your whole day?",
			"Do you hesitate to express feelings?",
			"Do you feel emotionally unsupported?",
			"Do you feel lonely even in relationships?",
			"Do you replay arguments in your mind?",
			"Do you feel pressure to please others?",
			"Do communication gaps stress you?",
			"Do you feel ignored by loved ones?",
			"Do relationship issues affect sleep?",
			"Do conversations emotionally drain you?",
			"Do disagreements cause guilt?",
			"Do others’ expectations stress you?",
			"Do relationships affect your focus?",
			"Do you feel insecure in relationships?",
			"Do you fear losing close people?",
			"Do trust issues stress you?",
			"Do you feel emotionally dependent?",
			"Do you feel pressure to behave certain ways?",
			"Do you avoid difficult conversations?",
			"Do emotional issues lower motivation?",
			"Do social comparisons stress you?",
			"Do you feel ignored in groups?",
			"Do people take your emotions lightly?",
			"Do uncertain relationships stress you?",
			"Do small comments hurt deeply?",
			"Do emotions affect productivity?",
			"Do social obligations overwhelm you?",
			"Do relationship stress lower confidence?",
		},
	}
}
