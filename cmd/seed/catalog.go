package main

import "academyhub/internal/model"

func scale(pillar model.Pillar, order int, text string) model.Question {
	return model.Question{Section: pillar, Type: model.AnswerTypeScale, Text: text, Weight: 1, SortOrder: order}
}

func likert(pillar model.Pillar, order int, text string) model.Question {
	return model.Question{
		Section: pillar, Type: model.AnswerTypeLikert, Text: text, Weight: 1, SortOrder: order,
		Description: "0 = strongly disagree, 10 = strongly agree",
	}
}

// defaultQuestions is the starter catalog: every pillar gets scored questions
func defaultQuestions() []model.Question {
	return []model.Question{
		scale(model.PillarTechnical, 10, "How consistent is the quality of your service delivery?"),
		likert(model.PillarTechnical, 11, "Our team follows documented procedures for every service"),
		{
			Section: model.PillarTechnical, Type: model.AnswerTypeMultipleChoice, SortOrder: 12, Weight: 1,
			Text: "Which practices are already part of your routine?",
			Options: []model.Option{
				{Label: "Client onboarding checklist", Value: "onboarding", Score: 3},
				{Label: "Service protocols", Value: "protocols", Score: 4},
				{Label: "Before/after records", Value: "records", Score: 3},
			},
		},

		scale(model.PillarFinancial, 20, "How well do you know your monthly costs and margins?"),
		{
			Section: model.PillarFinancial, Type: model.AnswerTypeSingleChoice, SortOrder: 21, Weight: 2,
			Text: "How do you set your prices?",
			Options: []model.Option{
				{Label: "I copy competitors", Value: "copy", Score: 2},
				{Label: "Cost plus a margin", Value: "cost_plus", Score: 6},
				{Label: "Value and positioning", Value: "value", Score: 10},
			},
		},

		scale(model.PillarScale, 30, "How much of your work could run without you for a week?"),
		{
			Section: model.PillarScale, Type: model.AnswerTypeScale, SortOrder: 31, Weight: 0,
			Role: model.RoleFactClientCount, Text: "How many active clients do you have?",
		},

		likert(model.PillarExpansion, 40, "I have a clear plan for the next 12 months"),
		scale(model.PillarExpansion, 41, "How ready are you to add a new service line or location?"),

		scale(model.PillarCommitment, 50, "How ready are you to invest in growing your business now?"),
		{
			Section: model.PillarCommitment, Type: model.AnswerTypeSingleChoice, SortOrder: 51, Weight: 1,
			Text: "When would you like to start?",
			Options: []model.Option{
				{Label: "This month", Value: "now", Score: 10},
				{Label: "In the next quarter", Value: "quarter", Score: 6},
				{Label: "Just researching", Value: "later", Score: 1},
			},
		},
		{
			Section: model.PillarCommitment, Type: model.AnswerTypeTextOpen, SortOrder: 52, Weight: 1,
			Text: "What is your biggest challenge today?",
		},
	}
}

// defaultRules target the weakest pillar first, then the growth offers
func defaultRules() []model.RecommendationRule {
	rule := func(priority int, field model.Pillar, op model.Operator, value float64, title, description string) model.RecommendationRule {
		return model.RecommendationRule{
			Priority: priority, ConditionField: field, ConditionOperator: op, ConditionValue: value,
			Title: title, Description: description, CTAText: "See the program", Active: true,
		}
	}
	return []model.RecommendationRule{
		rule(10, model.PillarTechnical, model.OpLess, 5, "Service Standards Bootcamp", "Build protocols and a consistent client experience."),
		rule(20, model.PillarFinancial, model.OpLess, 5, "Profit Clinic", "Learn your numbers and price for margin."),
		rule(30, model.PillarScale, model.OpLess, 5, "Delegation Track", "Hire, train and step out of daily operations."),
		rule(40, model.PillarExpansion, model.OpGreaterEqual, 7, "Expansion Mentorship", "Plan a new location or service line with a mentor."),
		rule(50, model.PillarCommitment, model.OpGreaterEqual, 8, "Founders Circle", "Join a peer group of owners ready to scale."),
		rule(60, model.PillarFinancial, model.OpGreaterEqual, 5, "Growth Finance Workshop", "Fund growth without hurting cash flow."),
	}
}
