package main

import (
	"academyhub/internal/repository"
	"academyhub/internal/service"
	"context"
	"fmt"
)

// seedCatalog writes the default questions and rules. With replace set the
// current catalog is removed first, so a forced run never stores the
// defaults twice. It returns how many items were removed.
func seedCatalog(ctx context.Context, questions repository.QuestionRepo, rules repository.RuleRepo, replace bool) (int, error) {
	removed := 0
	if replace {
		n, err := clearCatalog(ctx, questions, rules)
		if err != nil {
			return n, err
		}
		removed = n
	}

	for _, q := range defaultQuestions() {
		if err := service.ValidateQuestion(&q); err != nil {
			return removed, fmt.Errorf("default question %q: %w", q.Text, err)
		}
		if err := questions.Create(ctx, &q); err != nil {
			return removed, fmt.Errorf("insert question: %w", err)
		}
	}
	for _, r := range defaultRules() {
		if err := service.ValidateRule(&r); err != nil {
			return removed, fmt.Errorf("default rule %q: %w", r.Title, err)
		}
		if err := rules.Create(ctx, &r); err != nil {
			return removed, fmt.Errorf("insert rule: %w", err)
		}
	}
	return removed, nil
}

func clearCatalog(ctx context.Context, questions repository.QuestionRepo, rules repository.RuleRepo) (int, error) {
	removed := 0
	existing, err := questions.LoadQuestions(ctx)
	if err != nil {
		return removed, fmt.Errorf("read questions: %w", err)
	}
	for _, q := range existing {
		ok, err := questions.Delete(ctx, q.ID)
		if err != nil {
			return removed, fmt.Errorf("delete question %s: %w", q.ID, err)
		}
		if ok {
			removed++
		}
	}

	// List includes inactive rules
	all, err := rules.List(ctx)
	if err != nil {
		return removed, fmt.Errorf("read rules: %w", err)
	}
	for _, r := range all {
		ok, err := rules.Delete(ctx, r.ID)
		if err != nil {
			return removed, fmt.Errorf("delete rule %s: %w", r.ID, err)
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}
