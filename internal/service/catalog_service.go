package service

import (
	"academyhub/internal/apierr"
	"academyhub/internal/cache"
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CatalogService serves the question catalog and recommendation rules.
// Reads go through the Redis cache; admin writes invalidate it.
type CatalogService struct {
	questions repository.QuestionRepo
	rules     repository.RuleRepo
	cache     cache.CatalogCache
	log       *logger.Logger
}

func NewCatalogService(questions repository.QuestionRepo, rules repository.RuleRepo, catalogCache cache.CatalogCache, log *logger.Logger) *CatalogService {
	return &CatalogService{
		questions: questions,
		rules:     rules,
		cache:     catalogCache,
		log:       log.With("component", "catalog"),
	}
}

// Questions returns the catalog ordered by sort order
func (s *CatalogService) Questions(ctx context.Context) ([]model.Question, error) {
	if cached, err := s.cache.GetQuestions(ctx); err != nil {
		s.log.Warn("question cache read failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	questions, err := s.questions.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if err := s.cache.SetQuestions(ctx, questions); err != nil {
		s.log.Warn("question cache write failed", "error", err)
	}
	return questions, nil
}

// ActiveRules returns active rules by ascending priority
func (s *CatalogService) ActiveRules(ctx context.Context) ([]model.RecommendationRule, error) {
	if cached, err := s.cache.GetRules(ctx); err != nil {
		s.log.Warn("rule cache read failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	rules, err := s.rules.LoadRecommendationRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	if err := s.cache.SetRules(ctx, rules); err != nil {
		s.log.Warn("rule cache write failed", "error", err)
	}
	return rules, nil
}

// Load fetches questions and active rules concurrently
func (s *CatalogService) Load(ctx context.Context) ([]model.Question, []model.RecommendationRule, error) {
	var (
		questions []model.Question
		rules     []model.RecommendationRule
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.Questions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rules, err = s.ActiveRules(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return questions, rules, nil
}

// ListRules returns every rule, inactive included
func (s *CatalogService) ListRules(ctx context.Context) ([]model.RecommendationRule, error) {
	return s.rules.List(ctx)
}

func (s *CatalogService) CreateQuestion(ctx context.Context, q *model.Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	q.ID = ""
	if err := s.questions.Create(ctx, q); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	s.invalidateQuestions(ctx)
	s.log.Info("question created", "question_id", q.ID, "section", q.Section)
	return nil
}

func (s *CatalogService) UpdateQuestion(ctx context.Context, id string, q *model.Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	existing, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load question: %w", err)
	}
	if existing == nil {
		return apierr.NotFound("question")
	}
	q.ID = id
	q.CreatedAt = existing.CreatedAt
	if _, err := s.questions.Update(ctx, q); err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	s.invalidateQuestions(ctx)
	return nil
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, id string) error {
	found, err := s.questions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if !found {
		return apierr.NotFound("question")
	}
	s.invalidateQuestions(ctx)
	return nil
}

func (s *CatalogService) CreateRule(ctx context.Context, r *model.RecommendationRule) error {
	if err := ValidateRule(r); err != nil {
		return err
	}
	r.ID = ""
	if err := s.rules.Create(ctx, r); err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	s.invalidateRules(ctx)
	s.log.Info("rule created", "rule_id", r.ID, "priority", r.Priority)
	return nil
}

func (s *CatalogService) UpdateRule(ctx context.Context, id string, r *model.RecommendationRule) error {
	if err := ValidateRule(r); err != nil {
		return err
	}
	existing, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load rule: %w", err)
	}
	if existing == nil {
		return apierr.NotFound("rule")
	}
	r.ID = id
	r.CreatedAt = existing.CreatedAt
	if _, err := s.rules.Update(ctx, r); err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	s.invalidateRules(ctx)
	return nil
}

func (s *CatalogService) DeleteRule(ctx context.Context, id string) error {
	found, err := s.rules.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if !found {
		return apierr.NotFound("rule")
	}
	s.invalidateRules(ctx)
	return nil
}

func (s *CatalogService) invalidateQuestions(ctx context.Context) {
	if err := s.cache.InvalidateQuestions(ctx); err != nil {
		s.log.Warn("question cache invalidation failed", "error", err)
	}
}

func (s *CatalogService) invalidateRules(ctx context.Context) {
	if err := s.cache.InvalidateRules(ctx); err != nil {
		s.log.Warn("rule cache invalidation failed", "error", err)
	}
}

// ValidateQuestion checks the tags and the rules the tags cannot express
func ValidateQuestion(q *model.Question) error {
	if err := validateStruct(q); err != nil {
		return err
	}
	fields := map[string]string{}
	if !q.Section.Valid() {
		fields["section"] = "must be one of technical, financial, scale, expansion, commitment"
	}
	if !q.Type.Valid() {
		fields["type"] = "must be one of scale, likert, single_choice, multiple_choice, text_open"
	}
	switch q.Type {
	case model.AnswerTypeSingleChoice, model.AnswerTypeMultipleChoice:
		if len(q.Options) < 2 {
			fields["options"] = "choice questions need at least two options"
		}
		seen := map[string]bool{}
		for _, o := range q.Options {
			if seen[o.Value] {
				fields["options"] = "option values must be unique"
			}
			seen[o.Value] = true
		}
	}
	switch q.EffectiveRole() {
	case model.RoleScore:
	case model.RoleFactClientCount:
		if !q.IsInformational() {
			fields["role"] = "fact questions must have weight 0"
		}
	default:
		fields["role"] = "unknown role"
	}
	if len(fields) > 0 {
		return apierr.Validation(errors.New("invalid question"), fields)
	}
	return nil
}

func ValidateRule(r *model.RecommendationRule) error {
	if err := validateStruct(r); err != nil {
		return err
	}
	fields := map[string]string{}
	if !r.ConditionField.Valid() {
		fields["conditionField"] = "must be a pillar"
	}
	if !r.ConditionOperator.Valid() {
		fields["conditionOperator"] = "must be one of <, <=, >, >=, ="
	}
	if len(fields) > 0 {
		return apierr.Validation(errors.New("invalid rule"), fields)
	}
	return nil
}
