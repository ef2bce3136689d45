package service

import (
	"academyhub/internal/apierr"
	"academyhub/internal/cache"
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"academyhub/internal/scoring"
	"academyhub/internal/wizard"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// processingLease is how long a session may sit in processing before a
// retry without a stored diagnostic returns it to the questions
const processingLease = 2 * time.Minute

const interruptedReason = "your answers could not be saved, please try again"

// StartResponse is returned when a diagnostic session is opened
type StartResponse struct {
	Session   *wizard.Session  `json:"session"`
	Token     string           `json:"token"`
	Questions []model.Question `json:"questions"`
}

// AdminDiagnosticView is the back-office detail of one diagnostic
type AdminDiagnosticView struct {
	Record  *model.DiagnosticRecord  `json:"record"`
	Answers []model.AnswerRow        `json:"answers"`
	Lead    *model.LeadTracking      `json:"lead,omitempty"`
	Results *model.DiagnosticResults `json:"results"`

	// QueueRank is the lead's follow-up position, 0 once dismissed
	QueueRank int64 `json:"queueRank"`
}

// DiagnosticService drives the collector state machine and scores completed runs
type DiagnosticService struct {
	catalog     *CatalogService
	sessions    cache.WizardCache
	store       repository.CompletionStore
	diagnostics repository.DiagnosticRepo
	answers     repository.AnswerRepo
	auth        *AuthService
	leads       *LeadService
	stats       *StatsService
	log         *logger.Logger

	now   func() time.Time
	lease time.Duration
}

func NewDiagnosticService(
	catalog *CatalogService,
	sessions cache.WizardCache,
	store repository.CompletionStore,
	diagnostics repository.DiagnosticRepo,
	answers repository.AnswerRepo,
	auth *AuthService,
	leads *LeadService,
	stats *StatsService,
	log *logger.Logger,
) *DiagnosticService {
	return &DiagnosticService{
		catalog:     catalog,
		sessions:    sessions,
		store:       store,
		diagnostics: diagnostics,
		answers:     answers,
		auth:        auth,
		leads:       leads,
		stats:       stats,
		log:         log.With("component", "diagnostic"),
		now:         time.Now,
		lease:       processingLease,
	}
}

// Start opens a session over the current catalog
func (s *DiagnosticService) Start(ctx context.Context) (*StartResponse, error) {
	questions, err := s.catalog.Questions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apierr.New(http.StatusServiceUnavailable, "catalog_empty", errors.New("no questions are configured"))
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	sess := wizard.New(uuid.New().String(), ids, s.now())
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.auth.IssueSessionToken(sess.ID)
	if err != nil {
		return nil, err
	}

	s.log.Debug("diagnostic session started", "session_id", sess.ID, "questions", len(ids))
	return &StartResponse{Session: sess, Token: token, Questions: questions}, nil
}

func (s *DiagnosticService) Get(ctx context.Context, sessionID string) (*wizard.Session, error) {
	return s.load(ctx, sessionID)
}

// Abandon drops a session that has not been scored yet
func (s *DiagnosticService) Abandon(ctx context.Context, sessionID string) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.State != wizard.StateLead && sess.State != wizard.StateQuestions {
		return wizardError(fmt.Errorf("%w: cannot abandon in %s", wizard.ErrInvalidTransition, sess.State))
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.log.Debug("diagnostic session abandoned", "session_id", sess.ID, "state", sess.State)
	return nil
}

// SubmitLead validates the contact and opens the questions
func (s *DiagnosticService) SubmitLead(ctx context.Context, sessionID string, contact model.Contact) (*wizard.Session, error) {
	contact = normalizeContact(contact)
	if err := validateStruct(&contact); err != nil {
		return nil, err
	}
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SubmitLead(contact); err != nil {
		return nil, wizardError(err)
	}
	return sess, s.save(ctx, sess)
}

// Answer records one answer
func (s *DiagnosticService) Answer(ctx context.Context, sessionID, questionID string, value model.AnswerValue) (*wizard.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.settle(ctx, sess); err != nil {
		return nil, err
	}
	questions, err := s.catalog.Questions(ctx)
	if err != nil {
		return nil, err
	}
	q := findQuestion(questions, questionID)
	if q == nil {
		return nil, apierr.NotFound("question")
	}
	if err := sess.Answer(q, value); err != nil {
		if errors.Is(err, wizard.ErrInvalidValue) || errors.Is(err, wizard.ErrUnknownQuestion) {
			return nil, apierr.Validation(err, map[string]string{questionID: err.Error()})
		}
		return nil, wizardError(err)
	}
	return sess, s.save(ctx, sess)
}

func (s *DiagnosticService) Back(ctx context.Context, sessionID string) (*wizard.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.settle(ctx, sess); err != nil {
		return nil, err
	}
	if err := sess.Back(); err != nil {
		return nil, wizardError(err)
	}
	return sess, s.save(ctx, sess)
}

// Complete scores the answers, matches rules and stores everything atomically.
// A storage failure sends the session back to the questions with its answers.
func (s *DiagnosticService) Complete(ctx context.Context, sessionID string) (*wizard.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State == wizard.StateProcessing {
		if err := s.settle(ctx, sess); err != nil {
			return nil, err
		}
		if sess.State == wizard.StateAuth {
			return sess, nil
		}
	}

	catalog, rules, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	questions := sessionQuestions(catalog, sess.QuestionIDs)
	if err := sess.BeginProcessing(requiredIDs(questions)); err != nil {
		return nil, wizardError(err)
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	record, lead := s.evaluate(sess, questions, rules)
	// the outcome is written even if the client went away mid-request
	detached := context.WithoutCancel(ctx)
	if err := s.store.SaveCompletion(ctx, &repository.Completion{Diagnostic: record, Lead: lead}); err != nil {
		s.log.Error("diagnostic persistence failed", "session_id", sess.ID, "error", err)
		if ferr := sess.ProcessingFailed(interruptedReason); ferr == nil {
			if serr := s.save(detached, sess); serr != nil {
				s.log.Error("session save after failure", "session_id", sess.ID, "error", serr)
			}
		}
		return nil, apierr.New(http.StatusInternalServerError, "persistence_failed", err)
	}

	if err := sess.ProcessingSucceeded(record.ID); err != nil {
		return nil, wizardError(err)
	}
	if err := s.save(detached, sess); err != nil {
		return nil, err
	}

	s.leads.Announce(detached, record, lead)
	s.stats.Record(detached, record, lead.Temperature)
	s.log.Info("diagnostic completed",
		"diagnostic_id", record.ID,
		"level", record.Level,
		"composite", record.CompositeIndex,
		"temperature", lead.Temperature,
	)
	return sess, nil
}

// settle resolves a session left in processing by an interrupted completion.
// A stored diagnostic moves it on to the gate; without one, an expired lease
// sends it back to the questions with its answers.
func (s *DiagnosticService) settle(ctx context.Context, sess *wizard.Session) error {
	if sess.State != wizard.StateProcessing {
		return nil
	}
	existing, err := s.diagnostics.GetBySessionID(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("load diagnostic: %w", err)
	}
	if existing != nil {
		if err := sess.ProcessingSucceeded(existing.ID); err != nil {
			return wizardError(err)
		}
		return s.save(ctx, sess)
	}
	if !sess.ProcessingExpired(s.now(), s.lease) {
		return apierr.Conflict("processing", errors.New("diagnostic is still being processed"))
	}
	s.log.Warn("releasing interrupted session", "session_id", sess.ID, "processing_since", sess.ProcessingSince)
	if err := sess.ProcessingFailed(interruptedReason); err != nil {
		return wizardError(err)
	}
	return s.save(ctx, sess)
}

func (s *DiagnosticService) evaluate(sess *wizard.Session, questions []model.Question, rules []model.RecommendationRule) (*model.DiagnosticRecord, *model.LeadTracking) {
	result := scoring.Score(questions, sess.Answers)
	recs := scoring.Split(scoring.Match(rules, result.SectionScores))
	commitment := result.SectionScores[model.PillarCommitment]
	now := s.now()

	record := &model.DiagnosticRecord{
		ID:              repository.NewID(),
		SessionID:       sess.ID,
		Contact:         *sess.Contact,
		Answers:         sess.Answers,
		Scores:          result.SectionScores,
		CompositeIndex:  result.CompositeIndex,
		Level:           scoring.Classify(result.CompositeIndex),
		AuxFacts:        result.AuxFacts,
		Recommendations: recs,
		Status:          model.DiagnosticCompleted,
		CreatedAt:       now,
	}
	lead := &model.LeadTracking{
		DiagnosticID:    record.ID,
		Contact:         record.Contact,
		Temperature:     scoring.Temperature(commitment),
		CommitmentScore: commitment,
		CreatedAt:       now,
	}
	if recs.Primary != nil {
		lead.TopRecommendationTitle = recs.Primary.Title
	}
	return record, lead
}

// Signup creates an account at the gate and unlocks the results
func (s *DiagnosticService) Signup(ctx context.Context, sessionID string, req *model.SignupRequest) (*model.AuthResponse, error) {
	sess, err := s.loadAtGate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	account, err := s.auth.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.unlock(ctx, sess, account)
}

// Login authenticates an existing account at the gate and unlocks the results
func (s *DiagnosticService) Login(ctx context.Context, sessionID string, req *model.AccountLoginRequest) (*model.AuthResponse, error) {
	sess, err := s.loadAtGate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	account, err := s.auth.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.unlock(ctx, sess, account)
}

func (s *DiagnosticService) loadAtGate(ctx context.Context, sessionID string) (*wizard.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !wizard.CanTransition(sess.State, wizard.StateResults) {
		return nil, apierr.Conflict("invalid_transition",
			fmt.Errorf("%w: %s -> %s", wizard.ErrInvalidTransition, sess.State, wizard.StateResults))
	}
	return sess, nil
}

func (s *DiagnosticService) unlock(ctx context.Context, sess *wizard.Session, account *model.Account) (*model.AuthResponse, error) {
	if err := s.diagnostics.LinkAccount(ctx, sess.DiagnosticID, account.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyClaimed) {
			return nil, apierr.Conflict("already_claimed", err)
		}
		return nil, fmt.Errorf("link account: %w", err)
	}
	if err := sess.Authenticated(account.ID); err != nil {
		return nil, wizardError(err)
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.auth.IssueAccountToken(account)
	if err != nil {
		return nil, err
	}
	results, err := s.resultsFor(ctx, sess.DiagnosticID)
	if err != nil {
		return nil, err
	}
	s.log.Info("results unlocked", "diagnostic_id", sess.DiagnosticID, "account_id", account.ID)
	return &model.AuthResponse{Token: token, Account: account, Results: results}, nil
}

// Results is only available once the gate is passed
func (s *DiagnosticService) Results(ctx context.Context, sessionID string) (*model.DiagnosticResults, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State != wizard.StateResults {
		return nil, apierr.New(http.StatusForbidden, "results_locked", errors.New("sign up or log in to see the results"))
	}
	return s.resultsFor(ctx, sess.DiagnosticID)
}

// ListForAccount returns a member's diagnostics, newest first
func (s *DiagnosticService) ListForAccount(ctx context.Context, accountID string) ([]model.DiagnosticRecord, error) {
	return s.diagnostics.ListByAccount(ctx, accountID)
}

// CompareForAccount compares the member's latest diagnostic with the one before it
func (s *DiagnosticService) CompareForAccount(ctx context.Context, accountID string) (*model.DiagnosticComparison, error) {
	records, err := s.diagnostics.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, apierr.New(http.StatusNotFound, "no_previous_diagnostic", errors.New("a retake is needed to compare"))
	}
	cmp := scoring.Compare(&records[1], &records[0])
	return &cmp, nil
}

// AdminView loads a diagnostic with its answers, lead and results
func (s *DiagnosticService) AdminView(ctx context.Context, diagnosticID string) (*AdminDiagnosticView, error) {
	record, err := s.diagnostics.GetByID(ctx, diagnosticID)
	if err != nil {
		return nil, fmt.Errorf("load diagnostic: %w", err)
	}
	if record == nil {
		return nil, apierr.NotFound("diagnostic")
	}
	rows, err := s.answers.GetByDiagnosticID(ctx, diagnosticID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	lead, err := s.leads.Get(ctx, diagnosticID)
	if err != nil {
		return nil, fmt.Errorf("load lead: %w", err)
	}
	rank, err := s.leads.QueueRank(ctx, diagnosticID)
	if err != nil {
		return nil, err
	}
	return &AdminDiagnosticView{
		Record:    record,
		Answers:   rows,
		Lead:      lead,
		Results:   resultsOf(record),
		QueueRank: rank,
	}, nil
}

func (s *DiagnosticService) resultsFor(ctx context.Context, diagnosticID string) (*model.DiagnosticResults, error) {
	record, err := s.diagnostics.GetByID(ctx, diagnosticID)
	if err != nil {
		return nil, fmt.Errorf("load diagnostic: %w", err)
	}
	if record == nil {
		return nil, apierr.NotFound("diagnostic")
	}
	return resultsOf(record), nil
}

// resultsOf renders a stored diagnostic. Recommendations are the ones matched at
// completion, the same snapshot the lead's top recommendation was taken from.
func resultsOf(record *model.DiagnosticRecord) *model.DiagnosticResults {
	return &model.DiagnosticResults{
		DiagnosticID:    record.ID,
		Scores:          record.Scores,
		CompositeIndex:  record.CompositeIndex,
		Level:           record.Level,
		AuxFacts:        record.AuxFacts,
		Recommendations: record.Recommendations,
	}
}

func (s *DiagnosticService) load(ctx context.Context, sessionID string) (*wizard.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, apierr.NotFound("session")
	}
	return sess, nil
}

func (s *DiagnosticService) save(ctx context.Context, sess *wizard.Session) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func wizardError(err error) error {
	var incomplete *wizard.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		fields := make(map[string]string, len(incomplete.Missing))
		for _, id := range incomplete.Missing {
			fields[id] = "is required"
		}
		return apierr.Validation(err, fields)
	case errors.Is(err, wizard.ErrInvalidTransition):
		return apierr.Conflict("invalid_transition", err)
	}
	return err
}

func findQuestion(questions []model.Question, id string) *model.Question {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	return nil
}

// sessionQuestions keeps the session's questions that still exist, in session order
func sessionQuestions(catalog []model.Question, ids []string) []model.Question {
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q := findQuestion(catalog, id); q != nil {
			out = append(out, *q)
		}
	}
	return out
}

func requiredIDs(questions []model.Question) []string {
	var ids []string
	for i := range questions {
		if questions[i].IsRequired() {
			ids = append(ids, questions[i].ID)
		}
	}
	return ids
}

func normalizeContact(c model.Contact) model.Contact {
	return model.Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   normalizeEmail(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Company: strings.TrimSpace(c.Company),
	}
}
