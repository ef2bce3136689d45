package service

import (
	"academyhub/internal/config"
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"academyhub/internal/wizard"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"
)

type fakeQuestions struct {
	items map[string]model.Question
}

func (f *fakeQuestions) Create(_ context.Context, q *model.Question) error {
	if q.ID == "" {
		q.ID = repository.NewID()
	}
	f.items[q.ID] = *q
	return nil
}

func (f *fakeQuestions) GetByID(_ context.Context, id string) (*model.Question, error) {
	q, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (f *fakeQuestions) Update(_ context.Context, q *model.Question) (bool, error) {
	if _, ok := f.items[q.ID]; !ok {
		return false, nil
	}
	f.items[q.ID] = *q
	return true, nil
}

func (f *fakeQuestions) Delete(_ context.Context, id string) (bool, error) {
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

func (f *fakeQuestions) LoadQuestions(_ context.Context) ([]model.Question, error) {
	out := make([]model.Question, 0, len(f.items))
	for _, q := range f.items {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

type fakeRules struct {
	items []model.RecommendationRule
}

func (f *fakeRules) Create(_ context.Context, r *model.RecommendationRule) error {
	if r.ID == "" {
		r.ID = repository.NewID()
	}
	f.items = append(f.items, *r)
	return nil
}

func (f *fakeRules) GetByID(_ context.Context, id string) (*model.RecommendationRule, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			r := f.items[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRules) List(_ context.Context) ([]model.RecommendationRule, error) {
	out := append([]model.RecommendationRule(nil), f.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (f *fakeRules) LoadRecommendationRules(ctx context.Context) ([]model.RecommendationRule, error) {
	all, _ := f.List(ctx)
	var out []model.RecommendationRule
	for _, r := range all {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRules) Update(_ context.Context, r *model.RecommendationRule) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == r.ID {
			f.items[i] = *r
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRules) Delete(_ context.Context, id string) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// missCache never holds anything and counts invalidations
type missCache struct {
	questionInvalidations int
	ruleInvalidations     int
}

func (c *missCache) GetQuestions(context.Context) ([]model.Question, error) { return nil, nil }
func (c *missCache) SetQuestions(context.Context, []model.Question) error  { return nil }
func (c *missCache) GetRules(context.Context) ([]model.RecommendationRule, error) {
	return nil, nil
}
func (c *missCache) SetRules(context.Context, []model.RecommendationRule) error { return nil }
func (c *missCache) InvalidateQuestions(context.Context) error {
	c.questionInvalidations++
	return nil
}
func (c *missCache) InvalidateRules(context.Context) error {
	c.ruleInvalidations++
	return nil
}

// jsonWizardCache stores sessions as JSON and, like the Redis client, refuses
// to run on a cancelled context
type jsonWizardCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *jsonWizardCache) Save(ctx context.Context, s *wizard.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[s.ID] = b
	return nil
}

func (c *jsonWizardCache) Get(ctx context.Context, id string) (*wizard.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[id]
	if !ok {
		return nil, nil
	}
	var s wizard.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *jsonWizardCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	return nil
}

type fakeDiagnostics struct {
	items map[string]*model.DiagnosticRecord
}

func (f *fakeDiagnostics) SaveDiagnostic(_ context.Context, r *model.DiagnosticRecord) error {
	f.items[r.ID] = r
	return nil
}

func (f *fakeDiagnostics) GetByID(_ context.Context, id string) (*model.DiagnosticRecord, error) {
	return f.items[id], nil
}

func (f *fakeDiagnostics) GetBySessionID(_ context.Context, sessionID string) (*model.DiagnosticRecord, error) {
	for _, r := range f.items {
		if r.SessionID == sessionID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeDiagnostics) ListByAccount(_ context.Context, accountID string) ([]model.DiagnosticRecord, error) {
	var out []model.DiagnosticRecord
	for _, r := range f.items {
		if r.AccountID == accountID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeDiagnostics) LinkAccount(_ context.Context, id, accountID string) error {
	r, ok := f.items[id]
	if !ok {
		return repository.ErrAlreadyClaimed
	}
	if r.AccountID != "" && r.AccountID != accountID {
		return repository.ErrAlreadyClaimed
	}
	r.AccountID = accountID
	r.Status = model.DiagnosticClaimed
	return nil
}

func (f *fakeDiagnostics) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeDiagnostics) Aggregate(_ context.Context) (*model.DiagnosticStats, error) {
	stats := &model.DiagnosticStats{
		ByLevel:     map[model.Level]int64{},
		PillarMeans: model.SectionScores{},
	}
	for _, r := range f.items {
		stats.Total++
		stats.ByLevel[r.Level]++
		stats.CompositeMean += r.CompositeIndex
		for _, p := range model.AllPillars {
			stats.PillarMeans[p] += r.Scores[p]
		}
	}
	if stats.Total > 0 {
		stats.CompositeMean /= float64(stats.Total)
		for _, p := range model.AllPillars {
			stats.PillarMeans[p] /= float64(stats.Total)
		}
	}
	return stats, nil
}

type fakeAnswers struct {
	rows map[string][]model.AnswerRow
}

func (f *fakeAnswers) SaveAnswers(_ context.Context, id string, answers model.Answers, at time.Time) error {
	for qid, v := range answers {
		f.rows[id] = append(f.rows[id], model.AnswerRow{DiagnosticID: id, QuestionID: qid, Value: v, AnsweredAt: at})
	}
	return nil
}

func (f *fakeAnswers) GetByDiagnosticID(_ context.Context, id string) ([]model.AnswerRow, error) {
	return f.rows[id], nil
}

func (f *fakeAnswers) DeleteByDiagnosticID(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

type fakeLeads struct {
	items map[string]*model.LeadTracking
}

func (f *fakeLeads) SaveLeadTracking(_ context.Context, l *model.LeadTracking) error {
	f.items[l.DiagnosticID] = l
	return nil
}

func (f *fakeLeads) GetByDiagnosticID(_ context.Context, id string) (*model.LeadTracking, error) {
	return f.items[id], nil
}

func (f *fakeLeads) List(_ context.Context, filter repository.LeadFilter) ([]model.LeadTracking, error) {
	var out []model.LeadTracking
	for _, l := range f.items {
		if filter.Temperature != "" && l.Temperature != filter.Temperature {
			continue
		}
		if filter.RetakeDue != nil && l.RetakeDue != *filter.RetakeDue {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLeads) DeleteByDiagnosticID(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeLeads) CountByTemperature(_ context.Context) (map[model.Temperature]int64, error) {
	out := map[model.Temperature]int64{}
	for _, l := range f.items {
		out[l.Temperature]++
	}
	return out, nil
}

func (f *fakeLeads) MarkRetakeDue(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, l := range f.items {
		if !l.RetakeDue && l.CreatedAt.Before(cutoff) {
			l.RetakeDue = true
			n++
		}
	}
	return n, nil
}

type fakeAccounts struct {
	byID map[string]*model.Account
}

func (f *fakeAccounts) Create(_ context.Context, a *model.Account) error {
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*model.Account, error) {
	return f.byID[id], nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

type fakeQueue struct {
	scores map[string]float64
}

func (f *fakeQueue) Push(_ context.Context, id string, commitment float64) error {
	f.scores[id] = commitment
	return nil
}

func (f *fakeQueue) Top(_ context.Context, limit int) ([]model.LeadQueueEntry, error) {
	var out []model.LeadQueueEntry
	for id, s := range f.scores {
		out = append(out, model.LeadQueueEntry{DiagnosticID: id, CommitmentScore: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommitmentScore > out[j].CommitmentScore })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (f *fakeQueue) Rank(ctx context.Context, id string) (int64, error) {
	if _, ok := f.scores[id]; !ok {
		return -1, nil
	}
	all, _ := f.Top(ctx, len(f.scores))
	for _, e := range all {
		if e.DiagnosticID == id {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

func (f *fakeQueue) Remove(_ context.Context, id string) error {
	delete(f.scores, id)
	return nil
}

type fakeStatsCache struct {
	recorded int
	seeded   *model.DiagnosticStats
}

func (f *fakeStatsCache) Record(context.Context, *model.DiagnosticRecord, model.Temperature) error {
	f.recorded++
	return nil
}

func (f *fakeStatsCache) Snapshot(context.Context) (*model.DiagnosticStats, error) {
	return f.seeded, nil
}

func (f *fakeStatsCache) Seed(_ context.Context, s *model.DiagnosticStats) error {
	f.seeded = s
	return nil
}

// failingStore fails while fail is set, otherwise delegates
type failingStore struct {
	next repository.CompletionStore
	fail error
}

func (s *failingStore) SaveCompletion(ctx context.Context, c *repository.Completion) error {
	if s.fail != nil {
		return s.fail
	}
	return s.next.SaveCompletion(ctx, c)
}

// cancellingStore cancels the request context in the middle of the write,
// as a client hanging up would
type cancellingStore struct {
	cancel context.CancelFunc
}

func (s *cancellingStore) SaveCompletion(ctx context.Context, _ *repository.Completion) error {
	s.cancel()
	return ctx.Err()
}

type memStore struct {
	diagnostics *fakeDiagnostics
	answers     *fakeAnswers
	leads       *fakeLeads
}

func (s *memStore) SaveCompletion(ctx context.Context, c *repository.Completion) error {
	return repository.SaveWithCompensation(ctx, s.diagnostics, s.answers, s.leads, c)
}

type recordedBroadcast struct {
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	sent []recordedBroadcast
}

func (b *fakeBroadcaster) BroadcastToAdmins(msgType string, payload interface{}) {
	b.sent = append(b.sent, recordedBroadcast{msgType, payload})
}

type testEnv struct {
	questions   *fakeQuestions
	rules       *fakeRules
	catalogMem  *missCache
	sessions    *jsonWizardCache
	diagnostics *fakeDiagnostics
	answers     *fakeAnswers
	leads       *fakeLeads
	accounts    *fakeAccounts
	queue       *fakeQueue
	statsCache  *fakeStatsCache
	store       *failingStore
	broadcaster *fakeBroadcaster

	auth    *AuthService
	catalog *CatalogService
	leadSvc *LeadService
	stats   *StatsService
	svc     *DiagnosticService
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		AdminUsername:  "admin",
		AdminPassword:  "pw",
		PasswordPepper: "pepper",
		WizardTTL:      time.Hour,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Nop()
	e := &testEnv{
		questions:   &fakeQuestions{items: map[string]model.Question{}},
		rules:       &fakeRules{},
		catalogMem:  &missCache{},
		sessions:    &jsonWizardCache{data: map[string][]byte{}},
		diagnostics: &fakeDiagnostics{items: map[string]*model.DiagnosticRecord{}},
		answers:     &fakeAnswers{rows: map[string][]model.AnswerRow{}},
		leads:       &fakeLeads{items: map[string]*model.LeadTracking{}},
		accounts:    &fakeAccounts{byID: map[string]*model.Account{}},
		queue:       &fakeQueue{scores: map[string]float64{}},
		statsCache:  &fakeStatsCache{},
		broadcaster: &fakeBroadcaster{},
	}
	e.store = &failingStore{next: &memStore{e.diagnostics, e.answers, e.leads}}

	e.auth = NewAuthService(testConfig(), e.accounts, log)
	e.catalog = NewCatalogService(e.questions, e.rules, e.catalogMem, log)
	e.leadSvc = NewLeadService(e.leads, e.queue, log)
	e.leadSvc.SetBroadcaster(e.broadcaster)
	e.stats = NewStatsService(e.statsCache, e.diagnostics, e.leads, log)
	e.svc = NewDiagnosticService(e.catalog, e.sessions, e.store, e.diagnostics, e.answers, e.auth, e.leadSvc, e.stats, log)
	return e
}

// seedCatalog adds one scale question per pillar, an informational client count and a text question
func (e *testEnv) seedCatalog(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for i, p := range model.AllPillars {
		q := &model.Question{ID: "q-" + string(p), Section: p, Type: model.AnswerTypeScale, Text: string(p), Weight: 1, SortOrder: i}
		_ = e.questions.Create(ctx, q)
	}
	_ = e.questions.Create(ctx, &model.Question{
		ID: "q-clients", Section: model.PillarScale, Type: model.AnswerTypeScale, Text: "clients",
		Weight: 0, SortOrder: 10, Role: model.RoleFactClientCount,
	})
	_ = e.questions.Create(ctx, &model.Question{
		ID: "q-notes", Section: model.PillarCommitment, Type: model.AnswerTypeTextOpen, Text: "notes", Weight: 1, SortOrder: 11,
	})
	e.rules.items = []model.RecommendationRule{
		{ID: "r-tech", Priority: 1, ConditionField: model.PillarTechnical, ConditionOperator: model.OpLess, ConditionValue: 5, Title: "Tech bootcamp", Active: true},
		{ID: "r-fin", Priority: 2, ConditionField: model.PillarFinancial, ConditionOperator: model.OpLess, ConditionValue: 5, Title: "Finance clinic", Active: true},
		{ID: "r-off", Priority: 0, ConditionField: model.PillarTechnical, ConditionOperator: model.OpLess, ConditionValue: 10, Title: "Retired", Active: false},
	}
}

func validContact() model.Contact {
	return model.Contact{Name: " Ana Souza ", Email: "Ana@Example.com", Phone: "+55 11 5555-0000"}
}
