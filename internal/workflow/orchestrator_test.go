package workflow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digest-pipeline/internal/aiprovider"
	"digest-pipeline/internal/cache"
	"digest-pipeline/internal/domain/entity"
	"digest-pipeline/internal/feed"
	"digest-pipeline/internal/workflow"
)

// memStore is an in-memory cache.Store test double, mirroring the one used
// across internal/activity's tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]byte)} }

func (s *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// cannedProvider answers every RunRaw call with the same JSON body,
// counting calls so tests can assert exact AI-call totals.
type cannedProvider struct {
	mu    sync.Mutex
	body  string
	calls int
}

func (p *cannedProvider) RunRaw(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.body, nil
}

func (p *cannedProvider) Name() string { return "canned" }

// cannedJSON satisfies every processor's RunStructured schema at once
// (unused fields are ignored by json.Unmarshal), so one stub provider
// serves every activity in a run.
const cannedJSON = `{
	"is_spam": false, "confidence": 0.1,
	"writing_quality": 15, "informativeness": 15, "credibility": 8,
	"topics": ["golang", "tooling"],
	"semantic_score": 20, "matched_interests": ["golang"],
	"summary": "A concise summary of the article content covering the release.",
	"key_points": ["new compiler", "faster builds"],
	"sim_score": 0.9,
	"reasoning": "matches reader interests"
}`

const spamJSON = `{"is_spam": true, "confidence": 0.95, "reasoning": "auto-generated filler"}`

// fakeRepo is a canned repository.UserConfigRepository.
type fakeRepo struct {
	cfg *entity.UserConfig
	err error
}

func (r *fakeRepo) FetchByID(ctx context.Context, userID string) (*entity.UserConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.cfg, nil
}

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Feed</title>
<item><title>Big Golang Release Ships New Features</title>
<link>http://example.com/golang-release</link>
<description>Golang ships a major new release today with substantial compiler improvements and tooling upgrades that developers have been waiting for since last year.</description>
<pubDate>Thu, 01 Jan 2026 10:00:00 GMT</pubDate>
</item>
</channel></rss>`

func newFeedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher() *feed.RSSFetcher {
	return feed.NewRSSFetcher(feed.DefaultFetchConfig())
}

func baseUserConfig(feedURL string, threshold int) *entity.UserConfig {
	return &entity.UserConfig{
		UserID:          "u1",
		Email:           "u1@example.com",
		Timezone:        "UTC",
		InterestProfile: entity.NewInterestProfile([]string{"golang"}, threshold, 1.0, entity.SummaryStyleBrief),
		Sources:         []entity.SourceRef{{ID: "feed1", Name: "Feed", FeedURL: feedURL}},
	}
}

func fixedNow() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }

// Scenario 1: happy path. One healthy source, one clean article; the
// digest renders with the article's content flowing end to end.
func TestRun_HappyPath(t *testing.T) {
	srv := newFeedServer(t, sampleRSS)
	repo := &fakeRepo{cfg: baseUserConfig(srv.URL, 10)}
	provider := &cannedProvider{body: cannedJSON}

	orch := workflow.New(repo, provider, newMemStore(), newFetcher(), workflow.DefaultConfig())
	result, err := orch.Run(context.Background(), "u1", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, 0, result.ErrorsCount)
	assert.Empty(t, result.DeadSources)
	assert.Equal(t, 1, result.Payload.Metadata.TotalArticles)
	assert.Contains(t, result.Payload.HTMLBody, "Big Golang Release")
	assert.Contains(t, result.Payload.TextBody, "Big Golang Release")
	assert.Greater(t, result.AICalls, 0)
}

// Scenario 2: spam rejection. The validator's AI check flags the article
// as spam, so it never reaches any later stage and the digest is empty.
func TestRun_SpamRejection(t *testing.T) {
	srv := newFeedServer(t, sampleRSS)
	repo := &fakeRepo{cfg: baseUserConfig(srv.URL, 10)}
	provider := &cannedProvider{body: spamJSON}

	orch := workflow.New(repo, provider, newMemStore(), newFetcher(), workflow.DefaultConfig())
	result, err := orch.Run(context.Background(), "u1", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Payload.Metadata.TotalArticles)
	assert.Equal(t, 1, provider.calls) // only the validator's spam check ran
}

// Scenario 3: replay determinism. Running the same user twice against the
// same cache store reproduces the same digest and makes zero further AI
// calls on the second pass.
func TestRun_ReplayDeterminism(t *testing.T) {
	srv := newFeedServer(t, sampleRSS)
	repo := &fakeRepo{cfg: baseUserConfig(srv.URL, 10)}
	provider := &cannedProvider{body: cannedJSON}
	store := newMemStore()

	orch := workflow.New(repo, provider, store, newFetcher(), workflow.DefaultConfig())

	first, err := orch.Run(context.Background(), "u1", fixedNow())
	require.NoError(t, err)
	require.Greater(t, first.AICalls, 0)

	second, err := orch.Run(context.Background(), "u1", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, 0, second.AICalls)
	assert.Equal(t, first.Payload.HTMLBody, second.Payload.HTMLBody)
	assert.Equal(t, first.Payload.TextBody, second.Payload.TextBody)
}

// Scenario 4: AI outage. A nil provider degrades every AI-backed stage to
// its metadata-only fallback instead of failing the run; similarity
// detection in particular produces all-singleton groups.
func TestRun_AIOutage(t *testing.T) {
	srv := newFeedServer(t, sampleRSS)
	repo := &fakeRepo{cfg: baseUserConfig(srv.URL, 1)}

	orch := workflow.New(repo, nil, newMemStore(), newFetcher(), workflow.DefaultConfig())
	result, err := orch.Run(context.Background(), "u1", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, 0, result.AICalls)
	assert.Equal(t, 1, result.Payload.Metadata.TotalArticles)
}

// Scenario 5: dead source. A source that fails to fetch is recorded in
// DeadSources and does not prevent articles from a healthy sibling source
// flowing through the rest of the run.
func TestRun_DeadSource(t *testing.T) {
	srv := newFeedServer(t, sampleRSS)
	cfg := baseUserConfig(srv.URL, 10)
	cfg.Sources = append(cfg.Sources, entity.SourceRef{ID: "dead", FeedURL: "not a url"})
	repo := &fakeRepo{cfg: cfg}
	provider := &cannedProvider{body: cannedJSON}

	orch := workflow.New(repo, provider, newMemStore(), newFetcher(), workflow.DefaultConfig())
	result, err := orch.Run(context.Background(), "u1", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, []string{"dead"}, result.DeadSources)
	assert.Equal(t, 1, result.Payload.Metadata.TotalArticles)
}

// Scenario 6: threshold filtering. A relevance threshold the article's
// score cannot clear drops it at assembly, leaving an empty digest rather
// than failing the run.
func TestRun_ThresholdFiltering(t *testing.T) {
	srv := newFeedServer(t, sampleRSS)
	repo := &fakeRepo{cfg: baseUserConfig(srv.URL, 95)}
	provider := &cannedProvider{body: cannedJSON}

	orch := workflow.New(repo, provider, newMemStore(), newFetcher(), workflow.DefaultConfig())
	result, err := orch.Run(context.Background(), "u1", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Payload.Metadata.TotalGroups)
	assert.Contains(t, result.Payload.HTMLBody, "No new articles")
}

// fetch_user_config is fatal: an unknown user terminates the run before
// any activity executes.
func TestRun_UnknownUserIsFatal(t *testing.T) {
	repo := &fakeRepo{err: entity.ErrNotFound}
	orch := workflow.New(repo, &cannedProvider{body: cannedJSON}, newMemStore(), newFetcher(), workflow.DefaultConfig())

	_, err := orch.Run(context.Background(), "ghost", fixedNow())
	require.Error(t, err)

	var pe *entity.PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, entity.KindFatal, pe.Kind)
}

var _ aiprovider.Provider = (*cannedProvider)(nil)
var _ cache.Store = (*memStore)(nil)
