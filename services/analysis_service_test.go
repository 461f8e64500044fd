package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryAnalysisStore is an AnalysisStore backed by a map, for tests that
// check what actually ends up stored.
type memoryAnalysisStore struct {
	mu       sync.Mutex
	results  map[string]*models.TestResult
	writeErr error
	writes   int
}

func newMemoryAnalysisStore(results ...*models.TestResult) *memoryAnalysisStore {
	s := &memoryAnalysisStore{results: make(map[string]*models.TestResult)}
	for _, r := range results {
		s.results[r.ID] = r
	}
	return s
}

func (s *memoryAnalysisStore) GetResultByID(_ context.Context, id string) (*models.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memoryAnalysisStore) ReadAnalysis(_ context.Context, id string) (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	if !ok || !r.HasAnalysis() {
		return nil, nil
	}
	text := *r.AIAnalysis
	return &text, nil
}

func (s *memoryAnalysisStore) WriteAnalysis(_ context.Context, id string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	r, ok := s.results[id]
	if !ok {
		return repository.ErrResultNotFound
	}
	s.writes++
	r.AIAnalysis = &text
	return nil
}

func (s *memoryAnalysisStore) stored(id string) *string {
	text, _ := s.ReadAnalysis(context.Background(), id)
	return text
}

func validRequest(resultID string, force bool) AnalysisRequest {
	return AnalysisRequest{
		ResultID: resultID,
		Score:    intPtr(30),
		CategoricalScores: &CategoryScoresInput{
			Medical:      intPtr(20),
			Financial:    intPtr(0),
			Relationship: intPtr(10),
		},
		Level:           models.LevelLow,
		ForceRegenerate: force,
	}
}

const owner = "user-1"

func ownedResult(id string) *models.TestResult {
	return &models.TestResult{ID: id, UserID: owner, Score: 30, Level: models.LevelLow}
}

func TestAnalysisService_CacheIdempotence(t *testing.T) {
	store := newMemoryAnalysisStore(ownedResult("r1"))
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, AnalysisSystemPrompt, mock.AnythingOfType("string")).Return("🌱 tips", nil).Once()
	svc := NewAnalysisService(store, gen)

	first, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "🌱 tips", first.Text)

	second, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)

	gen.AssertNumberOfCalls(t, "Generate", 1)
	assert.Equal(t, 1, store.writes)
}

func TestAnalysisService_ForcedRegenerationOverwrites(t *testing.T) {
	existing := ownedResult("r1")
	existing.AIAnalysis = strPtr("old tips")
	store := newMemoryAnalysisStore(existing)
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("new tips", nil).Once()
	svc := NewAnalysisService(store, gen)

	forced, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", true))
	require.NoError(t, err)
	assert.False(t, forced.Cached)
	assert.Equal(t, "new tips", forced.Text)

	again, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, "new tips", again.Text)
	gen.AssertExpectations(t)
}

func TestAnalysisService_TimeoutLeavesNoRecord(t *testing.T) {
	store := newMemoryAnalysisStore(ownedResult("r1"))
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", context.DeadlineExceeded).Once()
	svc := NewAnalysisService(store, gen)

	outcome, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))

	assert.Nil(t, outcome)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationTransient))
	assert.Nil(t, store.stored("r1"))
	assert.Equal(t, 0, store.writes)
}

func TestAnalysisService_EmptyTextIsTransient(t *testing.T) {
	store := newMemoryAnalysisStore(ownedResult("r1"))
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", nil).Once()
	svc := NewAnalysisService(store, gen)

	_, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))

	assert.True(t, errors.Is(err, ErrGenerationTransient))
	assert.Nil(t, store.stored("r1"))
}

func TestAnalysisService_UnavailableIsNotTransient(t *testing.T) {
	store := newMemoryAnalysisStore(ownedResult("r1"))
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", ErrGenerationUnavailable).Once()
	svc := NewAnalysisService(store, gen)

	_, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))

	assert.True(t, errors.Is(err, ErrGenerationUnavailable))
	assert.False(t, errors.Is(err, ErrGenerationTransient))
}

func TestAnalysisService_FailedForcedRegenerationKeepsOldText(t *testing.T) {
	existing := ownedResult("r1")
	existing.AIAnalysis = strPtr("old tips")
	store := newMemoryAnalysisStore(existing)
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("upstream 502")).Once()
	svc := NewAnalysisService(store, gen)

	_, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", true))

	assert.True(t, errors.Is(err, ErrGenerationTransient))
	require.NotNil(t, store.stored("r1"))
	assert.Equal(t, "old tips", *store.stored("r1"))
}

func TestAnalysisService_PersistFailureStillReturnsText(t *testing.T) {
	store := newMemoryAnalysisStore(ownedResult("r1"))
	store.writeErr = errors.New("database is locked")
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("fresh tips", nil).Twice()
	svc := NewAnalysisService(store, gen)

	outcome, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))
	require.NoError(t, err)
	assert.Equal(t, "fresh tips", outcome.Text)
	assert.False(t, outcome.Cached)

	// Nothing was cached, so the next request generates again.
	_, err = svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))
	require.NoError(t, err)
	gen.AssertNumberOfCalls(t, "Generate", 2)
}

func TestAnalysisService_ReadFailureFallsThroughToGeneration(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("GetResultByID", mock.Anything, "r1").Return(ownedResult("r1"), nil)
	repo.On("ReadAnalysis", mock.Anything, "r1").Return(nil, errors.New("disk I/O error"))
	repo.On("WriteAnalysis", mock.Anything, "r1", "tips").Return(nil).Once()
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("tips", nil).Once()
	svc := NewAnalysisService(repo, gen)

	outcome, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))

	require.NoError(t, err)
	assert.Equal(t, "tips", outcome.Text)
	repo.AssertExpectations(t)
}

func TestAnalysisService_Validation(t *testing.T) {
	gen := new(MockGenerator)
	svc := NewAnalysisService(newMemoryAnalysisStore(ownedResult("r1")), gen)

	cases := map[string]func(*AnalysisRequest){
		"missing score":              func(r *AnalysisRequest) { r.Score = nil },
		"missing categorical scores": func(r *AnalysisRequest) { r.CategoricalScores = nil },
		"missing medical":            func(r *AnalysisRequest) { r.CategoricalScores.Medical = nil },
		"missing financial":          func(r *AnalysisRequest) { r.CategoricalScores.Financial = nil },
		"missing relationship":       func(r *AnalysisRequest) { r.CategoricalScores.Relationship = nil },
		"subtotal out of range":      func(r *AnalysisRequest) { r.CategoricalScores.Medical = intPtr(21) },
		"total out of range":         func(r *AnalysisRequest) { r.Score = intPtr(61) },
		"total not the subtotal sum": func(r *AnalysisRequest) { r.Score = intPtr(31) },
		"unknown level":              func(r *AnalysisRequest) { r.Level = "Extreme" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest("r1", false)
			mutate(&req)
			_, err := svc.GetOrCreateAnalysis(context.Background(), owner, req)
			assert.True(t, errors.Is(err, ErrContractViolation), "got %v", err)
		})
	}
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_MissingLevelIsDerived(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Overall Level: Low (30/60 total)")
	})).Return("tips", nil).Once()
	svc := NewAnalysisService(newMemoryAnalysisStore(ownedResult("r1")), gen)

	req := validRequest("r1", false)
	req.Level = ""
	_, err := svc.GetOrCreateAnalysis(context.Background(), owner, req)

	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestAnalysisService_OtherUsersResultIsForbidden(t *testing.T) {
	gen := new(MockGenerator)
	store := newMemoryAnalysisStore(ownedResult("r1"))
	svc := NewAnalysisService(store, gen)

	_, err := svc.GetOrCreateAnalysis(context.Background(), "intruder", validRequest("r1", false))

	assert.True(t, errors.Is(err, ErrForbidden))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_NoResultIDGeneratesWithoutCaching(t *testing.T) {
	repo := new(MockResultRepository)
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("tips", nil).Twice()
	svc := NewAnalysisService(repo, gen)

	for i := 0; i < 2; i++ {
		outcome, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("", false))
		require.NoError(t, err)
		assert.False(t, outcome.Cached)
	}
	gen.AssertNumberOfCalls(t, "Generate", 2)
	repo.AssertNotCalled(t, "WriteAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_UnknownResultStillAnswers(t *testing.T) {
	store := newMemoryAnalysisStore()
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("tips", nil).Once()
	svc := NewAnalysisService(store, gen)

	outcome, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("missing", false))

	require.NoError(t, err)
	assert.Equal(t, "tips", outcome.Text)
	assert.Equal(t, 0, store.writes)
}

func TestAnalysisService_ConcurrentFillsShareOneGeneration(t *testing.T) {
	store := newMemoryAnalysisStore(ownedResult("r1"))
	release := make(chan struct{})
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).Return("tips", nil)
	svc := NewAnalysisService(store, gen)

	const callers = 8
	var wg sync.WaitGroup
	texts := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := svc.GetOrCreateAnalysis(context.Background(), owner, validRequest("r1", false))
			errs[i] = err
			if outcome != nil {
				texts[i] = outcome.Text
			}
		}(i)
	}
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "tips", texts[i])
	}
	// Late arrivals may find the stored text instead of joining the fill; either way at most one write.
	assert.Equal(t, 1, store.writes)
}
