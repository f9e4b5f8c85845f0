package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"cfbpoll/rankings/internal/cache"
	"cfbpoll/rankings/internal/models"
	"cfbpoll/rankings/internal/provider"
	"cfbpoll/rankings/internal/rankings"
	"cfbpoll/rankings/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(v int) *int { return &v }

type fakeProvider struct {
	data  *models.SeasonData
	err   error
	calls int
}

func (f *fakeProvider) GetSeasonData(context.Context, int, int) (*models.SeasonData, error) {
	f.calls++
	return f.data, f.err
}

func (f *fakeProvider) GetCalendar(context.Context, int) ([]models.CalendarWeek, error) {
	return nil, nil
}

func (f *fakeProvider) GetFullSeasonSchedule(context.Context, int) ([]models.ScheduleGame, error) {
	return nil, nil
}

type fakeRater struct {
	ratings map[string]models.RatingDetails
	err     error
}

func (f *fakeRater) RateTeams(context.Context, *models.SeasonData) (map[string]models.RatingDetails, error) {
	return f.ratings, f.err
}

type brokenStore struct {
	*snapshot.MemoryStore
}

func (b *brokenStore) Upsert(context.Context, *models.Snapshot) error {
	return errors.New("disk full")
}

type fixture struct {
	svc        *Service
	upstream   *fakeProvider
	rater      *fakeRater
	cached     *provider.CachedProvider
	generator  *rankings.CachedGenerator
	snapshots  *snapshot.Manager
	rankingsDB *cache.MemoryStore
}

func newFixture(t *testing.T, snapStore snapshot.Store) *fixture {
	t.Helper()

	game := models.Game{ID: 1, Season: 2024, Week: 5, HomeTeam: "Texas", HomePoints: pts(34), AwayTeam: "Oklahoma", AwayPoints: pts(3)}
	upstream := &fakeProvider{data: &models.SeasonData{
		Season: 2024,
		Week:   5,
		Teams: map[string]*models.TeamInfo{
			"Texas":    {Name: "Texas", Wins: 1, Games: []models.Game{game}},
			"Oklahoma": {Name: "Oklahoma", Losses: 1, Games: []models.Game{game}},
		},
		Games: []models.Game{game},
	}}
	rater := &fakeRater{ratings: map[string]models.RatingDetails{
		"Texas":    {Wins: 1, Rating: 60},
		"Oklahoma": {Losses: 1, Rating: 30},
	}}

	now := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	policy := cache.NewExpirationPolicy(0, 0)
	policy.Now = clock

	rankingsStore := cache.NewMemoryStore()
	cached := provider.NewCachedProvider(upstream, cache.New(cache.NewMemoryStore(), "seasondata", cache.WithClock(clock)), policy)
	generator := rankings.NewCachedGenerator(rankings.NewService(cached, rater), cache.New(rankingsStore, "rankings", cache.WithClock(clock)), policy)

	if snapStore == nil {
		snapStore = snapshot.NewMemoryStore()
	}
	snapshots := snapshot.NewManager(snapStore)

	return &fixture{
		svc:        NewService(cached, rater, generator, snapshots),
		upstream:   upstream,
		rater:      rater,
		cached:     cached,
		generator:  generator,
		snapshots:  snapshots,
		rankingsDB: rankingsStore,
	}
}

func TestCalculateRankings_SavesDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	res, err := f.svc.CalculateRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	require.Len(t, res.Rankings.Rankings, 2)
	assert.Equal(t, "Texas", res.Rankings.Rankings[0].TeamName)

	snap, ok, err := f.snapshots.GetSnapshot(ctx, 2024, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, snap.Published)

	_, ok, err = f.svc.GetPublishedRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCalculateRankings_RefetchesSeasonData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.cached.GetSeasonData(ctx, 2024, 5)
	require.NoError(t, err)
	require.Equal(t, 1, f.upstream.calls)

	_, err = f.svc.CalculateRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, f.upstream.calls)
}

func TestCalculateRankings_EvictsCachedRankings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	before, err := f.svc.GetRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 60.0, before.Rankings[0].Rating)
	assert.Equal(t, 1, f.rankingsDB.Len())

	f.rater.ratings = map[string]models.RatingDetails{
		"Texas":    {Wins: 1, Rating: 20},
		"Oklahoma": {Losses: 1, Rating: 45},
	}
	_, err = f.svc.CalculateRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, f.rankingsDB.Len())

	after, err := f.svc.GetRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, "Oklahoma", after.Rankings[0].TeamName)
}

func TestCalculateRankings_PersistFailureStillReturnsRankings(t *testing.T) {
	f := newFixture(t, &brokenStore{MemoryStore: snapshot.NewMemoryStore()})

	res, err := f.svc.CalculateRankings(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	require.NotNil(t, res.Rankings)
	assert.Len(t, res.Rankings.Rankings, 2)
}

func TestCalculateRankings_UpstreamAndRatingErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, nil)
	f.upstream.data, f.upstream.err = nil, errors.New("503 from upstream")
	res, err := f.svc.CalculateRankings(ctx, 2024, 5)
	assert.Error(t, err)
	assert.Nil(t, res)

	f = newFixture(t, nil)
	f.rater.err = errors.New("no games")
	res, err = f.svc.CalculateRankings(ctx, 2024, 5)
	assert.Error(t, err)
	assert.Nil(t, res)

	weeks, err := f.svc.GetPersistedWeeks(ctx)
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestCalculateRankings_RejectsInvalidSeason(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.CalculateRankings(context.Background(), 0, 5)
	assert.ErrorIs(t, err, ErrInvalidSeason)
	_, err = f.svc.CalculateRankings(context.Background(), 2024, -1)
	assert.ErrorIs(t, err, ErrInvalidSeason)
	assert.Equal(t, 0, f.upstream.calls)
}

func TestPublishAndDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	ok, err := f.svc.PublishSnapshot(ctx, 2024, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.CalculateRankings(ctx, 2024, 5)
	require.NoError(t, err)

	ok, err = f.svc.PublishSnapshot(ctx, 2024, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	published, ok, err := f.svc.GetPublishedRankings(ctx, 2024, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Texas", published.Rankings[0].TeamName)

	weeks, err := f.svc.GetPersistedWeeks(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.True(t, weeks[0].Published)

	ok, err = f.svc.DeleteSnapshot(ctx, 2024, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.DeleteSnapshot(ctx, 2024, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}
