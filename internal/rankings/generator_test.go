package rankings

import (
	"context"
	"errors"
	"testing"
	"time"

	"cfbpoll/rankings/internal/cache"
	"cfbpoll/rankings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(v int) *int { return &v }

func headToHead() (*models.SeasonData, map[string]models.RatingDetails) {
	game := models.Game{
		ID: 401, Season: 2024, Week: 5,
		HomeTeam: "Texas", HomePoints: pts(31),
		AwayTeam: "Oklahoma", AwayPoints: pts(17),
	}
	data := &models.SeasonData{
		Season: 2024,
		Week:   5,
		Teams: map[string]*models.TeamInfo{
			"Texas":    {Name: "Texas", Conference: "SEC", Color: "#BF5700", Wins: 1, Games: []models.Game{game}},
			"Oklahoma": {Name: "Oklahoma", Conference: "SEC", Losses: 1, Games: []models.Game{game}},
		},
		Games: []models.Game{game},
	}
	ratings := map[string]models.RatingDetails{
		"Texas":    {Wins: 1, Rating: 60, WeightedStrengthOfSchedule: 0.2},
		"Oklahoma": {Losses: 1, Rating: 30, WeightedStrengthOfSchedule: 0.8},
	}
	return data, ratings
}

func TestGenerate_HeadToHead(t *testing.T) {
	data, ratings := headToHead()

	result := Generate(data, ratings)
	require.Len(t, result.Rankings, 2)
	assert.Equal(t, 2024, result.Season)
	assert.Equal(t, 5, result.Week)

	first, second := result.Rankings[0], result.Rankings[1]
	assert.Equal(t, "Texas", first.TeamName)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Oklahoma", second.TeamName)
	assert.Equal(t, 2, second.Rank)

	// Opponent ranked 2 lands in the top-10 bucket
	assert.Equal(t, models.Record{Wins: 1}, first.Details.VsRank1To10)
	assert.Equal(t, models.Record{Wins: 1}, first.Details.Home)
	assert.Equal(t, models.Record{Losses: 1}, second.Details.VsRank1To10)
	assert.Equal(t, models.Record{Losses: 1}, second.Details.Away)

	assert.Equal(t, 2, first.SOSRanking)
	assert.Equal(t, 1, second.SOSRanking)
	assert.Equal(t, "SEC", first.Conference)
	assert.Equal(t, "#BF5700", first.Color)
}

func TestGenerate_RanksAreDenseAndTiesBreakByName(t *testing.T) {
	ratings := map[string]models.RatingDetails{
		"zeta":    {Rating: 50, WeightedStrengthOfSchedule: 0.5},
		"Alpha":   {Rating: 50, WeightedStrengthOfSchedule: 0.5},
		"Mid":     {Rating: 70, WeightedStrengthOfSchedule: 0.1},
		"Bottom":  {Rating: 10, WeightedStrengthOfSchedule: 0.9},
		"beta":    {Rating: 50, WeightedStrengthOfSchedule: 0.5},
		"Another": {Rating: 20, WeightedStrengthOfSchedule: 0.3},
	}

	result := Generate(&models.SeasonData{Season: 2023, Week: 3}, ratings)
	require.Len(t, result.Rankings, len(ratings))

	names := make([]string, 0, len(result.Rankings))
	ranks := make(map[int]bool)
	sosRanks := make(map[int]bool)
	for i, r := range result.Rankings {
		names = append(names, r.TeamName)
		assert.Equal(t, i+1, r.Rank)
		ranks[r.Rank] = true
		sosRanks[r.SOSRanking] = true
	}
	assert.Equal(t, []string{"Mid", "Alpha", "beta", "zeta", "Another", "Bottom"}, names)
	for i := 1; i <= len(ratings); i++ {
		assert.True(t, ranks[i], "rank %d missing", i)
		assert.True(t, sosRanks[i], "sos rank %d missing", i)
	}

	byName := make(map[string]models.RankedTeam)
	for _, r := range result.Rankings {
		byName[r.TeamName] = r
	}
	assert.Equal(t, 1, byName["Bottom"].SOSRanking)
	assert.Equal(t, 2, byName["Alpha"].SOSRanking)
	assert.Equal(t, 6, byName["Mid"].SOSRanking)
}

func TestGenerate_IsDeterministic(t *testing.T) {
	data, ratings := headToHead()
	assert.Equal(t, Generate(data, ratings), Generate(data, ratings))
}

func TestGenerate_RoundsToFourDecimals(t *testing.T) {
	ratings := map[string]models.RatingDetails{
		"Georgia": {Rating: 71.234567, WeightedStrengthOfSchedule: 0.123449},
	}
	result := Generate(&models.SeasonData{}, ratings)
	require.Len(t, result.Rankings, 1)
	assert.Equal(t, 71.2346, result.Rankings[0].Rating)
	assert.Equal(t, 0.1234, result.Rankings[0].WeightedSOS)
}

func TestGenerate_MissingMetadataAndZeroGames(t *testing.T) {
	ratings := map[string]models.RatingDetails{
		"Ghost": {Rating: 12.5},
		"Idle":  {Rating: 20},
	}
	data := &models.SeasonData{Teams: map[string]*models.TeamInfo{"idle": {Name: "Idle", Conference: "MWC"}}}

	result := Generate(data, ratings)
	require.Len(t, result.Rankings, 2)

	idle, ghost := result.Rankings[0], result.Rankings[1]
	assert.Equal(t, "MWC", idle.Conference)
	assert.Equal(t, models.TeamDetails{}, idle.Details)
	assert.Empty(t, ghost.Conference)
	assert.Equal(t, models.TeamDetails{}, ghost.Details)
}

func TestGenerate_EmptyRatings(t *testing.T) {
	result := Generate(&models.SeasonData{Season: 2022, Week: 1}, nil)
	assert.NotNil(t, result.Rankings)
	assert.Empty(t, result.Rankings)
}

func TestTier(t *testing.T) {
	cases := []struct {
		rank   int
		ranked bool
		want   int
	}{
		{1, true, 1}, {10, true, 1},
		{11, true, 2}, {25, true, 2},
		{26, true, 3}, {50, true, 3},
		{51, true, 4}, {100, true, 4},
		{101, true, 5}, {134, true, 5},
		{0, false, 5}, {3, false, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Tier(tc.rank, tc.ranked), "rank %d ranked=%v", tc.rank, tc.ranked)
	}
}

func TestBuildDetails_SkipsIncompleteAndTiedGames(t *testing.T) {
	games := []models.Game{
		{HomeTeam: "Army", AwayTeam: "Navy", HomePoints: pts(20), AwayPoints: pts(20)},
		{HomeTeam: "Army", AwayTeam: "Air Force"},
		{HomeTeam: "Notre Dame", AwayTeam: "ARMY", HomePoints: pts(10), AwayPoints: pts(14), NeutralSite: true},
		{HomeTeam: "Navy", AwayTeam: "Tulane", HomePoints: pts(7), AwayPoints: pts(3)},
	}
	rankByKey := map[string]int{"notre dame": 30}

	details := BuildDetails("Army", games, rankByKey)
	assert.Equal(t, models.Record{Wins: 1}, details.Neutral)
	assert.Equal(t, models.Record{Wins: 1}, details.VsRank26To50)
	assert.Equal(t, models.Record{}, details.Home)
	assert.Equal(t, models.Record{}, details.VsRank101Plus)
}

func TestComponentNames(t *testing.T) {
	result := &models.RankingsResult{Rankings: []models.RankedTeam{
		{RatingComponents: map[string]float64{"winPercentage": 1, "scoringMargin": 3}},
		{RatingComponents: map[string]float64{"strengthOfSchedule": 0.4, "winPercentage": 0}},
		{},
	}}
	assert.Equal(t, []string{"scoringMargin", "strengthOfSchedule", "winPercentage"}, ComponentNames(result))
	assert.Nil(t, ComponentNames(nil))
}

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

func TestService_GetRankings(t *testing.T) {
	data, ratings := headToHead()
	svc := NewService(&fakeProvider{data: data}, &fakeRater{ratings: ratings})

	result, err := svc.GetRankings(context.Background(), 2024, 5)
	require.NoError(t, err)
	require.Len(t, result.Rankings, 2)
	assert.Equal(t, "Texas", result.Rankings[0].TeamName)
}

func TestService_PropagatesErrors(t *testing.T) {
	data, _ := headToHead()

	_, err := NewService(&fakeProvider{err: errors.New("upstream down")}, &fakeRater{}).GetRankings(context.Background(), 2024, 5)
	assert.Error(t, err)

	_, err = NewService(&fakeProvider{data: data}, &fakeRater{err: errors.New("bad input")}).GetRankings(context.Background(), 2024, 5)
	assert.Error(t, err)
}

func TestCachedGenerator_ServesCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	data, ratings := headToHead()
	prov := &fakeProvider{data: data}

	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.New(cache.NewMemoryStore(), "rankings", cache.WithClock(clock))
	policy := cache.NewExpirationPolicy(cache.DefaultCurrentSeasonTTL, cache.DefaultPastSeasonTTL)
	policy.Now = clock

	gen := NewCachedGenerator(NewService(prov, &fakeRater{ratings: ratings}), c, policy)

	first, err := gen.GetRankings(ctx, 2024, 5)
	require.NoError(t, err)
	second, err := gen.GetRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, prov.calls)
	assert.Equal(t, first.Rankings[0].TeamName, second.Rankings[0].TeamName)
	assert.Equal(t, first.Rankings[0].Details, second.Rankings[0].Details)

	removed, err := gen.Invalidate(ctx, 2024, 5)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = gen.GetRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, prov.calls)
}

func TestCachedGenerator_ExpiresWithCurrentSeasonTTL(t *testing.T) {
	ctx := context.Background()
	data, ratings := headToHead()
	prov := &fakeProvider{data: data}

	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.New(cache.NewMemoryStore(), "rankings", cache.WithClock(clock))
	policy := cache.NewExpirationPolicy(time.Hour, cache.DefaultPastSeasonTTL)
	policy.Now = clock

	gen := NewCachedGenerator(NewService(prov, &fakeRater{ratings: ratings}), c, policy)
	_, err := gen.GetRankings(ctx, 2024, 5)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = gen.GetRankings(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, prov.calls)
}
