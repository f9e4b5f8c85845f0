package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"cfbpoll/rankings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankingsFor(season, week int) *models.RankingsResult {
	return &models.RankingsResult{
		Season: season,
		Week:   week,
		Rankings: []models.RankedTeam{
			{Rank: 1, TeamName: "Oregon", Rating: 81.5, SOSRanking: 2, Wins: 5},
			{Rank: 2, TeamName: "Penn State", Rating: 77.25, SOSRanking: 1, Wins: 5},
		},
	}
}

func newTestManager(now time.Time) (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	m := NewManager(store)
	m.now = func() time.Time { return now }
	return m, store
}

func TestManager_SaveCreatesDraft(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 10, 6, 15, 0, 0, 0, time.UTC)
	m, _ := newTestManager(now)

	require.NoError(t, m.Save(ctx, rankingsFor(2024, 6)))

	snap, ok, err := m.GetSnapshot(ctx, 2024, 6)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, snap.Published)
	assert.Equal(t, now, snap.CreatedAt)
	assert.Equal(t, "Oregon", snap.Rankings.Rankings[0].TeamName)

	_, ok, err = m.GetPublishedSnapshot(ctx, 2024, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_SaveRejectsMissingRankings(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(time.Now())

	assert.ErrorIs(t, m.Save(ctx, nil), ErrInvalidRankings)
	assert.ErrorIs(t, m.Save(ctx, &models.RankingsResult{Season: 2024, Week: 1}), ErrInvalidRankings)

	weeks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestManager_SaveAcceptsEmptyRankings(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Now())

	empty := &models.RankingsResult{Season: 2024, Week: 0, Rankings: []models.RankedTeam{}}
	require.NoError(t, m.Save(ctx, empty))

	_, ok, err := m.GetSnapshot(ctx, 2024, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_PublishThenResaveDemotesToDraft(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Date(2024, 10, 6, 15, 0, 0, 0, time.UTC))

	require.NoError(t, m.Save(ctx, rankingsFor(2024, 6)))
	ok, err := m.Publish(ctx, 2024, 6)
	require.NoError(t, err)
	require.True(t, ok)

	published, ok, err := m.GetPublishedSnapshot(ctx, 2024, 6)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, published.Published)

	later := time.Date(2024, 10, 7, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return later }
	updated := rankingsFor(2024, 6)
	updated.Rankings[0].Rating = 82
	require.NoError(t, m.Save(ctx, updated))

	snap, ok, err := m.GetSnapshot(ctx, 2024, 6)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, snap.Published)
	assert.Equal(t, later, snap.CreatedAt)
	assert.Equal(t, 82.0, snap.Rankings.Rankings[0].Rating)

	_, ok, err = m.GetPublishedSnapshot(ctx, 2024, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_PublishAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(time.Now())
	require.NoError(t, m.Save(ctx, rankingsFor(2024, 3)))

	ok, err := m.Publish(ctx, 2024, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Delete(ctx, 2023, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	weeks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.False(t, weeks[0].Published)
}

func TestManager_DeleteRemovesRow(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Now())
	require.NoError(t, m.Save(ctx, rankingsFor(2024, 3)))
	_, err := m.Publish(ctx, 2024, 3)
	require.NoError(t, err)

	ok, err := m.Delete(ctx, 2024, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = m.GetSnapshot(ctx, 2024, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = m.GetPublishedSnapshot(ctx, 2024, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_ListPersistedWeeksNewestFirst(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Now())

	for _, sw := range [][2]int{{2023, 16}, {2024, 2}, {2024, 10}, {2022, 1}} {
		require.NoError(t, m.Save(ctx, rankingsFor(sw[0], sw[1])))
	}
	_, err := m.Publish(ctx, 2024, 2)
	require.NoError(t, err)

	weeks, err := m.ListPersistedWeeks(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 4)

	got := make([][2]int, 0, len(weeks))
	for _, w := range weeks {
		got = append(got, [2]int{w.Season, w.Week})
	}
	assert.Equal(t, [][2]int{{2024, 10}, {2024, 2}, {2023, 16}, {2022, 1}}, got)
	assert.True(t, weeks[1].Published)
	assert.False(t, weeks[0].Published)
}

type failingStore struct {
	*MemoryStore
}

func (f *failingStore) Upsert(context.Context, *models.Snapshot) error {
	return errors.New("connection refused")
}

func TestManager_SaveWrapsStoreErrors(t *testing.T) {
	m := NewManager(&failingStore{MemoryStore: NewMemoryStore()})
	err := m.Save(context.Background(), rankingsFor(2024, 1))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRankings)
}
