package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel/bmh/internal/models"
)

func TestPickBestPrefersManga(t *testing.T) {
	candidates := []models.ExternalMetadata{
		{ID: "1", Format: "NOVEL"},
		{ID: "2", Format: "ONE_SHOT"},
		{ID: "3", Format: "MANGA"},
	}

	best := PickBest(candidates)
	require.NotNil(t, best)
	assert.Equal(t, "3", best.ID)
}

func TestPickBestKeepsProviderOrderOnTies(t *testing.T) {
	candidates := []models.ExternalMetadata{
		{ID: "a", Format: "ONE_SHOT"},
		{ID: "b", Format: "MANGA"},
		{ID: "c", Format: "MANGA"},
	}

	best := PickBest(candidates)
	require.NotNil(t, best)
	assert.Equal(t, "b", best.ID)

	assert.Nil(t, PickBest(nil))
}

func TestPickBestRanksUnknownFormatsLast(t *testing.T) {
	candidates := []models.ExternalMetadata{
		{ID: "music", Format: "MUSIC"},
		{ID: "blank"},
		{ID: "novel", Format: "NOVEL"},
	}

	best := PickBest(candidates)
	require.NotNil(t, best)
	assert.Equal(t, "novel", best.ID)
}

func TestRankFormat(t *testing.T) {
	assert.Equal(t, 100, RankFormat("MANGA"))
	assert.Equal(t, 100, RankFormat(" manga "))
	assert.Equal(t, 1, RankFormat("NOVELLA"))
	assert.Equal(t, 1, RankFormat(""))
	assert.Equal(t, 10, RankFormat("ONE_SHOT"))
	assert.Equal(t, 5, RankFormat("NOVEL"))
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		meta models.ExternalMetadata
		want string
	}{
		{meta: models.ExternalMetadata{Format: "MANGA", CountryOfOrigin: "KR"}, want: "Manhwa"},
		{meta: models.ExternalMetadata{Format: "MANGA", CountryOfOrigin: "TW"}, want: "Manhua"},
		{meta: models.ExternalMetadata{Format: "MANGA", CountryOfOrigin: "JP"}, want: "Manga"},
		{meta: models.ExternalMetadata{Format: "ONE_SHOT"}, want: "One Shot"},
		{meta: models.ExternalMetadata{Format: "NOVEL"}, want: "Light Novel"},
		{meta: models.ExternalMetadata{Format: "MUSIC"}, want: "MUSIC"},
		{meta: models.ExternalMetadata{}, want: "Unknown"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatName(tc.meta))
	}
}
