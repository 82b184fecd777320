package metadata_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/metadata/mocks"
	"github.com/gabriel/bmh/internal/models"
)

type ResolverTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	primary   *mocks.MockProvider
	secondary *mocks.MockProvider
	resolver  *metadata.Resolver
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.primary = mocks.NewMockProvider(s.ctrl)
	s.secondary = mocks.NewMockProvider(s.ctrl)

	s.primary.EXPECT().Name().Return(metadata.ProviderAniList).AnyTimes()
	s.secondary.EXPECT().Name().Return(metadata.ProviderMangaDex).AnyTimes()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.resolver = metadata.NewResolver(logger, s.primary, s.secondary)
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) TestPrimaryHitSkipsSecondary() {
	ctx := context.Background()
	s.primary.EXPECT().Resolve(ctx, "Tower of God").Return(metadata.Resolution{
		Provider: metadata.ProviderAniList,
		Outcome:  metadata.OutcomeFound,
		Data:     &models.ExternalMetadata{ID: "85143"},
	})

	res := s.resolver.Resolve(ctx, "Tower of God")

	s.True(res.Found())
	s.Equal(metadata.ProviderAniList, res.Provider)
}

func (s *ResolverTestSuite) TestFallsBackToSecondary() {
	ctx := context.Background()
	s.primary.EXPECT().Resolve(ctx, "Obscure Title").Return(metadata.Resolution{Outcome: metadata.OutcomeFailed})
	s.secondary.EXPECT().Resolve(ctx, "Obscure Title").Return(metadata.Resolution{
		Provider: metadata.ProviderMangaDex,
		Outcome:  metadata.OutcomeFound,
		Data:     &models.ExternalMetadata{ID: "md_abc"},
	})

	res := s.resolver.Resolve(ctx, "Obscure Title")

	s.True(res.Found())
	s.Equal("md_abc", res.Data.ID)
}

func (s *ResolverTestSuite) TestMissEverywhereReportsNotFound() {
	ctx := context.Background()
	s.primary.EXPECT().Resolve(ctx, "Nothing").Return(metadata.Resolution{Outcome: metadata.OutcomeNotFound})
	s.secondary.EXPECT().Resolve(ctx, "Nothing").Return(metadata.Resolution{Outcome: metadata.OutcomeFailed, Error: "unexpected status: 503"})

	res := s.resolver.Resolve(ctx, "Nothing")

	s.False(res.Found())
	s.Equal(metadata.OutcomeNotFound, res.Outcome)
	s.Equal([]string{metadata.ProviderAniList, metadata.ProviderMangaDex}, s.resolver.Providers())
}

func TestNewStackOrdersProviders(t *testing.T) {
	stack := metadata.NewStack(metadata.StackOptions{})

	require.NotNil(t, stack.AniList)
	require.NotNil(t, stack.MangaDex)
	assert.Equal(t, []string{metadata.ProviderAniList, metadata.ProviderMangaDex}, stack.Resolver.Providers())
}
