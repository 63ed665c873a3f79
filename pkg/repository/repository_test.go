package repository

import (
	"context"
	"testing"
	"time"

	"github.com/anchorwatch/anchor/pkg/database"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestRepository starts a disposable Postgres container, applies the
// embedded migrations through database.NewClient, and returns a Repository
// bound to it. Mirrors the teacher's testcontainers client test pattern,
// adapted to this module's hand-written database/sql data layer (no ent).
func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("anchor_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbCfg, err := database.ConfigFromURL(connStr)
	require.NoError(t, err)

	client, err := database.NewClient(ctx, dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return New(client.DB())
}

func TestRepository_GetOrCreateAuthor_IsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a1, err := repo.GetOrCreateAuthor(ctx, "twitter", "u123", "Alice")
	require.NoError(t, err)
	assert.NotZero(t, a1.ID)
	assert.Equal(t, "Alice", a1.Name)

	a2, err := repo.GetOrCreateAuthor(ctx, "twitter", "u123", "Alice Renamed")
	require.NoError(t, err)
	assert.Equal(t, a1.ID, a2.ID)
}

func TestRepository_GetOrCreateTopic_IsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t1, err := repo.GetOrCreateTopic(ctx, "inflation")
	require.NoError(t, err)
	t2, err := repo.GetOrCreateTopic(ctx, "inflation")
	require.NoError(t, err)
	assert.Equal(t, t1.ID, t2.ID)
}

func TestRepository_WriteClaimGraph_PersistsFullGraphAndMarksProcessed(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	author, err := repo.GetOrCreateAuthor(ctx, "twitter", "u456", "Bob")
	require.NoError(t, err)

	post := &models.RawPost{
		Source: "twitter", ExternalID: "post-1", Content: "inflation is at a 40 year high",
		AuthorName: "Bob", AuthorPlatformID: "u456", PostedAt: time.Now().UTC(),
	}
	inserted, err := repo.InsertRawPost(ctx, post)
	require.NoError(t, err)
	assert.True(t, inserted)

	topic, err := repo.GetOrCreateTopic(ctx, "inflation")
	require.NoError(t, err)

	verifiable := "US CPI YoY"
	claimIdx := 0
	graph := &ClaimGraph{
		Facts: []*models.Fact{
			{Claim: "CPI rose 9% YoY", CanonicalClaim: "us cpi yoy 9pct", VerifiableExpression: &verifiable, IsVerifiable: true},
		},
		References: [][]*models.VerificationReference{{}},
		Conclusions: []*models.Conclusion{
			{AuthorID: author.ID, TopicID: &topic.ID, Claim: "inflation is historically high",
				CanonicalClaim: "inflation historically high", ConclusionType: models.ConclusionTypeRetrospective, PostedAt: post.PostedAt},
		},
		Solutions: nil,
		Logics: []*LogicWrite{
			{LogicType: models.LogicTypeInference, ConclusionIndex: &claimIdx, SupportingFactIndexes: []int{0}},
		},
	}

	err = repo.WriteClaimGraph(ctx, post.ID, graph)
	require.NoError(t, err)

	var isProcessed bool
	row := repo.db.QueryRowContext(ctx, `SELECT is_processed FROM raw_posts WHERE id = $1`, post.ID)
	require.NoError(t, row.Scan(&isProcessed))
	assert.True(t, isProcessed)

	var factCount, conclusionCount, logicCount int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT count(*) FROM facts WHERE raw_post_id = $1`, post.ID).Scan(&factCount))
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT count(*) FROM conclusions WHERE author_id = $1`, author.ID).Scan(&conclusionCount))
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT count(*) FROM logics WHERE raw_post_id = $1`, post.ID).Scan(&logicCount))
	assert.Equal(t, 1, factCount)
	assert.Equal(t, 1, conclusionCount)
	assert.Equal(t, 1, logicCount)
}

func TestRepository_SetPostContext_MakesPostEligibleForExtraction(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	post := &models.RawPost{
		Source: "twitter", ExternalID: "post-2", Content: "raw content",
		AuthorName: "Carol", AuthorPlatformID: "u789", PostedAt: time.Now().UTC(),
	}
	_, err := repo.InsertRawPost(ctx, post)
	require.NoError(t, err)

	pending, err := repo.UnprocessedPosts(ctx, 10)
	require.NoError(t, err)
	assert.NotContains(t, idsOf(pending), post.ID)

	enriched := "raw content, enriched"
	err = repo.SetPostContext(ctx, post.ID, &enriched, false)
	require.NoError(t, err)

	pending, err = repo.UnprocessedPosts(ctx, 10)
	require.NoError(t, err)
	assert.Contains(t, idsOf(pending), post.ID)
}

func idsOf(posts []*models.RawPost) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
