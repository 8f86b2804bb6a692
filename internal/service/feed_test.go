package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// ---- AddPost tests ----

func TestFeedService_AddPost(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "a@x.com", "Ann")

	post, err := f.feed.AddPost(context.Background(), domain.PostDraft{Content: "  hello  ", Location: "Lisbon"})

	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, u.ID, post.UserID)
	assert.Equal(t, "Ann", post.UserName)
	assert.NotNil(t, post.Likes)
	assert.Empty(t, post.Likes)
	assert.NotNil(t, post.Comments)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestFeedService_AddPost_Rejects(t *testing.T) {
	t.Run("blank content", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "a@x.com", "Ann")
		_, err := f.feed.AddPost(context.Background(), domain.PostDraft{Content: " \n "})
		require.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("no session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.feed.AddPost(context.Background(), domain.PostDraft{Content: "hi"})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestFeedService_AddPost_PrependsInStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Ann")

	first, err := f.feed.AddPost(ctx, domain.PostDraft{Content: "first"})
	require.NoError(t, err)
	second, err := f.feed.AddPost(ctx, domain.PostDraft{Content: "second"})
	require.NoError(t, err)

	posts := stored[domain.FeedPost](t, f.kv, repo.KeyFeedPosts)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestFeedService_ListIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, f.kv, repo.KeyFeedPosts, []domain.FeedPost{
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(2 * time.Hour)},
	})

	require.NoError(t, f.feed.Load(context.Background()))

	posts := f.feed.List()
	require.Len(t, posts, 3)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i-1].CreatedAt.Before(posts[i].CreatedAt))
	}
	assert.Equal(t, "new", posts[0].ID)
}

// ---- ToggleLike tests ----

func TestFeedService_ToggleLike_IsSelfInverse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Ann")
	post, err := f.feed.AddPost(ctx, domain.PostDraft{Content: "hello"})
	require.NoError(t, err)
	bob := f.register(t, "b@x.com", "Bob")

	liked, err := f.feed.ToggleLike(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	got, _ := f.feed.Get(post.ID)
	assert.Equal(t, []string{bob.ID}, got.Likes)

	liked, err = f.feed.ToggleLike(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	got, _ = f.feed.Get(post.ID)
	assert.Empty(t, got.Likes)
}

func TestFeedService_ToggleLike_Missing(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com", "Ann")

	_, err := f.feed.ToggleLike(context.Background(), "nope")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- AddComment tests ----

func TestFeedService_AddComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Ann")
	post, err := f.feed.AddPost(ctx, domain.PostDraft{Content: "hello"})
	require.NoError(t, err)

	c1, err := f.feed.AddComment(ctx, post.ID, "first!")
	require.NoError(t, err)
	c2, err := f.feed.AddComment(ctx, post.ID, "first!")
	require.NoError(t, err)
	_, err = f.feed.AddComment(ctx, post.ID, "  ")
	require.ErrorIs(t, err, domain.ErrValidation)

	got, ok := f.feed.Get(post.ID)
	require.True(t, ok)
	assert.Equal(t, []domain.Comment{c1, c2}, got.Comments)
	assert.NotEqual(t, c1.ID, c2.ID)
}

// ---- UpdatePost / DeletePost tests ----

func TestFeedService_UpdateDeletePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.register(t, "a@x.com", "Ann")
	post, err := f.feed.AddPost(ctx, domain.PostDraft{Content: "hello"})
	require.NoError(t, err)

	f.register(t, "b@x.com", "Bob")
	_, err = f.feed.UpdatePost(ctx, post.ID, domain.PostPatch{Content: ptr("hijacked")})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.ErrorIs(t, f.feed.DeletePost(ctx, post.ID), domain.ErrUnauthorized)

	f.signInAs(t, ann)
	_, err = f.feed.UpdatePost(ctx, post.ID, domain.PostPatch{Content: ptr("   ")})
	require.ErrorIs(t, err, domain.ErrValidation)
	got, err := f.feed.UpdatePost(ctx, post.ID, domain.PostPatch{Content: ptr(" edited ")})
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, f.feed.DeletePost(ctx, post.ID))
	assert.Empty(t, f.feed.List())
}
