package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// FeedService is the social feed controller. New posts are stored first and
// the projection is ordered newest first.
type FeedService struct {
	posts   *repo.Collection[domain.FeedPost]
	session Identity
	view    *Projection[domain.FeedPost]

	// now is swapped in tests.
	now func() time.Time
}

// NewFeedService constructs a FeedService backed by the provided collection.
func NewFeedService(posts *repo.Collection[domain.FeedPost], session Identity) *FeedService {
	return &FeedService{
		posts:   posts,
		session: session,
		view:    newProjection[domain.FeedPost](),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Load refreshes the projection from the store.
func (s *FeedService) Load(ctx context.Context) error {
	if err := load(ctx, s.posts, s.view, newestFirst); err != nil {
		return fmt.Errorf("service.FeedService.Load: %w", err)
	}
	return nil
}

// List returns every post, newest first.
func (s *FeedService) List() []domain.FeedPost { return s.view.Snapshot() }

// Get returns one post from the projection.
func (s *FeedService) Get(id string) (domain.FeedPost, bool) {
	return find(s.view.Snapshot(), id, postID)
}

// Subscribe registers fn for every republished projection.
func (s *FeedService) Subscribe(fn func([]domain.FeedPost)) (cancel func()) {
	return s.view.Subscribe(fn)
}

// State returns the projection load state.
func (s *FeedService) State() State { return s.view.State() }

// AddPost publishes a post authored by the signed-in user.
// Returns domain.ErrValidation for blank content.
func (s *FeedService) AddPost(ctx context.Context, draft domain.PostDraft) (domain.FeedPost, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("service.FeedService.AddPost: %w", err)
	}
	content := strings.TrimSpace(draft.Content)
	if content == "" {
		return domain.FeedPost{}, fmt.Errorf("service.FeedService.AddPost: %w: content is required", domain.ErrValidation)
	}

	post := domain.FeedPost{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		UserName:  u.Name,
		Content:   content,
		ImageURL:  draft.ImageURL,
		Location:  draft.Location,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: s.now(),
	}
	err = mutate(ctx, s.posts, s.view, newestFirst, func(posts []domain.FeedPost) ([]domain.FeedPost, error) {
		return append([]domain.FeedPost{post}, posts...), nil
	})
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("service.FeedService.AddPost: %w", err)
	}
	return post, nil
}

// ToggleLike adds the signed-in user to the post's likes, or removes them if
// already present. It reports whether the post is liked afterwards.
func (s *FeedService) ToggleLike(ctx context.Context, id string) (bool, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return false, fmt.Errorf("service.FeedService.ToggleLike: %w", err)
	}

	var liked bool
	err = mutate(ctx, s.posts, s.view, newestFirst, func(posts []domain.FeedPost) ([]domain.FeedPost, error) {
		i, err := indexOf(posts, id, postID)
		if err != nil {
			return nil, err
		}
		p := posts[i]
		if p.LikedBy(u.ID) {
			p.Likes = slices.DeleteFunc(slices.Clone(p.Likes), func(l string) bool { return l == u.ID })
		} else {
			p.Likes = append(slices.Clone(p.Likes), u.ID)
			liked = true
		}
		posts[i] = p
		return posts, nil
	})
	if err != nil {
		return false, fmt.Errorf("service.FeedService.ToggleLike: %w", err)
	}
	return liked, nil
}

// AddComment appends a comment by the signed-in user to a post.
// Returns domain.ErrValidation for blank content.
func (s *FeedService) AddComment(ctx context.Context, id, content string) (domain.Comment, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.FeedService.AddComment: %w", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, fmt.Errorf("service.FeedService.AddComment: %w: content is required", domain.ErrValidation)
	}

	c := domain.Comment{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		UserName:  u.Name,
		Content:   content,
		CreatedAt: s.now(),
	}
	err = mutate(ctx, s.posts, s.view, newestFirst, func(posts []domain.FeedPost) ([]domain.FeedPost, error) {
		i, err := indexOf(posts, id, postID)
		if err != nil {
			return nil, err
		}
		posts[i].Comments = append(slices.Clone(posts[i].Comments), c)
		return posts, nil
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.FeedService.AddComment: %w", err)
	}
	return c, nil
}

// UpdatePost edits a post authored by the signed-in user.
// Returns domain.ErrNotFound, domain.ErrUnauthorized, or domain.ErrValidation
// when the patch blanks the content.
func (s *FeedService) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (domain.FeedPost, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("service.FeedService.UpdatePost: %w", err)
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return domain.FeedPost{}, fmt.Errorf("service.FeedService.UpdatePost: %w: content is required", domain.ErrValidation)
		}
		patch.Content = &content
	}

	var updated domain.FeedPost
	err = mutate(ctx, s.posts, s.view, newestFirst, func(posts []domain.FeedPost) ([]domain.FeedPost, error) {
		i, err := indexOwned(posts, id, postID, postAuthor, u.ID)
		if err != nil {
			return nil, err
		}
		posts[i] = patch.Apply(posts[i])
		updated = posts[i]
		return posts, nil
	})
	if err != nil {
		return domain.FeedPost{}, fmt.Errorf("service.FeedService.UpdatePost: %w", err)
	}
	return updated, nil
}

// DeletePost removes a post authored by the signed-in user.
func (s *FeedService) DeletePost(ctx context.Context, id string) error {
	u, err := requireUser(s.session)
	if err != nil {
		return fmt.Errorf("service.FeedService.DeletePost: %w", err)
	}
	err = mutate(ctx, s.posts, s.view, newestFirst, func(posts []domain.FeedPost) ([]domain.FeedPost, error) {
		i, err := indexOwned(posts, id, postID, postAuthor, u.ID)
		if err != nil {
			return nil, err
		}
		return append(posts[:i], posts[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("service.FeedService.DeletePost: %w", err)
	}
	return nil
}

// newestFirst orders posts by CreatedAt descending; ties keep storage order.
func newestFirst(posts []domain.FeedPost) []domain.FeedPost {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b domain.FeedPost) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}

func postID(p domain.FeedPost) string     { return p.ID }
func postAuthor(p domain.FeedPost) string { return p.UserID }
