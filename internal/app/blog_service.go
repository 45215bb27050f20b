package app

import (
	"context"
	"slices"

	"decor-funnel/internal/domain"
	"golang.org/x/sync/errgroup"
)

const maxRelatedPosts = 3

// BlogProvider reads the blog index and single posts.
type BlogProvider interface {
	BlogIndex(ctx context.Context) ([]domain.BlogIndexEntry, error)
	BlogPost(ctx context.Context, id string) (domain.BlogPost, error)
}

// BlogService serves blog posts.
type BlogService struct {
	provider BlogProvider
	parallel int
}

func NewBlogService(provider BlogProvider) *BlogService {
	return &BlogService{provider: provider, parallel: 4}
}

// Article is a post with its related posts.
type Article struct {
	Post    domain.BlogPost   `json:"post"`
	Related []domain.BlogPost `json:"related"`
}

// List loads every indexed post, keeping index order.
func (s *BlogService) List(ctx context.Context) ([]domain.BlogPost, error) {
	index, err := s.provider.BlogIndex(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]domain.BlogPost, len(index))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for i, entry := range index {
		i, entry := i, entry
		g.Go(func() error {
			post, err := s.provider.BlogPost(gctx, entry.ID)
			if err != nil {
				return err
			}
			posts[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return posts, nil
}

// Article returns the post with slug and up to three other posts sharing its category
// or one of its tags.
func (s *BlogService) Article(ctx context.Context, slug string) (Article, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return Article{}, err
	}
	idx := slices.IndexFunc(posts, func(p domain.BlogPost) bool { return p.Slug == slug })
	if idx < 0 {
		return Article{}, domain.ErrPostNotFound
	}
	post := posts[idx]
	return Article{Post: post, Related: RelatedPosts(post, posts)}, nil
}

// RelatedPosts picks, in order, up to three posts other than post that share its category
// or a tag.
func RelatedPosts(post domain.BlogPost, all []domain.BlogPost) []domain.BlogPost {
	related := make([]domain.BlogPost, 0, maxRelatedPosts)
	for _, p := range all {
		if len(related) == maxRelatedPosts {
			break
		}
		if p.Slug == post.Slug {
			continue
		}
		if p.Category == post.Category || slices.ContainsFunc(p.Tags, func(t string) bool {
			return slices.Contains(post.Tags, t)
		}) {
			related = append(related, p)
		}
	}
	return related
}
