// Package content reads the site's static documents from a directory tree:
//
//	quizzes/<id>.json|yaml|yml   quiz question graphs
//	catalog-items.json           catalog items and vocabularies
//	blogs/index.json             blog index
//	blogs/<id>.json              one blog post
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"decor-funnel/internal/domain"
	"gopkg.in/yaml.v3"
)

// Provider serves documents from a root directory.
type Provider struct {
	root string
}

func NewProvider(root string) *Provider {
	return &Provider{root: root}
}

// LoadQuiz reads quizzes/<quizID> with a .json, .yaml or .yml extension.
func (p *Provider) LoadQuiz(_ context.Context, quizID string) (domain.QuizDocument, error) {
	if !safeName(quizID) {
		return domain.QuizDocument{}, domain.ErrQuizNotFound
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(p.root, "quizzes", quizID+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.QuizDocument{}, fmt.Errorf("read quiz %s: %w", quizID, err)
		}
		return DecodeQuiz(path, data)
	}
	return domain.QuizDocument{}, domain.ErrQuizNotFound
}

// DecodeQuiz parses a quiz document, choosing YAML or JSON by the file extension.
func DecodeQuiz(path string, data []byte) (domain.QuizDocument, error) {
	var doc domain.QuizDocument
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return domain.QuizDocument{}, fmt.Errorf("decode quiz %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

func (p *Provider) Catalog(_ context.Context) (domain.Catalog, error) {
	var cat domain.Catalog
	if err := p.readJSON(&cat, "catalog-items.json"); err != nil {
		return domain.Catalog{}, err
	}
	return cat, nil
}

type blogIndex struct {
	Blogs []domain.BlogIndexEntry `json:"blogs"`
}

func (p *Provider) BlogIndex(_ context.Context) ([]domain.BlogIndexEntry, error) {
	var idx blogIndex
	if err := p.readJSON(&idx, "blogs", "index.json"); err != nil {
		return nil, err
	}
	return idx.Blogs, nil
}

func (p *Provider) BlogPost(_ context.Context, id string) (domain.BlogPost, error) {
	if !safeName(id) {
		return domain.BlogPost{}, domain.ErrPostNotFound
	}
	var post domain.BlogPost
	err := p.readJSON(&post, "blogs", id+".json")
	if errors.Is(err, fs.ErrNotExist) {
		return domain.BlogPost{}, domain.ErrPostNotFound
	}
	if err != nil {
		return domain.BlogPost{}, err
	}
	return post, nil
}

func (p *Provider) readJSON(dst any, elem ...string) error {
	path := filepath.Join(append([]string{p.root}, elem...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Join(elem...), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Join(elem...), err)
	}
	return nil
}

func safeName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
