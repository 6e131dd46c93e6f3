package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// allCategories is the category filter value the client sends for "no filter".
const allCategories = "all categories"

// ContentService manages expert articles and daily news. Deletes are soft.
type ContentService interface {
	ListArticles(ctx context.Context, category string) ([]*models.ExpertArticle, error)
	GetArticle(ctx context.Context, id string) (*models.ExpertArticle, error)
	CreateArticle(ctx context.Context, req dtos.CreateArticleRequest) (*models.ExpertArticle, error)
	UpdateArticle(ctx context.Context, id string, req dtos.UpdateArticleRequest) (*models.ExpertArticle, error)
	DeleteArticle(ctx context.Context, id string) error

	ListNews(ctx context.Context) ([]*models.DailyNews, error)
	GetNews(ctx context.Context, id string) (*models.DailyNews, error)
	CreateNews(ctx context.Context, req dtos.CreateNewsRequest) (*models.DailyNews, error)
	UpdateNews(ctx context.Context, id string, req dtos.UpdateNewsRequest) (*models.DailyNews, error)
	DeleteNews(ctx context.Context, id string) error
}

type contentService struct {
	articles repositories.ArticleRepository
	news     repositories.NewsRepository
	clock    auth.Clock
}

func NewContentService(
	articles repositories.ArticleRepository,
	news repositories.NewsRepository,
	clock auth.Clock,
) ContentService {
	return &contentService{articles: articles, news: news, clock: clock}
}

// ------------------------------------------------------------------
// Expert articles
// ------------------------------------------------------------------

func (s *contentService) ListArticles(ctx context.Context, category string) ([]*models.ExpertArticle, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, allCategories) {
		category = ""
	}
	list, err := s.articles.ListActive(ctx, category)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch articles", err)
	}
	return list, nil
}

func (s *contentService) GetArticle(ctx context.Context, id string) (*models.ExpertArticle, error) {
	aid, err := parseID(id, "Article not found")
	if err != nil {
		return nil, err
	}
	a, err := s.articles.GetActive(ctx, aid)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch article", err)
	}
	if a == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Article not found", utils.ErrNotFound)
	}
	return a, nil
}

func (s *contentService) CreateArticle(ctx context.Context, req dtos.CreateArticleRequest) (*models.ExpertArticle, error) {
	now := s.clock.Now().UTC()
	a := &models.ExpertArticle{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Author:      strings.TrimSpace(req.Author),
		Category:    strings.TrimSpace(req.Category),
		ReadTime:    models.DefaultReadTime,
		ImageURL:    req.ImageURL,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.ReadTime != nil {
		a.ReadTime = *req.ReadTime
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to create article", err)
	}
	return a, nil
}

func (s *contentService) UpdateArticle(ctx context.Context, id string, req dtos.UpdateArticleRequest) (*models.ExpertArticle, error) {
	a, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Author != nil {
		a.Author = strings.TrimSpace(*req.Author)
	}
	if req.Category != nil {
		a.Category = strings.TrimSpace(*req.Category)
	}
	if req.ReadTime != nil {
		a.ReadTime = *req.ReadTime
	}
	if req.ImageURL != nil {
		a.ImageURL = req.ImageURL
	}
	a.UpdatedAt = s.clock.Now().UTC()

	if err := s.articles.UpdateActive(ctx, a); err != nil {
		return nil, notFoundOrInternal(err, "Article not found", "Failed to update article")
	}
	return a, nil
}

func (s *contentService) DeleteArticle(ctx context.Context, id string) error {
	aid, err := parseID(id, "Article not found")
	if err != nil {
		return err
	}
	if err := s.articles.SoftDelete(ctx, aid); err != nil {
		return notFoundOrInternal(err, "Article not found", "Failed to delete article")
	}
	return nil
}

// ------------------------------------------------------------------
// Daily news
// ------------------------------------------------------------------

func (s *contentService) ListNews(ctx context.Context) ([]*models.DailyNews, error) {
	list, err := s.news.ListActive(ctx)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch news", err)
	}
	return list, nil
}

func (s *contentService) GetNews(ctx context.Context, id string) (*models.DailyNews, error) {
	nid, err := parseID(id, "News not found")
	if err != nil {
		return nil, err
	}
	n, err := s.news.GetActive(ctx, nid)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch news", err)
	}
	if n == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "News not found", utils.ErrNotFound)
	}
	return n, nil
}

func (s *contentService) CreateNews(ctx context.Context, req dtos.CreateNewsRequest) (*models.DailyNews, error) {
	now := s.clock.Now().UTC()
	n := &models.DailyNews{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.news.Create(ctx, n); err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to create news", err)
	}
	return n, nil
}

func (s *contentService) UpdateNews(ctx context.Context, id string, req dtos.UpdateNewsRequest) (*models.DailyNews, error) {
	n, err := s.GetNews(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		n.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		n.Description = *req.Description
	}
	if req.ImageURL != nil {
		n.ImageURL = req.ImageURL
	}
	n.UpdatedAt = s.clock.Now().UTC()

	if err := s.news.UpdateActive(ctx, n); err != nil {
		return nil, notFoundOrInternal(err, "News not found", "Failed to update news")
	}
	return n, nil
}

func (s *contentService) DeleteNews(ctx context.Context, id string) error {
	nid, err := parseID(id, "News not found")
	if err != nil {
		return err
	}
	if err := s.news.SoftDelete(ctx, nid); err != nil {
		return notFoundOrInternal(err, "News not found", "Failed to delete news")
	}
	return nil
}
