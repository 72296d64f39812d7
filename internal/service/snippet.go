package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oncode-dev/oncode/internal/apperror"
	"github.com/oncode-dev/oncode/internal/model"
	"github.com/oncode-dev/oncode/internal/repository"
	"github.com/oncode-dev/oncode/internal/request"
)

// SnippetService handles business logic for code snippets. Every operation
// takes the calling user's ID and passes it through to the ownership-scoped
// repository queries. There is no separate authorization step.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new snippet owned by userID.
func (s *SnippetService) Create(ctx context.Context, userID string, req request.CreateSnippet) (*model.Snippet, error) {
	if err := request.Validate(&req); err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Code:        req.Code,
		Language:    req.Language,
		Description: strings.TrimSpace(req.Description),
		Tags:        req.Tags,
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("userID", userID),
	)

	return snippet, nil
}

// List returns all snippets owned by userID, newest first.
func (s *SnippetService) List(ctx context.Context, userID string) ([]model.Snippet, error) {
	snippets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	return snippets, nil
}

// GetByID retrieves one snippet scoped to its owner. Missing and not-owned
// rows are the same not-found error.
func (s *SnippetService) GetByID(ctx context.Context, userID, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	return s.repo.GetByID(ctx, id, userID)
}

// Update applies a partial update: only the fields present in the request are
// validated and written, the rest keep their stored values. An empty request
// is a no-op that returns the unchanged snippet.
//
// Fetch-then-save keeps the not-found behaviour identical to GetByID and
// gives the caller back the full updated record.
func (s *SnippetService) Update(ctx context.Context, userID, id string, req request.UpdateSnippet) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := request.Validate(&req); err != nil {
		return nil, err
	}

	snippet, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Empty() {
		return snippet, nil
	}

	if req.Title != nil {
		snippet.Title = strings.TrimSpace(*req.Title)
	}
	if req.Code != nil {
		snippet.Code = *req.Code
	}
	if req.Language != nil {
		snippet.Language = *req.Language
	}
	if req.Description != nil {
		snippet.Description = strings.TrimSpace(*req.Description)
	}
	if req.Tags != nil {
		snippet.Tags = *req.Tags
	}

	if err := s.repo.Update(ctx, snippet); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated",
		slog.String("id", snippet.ID),
		slog.String("userID", userID),
	)

	return snippet, nil
}

// Delete removes a snippet scoped to its owner.
func (s *SnippetService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}
