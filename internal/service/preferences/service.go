package preferences

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newsfeed/internal/config"
	"newsfeed/internal/domain"
	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/repositories"
	"newsfeed/internal/domain/services"
	llmSvc "newsfeed/internal/domain/services/llm"
	"newsfeed/internal/observability"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// preferencesService implements services.PreferencesService
type preferencesService struct {
	keywords  repositories.KeywordRepository
	txManager repositories.TransactionManager
	extractor llmSvc.FilterExtractor
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(
	keywords repositories.KeywordRepository,
	txManager repositories.TransactionManager,
	extractor llmSvc.FilterExtractor,
	metrics *observability.Metrics,
	logger *slog.Logger,
) services.PreferencesService {
	return &preferencesService{
		keywords:  keywords,
		txManager: txManager,
		extractor: extractor,
		metrics:   metrics,
		logger:    logger,
	}
}

// List returns the user's keywords in ascending order
func (s *preferencesService) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	keywords, err := s.keywords.ListKeywords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}

// Add stores every keyword found in raw, subject to the per-user cap
func (s *preferencesService) Add(ctx context.Context, userID uuid.UUID, raw string) ([]string, error) {
	candidates := Dedupe(NormalizeKeywords(raw))
	if len(candidates) == 0 {
		return nil, domain.NewValidationError("prefs/keyword-length",
			fmt.Sprintf("keyword length must be %d–%d", config.MinKeywordLength, config.MaxKeywordLength))
	}

	saved, total, err := s.saveWithinCap(ctx, userID, candidates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("keywords added",
		"user_id", userID,
		"candidates", len(candidates),
		"saved", len(saved),
		"total", total,
	)

	return s.List(ctx, userID)
}

// Remove deletes a keyword; a missing keyword is not an error
func (s *preferencesService) Remove(ctx context.Context, userID uuid.UUID, keyword string) error {
	kw := NormalizeSingle(keyword)
	if kw == "" {
		return nil
	}

	deleted, err := s.keywords.DeleteKeyword(ctx, userID, kw)
	if err != nil {
		return fmt.Errorf("remove keyword: %w", err)
	}

	if deleted {
		s.logger.Info("keyword removed", "user_id", userID, "keyword", kw)
	} else {
		s.logger.Debug("keyword not present, nothing to remove", "user_id", userID, "keyword", kw)
	}
	return nil
}

type naturalLanguageRequest struct {
	Query string `json:"query"`
}

// FromNaturalLanguage extracts a filter spec and saves its include keywords
func (s *preferencesService) FromNaturalLanguage(ctx context.Context, userID uuid.UUID, query string) (*models.NaturalLanguageResult, error) {
	req := naturalLanguageRequest{Query: strings.TrimSpace(query)}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Query,
			validation.Required,
			validation.RuneLength(1, config.MaxQueryLength),
		),
	); err != nil {
		return nil, domain.NewValidationError("prefs/query-required", err.Error())
	}

	spec, err := s.extractor.Extract(ctx, req.Query)
	if err != nil {
		s.metrics.ObserveExtraction(err)
		return nil, fmt.Errorf("extract filter: %w", err)
	}

	// The model may still return compound phrases as single elements
	candidates := Dedupe(NormalizeKeywords(spec.IncludeKeywords...))
	if len(candidates) == 0 {
		err := domain.NewContractError("llm", "no storable include keywords in model output")
		s.metrics.ObserveExtraction(err)
		return nil, err
	}
	s.metrics.ObserveExtraction(nil)

	saved, total, err := s.saveWithinCap(ctx, userID, candidates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("natural language preferences saved",
		"user_id", userID,
		"candidates", len(candidates),
		"saved", len(saved),
		"total", total,
	)

	return &models.NaturalLanguageResult{
		Spec:  spec,
		Saved: saved,
		Total: total,
	}, nil
}

// saveWithinCap inserts candidates the user does not have yet, in order,
// until the user holds MaxKeywordsPerUser keywords. The count and inserts
// run in one transaction under a per-user lock so concurrent saves cannot
// exceed the cap. Returns the newly inserted keywords and the final count.
func (s *preferencesService) saveWithinCap(ctx context.Context, userID uuid.UUID, candidates []string) ([]string, int, error) {
	var saved []string
	var total int

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		saved = saved[:0]

		if err := s.keywords.LockUserKeywords(txCtx, userID); err != nil {
			return err
		}

		existing, err := s.keywords.ListKeywords(txCtx, userID)
		if err != nil {
			return err
		}
		total = len(existing)

		capacity := config.MaxKeywordsPerUser - len(existing)
		if capacity <= 0 {
			return nil
		}

		have := make(map[string]struct{}, len(existing))
		for _, kw := range existing {
			have[kw] = struct{}{}
		}

		for _, kw := range candidates {
			if len(saved) >= capacity {
				break
			}
			if _, ok := have[kw]; ok {
				continue
			}
			inserted, err := s.keywords.InsertKeyword(txCtx, userID, kw)
			if err != nil {
				return err
			}
			if inserted {
				saved = append(saved, kw)
				have[kw] = struct{}{}
			}
		}
		if len(saved) == 0 {
			return nil
		}
		total, err = s.keywords.CountKeywords(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("save keywords: %w", err)
	}

	if saved == nil {
		saved = []string{}
	}
	s.metrics.AddKeywordsSaved(len(saved))
	if dropped := len(candidates) - len(saved); dropped > 0 && total >= config.MaxKeywordsPerUser {
		s.logger.Debug("keyword cap reached", "user_id", userID, "dropped", dropped)
	}

	return saved, total, nil
}
