package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/cssprep-api/internal/dto"
	"github.com/noah-isme/cssprep-api/internal/models"
	"github.com/noah-isme/cssprep-api/internal/repository"
	"github.com/noah-isme/cssprep-api/pkg/essay"
)

var (
	// ErrEssayNotFound indicates the essay cannot be located.
	ErrEssayNotFound = errors.New("essay not found")
	// ErrEssayForbidden indicates the caller may not view the essay.
	ErrEssayForbidden = errors.New("forbidden")
	// ErrSubscriptionRequired indicates the caller has no active essay-checking subscription.
	ErrSubscriptionRequired = errors.New("active subscription required")
)

// EssayEvaluator grades essay text.
type EssayEvaluator interface {
	Evaluate(ctx context.Context, essayText string) (essay.EvaluationResult, error)
}

// EssayService exposes essay evaluation and history operations.
type EssayService interface {
	Evaluate(ctx context.Context, actor Actor, payload dto.EssayEvaluationRequest) (dto.EssayResponse, error)
	Get(ctx context.Context, id uint, actor Actor) (dto.EssayResponse, error)
	List(ctx context.Context, actor Actor, page, pageSize int) (dto.EssayListResponse, error)
	ListAll(ctx context.Context, source string, page, pageSize int) (dto.EssayListResponse, error)
}

// Actor identifies the authenticated caller.
type Actor struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the actor has administrative access.
func (a Actor) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(a.Role), "admin")
}

// EssayServiceConfig describes cache and event knobs.
type EssayServiceConfig struct {
	CacheTTL     time.Duration
	EventSubject string
}

// EssayEvaluatedEvent is published after an evaluation is stored.
type EssayEvaluatedEvent struct {
	EssayID       uint      `json:"essay_id"`
	UserID        uint      `json:"user_id"`
	TotalMarks    int       `json:"total_marks"`
	Source        string    `json:"source"`
	IsOutlineOnly bool      `json:"is_outline_only"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}

var blockBoundary = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|h[1-6])>`)

type essayService struct {
	essays    repository.EssayRepository
	profiles  repository.ProfileRepository
	evaluator EssayEvaluator
	cache     *redis.Client
	nats      *nats.Conn
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	config    EssayServiceConfig
	now       func() time.Time
}

// NewEssayService constructs the essay service. cache and natsConn are optional.
func NewEssayService(essays repository.EssayRepository, profiles repository.ProfileRepository, evaluator EssayEvaluator, cache *redis.Client, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger, cfg EssayServiceConfig) EssayService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	return &essayService{
		essays:    essays,
		profiles:  profiles,
		evaluator: evaluator,
		cache:     cache,
		nats:      natsConn,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "essay_service").Logger(),
		config:    cfg,
		now:       time.Now,
	}
}

func (s *essayService) Evaluate(ctx context.Context, actor Actor, payload dto.EssayEvaluationRequest) (dto.EssayResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EssayResponse{}, err
	}

	if err := s.checkEntitlement(ctx, actor); err != nil {
		return dto.EssayResponse{}, err
	}

	text := s.cleanText(payload.Essay)
	if err := essay.CheckLength(text); err != nil {
		return dto.EssayResponse{}, err
	}

	cacheKey := evaluationCacheKey(text)
	evaluation, source, cached := s.cachedEvaluation(ctx, cacheKey)
	if !cached {
		result, err := s.evaluator.Evaluate(ctx, text)
		if err != nil {
			return dto.EssayResponse{}, err
		}
		evaluation = dto.NewEssayEvaluationResponse(result)
		source = string(result.Source)
		if result.Source == essay.SourceAI {
			s.storeEvaluation(ctx, cacheKey, evaluation)
		}
	}

	resultJSON, err := json.Marshal(evaluation)
	if err != nil {
		return dto.EssayResponse{}, fmt.Errorf("encode evaluation: %w", err)
	}

	kind := models.EssayKindText
	if payload.IsPDF {
		kind = models.EssayKindPDF
	}

	record := models.Essay{
		UserID:        actor.ID,
		Kind:          kind,
		Content:       text,
		WordCount:     essay.CountWords(text),
		TotalMarks:    evaluation.TotalMarks,
		IsOutlineOnly: evaluation.IsOutlineOnly,
		Source:        source,
		RubricVersion: essay.RubricVersion,
		Result:        resultJSON,
	}
	if err := s.essays.Create(ctx, &record); err != nil {
		return dto.EssayResponse{}, err
	}

	s.publishEvaluated(record)

	return newEssayResponse(record, evaluation), nil
}

func (s *essayService) Get(ctx context.Context, id uint, actor Actor) (dto.EssayResponse, error) {
	record, err := s.essays.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EssayResponse{}, ErrEssayNotFound
		}
		return dto.EssayResponse{}, err
	}

	if record.UserID != actor.ID && !actor.IsAdmin() {
		return dto.EssayResponse{}, ErrEssayForbidden
	}

	var evaluation dto.EssayEvaluationResponse
	if len(record.Result) > 0 {
		if err := json.Unmarshal(record.Result, &evaluation); err != nil {
			return dto.EssayResponse{}, fmt.Errorf("decode stored evaluation: %w", err)
		}
	}

	return newEssayResponse(record, evaluation), nil
}

func (s *essayService) List(ctx context.Context, actor Actor, page, pageSize int) (dto.EssayListResponse, error) {
	userID := actor.ID
	return s.list(ctx, repository.EssayFilter{UserID: &userID}, page, pageSize)
}

func (s *essayService) ListAll(ctx context.Context, source string, page, pageSize int) (dto.EssayListResponse, error) {
	filter := repository.EssayFilter{}
	if source = strings.TrimSpace(source); source != "" {
		filter.Source = &source
	}
	return s.list(ctx, filter, page, pageSize)
}

func (s *essayService) list(ctx context.Context, filter repository.EssayFilter, page, pageSize int) (dto.EssayListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	filter.Page = page
	filter.PageSize = pageSize

	records, total, err := s.essays.List(ctx, filter)
	if err != nil {
		return dto.EssayListResponse{}, err
	}

	items := make([]dto.EssaySummaryResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewEssaySummaryResponse(record))
	}

	return dto.EssayListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *essayService) checkEntitlement(ctx context.Context, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	profile, err := s.profiles.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionRequired
		}
		return err
	}

	if !profile.HasActiveSubscription(s.now()) {
		return ErrSubscriptionRequired
	}
	return nil
}

// cleanText strips editor markup, keeping paragraph breaks, and normalizes the essay.
func (s *essayService) cleanText(input string) string {
	withBreaks := blockBoundary.ReplaceAllString(input, "\n")
	stripped := html.UnescapeString(s.sanitizer.Sanitize(withBreaks))
	return essay.Normalize(stripped)
}

func (s *essayService) cachedEvaluation(ctx context.Context, key string) (dto.EssayEvaluationResponse, string, bool) {
	if s.cache == nil {
		return dto.EssayEvaluationResponse{}, "", false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read evaluation cache")
		}
		return dto.EssayEvaluationResponse{}, "", false
	}

	var evaluation dto.EssayEvaluationResponse
	if err := json.Unmarshal([]byte(cached), &evaluation); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable evaluation cache entry")
		return dto.EssayEvaluationResponse{}, "", false
	}

	s.logger.Debug().Str("cache_key", key).Msg("evaluation cache hit")
	return evaluation, string(essay.SourceAI), true
}

func (s *essayService) storeEvaluation(ctx context.Context, key string, evaluation dto.EssayEvaluationResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(evaluation)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store evaluation cache")
	}
}

func (s *essayService) publishEvaluated(record models.Essay) {
	if s.nats == nil || s.config.EventSubject == "" {
		return
	}

	payload, err := json.Marshal(EssayEvaluatedEvent{
		EssayID:       record.ID,
		UserID:        record.UserID,
		TotalMarks:    record.TotalMarks,
		Source:        record.Source,
		IsOutlineOnly: record.IsOutlineOnly,
		EvaluatedAt:   s.now().UTC(),
	})
	if err != nil {
		return
	}

	if err := s.nats.Publish(s.config.EventSubject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("essay_id", record.ID).Msg("failed to publish essay evaluated event")
	}
}

func evaluationCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("essay:evaluation:%s:%s", essay.RubricVersion, hex.EncodeToString(sum[:]))
}

func newEssayResponse(record models.Essay, evaluation dto.EssayEvaluationResponse) dto.EssayResponse {
	return dto.EssayResponse{
		ID:            record.ID,
		UserID:        record.UserID,
		Kind:          record.Kind,
		WordCount:     record.WordCount,
		Source:        record.Source,
		RubricVersion: record.RubricVersion,
		CreatedAt:     record.CreatedAt,
		Result:        evaluation,
	}
}
