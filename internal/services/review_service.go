// internal/services/review_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/config"
	"github.com/authentiq/authentiq-backend/internal/models"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

// ReviewService persists product reviews and asks the comment analyzer for a
// sentiment score afterwards. The analyzer call runs outside any database
// transaction and under a hard timeout: a slow or dead analyzer never blocks
// a review, an order or unit minting.
type ReviewService struct {
	db     *gorm.DB
	config *config.Config
	client *http.Client
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Content   string    `json:"content" validate:"required,min=3"`
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Score int `json:"score"`
}

func NewReviewService(db *gorm.DB, cfg *config.Config) *ReviewService {
	return &ReviewService{
		db:     db,
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Sentiment.TimeoutSeconds) * time.Second,
		},
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", req.ProductID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, req.ProductID)
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Content:   req.Content,
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, fmt.Errorf("%w: creating review: %v", ErrPersistence, err)
	}

	go s.scoreReview(review.ID, review.Content)

	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return reviews, nil
}

// scoreReview fetches an opaque sentiment integer from the analyzer and
// stores it on the review. Best effort; the review stands without it.
func (s *ReviewService) scoreReview(reviewID uuid.UUID, content string) {
	if s.config.Sentiment.AnalyzerURL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(s.config.Sentiment.TimeoutSeconds)*time.Second)
	defer cancel()

	body, err := json.Marshal(sentimentRequest{Text: content})
	if err != nil {
		logrus.WithError(err).Error("Failed to encode sentiment request")
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Sentiment.AnalyzerURL, bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).Error("Failed to build sentiment request")
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		logrus.WithError(err).WithField("review_id", reviewID).Warn("Sentiment analyzer unreachable")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"review_id": reviewID,
			"status":    resp.StatusCode,
		}).Warn("Sentiment analyzer returned non-OK status")
		return
	}

	var scored sentimentResponse
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		logrus.WithError(err).WithField("review_id", reviewID).Warn("Failed to decode sentiment response")
		return
	}

	if err := s.db.Model(&models.Review{}).Where("id = ?", reviewID).
		Update("sentiment_score", scored.Score).Error; err != nil {
		logrus.WithError(err).WithField("review_id", reviewID).Error("Failed to store sentiment score")
	}
}
