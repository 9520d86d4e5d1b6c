package repository

import (
	"context"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/mapper"
	"github.com/akihiro4321/favefit-sub001/model"

	"gorm.io/gorm"
)

// FeedbackRepository stores post-meal feedback.
type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{
		DB: db,
	}
}

// WithTx returns a repository bound to an open transaction.
func (r *FeedbackRepository) WithTx(tx *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: tx}
}

// CreateFeedback stores a feedback record.
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, feedback *entity.FeedbackRecord) error {
	feedbackModel := mapper.FeedbackEntityToModel(feedback)
	if err := r.DB.WithContext(ctx).Create(feedbackModel).Error; err != nil {
		return err
	}
	feedback.CreatedAt = feedbackModel.CreatedAt
	return nil
}

// HasFeedback reports whether the user already left feedback for a recipe.
func (r *FeedbackRepository) HasFeedback(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Feedback{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFeedback returns the newest feedback of a user first.
func (r *FeedbackRepository) ListFeedback(ctx context.Context, userID string, limit int) ([]*entity.FeedbackRecord, error) {
	var rows []model.Feedback
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.FeedbackRecord, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.FeedbackModelToEntity(&rows[i]))
	}
	return out, nil
}
