package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"signal-brain/internal/dto"
	"signal-brain/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SynthesisHistoryRepository interface {
	Create(ctx context.Context, result *dto.SynthesisResult, primarySymbol string, alerted bool) (*model.SynthesisHistory, error)
	Get(ctx context.Context, param model.GetSynthesisHistoryParam) ([]model.SynthesisHistory, error)
	GetLatest(ctx context.Context, primarySymbol string) (*model.SynthesisHistory, error)
}

type synthesisHistoryRepository struct {
	db *gorm.DB
}

func NewSynthesisHistoryRepository(db *gorm.DB) SynthesisHistoryRepository {
	return &synthesisHistoryRepository{db: db}
}

func (r *synthesisHistoryRepository) Create(ctx context.Context, result *dto.SynthesisResult, primarySymbol string, alerted bool) (*model.SynthesisHistory, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis result: %w", err)
	}

	history := &model.SynthesisHistory{
		PrimarySymbol: primarySymbol,
		Score:         result.Confluence.Score,
		Bias:          string(result.Confluence.Bias),
		Action:        string(result.Recommendation.Action),
		Session:       string(result.Context.Session),
		Alerted:       alerted,
		Result:        datatypes.JSON(resultJSON),
		GeneratedAt:   result.GeneratedAt,
	}

	if err := r.db.WithContext(ctx).Create(history).Error; err != nil {
		return nil, fmt.Errorf("failed to create synthesis history: %w", err)
	}

	return history, nil
}

func (r *synthesisHistoryRepository) Get(ctx context.Context, param model.GetSynthesisHistoryParam) ([]model.SynthesisHistory, error) {
	var histories []model.SynthesisHistory

	query := r.db.WithContext(ctx).Model(&model.SynthesisHistory{})
	if param.PrimarySymbol != "" {
		query = query.Where("primary_symbol = ?", param.PrimarySymbol)
	}
	if param.AlertedOnly {
		query = query.Where("alerted = ?", true)
	}
	if !param.GeneratedAfter.IsZero() {
		query = query.Where("generated_at > ?", param.GeneratedAfter)
	}
	if param.Limit > 0 {
		query = query.Limit(param.Limit)
	}

	if err := query.Order("generated_at DESC").Find(&histories).Error; err != nil {
		return nil, fmt.Errorf("failed to get synthesis histories: %w", err)
	}

	return histories, nil
}

func (r *synthesisHistoryRepository) GetLatest(ctx context.Context, primarySymbol string) (*model.SynthesisHistory, error) {
	var history model.SynthesisHistory

	err := r.db.WithContext(ctx).
		Where("primary_symbol = ?", primarySymbol).
		Order("generated_at DESC").
		First(&history).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest synthesis history: %w", err)
	}

	return &history, nil
}
