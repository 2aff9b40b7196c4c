package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
)

// PerformerService は出演者プロフィールの管理を行う
type PerformerService struct {
	performerRepo performer.Repository
}

func NewPerformerService(pr performer.Repository) *PerformerService {
	return &PerformerService{performerRepo: pr}
}

type CreatePerformerInput struct {
	Name  string
	Genre string
}

func (s *PerformerService) CreatePerformer(ctx context.Context, input CreatePerformerInput) (*performer.Performer, error) {
	p := performer.NewPerformer(input.Name, input.Genre)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.performerRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("出演者作成に失敗しました: %w", err)
	}
	return p, nil
}

func (s *PerformerService) GetPerformer(ctx context.Context, id string) (*performer.Performer, error) {
	return s.performerRepo.GetByID(ctx, id)
}

func (s *PerformerService) ListPerformers(ctx context.Context, limit, offset int) ([]*performer.Performer, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.performerRepo.List(ctx, limit, offset)
}

type UpdatePerformerInput struct {
	ID    string
	Name  string
	Genre string
}

func (s *PerformerService) UpdatePerformer(ctx context.Context, input UpdatePerformerInput) (*performer.Performer, error) {
	p, err := s.performerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	p.Name = input.Name
	p.Genre = input.Genre
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.performerRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeactivatePerformer は出演者を非アクティブにする
// 非アクティブな出演者は新規の見積依頼の対象にできない
func (s *PerformerService) DeactivatePerformer(ctx context.Context, id string) (*performer.Performer, error) {
	p, err := s.performerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Deactivate()
	if err := s.performerRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
