package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/repository"
)

type tagService struct {
	q db.DBTX
}

func NewTagService(q db.DBTX) TagService {
	return &tagService{q: q}
}

func (s *tagService) List(ctx context.Context) ([]domain.TagCount, error) {
	return repository.NewSQLiteWorkItemRepo(s.q).ListTags(ctx)
}

// Load returns the tag with every carrying work item and its pomodoros. A
// leading '#' is accepted. An unknown tag yields an empty item list.
func (s *tagService) Load(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
	if name == "" {
		return nil, fmt.Errorf("tag name is required")
	}
	items, err := repository.NewSQLiteWorkItemRepo(s.q).ListByTag(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := attachPomodoros(ctx, s.q, items); err != nil {
		return nil, err
	}
	return &domain.Tag{Name: name, Items: items}, nil
}
