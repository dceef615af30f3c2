package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/repository"
	"github.com/alexanderramin/tomo/internal/service"
)

// resolveBacklog accepts a full ID, a unique ID prefix, or an exact name
// (case-insensitive).
func resolveBacklog(ctx context.Context, src *service.LocalSource, input string) (*domain.Backlog, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("backlog ID is required")
	}
	backlogs, err := src.Backlogs.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range backlogs {
		if b.ID == input {
			return b, nil
		}
	}
	var matches []*domain.Backlog
	for _, b := range backlogs {
		if strings.HasPrefix(b.ID, input) || strings.EqualFold(b.Name, input) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("backlog %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("backlog %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveWorkItemID accepts a full ID or a unique ID prefix.
func resolveWorkItemID(ctx context.Context, src *service.LocalSource, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("work item ID is required")
	}
	if _, err := src.WorkItems.GetByID(ctx, input); err == nil {
		return input, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	backlogs, err := src.Backlogs.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, b := range backlogs {
		tree, err := src.Backlogs.Load(ctx, b.ID)
		if err != nil {
			return "", err
		}
		for _, w := range tree.WorkItems {
			if strings.HasPrefix(w.ID, input) {
				matches = append(matches, w.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("work item %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("work item %q is ambiguous (%d matches)", input, len(matches))
	}
}
