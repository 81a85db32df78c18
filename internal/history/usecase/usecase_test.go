package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/history/dto"
	"github.com/warekit/rfid-scan-service/internal/model"
)

type fakeHistoryRepo struct {
	events      []model.TagEvent
	prices      map[string]float64 // tag uid -> sell price
	lastFilters *dto.EventFilters
}

func (r *fakeHistoryRepo) Find(ctx context.Context, filters *dto.EventFilters) ([]model.TagEvent, int, error) {
	r.lastFilters = filters
	return r.events, len(r.events), nil
}

func (r *fakeHistoryRepo) CountDistinctTags(ctx context.Context, action string) (int, error) {
	seen := make(map[string]struct{})
	for _, e := range r.events {
		if e.Action == action {
			seen[e.TagUID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r *fakeHistoryRepo) DistinctTagTotals(ctx context.Context, action string) (int, float64, error) {
	seen := make(map[string]struct{})
	total := 0.0
	for _, e := range r.events {
		if e.Action != action {
			continue
		}
		if _, ok := seen[e.TagUID]; ok {
			continue
		}
		seen[e.TagUID] = struct{}{}
		total += r.prices[e.TagUID]
	}
	return len(seen), total, nil
}

func TestReplayStoreProgress(t *testing.T) {
	repo := &fakeHistoryRepo{events: []model.TagEvent{
		{TagUID: "tag-a", Action: "STORE_PO_po-1"},
		{TagUID: "tag-b", Action: "STORE_PO_po-1"},
		{TagUID: "tag-b", Action: "STORE_PO_po-1"}, // duplicate row
		{TagUID: "tag-c", Action: "STORE_PO_po-2"},
		{TagUID: "tag-d", Action: "SELL_RECEIPT_bill-1"},
	}}
	uc := NewHistoryUseCase(repo, zap.NewNop())

	n, err := uc.ReplayStoreProgress(context.Background(), "po-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = uc.ReplayStoreProgress(context.Background(), "po-2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = uc.ReplayStoreProgress(context.Background(), "po-empty")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReplaySellTotals(t *testing.T) {
	repo := &fakeHistoryRepo{
		events: []model.TagEvent{
			{TagUID: "tag-a", Action: "SELL_RECEIPT_bill-1"},
			{TagUID: "tag-b", Action: "SELL_RECEIPT_bill-1"},
			{TagUID: "tag-b", Action: "SELL_RECEIPT_bill-1"}, // duplicate row
			{TagUID: "tag-a", Action: "STORE_PO_po-1"},
		},
		prices: map[string]float64{"tag-a": 12.50, "tag-b": 7.25},
	}
	uc := NewHistoryUseCase(repo, zap.NewNop())

	qty, total, err := uc.ReplaySellTotals(context.Background(), "bill-1")
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
	assert.InDelta(t, 19.75, total, 1e-9)
}

func TestListEventsPassesFiltersThrough(t *testing.T) {
	repo := &fakeHistoryRepo{events: []model.TagEvent{{TagUID: "tag-a"}}}
	uc := NewHistoryUseCase(repo, zap.NewNop())

	filters := &dto.EventFilters{UID: "tag", Page: 2, PageSize: 20}
	events, total, err := uc.ListEvents(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, events, 1)
	assert.Same(t, filters, repo.lastFilters)
}
