// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition"
	expeditionmock "github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition/mock"
	"github.com/KirkDiggler/expedition-api/internal/repositories/expeditions"
	expeditionsmock "github.com/KirkDiggler/expedition-api/internal/repositories/expeditions/mock"
)

// ExpectListActive sets up a mock expectation for listing the active expeditions
func ExpectListActive(
	ctx context.Context, mockRepo *expeditionsmock.MockRepository,
	active []*entities.Expedition, err error,
) *gomock.Call {
	if err != nil {
		return mockRepo.EXPECT().
			ListActive(ctx, expeditions.ListActiveInput{}).
			Return(nil, err)
	}
	return mockRepo.EXPECT().
		ListActive(ctx, expeditions.ListActiveInput{}).
		Return(&expeditions.ListActiveOutput{Expeditions: active}, nil)
}

// ExpectUpdateProgress sets up a mock expectation for advancing one expedition.
// A nil err returns the expedition itself, reporting changed as given.
func ExpectUpdateProgress(
	ctx context.Context, mockSvc *expeditionmock.MockService,
	exp *entities.Expedition, changed bool, err error,
) *gomock.Call {
	call := mockSvc.EXPECT().
		UpdateProgress(ctx, &expedition.UpdateProgressInput{ExpeditionID: exp.ID})
	if err != nil {
		return call.Return(nil, err)
	}
	return call.Return(&expedition.UpdateProgressOutput{Expedition: exp, Changed: changed}, nil)
}

// ExpectActiveExpeditions chains ExpectListActive with one progress update per
// expedition, each reporting a change
func ExpectActiveExpeditions(
	ctx context.Context,
	mockRepo *expeditionsmock.MockRepository,
	mockSvc *expeditionmock.MockService,
	active ...*entities.Expedition,
) {
	ExpectListActive(ctx, mockRepo, active, nil)
	for _, exp := range active {
		ExpectUpdateProgress(ctx, mockSvc, exp, true, nil)
	}
}
