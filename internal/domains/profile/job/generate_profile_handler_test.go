package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/domains/profile/service"
	"oneshot-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	service.ServiceInterface
	calls []string
	err   error
}

func (s *stubService) RegenerateProfile(ctx context.Context, id, baseURL string, async bool) (*model.GenerationResult, error) {
	s.calls = append(s.calls, id+"|"+baseURL)
	if s.err != nil {
		return nil, s.err
	}
	return &model.GenerationResult{Slug: "jordan-davis"}, nil
}

func task(t *testing.T, payload interface{}) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeGenerateProfile, body)
}

func TestGenerateProfileHandler_RendersInline(t *testing.T) {
	svc := &stubService{}
	h := NewGenerateProfileHandler(svc)

	err := h.ProcessTask(context.Background(), task(t, shared.GenerateProfilePayload{ProfileID: "1", BaseURL: "http://x"}))

	require.NoError(t, err)
	assert.Equal(t, []string{"1|http://x"}, svc.calls)
}

func TestGenerateProfileHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewGenerateProfileHandler(&stubService{})

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeGenerateProfile, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestGenerateProfileHandler_NotFoundSkipsRetry(t *testing.T) {
	h := NewGenerateProfileHandler(&stubService{err: model.NewProfileNotFound("9")})

	err := h.ProcessTask(context.Background(), task(t, shared.GenerateProfilePayload{ProfileID: "9"}))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestGenerateProfileHandler_TransientErrorRetries(t *testing.T) {
	h := NewGenerateProfileHandler(&stubService{err: errors.New("disk full")})

	err := h.ProcessTask(context.Background(), task(t, shared.GenerateProfilePayload{ProfileID: "1"}))

	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
