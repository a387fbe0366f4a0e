package services_test

import (
	"testing"
	"time"

	"warbler/internal/models"
	"warbler/internal/repositories"
	"warbler/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLikeFixture(t *testing.T, allowOwn bool) (*services.LikeService, *MockLikeRepository, *recorder) {
	t.Helper()
	messages := repositories.NewMockMessageRepository()
	require.NoError(t, messages.Create(&models.Message{ID: 5555, Text: "hhhhhhhhhhhhhhh", UserID: 2222, Timestamp: time.Now()}))
	likes := new(MockLikeRepository)
	rec := &recorder{}
	return services.NewLikeService(messages, likes, services.NewActivity(nil, rec), allowOwn), likes, rec
}

func TestLikeService_Toggle(t *testing.T) {
	svc, likes, rec := newLikeFixture(t, false)

	likes.On("Toggle", uint(1111), uint(5555)).Return(true, nil).Once()
	liked, err := svc.Toggle(1111, 5555)
	require.NoError(t, err)
	assert.True(t, liked)

	likes.On("Toggle", uint(1111), uint(5555)).Return(false, nil).Once()
	liked, err = svc.Toggle(1111, 5555)
	require.NoError(t, err)
	assert.False(t, liked)

	likes.AssertExpectations(t)
	assert.Equal(t, []string{services.EventMessageLiked, services.EventMessageUnliked}, rec.recorded())
}

func TestLikeService_Toggle_Rejects(t *testing.T) {
	svc, likes, _ := newLikeFixture(t, false)

	_, err := svc.Toggle(0, 5555)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Toggle(1111, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Toggle(2222, 5555)
	assert.ErrorIs(t, err, models.ErrForbidden)

	likes.AssertNumberOfCalls(t, "Toggle", 0)
}

func TestLikeService_Toggle_OwnMessageWhenAllowed(t *testing.T) {
	svc, likes, _ := newLikeFixture(t, true)

	likes.On("Toggle", uint(2222), uint(5555)).Return(true, nil).Once()
	liked, err := svc.Toggle(2222, 5555)
	require.NoError(t, err)
	assert.True(t, liked)
}
