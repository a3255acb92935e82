package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/events"
	"github.com/commercekit/catalog-service/internal/service"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

type MockContactRepo struct{ mock.Mock }

func (m *MockContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	msg.ID = "m1"
	return args.Error(0)
}
func (m *MockContactRepo) List(ctx context.Context) ([]domain.ContactMessage, error) {
	args := m.Called(ctx)
	var msgs []domain.ContactMessage
	if v := args.Get(0); v != nil {
		msgs = v.([]domain.ContactMessage)
	}
	return msgs, args.Error(1)
}
func (m *MockContactRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// capturingDispatcher records published events.
type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func TestContactService_Submit_PublishesEvent(t *testing.T) {
	repo := &MockContactRepo{}
	dispatcher := &capturingDispatcher{}
	svc := service.NewContactService(repo, dispatcher)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	msg, err := svc.Submit(context.Background(), "Alice", "alice@x.com", "Where is my order?")
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventContactMessageReceived, dispatcher.events[0].Type)
	payload, ok := dispatcher.events[0].Payload.(events.ContactMessageReceivedPayload)
	require.True(t, ok)
	assert.Equal(t, "m1", payload.MessageID)
	assert.Equal(t, "alice@x.com", payload.Email)
}

func TestContactService_Submit_PreviewKeepsRunesIntact(t *testing.T) {
	repo := &MockContactRepo{}
	dispatcher := &capturingDispatcher{}
	svc := service.NewContactService(repo, dispatcher)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	// "é" is two bytes, so the 120-byte cutoff lands in its middle.
	message := strings.Repeat("a", 119) + "état de ma commande"
	_, err := svc.Submit(context.Background(), "Alice", "alice@x.com", message)
	require.NoError(t, err)

	require.Len(t, dispatcher.events, 1)
	payload, ok := dispatcher.events[0].Payload.(events.ContactMessageReceivedPayload)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(payload.BodyPreview))
	assert.Equal(t, strings.Repeat("a", 119), payload.BodyPreview)
}

func TestContactService_Submit_RequiresFields(t *testing.T) {
	svc := service.NewContactService(&MockContactRepo{}, &capturingDispatcher{})

	_, err := svc.Submit(context.Background(), "", "alice@x.com", "hi")
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}
