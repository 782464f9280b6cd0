package services

import (
	"context"
	"testing"
	"time"

	"example.com/fuelwale/backoffice/internal/metrics"
	"example.com/fuelwale/backoffice/internal/models"
	"example.com/fuelwale/backoffice/internal/tracing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestValidateDeliveryRequest(t *testing.T) {
	require.NoError(t, ValidateDeliveryRequest(uuid.New(), 2000, 9000))

	cases := []struct {
		name string
		id   uuid.UUID
		qty  int64
		rate int64
	}{
		{"missing delivery", uuid.Nil, 2000, 9000},
		{"zero quantity", uuid.New(), 0, 9000},
		{"negative quantity", uuid.New(), -10, 9000},
		{"zero rate", uuid.New(), 2000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDeliveryRequest(tc.id, tc.qty, tc.rate)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrValidation))
			require.Contains(t, err.Error(), "Customer, qty and rate are required.")
		})
	}
}

func TestCheckStock(t *testing.T) {
	require.NoError(t, CheckStock(2000, 2000))
	require.NoError(t, CheckStock(1, 2000))

	err := CheckStock(2001, 2000)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInsufficientStock))
	require.Contains(t, err.Error(), "Insufficient stock. Only 2000 L left.")
}

func TestSeedDeliveries(t *testing.T) {
	shipTo := uuid.New()
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		ShipToID:   &shipTo,
		Status:     models.OrderPending,
		Items: []models.OrderItem{
			{Product: "HSD", QuantityL: 3000, RateP: 9000},
			{Product: "HSD", QuantityL: 1500, RateP: 9100},
		},
	}
	trip := &models.Trip{ID: uuid.New(), LoadToSendL: 2500}

	deliveries := SeedDeliveries(trip, order)
	require.Len(t, deliveries, 2)

	var requiredTotal int64
	for _, d := range deliveries {
		require.Equal(t, trip.ID, d.TripID)
		require.Equal(t, order.CustomerID, d.CustomerID)
		require.Equal(t, &shipTo, d.ShipToID)
		require.Equal(t, models.DeliveryPending, d.Status)
		require.Zero(t, d.DeliveredL)
		requiredTotal += d.RequiredL
	}

	// Required quantities track the order lines, not the load-to-send figure
	require.Equal(t, order.TotalQuantityL(), requiredTotal)
	require.Equal(t, int64(4500), requiredTotal)
}

func TestGuardCompletion(t *testing.T) {
	require.NoError(t, guardCompletion(1))

	err := guardCompletion(0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrValidation))
	require.Contains(t, err.Error(), "delivery is already completed")
}

func TestFormatDeliveryNotification(t *testing.T) {
	at := time.Date(2026, 8, 14, 16, 30, 0, 0, time.UTC)
	delivery := &models.Delivery{
		Product:     "HSD",
		DeliveredL:  2000,
		DcNo:        "DC00042",
		DeliveredAt: &at,
	}

	message := FormatDeliveryNotification(delivery, "21101007")
	require.Contains(t, message, "2000 L HSD")
	require.Contains(t, message, "trip 21101007 (DC DC00042)")
	require.Contains(t, message, "14 Aug 2026 16:30")
}

// MockNotifier mocks the delivery notification queue
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMessage(ctx context.Context, body interface{}) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

// MockOutboxStore mocks the notification outbox
type MockOutboxStore struct {
	mock.Mock
}

func (m *MockOutboxStore) ListUnsent(ctx context.Context, limit int) ([]models.NotificationOutbox, error) {
	args := m.Called(ctx, limit)
	if rows := args.Get(0); rows != nil {
		return rows.([]models.NotificationOutbox), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOutboxStore) MarkSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxStore) RecordFailure(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDeliveryStore mocks the delivery repository
type MockDeliveryStore struct {
	mock.Mock
}

func (m *MockDeliveryStore) ListByTripAndStatus(ctx context.Context, tripID uuid.UUID, status string) ([]models.Delivery, error) {
	args := m.Called(ctx, tripID, status)
	if rows := args.Get(0); rows != nil {
		return rows.([]models.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeliveryStore) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*models.Delivery, error) {
	args := m.Called(ctx, key)
	if d := args.Get(0); d != nil {
		return d.(*models.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeliveryStore) GetForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Delivery, error) {
	args := m.Called(tx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestConfirmDeliveryReplaysOriginal(t *testing.T) {
	key := uuid.New()
	deliveredAt := time.Now()
	original := &models.Delivery{
		ID:             uuid.New(),
		Status:         models.DeliveryCompleted,
		DeliveredL:     2000,
		RateP:          9000,
		AmountP:        18000000,
		DcNo:           "DC00042",
		IdempotencyKey: &key,
		DeliveredAt:    &deliveredAt,
	}

	store := new(MockDeliveryStore)
	store.On("GetByIdempotencyKey", mock.Anything, key).Return(original, nil)

	service := &TripService{
		deliveryRepo: store,
		tracer:       &tracing.NewRelicTracer{},
	}

	// A retried confirmation must return the original record untouched:
	// same DC number, no second sequence draw, no balance decrement
	got, err := service.ConfirmDelivery(context.Background(), ConfirmDeliveryInput{
		PendingDeliveryID: original.ID,
		QuantityL:         2000,
		RateP:             9000,
		IdempotencyKey:    &key,
	})
	require.NoError(t, err)
	require.Equal(t, original, got)
	require.Equal(t, "DC00042", got.DcNo)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestDispatchNotification(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendMessage", mock.Anything, mock.Anything).Return(nil)

	note := &models.NotificationOutbox{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		DcNo:       "DC00042",
		TripNo:     "21101007",
		Message:    "Dear customer, 2000 L HSD was delivered against trip 21101007 (DC DC00042) at 14 Aug 2026 16:30.",
	}

	outbox := new(MockOutboxStore)
	outbox.On("MarkSent", mock.Anything, note.ID).Return(nil)

	service := &TripService{notifier: notifier, outboxRepo: outbox}
	service.dispatchNotification(context.Background(), note)
	notifier.AssertExpectations(t)
	outbox.AssertExpectations(t)

	sent := notifier.Calls[0].Arguments.Get(1).(map[string]interface{})
	require.Equal(t, "DC00042", sent["dcNo"])
	require.Equal(t, "21101007", sent["tripNo"])
	require.Contains(t, sent["message"], "2000 L HSD")
	require.Contains(t, sent["message"], "trip 21101007 (DC DC00042)")
}

func TestDispatchNotificationQueueFailure(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendMessage", mock.Anything, mock.Anything).Return(errors.New("queue down"))

	note := &models.NotificationOutbox{ID: uuid.New(), DcNo: "DC00002"}
	outbox := new(MockOutboxStore)
	outbox.On("RecordFailure", mock.Anything, note.ID).Return(nil)

	// Queue failure is swallowed: the row stays unsent for the drain
	service := &TripService{notifier: notifier, outboxRepo: outbox}
	service.dispatchNotification(context.Background(), note)
	notifier.AssertExpectations(t)
	outbox.AssertExpectations(t)
	outbox.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
}

func TestSendNotificationWithoutQueue(t *testing.T) {
	// A nil notifier only logs; it must never panic
	service := &TripService{}
	note := &models.NotificationOutbox{ID: uuid.New(), DcNo: "DC00001", Message: "delivered"}
	require.NoError(t, service.sendNotification(context.Background(), note))
}

func TestDrainNotifications(t *testing.T) {
	flaky := models.NotificationOutbox{ID: uuid.New(), DcNo: "DC00010"}
	healthy := models.NotificationOutbox{ID: uuid.New(), DcNo: "DC00011"}

	notifier := new(MockNotifier)
	notifier.On("SendMessage", mock.Anything, mock.MatchedBy(func(body interface{}) bool {
		return body.(map[string]interface{})["dcNo"] == "DC00010"
	})).Return(errors.New("queue down"))
	notifier.On("SendMessage", mock.Anything, mock.MatchedBy(func(body interface{}) bool {
		return body.(map[string]interface{})["dcNo"] == "DC00011"
	})).Return(nil)

	outbox := new(MockOutboxStore)
	outbox.On("ListUnsent", mock.Anything, 100).Return([]models.NotificationOutbox{flaky, healthy}, nil)
	outbox.On("RecordFailure", mock.Anything, flaky.ID).Return(nil)
	outbox.On("MarkSent", mock.Anything, healthy.ID).Return(nil)

	service := &TripService{
		notifier:   notifier,
		outboxRepo: outbox,
		metrics:    metrics.NewMetrics(),
	}

	// A failed send never stops the drain; later rows still go out
	require.NoError(t, service.DrainNotifications(context.Background(), 100))
	notifier.AssertExpectations(t)
	outbox.AssertExpectations(t)
	outbox.AssertNotCalled(t, "MarkSent", mock.Anything, flaky.ID)
}

func TestDrainNotificationsEmpty(t *testing.T) {
	outbox := new(MockOutboxStore)
	outbox.On("ListUnsent", mock.Anything, 50).Return([]models.NotificationOutbox{}, nil)

	service := &TripService{outboxRepo: outbox}
	require.NoError(t, service.DrainNotifications(context.Background(), 50))
	outbox.AssertExpectations(t)
}
