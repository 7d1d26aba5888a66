package order_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pos-backend/internal/config"
	"pos-backend/internal/logger"
	"pos-backend/internal/models"
	"pos-backend/internal/order"
	"pos-backend/internal/order/discount"
)

// Mock implementations

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateOrder(o models.Order) error {
	args := m.Called(o)
	return args.Error(0)
}

func (m *MockDBLayer) GetOrderByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) ListOrders(status string) ([]models.Order, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) UpdateOrderStatus(id, status string) (*models.Order, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Publish(event string, o models.Order) {
	m.Called(event, o)
}

type MockKafkaPublisher struct {
	mock.Mock
}

func (m *MockKafkaPublisher) Publish(topic, key string, value []byte) error {
	args := m.Called(topic, key, value)
	return args.Error(0)
}

type stubPromo struct {
	scheduled bool
	override  bool
	stateErr  error
}

func (p *stubPromo) State() (models.PromoState, error) {
	if p.stateErr != nil {
		return models.PromoState{}, p.stateErr
	}
	return models.PromoState{ID: models.PromoStateID, ManualOverrideEnabled: p.override}, nil
}

func (p *stubPromo) Evaluate(now time.Time, state models.PromoState) models.PromoEvaluation {
	return models.PromoEvaluation{
		ScheduledActive: p.scheduled,
		EffectiveActive: p.scheduled || state.ManualOverrideEnabled,
	}
}

type stubCatalog struct {
	products map[string]models.Product
}

func (c *stubCatalog) GetProduct(id string) (models.Product, bool) {
	product, ok := c.products[id]
	return product, ok
}

func testCatalog() *stubCatalog {
	return &stubCatalog{products: map[string]models.Product{
		"ramen-a": {ID: "ramen-a", Category: models.CategoryRamen},
		"ramen-b": {ID: "ramen-b", Category: models.CategoryRamen},
		"soda":    {ID: "soda", Category: models.CategoryDrinks, Price: 30},
	}}
}

func testTopics() config.TopicConfig {
	return config.TopicConfig{
		OrderCreated: "pos.order.created",
		OrderUpdated: "pos.order.updated",
	}
}

func newService(db *MockDBLayer, events *MockBroadcaster, promo *stubPromo, kafkaMock *MockKafkaPublisher) *order.OrderService {
	return order.NewOrderService(
		db,
		events,
		promo,
		testCatalog(),
		discount.NewCalculator(),
		kafkaMock,
		testTopics(),
		logger.NewLogger(),
	)
}

func floatPtr(v float64) *float64 { return &v }

func validRequest() models.OrderRequest {
	return models.OrderRequest{
		Items: []models.OrderLineItem{
			{ProductID: "ramen-a", Name: "Shoyu", Qty: 1, UnitPrice: 120},
			{ProductID: "ramen-b", Name: "Tonkotsu", Qty: 1, UnitPrice: 150},
		},
		Totals: &models.OrderTotalsRequest{Subtotal: 270, Total: floatPtr(270)},
		Notes:  "mesa 4",
	}
}

// Tests start here

func TestSubmitRejectsEmptyItems(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	svc := newService(mockDB, mockEvents, &stubPromo{}, new(MockKafkaPublisher))

	req := validRequest()
	req.Items = nil

	created, err := svc.Submit(req)

	assert.Nil(t, created)
	assert.True(t, models.IsValidationError(err))
	mockDB.AssertNotCalled(t, "CreateOrder", mock.Anything)
	mockEvents.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSubmitRejectsMissingTotals(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	svc := newService(mockDB, mockEvents, &stubPromo{}, new(MockKafkaPublisher))

	req := validRequest()
	req.Totals = nil

	_, err := svc.Submit(req)
	assert.True(t, models.IsValidationError(err))

	req = validRequest()
	req.Totals = &models.OrderTotalsRequest{Subtotal: 270, Total: nil}

	_, err = svc.Submit(req)
	assert.True(t, models.IsValidationError(err))

	mockDB.AssertNotCalled(t, "CreateOrder", mock.Anything)
}

func TestSubmitAppliesScheduledPromo(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{scheduled: true}, mockKafka)

	var persisted models.Order
	mockDB.On("CreateOrder", mock.AnythingOfType("models.Order")).
		Run(func(args mock.Arguments) { persisted = args.Get(0).(models.Order) }).
		Return(nil)
	mockEvents.On("Publish", models.EventOrderNew, mock.AnythingOfType("models.Order")).Return()
	mockKafka.On("Publish", "pos.order.created", mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Submit(validRequest())

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "ORD-"))
	assert.Equal(t, models.StatusPending, created.Status)
	assert.True(t, created.PromoApplied)
	assert.Equal(t, models.PromoTypeTwoForOne, created.PromoType)
	assert.Equal(t, models.PromoSourceSchedule, created.PromoSource)
	assert.Equal(t, 120.0, created.PromoDiscount)
	if assert.NotNil(t, created.Totals.TotalFinal) {
		assert.Equal(t, 150.0, *created.Totals.TotalFinal)
	}
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.PromoTimestamp.IsZero())

	// The broadcast carries the same order that was persisted.
	assert.Equal(t, persisted.ID, created.ID)
	mockDB.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
	mockKafka.AssertExpectations(t)
}

func TestSubmitWithoutPromoKeepsTotals(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{}, mockKafka)

	mockDB.On("CreateOrder", mock.AnythingOfType("models.Order")).Return(nil)
	mockEvents.On("Publish", models.EventOrderNew, mock.AnythingOfType("models.Order")).Return()
	mockKafka.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Submit(validRequest())

	assert.NoError(t, err)
	assert.False(t, created.PromoApplied)
	assert.Zero(t, created.PromoDiscount)
	assert.Nil(t, created.Totals.TotalFinal)
	assert.Equal(t, models.PromoSourceManualOverride, created.PromoSource)
}

func TestSubmitManualOverrideSource(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{override: true}, mockKafka)

	mockDB.On("CreateOrder", mock.AnythingOfType("models.Order")).Return(nil)
	mockEvents.On("Publish", mock.Anything, mock.Anything).Return()
	mockKafka.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Submit(validRequest())

	assert.NoError(t, err)
	assert.True(t, created.PromoApplied)
	assert.Equal(t, models.PromoSourceManualOverride, created.PromoSource)
}

func TestSubmitFinalTotalNeverNegative(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{scheduled: true}, mockKafka)

	mockDB.On("CreateOrder", mock.AnythingOfType("models.Order")).Return(nil)
	mockEvents.On("Publish", mock.Anything, mock.Anything).Return()
	mockKafka.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Caller-supplied total below the computed discount.
	req := validRequest()
	req.Totals = &models.OrderTotalsRequest{Subtotal: 100, Total: floatPtr(100)}

	created, err := svc.Submit(req)

	assert.NoError(t, err)
	if assert.NotNil(t, created.Totals.TotalFinal) {
		assert.Equal(t, 0.0, *created.Totals.TotalFinal)
	}
}

func TestSubmitPersistFailurePublishesNothing(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{}, mockKafka)

	mockDB.On("CreateOrder", mock.AnythingOfType("models.Order")).Return(errors.New("disk full"))

	created, err := svc.Submit(validRequest())

	assert.Nil(t, created)
	assert.Error(t, err)
	assert.False(t, models.IsValidationError(err))
	mockEvents.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	mockKafka.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSurvivesPromoStateError(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{stateErr: errors.New("promo store down")}, mockKafka)

	mockDB.On("CreateOrder", mock.AnythingOfType("models.Order")).Return(nil)
	mockEvents.On("Publish", mock.Anything, mock.Anything).Return()
	mockKafka.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Submit(validRequest())

	assert.NoError(t, err)
	assert.False(t, created.PromoApplied)
}

func TestTransitionRejectsInvalidStatus(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	svc := newService(mockDB, mockEvents, &stubPromo{}, new(MockKafkaPublisher))

	updated, err := svc.Transition("ORD-1", "served")

	assert.Nil(t, updated)
	assert.True(t, models.IsValidationError(err))
	mockDB.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything)
	mockEvents.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTransitionUnknownOrder(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	svc := newService(mockDB, mockEvents, &stubPromo{}, new(MockKafkaPublisher))

	mockDB.On("UpdateOrderStatus", "ORD-missing", models.StatusReady).Return(nil, models.ErrOrderNotFound)

	updated, err := svc.Transition("ORD-missing", models.StatusReady)

	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, models.ErrOrderNotFound))
	mockEvents.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTransitionPublishesUpdate(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{}, mockKafka)

	stored := &models.Order{ID: "ORD-1", Status: models.StatusPreparing, CreatedAt: time.Now()}
	mockDB.On("UpdateOrderStatus", "ORD-1", models.StatusPreparing).Return(stored, nil)
	mockEvents.On("Publish", models.EventOrderUpdated, *stored).Return()
	mockKafka.On("Publish", "pos.order.updated", "ORD-1", mock.Anything).Return(nil)

	updated, err := svc.Transition("ORD-1", models.StatusPreparing)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, updated.Status)
	mockEvents.AssertExpectations(t)
	mockKafka.AssertExpectations(t)
}

func TestTransitionAllowsBackwardMove(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockEvents := new(MockBroadcaster)
	mockKafka := new(MockKafkaPublisher)
	svc := newService(mockDB, mockEvents, &stubPromo{}, mockKafka)

	stored := &models.Order{ID: "ORD-1", Status: models.StatusPending, CreatedAt: time.Now()}
	mockDB.On("UpdateOrderStatus", "ORD-1", models.StatusPending).Return(stored, nil)
	mockEvents.On("Publish", mock.Anything, mock.Anything).Return()
	mockKafka.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// ready -> pending is accepted; staff correct mistakes this way.
	updated, err := svc.Transition("ORD-1", models.StatusPending)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}
