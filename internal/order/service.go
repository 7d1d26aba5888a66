package order

import (
	"encoding/json"
	"fmt"
	"time"

	"pos-backend/internal/config"
	"pos-backend/internal/logger"
	"pos-backend/internal/models"
	"pos-backend/internal/order/discount"
	"pos-backend/internal/utils"
)

type DBLayer interface {
	CreateOrder(order models.Order) error
	GetOrderByID(id string) (*models.Order, error)
	ListOrders(status string) ([]models.Order, error)
	UpdateOrderStatus(id, status string) (*models.Order, error)
}

type Broadcaster interface {
	Publish(event string, order models.Order)
}

type PromoResolver interface {
	Evaluate(now time.Time, state models.PromoState) models.PromoEvaluation
	State() (models.PromoState, error)
}

type CatalogLookup interface {
	GetProduct(id string) (models.Product, bool)
}

type DiscountCalculator interface {
	ComputeDiscount(items []models.OrderLineItem, catalog discount.CatalogLookup) float64
}

type KafkaPublisher interface {
	Publish(topic, key string, value []byte) error
}

// OrderService owns the order lifecycle: it validates submissions, resolves
// the promotion, assigns identifiers, persists, and only then broadcasts.
type OrderService struct {
	DB       DBLayer
	Events   Broadcaster
	Promo    PromoResolver
	Catalog  CatalogLookup
	Discount DiscountCalculator
	Kafka    KafkaPublisher
	Topics   config.TopicConfig
	Logger   *logger.Logger

	// Now is swappable in tests.
	Now func() time.Time
}

func NewOrderService(
	db DBLayer,
	events Broadcaster,
	promo PromoResolver,
	catalog CatalogLookup,
	calc DiscountCalculator,
	producer KafkaPublisher,
	topics config.TopicConfig,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		DB:       db,
		Events:   events,
		Promo:    promo,
		Catalog:  catalog,
		Discount: calc,
		Kafka:    producer,
		Topics:   topics,
		Logger:   log,
		Now:      time.Now,
	}
}

// Submit validates and persists a new order, then broadcasts order:new.
// Nothing is persisted or published when validation fails.
func (s *OrderService) Submit(req models.OrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, models.NewValidationError("La orden debe incluir items.")
	}
	if req.Totals == nil || req.Totals.Total == nil {
		return nil, models.NewValidationError("La orden debe incluir totales válidos.")
	}

	now := s.Now()

	state, err := s.Promo.State()
	if err != nil {
		// Promo state being unreadable must not block order taking; treat it
		// as override-off and keep going.
		s.Logger.Error("PROMO", fmt.Sprintf("Failed to load promo state, assuming override off: %v", err))
		state = models.PromoState{}
	}
	eval := s.Promo.Evaluate(now, state)

	var promoDiscount float64
	if eval.EffectiveActive {
		promoDiscount = s.Discount.ComputeDiscount(req.Items, s.Catalog)
	}

	totals := models.Totals{
		Subtotal: req.Totals.Subtotal,
		Total:    *req.Totals.Total,
	}
	if eval.EffectiveActive {
		final := totals.Total - promoDiscount
		if final < 0 {
			final = 0
		}
		totals.TotalFinal = &final
	}

	source := models.PromoSourceManualOverride
	if eval.ScheduledActive {
		source = models.PromoSourceSchedule
	}

	order := models.Order{
		ID:             utils.GenerateOrderID(),
		CreatedAt:      now,
		Status:         models.StatusPending,
		Items:          req.Items,
		Totals:         totals,
		Notes:          req.Notes,
		PromoApplied:   eval.EffectiveActive,
		PromoType:      models.PromoTypeTwoForOne,
		PromoSource:    source,
		PromoDiscount:  promoDiscount,
		PromoTimestamp: now,
	}

	if err := s.DB.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.Logger.LogOrder("SUBMIT", order.ID, fmt.Sprintf("%d items, discount %.2f", len(order.Items), promoDiscount))

	// The order is durably committed at this point; subscribers can never
	// observe an event the store cannot serve.
	s.Events.Publish(models.EventOrderNew, order)
	s.mirrorToKafka(s.Topics.OrderCreated, order)

	return &order, nil
}

// Transition moves an order to a new status and broadcasts order:updated.
// Any of the three statuses is accepted as a target from any current status;
// staff use backward moves to correct mistakes.
func (s *OrderService) Transition(id, newStatus string) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, models.NewValidationError("Status inválido.")
	}

	updated, err := s.DB.UpdateOrderStatus(id, newStatus)
	if err != nil {
		return nil, err
	}

	s.Logger.LogOrder("TRANSITION", id, fmt.Sprintf("status -> %s", newStatus))

	s.Events.Publish(models.EventOrderUpdated, *updated)
	s.mirrorToKafka(s.Topics.OrderUpdated, *updated)

	return updated, nil
}

func (s *OrderService) Get(id string) (*models.Order, error) {
	return s.DB.GetOrderByID(id)
}

func (s *OrderService) List(status string) ([]models.Order, error) {
	return s.DB.ListOrders(status)
}

// mirrorToKafka is best-effort: a broker failure is logged and never
// propagated to the caller, the SSE broadcast has already happened.
func (s *OrderService) mirrorToKafka(topic string, order models.Order) {
	if s.Kafka == nil || topic == "" {
		return
	}
	payload, err := json.Marshal(order)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal order %s: %v", order.ID, err))
		return
	}
	if err := s.Kafka.Publish(topic, order.ID, payload); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish order %s to %s: %v", order.ID, topic, err))
	}
}
