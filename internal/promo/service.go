package promo

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"pos-backend/internal/config"
	"pos-backend/internal/logger"
	"pos-backend/internal/models"
)

// StateStore persists the singleton promo override row.
type StateStore interface {
	GetPromoState() (*models.PromoState, error)
	SavePromoState(state models.PromoState) error
}

// Service evaluates the weekly promotion schedule and owns the manual
// override flag. All override mutations go through a single mutex: the state
// is a singleton, so per-resource locking collapses to one lock.
type Service struct {
	mu      sync.Mutex
	store   StateStore
	loc     *time.Location
	weekday time.Weekday
	logger  *logger.Logger

	// Now is swappable in tests; evaluation itself never reads it.
	Now func() time.Time
}

func NewService(store StateStore, cfg config.PromoConfig, log *logger.Logger) *Service {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("PROMO", fmt.Sprintf("Unknown timezone %q, falling back to UTC: %v", cfg.Timezone, err))
		loc = time.UTC
	}
	return &Service{
		store:   store,
		loc:     loc,
		weekday: cfg.Weekday,
		logger:  log,
		Now:     time.Now,
	}
}

// Evaluate is a pure function of the supplied instant and state: the schedule
// is active iff now falls on the configured weekday in the reference
// timezone, and the override extends it regardless of the day.
func (s *Service) Evaluate(now time.Time, state models.PromoState) models.PromoEvaluation {
	scheduled := now.In(s.loc).Weekday() == s.weekday
	return models.PromoEvaluation{
		ScheduledActive: scheduled,
		EffectiveActive: scheduled || state.ManualOverrideEnabled,
	}
}

// State returns the persisted promo state, creating the default row on first
// access.
func (s *Service) State() (models.PromoState, error) {
	state, err := s.store.GetPromoState()
	if err == nil {
		return *state, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.PromoState{}, fmt.Errorf("load promo state: %w", err)
	}

	fresh := models.PromoState{
		ID:                    models.PromoStateID,
		ManualOverrideEnabled: false,
		UpdatedAt:             s.Now(),
	}
	if err := s.store.SavePromoState(fresh); err != nil {
		return models.PromoState{}, fmt.Errorf("initialize promo state: %w", err)
	}
	s.logger.Info("PROMO", "Initialized promo state with override disabled")
	return fresh, nil
}

// Status reports the schedule/override/effective triple for the current
// instant.
func (s *Service) Status() (models.PromoStatus, error) {
	state, err := s.State()
	if err != nil {
		return models.PromoStatus{}, err
	}
	eval := s.Evaluate(s.Now(), state)
	return models.PromoStatus{
		ScheduledActive:       eval.ScheduledActive,
		ManualOverrideEnabled: state.ManualOverrideEnabled,
		EffectiveActive:       eval.EffectiveActive,
	}, nil
}

// SetOverride flips the manual override and returns the resulting status.
// Last writer wins; the read-modify-write is serialized by the service mutex.
func (s *Service) SetOverride(enabled bool) (models.PromoStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.State()
	if err != nil {
		return models.PromoStatus{}, err
	}

	state.ManualOverrideEnabled = enabled
	state.UpdatedAt = s.Now()
	if err := s.store.SavePromoState(state); err != nil {
		return models.PromoStatus{}, fmt.Errorf("save promo state: %w", err)
	}

	s.logger.Info("PROMO", fmt.Sprintf("Manual override set to %t", enabled))

	eval := s.Evaluate(s.Now(), state)
	return models.PromoStatus{
		ScheduledActive:       eval.ScheduledActive,
		ManualOverrideEnabled: state.ManualOverrideEnabled,
		EffectiveActive:       eval.EffectiveActive,
	}, nil
}
