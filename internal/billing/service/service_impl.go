package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
	"github.com/smallbiznis/cloudbill/internal/billing/kind"
	"github.com/smallbiznis/cloudbill/internal/clock"
	"github.com/smallbiznis/cloudbill/internal/config"
	obsmetrics "github.com/smallbiznis/cloudbill/internal/observability/metrics"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	"github.com/smallbiznis/cloudbill/internal/reslock"
	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
	"github.com/smallbiznis/cloudbill/pkg/db"
	"github.com/smallbiznis/cloudbill/pkg/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var millisecondsPerHour = decimal.FromInt64(3_600_000)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Cfg          config.Config
	Clock        clock.Clock
	Kinds        *kind.Registry
	Locker       reslock.Locker
	PriceSvc     pricedomain.Service
	ResourceRepo resourcedomain.Repository
	RecordRepo   recorddomain.Repository
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	kinds        *kind.Registry
	locker       reslock.Locker
	pricesvc     pricedomain.Service
	resourceRepo resourcedomain.Repository
	recordRepo   recorddomain.Repository
	metrics      *obsmetrics.Metrics
	storeTimeout time.Duration
}

func New(p Params) billingdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("billing.engine"),
		genID:        p.GenID,
		clock:        p.Clock,
		kinds:        p.Kinds,
		locker:       p.Locker,
		pricesvc:     p.PriceSvc,
		resourceRepo: p.ResourceRepo,
		recordRepo:   p.RecordRepo,
		metrics:      p.Metrics,
		storeTimeout: p.Cfg.StoreTimeout,
	}
}

// ProcessEvent validates the event against its kind, runs the resource
// state machine under the resource's lock and persists the outcome
// atomically. Validation and state-machine rejections happen before any
// write; a store failure aborts the whole event.
func (s *Service) ProcessEvent(ctx context.Context, event billingdomain.Event) (*billingdomain.Outcome, error) {
	outcome, err := s.processEvent(ctx, event)
	if err != nil {
		s.metrics.RecordEventRejected(ctx, event.ResourceType, rejectionReason(err))
		return nil, err
	}

	s.metrics.RecordEventProcessed(ctx, event.ResourceType, string(outcome.Kind))
	if outcome.Record != nil {
		s.metrics.RecordBillingRecord(ctx, event.ResourceType)
	}
	return outcome, nil
}

func (s *Service) processEvent(ctx context.Context, event billingdomain.Event) (*billingdomain.Outcome, error) {
	if event.ResourceID == "" {
		return nil, resourcedomain.ErrInvalidResourceID
	}
	if event.EventTime.IsZero() {
		return nil, billingdomain.ErrEventTimeInvalid
	}

	validator, err := s.kinds.CheckEvent(event)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, event.ResourceID)
	if err != nil {
		return nil, err
	}
	defer release()

	// The catalog read happens before the store transaction opens so it
	// never contends with the transaction's pooled connection. A missing
	// price only fails transitions that accrue consumption.
	unitPrice, priceErr := s.pricesvc.GetUnitPrice(ctx, event.ResourceType, event.EventTime)

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var outcome *billingdomain.Outcome
	err = s.db.WithContext(storeCtx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		outcome, txErr = s.apply(storeCtx, tx, event, validator, unitPrice, priceErr)
		return txErr
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, billingdomain.ErrStoreTimeout
		}
		return nil, err
	}

	s.log.Info("event processed",
		zap.String("resource_id", event.ResourceID),
		zap.String("resource_type", event.ResourceType),
		zap.String("event_type", string(event.EventType)),
		zap.String("outcome", string(outcome.Kind)),
	)
	return outcome, nil
}

func (s *Service) apply(ctx context.Context, tx *gorm.DB, event billingdomain.Event, validator kind.Validator, unitPrice decimal.Decimal, priceErr error) (*billingdomain.Outcome, error) {
	current, err := s.resourceRepo.FindByID(ctx, tx, event.ResourceID)
	if err != nil {
		return nil, err
	}

	if current == nil {
		switch event.EventType {
		case billingdomain.EventCreate:
			return s.createResource(ctx, tx, event, billingdomain.OutcomeCreated)
		case billingdomain.EventDelete:
			// Late or duplicate delete with nothing to delete. Tolerated so
			// at-least-once redelivery stays harmless.
			s.log.Warn("delete event for unknown resource",
				zap.String("resource_id", event.ResourceID),
			)
			return &billingdomain.Outcome{Kind: billingdomain.OutcomeToleratedNoOp}, nil
		default:
			// A resize or exists event with no ledger entry means the create
			// was lost upstream. Synthesize the resource as of this event
			// and bill from here on.
			s.log.Warn("recovering resource from missed create",
				zap.String("resource_id", event.ResourceID),
				zap.String("event_type", string(event.EventType)),
			)
			return s.createResource(ctx, tx, event, billingdomain.OutcomeRecovered)
		}
	}

	if current.Status == resourcedomain.StatusDeleted {
		return nil, billingdomain.ErrEventTimeInvalid
	}
	if event.EventType == billingdomain.EventCreate {
		return nil, billingdomain.ErrEventDuplicate
	}

	checkpoint := current.Checkpoint()
	if event.EventTime.Before(checkpoint) {
		return nil, billingdomain.ErrEventTimeInvalid
	}

	if priceErr != nil {
		return nil, priceErr
	}

	// The quantity billed for the elapsed interval is the one the resource
	// had during that interval: for a resize that is the stored size, not
	// the incoming one.
	previousContent, err := decodeContent(current.Content)
	if err != nil {
		return nil, err
	}
	quantity, err := validator.BillableQuantity(previousContent)
	if err != nil {
		return nil, err
	}

	consumption := unitPrice.Mul(elapsedHours(checkpoint, event.EventTime)).Mul(quantity)

	description := event.ResourceType + " " + string(event.EventType)
	outcomeKind := billingdomain.OutcomeAccrued

	switch event.EventType {
	case billingdomain.EventResize:
		encoded, err := encodeContent(event.Content)
		if err != nil {
			return nil, err
		}
		current.Content = encoded
	case billingdomain.EventExists:
		description = "Audit billing"
	case billingdomain.EventDelete:
		deletedAt := event.EventTime
		current.Status = resourcedomain.StatusDeleted
		current.DeletedAt = &deletedAt
		current.Description = "Resource has been deleted"
		outcomeKind = billingdomain.OutcomeDeleted
	}

	record := &recorddomain.BillingRecord{
		ID:          s.genID.Generate(),
		ResourceID:  event.ResourceID,
		StartAt:     checkpoint,
		EndAt:       event.EventTime,
		UnitPrice:   unitPrice,
		Consumption: consumption,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}

	current.Consumption = current.Consumption.Add(consumption)
	current.UpdatedAt = event.EventTime

	if err := s.recordRepo.Insert(ctx, tx, record); err != nil {
		return nil, err
	}
	if err := s.resourceRepo.Update(ctx, tx, current); err != nil {
		return nil, err
	}

	return &billingdomain.Outcome{
		Kind:     outcomeKind,
		Resource: current,
		Record:   record,
	}, nil
}

func (s *Service) createResource(ctx context.Context, tx *gorm.DB, event billingdomain.Event, outcomeKind billingdomain.OutcomeKind) (*billingdomain.Outcome, error) {
	encoded, err := encodeContent(event.Content)
	if err != nil {
		return nil, err
	}

	resource := &resourcedomain.Resource{
		ResourceID:   event.ResourceID,
		ResourceType: event.ResourceType,
		Status:       resourcedomain.StatusActive,
		Content:      encoded,
		Consumption:  decimal.Zero(),
		CreatedAt:    event.EventTime,
		UpdatedAt:    event.EventTime,
	}

	if err := s.resourceRepo.Insert(ctx, tx, resource); err != nil {
		// Another instance created the row between our lookup and insert.
		if db.IsDuplicateKeyErr(err) {
			return nil, billingdomain.ErrEventDuplicate
		}
		return nil, err
	}

	return &billingdomain.Outcome{
		Kind:     outcomeKind,
		Resource: resource,
	}, nil
}

// rejectionReason keeps the metric label set closed: taxonomy errors map
// to their code, anything else (store and driver failures) collapses to
// one value.
func rejectionReason(err error) string {
	for _, sentinel := range []error{
		billingdomain.ErrResourceTypeUnknown,
		billingdomain.ErrEventTypeInvalid,
		billingdomain.ErrContentInvalid,
		billingdomain.ErrVolumeSizeInvalid,
		billingdomain.ErrEventDuplicate,
		billingdomain.ErrEventTimeInvalid,
		billingdomain.ErrStoreTimeout,
		pricedomain.ErrPriceNotFound,
		resourcedomain.ErrInvalidResourceID,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "store_error"
}

func elapsedHours(start, end time.Time) decimal.Decimal {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return decimal.Zero()
	}
	return decimal.FromInt64(elapsed.Milliseconds()).Div(millisecondsPerHour)
}

func encodeContent(content map[string]any) (datatypes.JSON, error) {
	if content == nil {
		content = map[string]any{}
	}
	encoded, err := json.Marshal(content)
	if err != nil {
		return nil, billingdomain.ErrContentInvalid
	}
	return datatypes.JSON(encoded), nil
}

func decodeContent(content datatypes.JSON) (map[string]any, error) {
	if len(content) == 0 {
		return map[string]any{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(content, &decoded); err != nil {
		return nil, billingdomain.ErrContentInvalid
	}
	return decoded, nil
}
