package application

import (
	"context"
	"time"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type EventService struct {
	events domain.EventStore
	tracer trace.Tracer
}

func NewEventService(events domain.EventStore, tracer trace.Tracer) *EventService {
	return &EventService{
		events: events,
		tracer: tracer,
	}
}

func (service *EventService) GetAll(ctx context.Context, principal authorization.Principal, adminView bool, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, span := service.tracer.Start(ctx, "EventService.GetAll")
	defer span.End()

	if !adminView || !principal.IsAdmin() {
		scope, err := principalAccommodationID(principal)
		if err != nil {
			return nil, err
		}
		if scope != nil {
			filter.AccommodationID = scope
		}
	}

	events, err := service.events.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return events, nil
}

func (service *EventService) Get(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) (*domain.Event, error) {
	ctx, span := service.tracer.Start(ctx, "EventService.Get")
	defer span.End()

	event, err := service.events.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeEventNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, event.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	return event, nil
}

func (service *EventService) Create(ctx context.Context, principal authorization.Principal, event *domain.Event) (*domain.Event, error) {
	ctx, span := service.tracer.Start(ctx, "EventService.Create")
	defer span.End()

	if !authorization.HasAccessToAccommodation(principal, event.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}

	if err := event.Validate(); err != nil {
		return nil, errors.BadRequest()
	}
	if event.EndDate.Before(event.PlannedDate) {
		return nil, errors.BadRequest()
	}

	created, err := service.events.Insert(ctx, event)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return created, nil
}

func (service *EventService) Update(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, patch map[string]interface{}) (*domain.Event, error) {
	ctx, span := service.tracer.Start(ctx, "EventService.Update")
	defer span.End()

	event, err := service.events.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeEventNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, event.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	if !authorization.CanModifyObject(principal, event.UserID.Hex()) {
		return nil, errors.Forbidden()
	}

	if err := rejectOwnershipPatch(patch, "userId", "accommodationId"); err != nil {
		return nil, err
	}
	delete(patch, "id")
	if err := mergeEventPatch(event, patch); err != nil {
		return nil, errors.BadRequest()
	}

	if err := event.Validate(); err != nil {
		return nil, errors.BadRequest()
	}
	if event.EndDate.Before(event.PlannedDate) {
		return nil, errors.BadRequest()
	}

	if err := service.events.Update(ctx, event); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return event, nil
}

// mergeEventPatch applies the patch field by field. Dates arrive as
// RFC 3339 strings and need explicit parsing before they land in the
// time fields.
func mergeEventPatch(event *domain.Event, patch map[string]interface{}) error {
	if title, ok := patch["title"].(string); ok {
		event.Title = title
	} else if _, present := patch["title"]; present {
		return errors.BadRequest()
	}
	if description, ok := patch["description"].(string); ok {
		event.Description = description
	}
	if raw, present := patch["plannedDate"]; present {
		plannedDate, err := parseEventDate(raw)
		if err != nil {
			return err
		}
		event.PlannedDate = plannedDate
	}
	if raw, present := patch["endDate"]; present {
		endDate, err := parseEventDate(raw)
		if err != nil {
			return err
		}
		event.EndDate = endDate
	}
	return nil
}

func parseEventDate(raw interface{}) (time.Time, error) {
	value, ok := raw.(string)
	if !ok {
		return time.Time{}, errors.BadRequest()
	}
	return time.Parse(time.RFC3339, value)
}

func (service *EventService) Delete(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "EventService.Delete")
	defer span.End()

	event, err := service.events.Get(ctx, id)
	if err == domain.ErrNotFound {
		return errors.NotFound(errors.CodeEventNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, event.AccommodationID.Hex()) {
		return errors.Forbidden()
	}
	if !authorization.CanModifyObject(principal, event.UserID.Hex()) {
		return errors.Forbidden()
	}

	if err := service.events.Delete(ctx, id); err != nil && err != domain.ErrNotFound {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}
	return nil
}
