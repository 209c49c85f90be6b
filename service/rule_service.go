package application

import (
	"context"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type RuleService struct {
	rules  domain.RuleStore
	tracer trace.Tracer
}

func NewRuleService(rules domain.RuleStore, tracer trace.Tracer) *RuleService {
	return &RuleService{
		rules:  rules,
		tracer: tracer,
	}
}

func (service *RuleService) GetAll(ctx context.Context, principal authorization.Principal, filter domain.RuleFilter) ([]*domain.Rule, error) {
	ctx, span := service.tracer.Start(ctx, "RuleService.GetAll")
	defer span.End()

	scope, err := principalAccommodationID(principal)
	if err != nil {
		return nil, err
	}
	if scope != nil {
		filter.AccommodationID = scope
	}

	rules, err := service.rules.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return rules, nil
}

func (service *RuleService) Get(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) (*domain.Rule, error) {
	ctx, span := service.tracer.Start(ctx, "RuleService.Get")
	defer span.End()

	rule, err := service.rules.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeRuleNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, rule.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	return rule, nil
}

// Create is moderator or admin territory, and only inside the caller's
// own accommodation.
func (service *RuleService) Create(ctx context.Context, principal authorization.Principal, rule *domain.Rule) (*domain.Rule, error) {
	ctx, span := service.tracer.Start(ctx, "RuleService.Create")
	defer span.End()

	if !authorization.CanModifyAccommodation(principal, rule.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}

	if err := rule.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	created, err := service.rules.Insert(ctx, rule)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return created, nil
}

func (service *RuleService) Update(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, patch map[string]interface{}) (*domain.Rule, error) {
	ctx, span := service.tracer.Start(ctx, "RuleService.Update")
	defer span.End()

	rule, err := service.rules.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeRuleNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.CanModifyAccommodation(principal, rule.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}

	if err := rejectOwnershipPatch(patch, "accommodationId"); err != nil {
		return nil, err
	}
	delete(patch, "id")
	if err := mapstructure.Decode(patch, rule); err != nil {
		return nil, errors.BadRequest()
	}

	if err := rule.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	if err := service.rules.Update(ctx, rule); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return rule, nil
}

func (service *RuleService) Delete(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "RuleService.Delete")
	defer span.End()

	rule, err := service.rules.Get(ctx, id)
	if err == domain.ErrNotFound {
		return errors.NotFound(errors.CodeRuleNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}

	if !authorization.CanModifyAccommodation(principal, rule.AccommodationID.Hex()) {
		return errors.Forbidden()
	}

	if err := service.rules.Delete(ctx, id); err != nil && err != domain.ErrNotFound {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}
	return nil
}
