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

type TaskService struct {
	tasks  domain.TaskStore
	tracer trace.Tracer
}

func NewTaskService(tasks domain.TaskStore, tracer trace.Tracer) *TaskService {
	return &TaskService{
		tasks:  tasks,
		tracer: tracer,
	}
}

// principalAccommodationID resolves the caller's accommodation scope.
// Admins and test callers get a nil scope, meaning everything.
func principalAccommodationID(principal authorization.Principal) (*primitive.ObjectID, error) {
	if principal.TestBypass || principal.IsAdmin() {
		return nil, nil
	}
	if principal.AccommodationID == "" {
		return nil, errors.Forbidden()
	}
	id, err := primitive.ObjectIDFromHex(principal.AccommodationID)
	if err != nil {
		return nil, errors.Forbidden()
	}
	return &id, nil
}

// rejectOwnershipPatch refuses a patch that names an ownership field.
// Ownership is fixed at creation and never changes through this path.
func rejectOwnershipPatch(patch map[string]interface{}, fields ...string) error {
	for _, field := range fields {
		if _, present := patch[field]; present {
			return errors.Forbidden()
		}
	}
	return nil
}

func (service *TaskService) GetAll(ctx context.Context, principal authorization.Principal, adminView bool, filter domain.TaskFilter) ([]*domain.Task, error) {
	ctx, span := service.tracer.Start(ctx, "TaskService.GetAll")
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

	tasks, err := service.tasks.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return tasks, nil
}

func (service *TaskService) Get(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) (*domain.Task, error) {
	ctx, span := service.tracer.Start(ctx, "TaskService.Get")
	defer span.End()

	task, err := service.tasks.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeTaskNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, task.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	return task, nil
}

func (service *TaskService) Create(ctx context.Context, principal authorization.Principal, task *domain.Task) (*domain.Task, error) {
	ctx, span := service.tracer.Start(ctx, "TaskService.Create")
	defer span.End()

	if !authorization.HasAccessToAccommodation(principal, task.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}

	if err := task.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	created, err := service.tasks.Insert(ctx, task)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return created, nil
}

func (service *TaskService) Update(ctx context.Context, principal authorization.Principal, id primitive.ObjectID, patch map[string]interface{}) (*domain.Task, error) {
	ctx, span := service.tracer.Start(ctx, "TaskService.Update")
	defer span.End()

	task, err := service.tasks.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, errors.NotFound(errors.CodeTaskNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, task.AccommodationID.Hex()) {
		return nil, errors.Forbidden()
	}
	if !authorization.CanModifyObject(principal, task.UserID.Hex()) {
		return nil, errors.Forbidden()
	}

	if err := rejectOwnershipPatch(patch, "userId", "accommodationId"); err != nil {
		return nil, err
	}
	delete(patch, "id")
	if err := mapstructure.Decode(patch, task); err != nil {
		return nil, errors.BadRequest()
	}

	if err := task.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	if err := service.tasks.Update(ctx, task); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return task, nil
}

func (service *TaskService) Delete(ctx context.Context, principal authorization.Principal, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "TaskService.Delete")
	defer span.End()

	task, err := service.tasks.Get(ctx, id)
	if err == domain.ErrNotFound {
		return errors.NotFound(errors.CodeTaskNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, task.AccommodationID.Hex()) {
		return errors.Forbidden()
	}
	if !authorization.CanModifyObject(principal, task.UserID.Hex()) {
		return errors.Forbidden()
	}

	if err := service.tasks.Delete(ctx, id); err != nil && err != domain.ErrNotFound {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}
	return nil
}
