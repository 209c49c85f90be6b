package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	application "github.com/TheYassAnz/coabi-backend/service"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type TaskHandler struct {
	service *application.TaskService
	tracer  trace.Tracer
}

func NewTaskHandler(service *application.TaskService, tracer trace.Tracer) *TaskHandler {
	return &TaskHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *TaskHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods("GET")
	router.HandleFunc("", handler.Create).Methods("POST")
	router.HandleFunc("/filter", handler.Filter).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *TaskHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TaskHandler.GetAll")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	tasks, err := handler.service.GetAll(ctx, principal, adminViewParam(req.URL.Query()), domain.TaskFilter{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, tasks)
}

func (handler *TaskHandler) Filter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TaskHandler.Filter")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	query := req.URL.Query()
	filter := domain.TaskFilter{Name: query.Get("name")}

	if filter.Weekly, err = boolParam(query, "weekly"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	if filter.Done, err = boolParam(query, "done"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	if filter.UserID, err = objectIDParam(query, "userId"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}

	tasks, err := handler.service.GetAll(ctx, principal, adminViewParam(query), filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, tasks)
}

func (handler *TaskHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TaskHandler.Get")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		writeError(writer, errors.BadRequest())
		return
	}

	task, err := handler.service.Get(ctx, principal, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, task)
}

func (handler *TaskHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TaskHandler.Create")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	var task domain.Task
	if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	if err := fillOwnership(principal, &task.UserID, &task.AccommodationID); err != nil {
		writeError(writer, err)
		return
	}

	created, err := handler.service.Create(ctx, principal, &task)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusCreated, created)
}

// fillOwnership defaults zero ownership fields to the caller.
func fillOwnership(principal authorization.Principal, userID, accommodationID *primitive.ObjectID) error {
	if userID.IsZero() {
		id, err := primitive.ObjectIDFromHex(principal.UserID)
		if err != nil {
			return errors.BadRequest()
		}
		*userID = id
	}
	if accommodationID.IsZero() {
		if principal.AccommodationID == "" {
			return errors.BadRequest()
		}
		id, err := primitive.ObjectIDFromHex(principal.AccommodationID)
		if err != nil {
			return errors.BadRequest()
		}
		*accommodationID = id
	}
	return nil
}

func (handler *TaskHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TaskHandler.Update")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		writeError(writer, errors.BadRequest())
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	task, err := handler.service.Update(ctx, principal, id, patch)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, task)
}

func (handler *TaskHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "TaskHandler.Delete")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		writeError(writer, errors.BadRequest())
		return
	}

	if err := handler.service.Delete(ctx, principal, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeNoContent(writer)
}
