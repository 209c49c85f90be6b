package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	application "github.com/TheYassAnz/coabi-backend/service"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type EventHandler struct {
	service *application.EventService
	tracer  trace.Tracer
}

func NewEventHandler(service *application.EventService, tracer trace.Tracer) *EventHandler {
	return &EventHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *EventHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods("GET")
	router.HandleFunc("", handler.Create).Methods("POST")
	router.HandleFunc("/filter", handler.Filter).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *EventHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "EventHandler.GetAll")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	events, err := handler.service.GetAll(ctx, principal, adminViewParam(req.URL.Query()), domain.EventFilter{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, events)
}

func (handler *EventHandler) Filter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "EventHandler.Filter")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	query := req.URL.Query()
	filter := domain.EventFilter{Title: query.Get("title")}

	if filter.PlannedDateStart, err = timeParam(query, "plannedDateStart"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	if filter.PlannedDateEnd, err = timeParam(query, "plannedDateEnd"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	if filter.UserID, err = objectIDParam(query, "userId"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}

	events, err := handler.service.GetAll(ctx, principal, adminViewParam(query), filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, events)
}

func (handler *EventHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "EventHandler.Get")
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

	event, err := handler.service.Get(ctx, principal, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, event)
}

func (handler *EventHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "EventHandler.Create")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	var event domain.Event
	if err := json.NewDecoder(req.Body).Decode(&event); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	if err := fillOwnership(principal, &event.UserID, &event.AccommodationID); err != nil {
		writeError(writer, err)
		return
	}

	created, err := handler.service.Create(ctx, principal, &event)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusCreated, created)
}

func (handler *EventHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "EventHandler.Update")
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

	event, err := handler.service.Update(ctx, principal, id, patch)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, event)
}

func (handler *EventHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "EventHandler.Delete")
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
