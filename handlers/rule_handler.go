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

type RuleHandler struct {
	service *application.RuleService
	tracer  trace.Tracer
}

func NewRuleHandler(service *application.RuleService, tracer trace.Tracer) *RuleHandler {
	return &RuleHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *RuleHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods("GET")
	router.HandleFunc("", handler.Create).Methods("POST")
	router.HandleFunc("/filter", handler.Filter).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *RuleHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RuleHandler.GetAll")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	rules, err := handler.service.GetAll(ctx, principal, domain.RuleFilter{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, rules)
}

func (handler *RuleHandler) Filter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RuleHandler.Filter")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	filter := domain.RuleFilter{Title: req.URL.Query().Get("title")}

	rules, err := handler.service.GetAll(ctx, principal, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, rules)
}

func (handler *RuleHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RuleHandler.Get")
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

	rule, err := handler.service.Get(ctx, principal, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, rule)
}

func (handler *RuleHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RuleHandler.Create")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	var rule domain.Rule
	if err := json.NewDecoder(req.Body).Decode(&rule); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	if rule.AccommodationID.IsZero() {
		if principal.AccommodationID == "" {
			writeError(writer, errors.BadRequest())
			return
		}
		accommodationID, err := primitive.ObjectIDFromHex(principal.AccommodationID)
		if err != nil {
			writeError(writer, errors.BadRequest())
			return
		}
		rule.AccommodationID = accommodationID
	}

	created, err := handler.service.Create(ctx, principal, &rule)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusCreated, created)
}

func (handler *RuleHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RuleHandler.Update")
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

	rule, err := handler.service.Update(ctx, principal, id, patch)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, rule)
}

func (handler *RuleHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RuleHandler.Delete")
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
