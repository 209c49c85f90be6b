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

type AccommodationHandler struct {
	service *application.AccommodationService
	tracer  trace.Tracer
}

func NewAccommodationHandler(service *application.AccommodationService, tracer trace.Tracer) *AccommodationHandler {
	return &AccommodationHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *AccommodationHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods("GET")
	router.HandleFunc("", handler.Create).Methods("POST")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *AccommodationHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccommodationHandler.GetAll")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	accommodations, err := handler.service.GetAll(ctx, principal)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, accommodations)
}

func (handler *AccommodationHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccommodationHandler.Get")
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

	accommodation, err := handler.service.Get(ctx, principal, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, accommodation)
}

// Create returns the join code once, in the creation response. It is
// stripped from every later read.
func (handler *AccommodationHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccommodationHandler.Create")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	var accommodation domain.Accommodation
	if err := json.NewDecoder(req.Body).Decode(&accommodation); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	created, err := handler.service.Create(ctx, principal, &accommodation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}

	writeData(writer, http.StatusCreated, struct {
		*domain.Accommodation
		Code string `json:"code"`
	}{created, created.Code})
}

func (handler *AccommodationHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccommodationHandler.Update")
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

	accommodation, err := handler.service.Update(ctx, principal, id, patch)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, accommodation)
}

func (handler *AccommodationHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AccommodationHandler.Delete")
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
