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

type RefundHandler struct {
	service *application.RefundService
	tracer  trace.Tracer
}

func NewRefundHandler(service *application.RefundService, tracer trace.Tracer) *RefundHandler {
	return &RefundHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *RefundHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods("GET")
	router.HandleFunc("", handler.Create).Methods("POST")
	router.HandleFunc("/filter", handler.Filter).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *RefundHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RefundHandler.GetAll")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	refunds, err := handler.service.GetAll(ctx, principal, adminViewParam(req.URL.Query()), domain.RefundFilter{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, refunds)
}

func (handler *RefundHandler) Filter(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RefundHandler.Filter")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	query := req.URL.Query()
	filter := domain.RefundFilter{Title: query.Get("title")}

	if filter.ToRefundStart, err = floatParam(query, "toRefundStart"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	if filter.ToRefundEnd, err = floatParam(query, "toRefundEnd"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	if filter.UserID, err = objectIDParam(query, "userId"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	if filter.RoommateID, err = objectIDParam(query, "roommateId"); err != nil {
		writeError(writer, errors.BadRequest())
		return
	}

	refunds, err := handler.service.GetAll(ctx, principal, adminViewParam(query), filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, refunds)
}

func (handler *RefundHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RefundHandler.Get")
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

	refund, err := handler.service.Get(ctx, principal, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, refund)
}

type createRefundsRequest struct {
	Title           string   `json:"title"`
	ToSplit         float64  `json:"toSplit"`
	UserID          string   `json:"userId"`
	AccommodationID string   `json:"accommodationId"`
	RoommateIDs     []string `json:"roommateIds"`
}

// Create splits an expense into one refund document per roommate.
func (handler *RefundHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RefundHandler.Create")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	var request createRefundsRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.BadRequest())
		return
	}

	if request.UserID == "" {
		request.UserID = principal.UserID
	}
	if request.AccommodationID == "" {
		request.AccommodationID = principal.AccommodationID
	}

	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		writeError(writer, errors.BadRequest())
		return
	}
	accommodationID, err := primitive.ObjectIDFromHex(request.AccommodationID)
	if err != nil {
		writeError(writer, errors.BadRequest())
		return
	}

	roommateIDs := make([]primitive.ObjectID, 0, len(request.RoommateIDs))
	for _, hex := range request.RoommateIDs {
		roommateID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			writeError(writer, errors.BadRequest())
			return
		}
		roommateIDs = append(roommateIDs, roommateID)
	}

	refunds, err := handler.service.CreateSplit(ctx, principal, request.Title, request.ToSplit, userID, accommodationID, roommateIDs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusCreated, refunds)
}

func (handler *RefundHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RefundHandler.Update")
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

	refund, err := handler.service.Update(ctx, principal, id, patch)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, refund)
}

func (handler *RefundHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RefundHandler.Delete")
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
