package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	application "github.com/TheYassAnz/coabi-backend/service"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type FileHandler struct {
	service *application.FileService
	tracer  trace.Tracer
}

func NewFileHandler(service *application.FileService, tracer trace.Tracer) *FileHandler {
	return &FileHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *FileHandler) Init(router *mux.Router) {
	router.HandleFunc("", handler.GetAll).Methods("GET")
	router.HandleFunc("", handler.Upload).Methods("POST")
	router.HandleFunc("/{id}", handler.Download).Methods("GET")
	router.HandleFunc("/{id}", handler.Delete).Methods("DELETE")
}

func (handler *FileHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "FileHandler.GetAll")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	files, err := handler.service.GetAll(ctx, principal, domain.FileFilter{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusOK, files)
}

// Upload reads a multipart form with a "file" part plus name and
// description fields.
func (handler *FileHandler) Upload(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "FileHandler.Upload")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	req.Body = http.MaxBytesReader(writer, req.Body, application.MaxFileSize+4096)
	if err := req.ParseMultipartForm(application.MaxFileSize); err != nil {
		writeError(writer, errors.BadRequestCode(errors.CodeFileTooLarge, "File exceeds the 5 MiB limit"))
		return
	}

	part, header, err := req.FormFile("file")
	if err != nil {
		writeError(writer, errors.BadRequestCode(errors.CodeNoFile, "No file provided"))
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, errors.Internal())
		return
	}

	name := req.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	description := req.FormValue("description")

	var userID, accommodationID primitive.ObjectID
	if err := fillOwnership(principal, &userID, &accommodationID); err != nil {
		writeError(writer, err)
		return
	}

	file, err := handler.service.Upload(ctx, principal, name, description, content, userID, accommodationID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeData(writer, http.StatusCreated, file)
}

func (handler *FileHandler) Download(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "FileHandler.Download")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	file, content, err := handler.service.Download(ctx, principal, mux.Vars(req)["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}

	writer.Header().Set("Content-Type", http.DetectContentType(content))
	writer.Header().Set("Content-Length", strconv.Itoa(len(content)))
	writer.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(file.Name))
	writer.WriteHeader(http.StatusOK)
	writer.Write(content)
}

func (handler *FileHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "FileHandler.Delete")
	defer span.End()

	principal, err := requirePrincipal(req)
	if err != nil {
		writeError(writer, err)
		return
	}

	if err := handler.service.Delete(ctx, principal, mux.Vars(req)["id"]); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeError(writer, err)
		return
	}
	writeNoContent(writer)
}
