package application

import (
	"context"
	"net/http"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/TheYassAnz/coabi-backend/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxFileSize caps uploads at 5 MiB.
const MaxFileSize = 5 << 20

var fileExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

type FileService struct {
	files   domain.FileStore
	cache   domain.FileCache
	storage *storage.FileStorage
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewFileService(files domain.FileStore, cache domain.FileCache, storage *storage.FileStorage, logger *logrus.Logger, tracer trace.Tracer) *FileService {
	return &FileService{
		files:   files,
		cache:   cache,
		storage: storage,
		logger:  logger,
		tracer:  tracer,
	}
}

func (service *FileService) GetAll(ctx context.Context, principal authorization.Principal, filter domain.FileFilter) ([]*domain.File, error) {
	ctx, span := service.tracer.Start(ctx, "FileService.GetAll")
	defer span.End()

	scope, err := principalAccommodationID(principal)
	if err != nil {
		return nil, err
	}
	if scope != nil {
		filter.AccommodationID = scope
	}

	files, err := service.files.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}
	return files, nil
}

// Upload validates the blob, writes it to disk and records the
// metadata. The document id doubles as the on-disk filename.
func (service *FileService) Upload(ctx context.Context, principal authorization.Principal, name, description string, content []byte, userID, accommodationID primitive.ObjectID) (*domain.File, error) {
	ctx, span := service.tracer.Start(ctx, "FileService.Upload")
	defer span.End()

	if !authorization.HasAccessToAccommodation(principal, accommodationID.Hex()) {
		return nil, errors.Forbidden()
	}

	if len(content) == 0 {
		return nil, errors.BadRequestCode(errors.CodeNoFile, "No file provided")
	}
	if len(content) > MaxFileSize {
		return nil, errors.BadRequestCode(errors.CodeFileTooLarge, "File exceeds the 5 MiB limit")
	}

	// The client-declared content type is ignored, the blob itself
	// decides.
	contentType := http.DetectContentType(content)
	extension, ok := fileExtensions[contentType]
	if !ok {
		return nil, errors.BadRequestCode(errors.CodeInvalidFileType, "Only jpeg, png, gif and pdf files are accepted")
	}

	fileType := domain.FileTypeImage
	if contentType == "application/pdf" {
		fileType = domain.FileTypePDF
	}

	file := &domain.File{
		ID:              uuid.NewString() + extension,
		Name:            name,
		Description:     description,
		Type:            fileType,
		Size:            int64(len(content)),
		UserID:          userID,
		AccommodationID: accommodationID,
	}
	if err := file.Validate(); err != nil {
		return nil, errors.BadRequest()
	}

	if err := service.storage.Save(ctx, file.ID, content); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Internal()
	}

	created, err := service.files.Insert(ctx, file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if removeErr := service.storage.Remove(ctx, file.ID); removeErr != nil {
			service.logger.Errorf("Error removing orphaned blob %s: %v", file.ID, removeErr)
		}
		return nil, errors.Internal()
	}
	return created, nil
}

// Download serves the blob, cache first, disk on a miss. A miss
// repopulates the cache for the next reader.
func (service *FileService) Download(ctx context.Context, principal authorization.Principal, id string) (*domain.File, []byte, error) {
	ctx, span := service.tracer.Start(ctx, "FileService.Download")
	defer span.End()

	file, err := service.files.Get(ctx, id)
	if err == domain.ErrNotFound {
		return nil, nil, errors.NotFound(errors.CodeFileNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, errors.Internal()
	}

	if !authorization.HasAccessToAccommodation(principal, file.AccommodationID.Hex()) {
		return nil, nil, errors.Forbidden()
	}

	if content, err := service.cache.Get(ctx, id); err == nil {
		return file, content, nil
	}

	content, err := service.storage.Read(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, errors.Internal()
	}

	if err := service.cache.Post(ctx, id, content); err != nil {
		service.logger.Warnf("Error caching file %s: %v", id, err)
	}
	return file, content, nil
}

// Delete removes the blob, the metadata and the cache entry, in that
// order: a blob that cannot be removed keeps its document, a document
// without a blob would be unrecoverable. Only the uploader, a moderator
// of the accommodation or an admin may delete.
func (service *FileService) Delete(ctx context.Context, principal authorization.Principal, id string) error {
	ctx, span := service.tracer.Start(ctx, "FileService.Delete")
	defer span.End()

	file, err := service.files.Get(ctx, id)
	if err == domain.ErrNotFound {
		return errors.NotFound(errors.CodeFileNotFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}

	if !authorization.CanModifyObject(principal, file.UserID.Hex()) &&
		!authorization.CanModifyAccommodation(principal, file.AccommodationID.Hex()) {
		return errors.Forbidden()
	}

	if err := service.storage.Remove(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}

	if err := service.files.Delete(ctx, id); err != nil && err != domain.ErrNotFound {
		span.SetStatus(codes.Error, err.Error())
		return errors.Internal()
	}
	if err := service.cache.Del(ctx, id); err != nil {
		service.logger.Warnf("Error evicting cached file %s: %v", id, err)
	}
	return nil
}
