package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/TheYassAnz/coabi-backend/casbinAuthorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/handlers"
	application "github.com/TheYassAnz/coabi-backend/service"
	"github.com/TheYassAnz/coabi-backend/startup/config"
	"github.com/TheYassAnz/coabi-backend/storage"
	"github.com/TheYassAnz/coabi-backend/store"
	"github.com/casbin/casbin"
	"github.com/go-redis/redis"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

type Server struct {
	config *config.Config
	logger *logrus.Logger
}

func NewServer(config *config.Config) *Server {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &Server{
		config: config,
		logger: logger,
	}
}

func (server *Server) initMongoClient() *mongo.Client {
	client, err := store.GetClient(server.config.DBHost, server.config.DBPort)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initRedisClient() *redis.Client {
	client, err := store.GetRedisClient(server.config.CacheHost, server.config.CachePort)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initFileStorage(tracer trace.Tracer) *storage.FileStorage {
	fileStorage, err := storage.New(server.config.UploadDir, server.logger, tracer)
	if err != nil {
		log.Fatal(err)
	}
	return fileStorage
}

func (server *Server) initMailer() *application.Mailer {
	port, err := strconv.Atoi(server.config.MailPort)
	if err != nil {
		server.logger.Warnf("invalid mail port %q, mailing disabled", server.config.MailPort)
		return nil
	}
	return application.NewMailer(server.config.MailHost, port, server.config.MailAddress, server.config.MailPassword, server.logger)
}

func (server *Server) Start() {
	ctx := context.Background()

	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("coabi_backend")

	mongoClient := server.initMongoClient()
	defer func() { _ = mongoClient.Disconnect(ctx) }()
	redisClient := server.initRedisClient()

	userStore := store.NewUserMongoDBStore(mongoClient, tracer)
	accommodationStore := store.NewAccommodationMongoDBStore(mongoClient, tracer)
	taskStore := store.NewTaskMongoDBStore(mongoClient, tracer)
	ruleStore := store.NewRuleMongoDBStore(mongoClient, tracer)
	eventStore := store.NewEventMongoDBStore(mongoClient, tracer)
	refundStore := store.NewRefundMongoDBStore(mongoClient, tracer)
	fileStore := store.NewFileMongoDBStore(mongoClient, tracer)
	fileCache := store.NewFileRedisCache(redisClient, tracer)
	fileStorage := server.initFileStorage(tracer)

	authService := application.NewAuthService(userStore, server.initMailer(), tracer)
	userService := application.NewUserService(userStore, accommodationStore, tracer)
	accommodationService := application.NewAccommodationService(accommodationStore, tracer)
	taskService := application.NewTaskService(taskStore, tracer)
	ruleService := application.NewRuleService(ruleStore, tracer)
	eventService := application.NewEventService(eventStore, tracer)
	refundService := application.NewRefundService(refundStore, userStore, tracer)
	fileService := application.NewFileService(fileStore, fileCache, fileStorage, server.logger, tracer)

	router := server.initRouter(userStore,
		handlers.NewAuthHandler(authService, tracer),
		handlers.NewUserHandler(userService, tracer),
		handlers.NewAccommodationHandler(accommodationService, tracer),
		handlers.NewTaskHandler(taskService, tracer),
		handlers.NewRuleHandler(ruleService, tracer),
		handlers.NewEventHandler(eventService, tracer),
		handlers.NewRefundHandler(refundService, tracer),
		handlers.NewFileHandler(fileService, tracer),
	)

	server.start(router)
}

func (server *Server) initRouter(userStore domain.UserStore,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	accommodationHandler *handlers.AccommodationHandler,
	taskHandler *handlers.TaskHandler,
	ruleHandler *handlers.RuleHandler,
	eventHandler *handlers.EventHandler,
	refundHandler *handlers.RefundHandler,
	fileHandler *handlers.FileHandler) http.Handler {

	enforcer, err := casbin.NewEnforcerSafe("./casbinAuthorization/rbac_model.conf", "./casbinAuthorization/policy.csv")
	if err != nil {
		log.Fatal(err)
	}

	router := mux.NewRouter()
	router.Use(handlers.ExtractTraceInfoMiddleware)
	router.Use(handlers.MiddlewareContentTypeSet(server.logger))
	router.Use(handlers.TimeoutMiddleware)

	authHandler.Init(router.PathPrefix("/api/auth").Subrouter())
	userHandler.Init(router.PathPrefix("/api/users").Subrouter())
	accommodationHandler.Init(router.PathPrefix("/api/accommodations").Subrouter())
	taskHandler.Init(router.PathPrefix("/api/tasks").Subrouter())
	ruleHandler.Init(router.PathPrefix("/api/rules").Subrouter())
	eventHandler.Init(router.PathPrefix("/api/events").Subrouter())
	refundHandler.Init(router.PathPrefix("/api/refunds").Subrouter())
	fileHandler.Init(router.PathPrefix("/api/files").Subrouter())

	authMiddleware := handlers.NewAuthMiddleware(userStore)

	var handler http.Handler = router
	handler = casbinAuthorization.CasbinMiddleware(enforcer, server.logger)(handler)
	handler = authMiddleware.Middleware(handler)
	handler = handlers.CORSMiddleware(server.config.AllowedOrigin)(handler)
	return handler
}

func (server *Server) start(handler http.Handler) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: handler,
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("coabi_backend"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
