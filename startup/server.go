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

	"github.com/casbin/casbin"
	"github.com/go-redis/redis"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/isinghranjeet/eassy-to-rent-backend/casbinAuthorization"
	"github.com/isinghranjeet/eassy-to-rent-backend/handlers"
	application "github.com/isinghranjeet/eassy-to-rent-backend/service"
	"github.com/isinghranjeet/eassy-to-rent-backend/startup/config"
	"github.com/isinghranjeet/eassy-to-rent-backend/store"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const LogFilePath = "/app/logs/listing.log"

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	msg := fmt.Sprintf("[%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Message,
	)
	return []byte(msg), nil
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		// Keep stderr logging when the log directory is absent.
		Logger.Warnf("Failed to create rotatelogs hook: %v", err)
		return
	}
	Logger.SetOutput(writer)
	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	redisClient := server.initRedisClient()

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("listing_service")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	listingStore := store.NewListingMongoDBStore(mongoClient, tracer, Logger)
	reviewStore := store.NewReviewMongoDBStore(mongoClient, tracer, Logger)
	bookingStore := store.NewBookingMongoDBStore(mongoClient, tracer, Logger)
	reportStore := store.NewReportMongoDBStore(mongoClient, tracer, Logger)
	authStore := store.NewAuthMongoDBStore(mongoClient, tracer, Logger)
	listingCache := store.NewListingRedisCache(redisClient, tracer, Logger)
	authCache := store.NewAuthRedisCache(redisClient, tracer, Logger)

	notifier := server.initNotifier()

	listingService := application.NewListingService(listingStore, listingCache, tracer, Logger)
	reviewService := application.NewReviewService(reviewStore, listingStore, listingCache, tracer, Logger)
	bookingService := application.NewBookingService(bookingStore, listingStore, authStore, notifier, tracer, Logger)
	reportService := application.NewReportService(reportStore, listingStore, tracer, Logger)
	authService := application.NewAuthService(authStore, authCache, tracer, Logger)

	listingHandler := handlers.NewListingHandler(listingService, tracer, Logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, tracer, Logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, tracer, Logger)
	reportHandler := handlers.NewReportHandler(reportService, tracer, Logger)
	authHandler := handlers.NewAuthHandler(authService, tracer, Logger)

	server.start(listingHandler, reviewHandler, bookingHandler, reportHandler, authHandler)
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(server.config.ListingDBHost, server.config.ListingDBPort, httpClient)
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

func (server *Server) initNotifier() *application.MailNotifier {
	port, err := strconv.Atoi(server.config.SMTPPort)
	if err != nil {
		port = 587
	}
	return application.NewMailNotifier(server.config.SMTPHost, port, server.config.SMTPEmail, server.config.SMTPPassword, Logger)
}

func (server *Server) start(resourceHandlers ...interface{ Init(*mux.Router) }) {
	enforcer, err := casbin.NewEnforcerSafe("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)
	router.Use(ExtractTraceInfoMiddleware)
	for _, handler := range resourceHandlers {
		handler.Init(router)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: casbinAuthorization.CasbinMiddleware(enforcer, Logger)(router),
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
	return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("listing_service"),
		),
	)
	if err != nil {
		log.Fatalf("Failed to initialize resource: %v", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(rw, h)
	})
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
