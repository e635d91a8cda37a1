package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/casbinAuthorization"
	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
	application "github.com/isinghranjeet/eassy-to-rent-backend/service"
)

type ReportHandler struct {
	service *application.ReportService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewReportHandler(service *application.ReportService, tracer trace.Tracer, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *ReportHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/reports", handler.Create).Methods("POST")
	router.HandleFunc("/api/reports", handler.GetAll).Methods("GET")
	router.HandleFunc("/api/reports/{id}/resolve", handler.Resolve).Methods("PUT")
}

type createReportRequest struct {
	PgListing string `json:"pgListing" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	Details   string `json:"details"`
}

func (handler *ReportHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReportHandler.Create")
	defer span.End()

	var request createReportRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	requester := casbinAuthorization.RequestPrincipal(req)
	report, err := handler.service.Create(ctx, requester, request.PgListing, request.Reason, request.Details)
	if err != nil {
		errResponse(err, writer)
		return
	}
	writeStatusResponse(report, writer, http.StatusCreated)
}

func (handler *ReportHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReportHandler.GetAll")
	defer span.End()

	status := domain.ReportStatus(req.URL.Query().Get("status"))
	reports, err := handler.service.GetAll(ctx, status)
	if err != nil {
		errResponse(err, writer)
		return
	}
	if reports == nil {
		reports = []*domain.Report{}
	}
	jsonResponse(reports, writer)
}

func (handler *ReportHandler) Resolve(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReportHandler.Resolve")
	defer span.End()

	vars := mux.Vars(req)
	if err := handler.service.Resolve(ctx, vars["id"]); err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(map[string]string{"message": "Report resolved"}, writer)
}
