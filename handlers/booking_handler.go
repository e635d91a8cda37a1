package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/casbinAuthorization"
	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
	application "github.com/isinghranjeet/eassy-to-rent-backend/service"
)

type BookingHandler struct {
	service *application.BookingService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewBookingHandler(service *application.BookingService, tracer trace.Tracer, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *BookingHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/bookings", handler.Create).Methods("POST")
	router.HandleFunc("/api/bookings/my", handler.GetMine).Methods("GET")
	router.HandleFunc("/api/bookings/{id}/status", handler.UpdateStatus).Methods("PUT")
	router.HandleFunc("/api/bookings/{id}/cancel", handler.Cancel).Methods("PUT")
}

type createBookingRequest struct {
	PgListing      string    `json:"pgListing" validate:"required"`
	RoomType       string    `json:"roomType" validate:"required"`
	StartDate      time.Time `json:"startDate" validate:"required"`
	DurationMonths int       `json:"durationMonths" validate:"required,min=1,max=36"`
}

func (handler *BookingHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.Create")
	defer span.End()

	var request createBookingRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	requester := casbinAuthorization.RequestPrincipal(req)
	booking, err := handler.service.Create(ctx, requester, request.PgListing, request.RoomType, request.StartDate, request.DurationMonths)
	if err != nil {
		errResponse(err, writer)
		return
	}
	writeStatusResponse(booking, writer, http.StatusCreated)
}

func (handler *BookingHandler) GetMine(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetMine")
	defer span.End()

	requester := casbinAuthorization.RequestPrincipal(req)
	bookings, err := handler.service.GetByUser(ctx, requester)
	if err != nil {
		errResponse(err, writer)
		return
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	jsonResponse(bookings, writer)
}

type bookingStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required,oneof=confirmed cancelled completed"`
}

func (handler *BookingHandler) UpdateStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.UpdateStatus")
	defer span.End()

	var request bookingStatusRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	vars := mux.Vars(req)
	booking, err := handler.service.UpdateStatus(ctx, vars["id"], request.Status)
	if err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(booking, writer)
}

func (handler *BookingHandler) Cancel(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.Cancel")
	defer span.End()

	vars := mux.Vars(req)
	requester := casbinAuthorization.RequestPrincipal(req)
	booking, err := handler.service.Cancel(ctx, requester, vars["id"])
	if err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(booking, writer)
}
