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

type ReviewHandler struct {
	service *application.ReviewService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewReviewHandler(service *application.ReviewService, tracer trace.Tracer, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *ReviewHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/reviews/{listingId}", handler.GetByListing).Methods("GET")
	router.HandleFunc("/api/reviews", handler.Create).Methods("POST")
	router.HandleFunc("/api/reviews/{id}", handler.Update).Methods("PUT")
	router.HandleFunc("/api/reviews/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/api/reviews/{id}/reply", handler.Reply).Methods("POST")
}

func (handler *ReviewHandler) GetByListing(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.GetByListing")
	defer span.End()

	vars := mux.Vars(req)
	reviews, err := handler.service.GetByListing(ctx, vars["listingId"])
	if err != nil {
		errResponse(err, writer)
		return
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	jsonResponse(reviews, writer)
}

type createReviewRequest struct {
	PgListing string `json:"pgListing" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

func (handler *ReviewHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.Create")
	defer span.End()

	var request createReviewRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	requester := casbinAuthorization.RequestPrincipal(req)
	review, err := handler.service.Create(ctx, requester, request.PgListing, request.Rating, request.Title, request.Comment)
	if err != nil {
		errResponse(err, writer)
		return
	}
	writeStatusResponse(review, writer, http.StatusCreated)
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (handler *ReviewHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.Update")
	defer span.End()

	var request updateReviewRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	vars := mux.Vars(req)
	requester := casbinAuthorization.RequestPrincipal(req)
	review, err := handler.service.Update(ctx, requester, vars["id"], request.Rating, request.Title, request.Comment)
	if err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(review, writer)
}

func (handler *ReviewHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.Delete")
	defer span.End()

	vars := mux.Vars(req)
	requester := casbinAuthorization.RequestPrincipal(req)
	if err := handler.service.Delete(ctx, requester, vars["id"]); err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(map[string]string{"message": "Review deleted"}, writer)
}

type replyRequest struct {
	Text string `json:"text" validate:"required"`
}

func (handler *ReviewHandler) Reply(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ReviewHandler.Reply")
	defer span.End()

	var request replyRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	vars := mux.Vars(req)
	requester := casbinAuthorization.RequestPrincipal(req)
	review, err := handler.service.Reply(ctx, requester, vars["id"], request.Text)
	if err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(review, writer)
}
