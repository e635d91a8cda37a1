package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/casbinAuthorization"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
	application "github.com/isinghranjeet/eassy-to-rent-backend/service"
)

type AuthHandler struct {
	service *application.AuthService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, tracer trace.Tracer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/auth/register", handler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", handler.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", handler.Logout).Methods("POST")
}

type registerRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=4,max=30"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var request registerRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	credentials, err := handler.service.Register(ctx, request.Username, request.Password, request.Email)
	if err != nil {
		errResponse(err, writer)
		return
	}
	writeStatusResponse(credentials, writer, http.StatusCreated)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var request loginRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	token, err := handler.service.Login(ctx, request.Username, request.Password)
	if err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(map[string]string{"token": token}, writer)
}

func (handler *AuthHandler) Logout(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Logout")
	defer span.End()

	requester := casbinAuthorization.RequestPrincipal(req)
	if err := handler.service.Logout(ctx, requester.Username); err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(map[string]string{"message": "Logged out"}, writer)
}
