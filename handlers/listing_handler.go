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

type ListingHandler struct {
	service *application.ListingService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewListingHandler(service *application.ListingService, tracer trace.Tracer, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *ListingHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/pg", handler.GetAll).Methods("GET")
	router.HandleFunc("/api/pg", handler.Create).Methods("POST")
	router.HandleFunc("/api/pg/{id}", handler.GetOne).Methods("GET")
	router.HandleFunc("/api/pg/{id}", handler.Patch).Methods("PATCH")
	router.HandleFunc("/api/pg/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/api/pg/{id}/publish", handler.setFlag("published")).Methods("PUT")
	router.HandleFunc("/api/pg/{id}/feature", handler.setFlag("featured")).Methods("PUT")
	router.HandleFunc("/api/pg/{id}/verify", handler.setFlag("verified")).Methods("PUT")
}

func (handler *ListingHandler) GetOne(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.GetOne")
	defer span.End()

	vars := mux.Vars(req)
	listing, err := handler.service.Resolve(ctx, vars["id"])
	if err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(listing, writer)
}

func (handler *ListingHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.GetAll")
	defer span.End()

	requester := casbinAuthorization.RequestPrincipal(req)
	query, err := application.ParseSearchQuery(req.URL.Query(), requester)
	if err != nil {
		errResponse(err, writer)
		return
	}

	listings, pagination, err := handler.service.Search(ctx, query)
	if err != nil {
		errResponse(err, writer)
		return
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	pageResponse(listings, pagination, writer)
}

type createListingRequest struct {
	Name         string             `json:"name" validate:"required"`
	Description  string             `json:"description"`
	City         string             `json:"city"`
	Locality     string             `json:"locality"`
	Address      string             `json:"address"`
	Distance     string             `json:"distance"`
	MapLink      string             `json:"mapLink"`
	Price        float64            `json:"price" validate:"gte=0"`
	Type         domain.ListingType `json:"type" validate:"required"`
	RoomTypes    []string           `json:"roomTypes"`
	Availability string             `json:"availability"`
	Images       []string           `json:"images"`
	Gallery      []string           `json:"gallery"`
	Amenities    []string           `json:"amenities"`
	Published    bool               `json:"published"`
	OwnerName    string             `json:"ownerName"`
	OwnerPhone   string             `json:"ownerPhone"`
	OwnerEmail   string             `json:"ownerEmail" validate:"omitempty,email"`
	ContactEmail string             `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone string             `json:"contactPhone"`
	Location     *domain.GeoPoint   `json:"location"`
}

func (handler *ListingHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.Create")
	defer span.End()

	var request createListingRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}
	if err := validate.Struct(request); err != nil {
		badRequest(err.Error(), writer)
		return
	}

	requester := casbinAuthorization.RequestPrincipal(req)
	listing := &domain.Listing{
		Name:         request.Name,
		Description:  request.Description,
		City:         request.City,
		Locality:     request.Locality,
		Address:      request.Address,
		Distance:     request.Distance,
		MapLink:      request.MapLink,
		Price:        request.Price,
		Type:         request.Type,
		RoomTypes:    request.RoomTypes,
		Availability: request.Availability,
		Images:       request.Images,
		Gallery:      request.Gallery,
		Amenities:    request.Amenities,
		Published:    request.Published,
		OwnerName:    request.OwnerName,
		OwnerPhone:   request.OwnerPhone,
		OwnerEmail:   request.OwnerEmail,
		OwnerId:      requester.UserID,
		ContactEmail: request.ContactEmail,
		ContactPhone: request.ContactPhone,
	}
	if request.Location != nil {
		listing.Location = *request.Location
	}

	listing, err := handler.service.Create(ctx, listing)
	if err != nil {
		errResponse(err, writer)
		return
	}
	writeStatusResponse(listing, writer, http.StatusCreated)
}

func (handler *ListingHandler) Patch(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.Patch")
	defer span.End()

	var patch domain.ListingPatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		badRequest(apperrors.InvalidRequestFormatError, writer)
		return
	}

	vars := mux.Vars(req)
	listing, err := handler.service.Patch(ctx, vars["id"], &patch)
	if err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(listing, writer)
}

func (handler *ListingHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.Delete")
	defer span.End()

	vars := mux.Vars(req)
	if err := handler.service.Delete(ctx, vars["id"]); err != nil {
		errResponse(err, writer)
		return
	}
	jsonResponse(map[string]string{"message": "Listing deleted"}, writer)
}

type flagRequest struct {
	Value *bool `json:"value"`
}

// setFlag serves the publish/feature/verify toggles. The body may carry
// {"value": false}; absent bodies default to true.
func (handler *ListingHandler) setFlag(flag string) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		ctx, span := handler.tracer.Start(req.Context(), "ListingHandler.SetFlag")
		defer span.End()

		value := true
		var request flagRequest
		if err := json.NewDecoder(req.Body).Decode(&request); err == nil && request.Value != nil {
			value = *request.Value
		}

		vars := mux.Vars(req)
		listing, err := handler.service.SetFlag(ctx, vars["id"], flag, value)
		if err != nil {
			errResponse(err, writer)
			return
		}
		jsonResponse(listing, writer)
	}
}
