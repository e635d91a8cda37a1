package errors

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("service unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)

const (
	InvalidListingIdentifierError = "Listing identifier is missing or malformed"
	ListingNotFoundError          = "Listing not found"
	ListingNameRequiredError      = "Listing name cannot be empty"
	InvalidListingTypeError       = "Listing type must be one of boys, girls, co-ed, family"
	InvalidPriceError             = "Price must be a non-negative number"
	InvalidPriceBoundError        = "Price bound must be numeric"
	DuplicateReviewError          = "You have already reviewed this listing"
	ReviewNotFoundError           = "Review not found"
	InvalidRatingError            = "Rating must be between 1 and 5"
	BookingNotFoundError          = "Booking not found"
	InvalidBookingStatusError     = "Booking status change is not allowed"
	ReportNotFoundError           = "Report not found"
	UsernameExistError            = "Username already exists"
	InvalidCredentialsError       = "Invalid username or password"
	InvalidRequestFormatError     = "Invalid request format"
	StoreUnavailableError         = "Storage is currently unavailable, try again later"
	NotifierUnavailableError      = "Notification delivery is temporarily suspended"
)
