package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListingType string

const (
	Boys   ListingType = "boys"
	Girls  ListingType = "girls"
	CoEd   ListingType = "co-ed"
	Family ListingType = "family"
)

func (t ListingType) Valid() bool {
	switch t {
	case Boys, Girls, CoEd, Family:
		return true
	}
	return false
}

const (
	Available  = "available"
	SoldOut    = "sold-out"
	ComingSoon = "coming-soon"
)

// DefaultCity is used when a listing is created without one.
const DefaultCity = "Bengaluru"

type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func OriginPoint() GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{0, 0}}
}

type Listing struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Slug         string             `bson:"slug" json:"slug"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	City         string             `bson:"city" json:"city"`
	Locality     string             `bson:"locality,omitempty" json:"locality,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Distance     string             `bson:"distance,omitempty" json:"distance,omitempty"`
	MapLink      string             `bson:"mapLink,omitempty" json:"mapLink,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	Type         ListingType        `bson:"type" json:"type"`
	RoomTypes    []string           `bson:"roomTypes,omitempty" json:"roomTypes,omitempty"`
	Availability string             `bson:"availability" json:"availability"`
	Images       []string           `bson:"images,omitempty" json:"images,omitempty"`
	Gallery      []string           `bson:"gallery,omitempty" json:"gallery,omitempty"`
	Amenities    []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Published    bool               `bson:"published" json:"published"`
	Verified     bool               `bson:"verified" json:"verified"`
	Featured     bool               `bson:"featured" json:"featured"`
	Rating       float64            `bson:"rating" json:"rating"`
	ReviewCount  int64              `bson:"reviewCount" json:"reviewCount"`
	OwnerName    string             `bson:"ownerName,omitempty" json:"ownerName,omitempty"`
	OwnerPhone   string             `bson:"ownerPhone,omitempty" json:"ownerPhone,omitempty"`
	OwnerEmail   string             `bson:"ownerEmail,omitempty" json:"ownerEmail,omitempty"`
	OwnerId      string             `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	ContactEmail string             `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	ContactPhone string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Location     GeoPoint           `bson:"location" json:"location"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ListingPatch carries one optional field per mutable listing attribute.
// Nil means "leave unchanged". Rating and reviewCount are deliberately
// absent: those are owned by the rating aggregator.
type ListingPatch struct {
	Name         *string      `json:"name,omitempty"`
	Description  *string      `json:"description,omitempty"`
	City         *string      `json:"city,omitempty"`
	Locality     *string      `json:"locality,omitempty"`
	Address      *string      `json:"address,omitempty"`
	Distance     *string      `json:"distance,omitempty"`
	MapLink      *string      `json:"mapLink,omitempty"`
	Price        *float64     `json:"price,omitempty"`
	Type         *ListingType `json:"type,omitempty"`
	RoomTypes    *[]string    `json:"roomTypes,omitempty"`
	Availability *string      `json:"availability,omitempty"`
	Images       *[]string    `json:"images,omitempty"`
	Gallery      *[]string    `json:"gallery,omitempty"`
	Amenities    *[]string    `json:"amenities,omitempty"`
	Published    *bool        `json:"published,omitempty"`
	Verified     *bool        `json:"verified,omitempty"`
	Featured     *bool        `json:"featured,omitempty"`
	OwnerName    *string      `json:"ownerName,omitempty"`
	OwnerPhone   *string      `json:"ownerPhone,omitempty"`
	OwnerEmail   *string      `json:"ownerEmail,omitempty"`
	ContactEmail *string      `json:"contactEmail,omitempty"`
	ContactPhone *string      `json:"contactPhone,omitempty"`
	Location     *GeoPoint    `json:"location,omitempty"`
}

type Reply struct {
	Author    string    `bson:"author" json:"author"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	PgListing primitive.ObjectID `bson:"pgListing" json:"pgListing"`
	User      string             `bson:"user" json:"user"`
	Rating    int                `bson:"rating" json:"rating"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Likes     int64              `bson:"likes" json:"likes"`
	Replies   []Reply            `bson:"replies,omitempty" json:"replies,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type BookingStatus string

const (
	Pending   BookingStatus = "pending"
	Confirmed BookingStatus = "confirmed"
	Cancelled BookingStatus = "cancelled"
	Completed BookingStatus = "completed"
)

// CanTransitionTo reports whether a booking may move from its current
// status to the given one. Cancelled and completed are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case Pending:
		return next == Confirmed || next == Cancelled || next == Completed
	case Confirmed:
		return next == Cancelled || next == Completed
	}
	return false
}

type Booking struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Reference      string             `bson:"reference" json:"reference"`
	User           string             `bson:"user" json:"user"`
	PgListing      primitive.ObjectID `bson:"pgListing" json:"pgListing"`
	RoomType       string             `bson:"roomType" json:"roomType"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	DurationMonths int                `bson:"durationMonths" json:"durationMonths"`
	MonthlyRent    float64            `bson:"monthlyRent" json:"monthlyRent"`
	TotalAmount    float64            `bson:"totalAmount" json:"totalAmount"`
	Deposit        float64            `bson:"deposit" json:"deposit"`
	Status         BookingStatus      `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportResolved ReportStatus = "resolved"
)

type Report struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	PgListing primitive.ObjectID `bson:"pgListing" json:"pgListing"`
	Reporter  string             `bson:"reporter" json:"reporter"`
	Reason    string             `bson:"reason" json:"reason"`
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
	Status    ReportStatus       `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type UserType string

const (
	RegularUser UserType = "User"
	Admin       UserType = "Admin"
)

type Credentials struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"password"`
	Email    string             `bson:"email" json:"email"`
	UserType UserType           `bson:"userType" json:"userType"`
}

// Principal is the authenticated identity extracted from a verified token.
type Principal struct {
	UserID   string   `mapstructure:"userId"`
	Username string   `mapstructure:"username"`
	UserType UserType `mapstructure:"userType"`
}

func (p Principal) IsAdmin() bool {
	return p.UserType == Admin
}
