package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
)

type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       nameDocument       `bson:"name"`
	Phone      string             `bson:"phone"`
	Email      string             `bson:"email"`
	Password   string             `bson:"password,omitempty"`
	Image      imageDocument      `bson:"image"`
	Address    addressDocument    `bson:"address"`
	IsAdmin    bool               `bson:"isAdmin"`
	IsBusiness bool               `bson:"isBusiness"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type nameDocument struct {
	First  string `bson:"first"`
	Middle string `bson:"middle"`
	Last   string `bson:"last"`
}

type imageDocument struct {
	URL string `bson:"url"`
	Alt string `bson:"alt"`
}

type addressDocument struct {
	State       string `bson:"state"`
	Country     string `bson:"country"`
	City        string `bson:"city"`
	Street      string `bson:"street"`
	HouseNumber int    `bson:"houseNumber"`
	Zip         int    `bson:"zip"`
}

func fromEntity(u *entity.User) userDocument {
	return userDocument{
		Name:       nameDocument(u.Name),
		Phone:      u.Phone,
		Email:      u.Email,
		Password:   u.Password,
		Image:      imageDocument(u.Image),
		Address:    addressDocument(u.Address),
		IsAdmin:    u.IsAdmin,
		IsBusiness: u.IsBusiness,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (d userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:         d.ID.Hex(),
		Name:       entity.Name(d.Name),
		Phone:      d.Phone,
		Email:      d.Email,
		Password:   d.Password,
		Image:      entity.Image(d.Image),
		Address:    entity.Address(d.Address),
		IsAdmin:    d.IsAdmin,
		IsBusiness: d.IsBusiness,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// patchSet builds the $set document for a partial update. Nested objects are
// replaced as a whole.
func patchSet(p entity.UserPatch, now time.Time) bson.D {
	set := bson.D{}
	if p.Name != nil {
		set = append(set, bson.E{Key: "name", Value: nameDocument(*p.Name)})
	}
	if p.Phone != nil {
		set = append(set, bson.E{Key: "phone", Value: *p.Phone})
	}
	if p.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *p.Email})
	}
	if p.Image != nil {
		set = append(set, bson.E{Key: "image", Value: imageDocument(*p.Image)})
	}
	if p.Address != nil {
		set = append(set, bson.E{Key: "address", Value: addressDocument(*p.Address)})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: now})
	return set
}

// toggleBusinessPipeline flips isBusiness server-side so concurrent toggles
// never lose an update.
func toggleBusinessPipeline(now time.Time) bson.A {
	return bson.A{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "isBusiness", Value: bson.D{{Key: "$not", Value: bson.A{"$isBusiness"}}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}
