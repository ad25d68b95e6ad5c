package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/pkg/apperror"
	"github.com/oksasatya/business-card-api/pkg/validation"
)

var errNameShape = apperror.Validation(validation.Prefix + "name must be a string or an object")

// nameRequest accepts either {"first","middle","last"} or a single string
// such as "Jo Doe", which is split on whitespace.
type nameRequest struct {
	First  string `json:"first" binding:"required,min=2,max=256"`
	Middle string `json:"middle" binding:"max=256"`
	Last   string `json:"last" binding:"required,min=2,max=256"`
}

func (n *nameRequest) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errNameShape
		}
		*n = splitName(s)
		return nil
	}
	if len(b) == 0 || b[0] != '{' {
		return errNameShape
	}
	type plain nameRequest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return errNameShape
	}
	*n = nameRequest(p)
	return nil
}

func splitName(s string) nameRequest {
	parts := strings.Fields(s)
	switch len(parts) {
	case 0:
		return nameRequest{}
	case 1:
		return nameRequest{First: parts[0]}
	default:
		return nameRequest{
			First:  parts[0],
			Middle: strings.Join(parts[1:len(parts)-1], " "),
			Last:   parts[len(parts)-1],
		}
	}
}

func (n nameRequest) toEntity() entity.Name {
	return entity.Name{First: n.First, Middle: n.Middle, Last: n.Last}
}

type imageRequest struct {
	URL string `json:"url" binding:"omitempty,url"`
	Alt string `json:"alt" binding:"omitempty,min=2,max=256"`
}

func (i imageRequest) toEntity() entity.Image {
	return entity.Image{URL: i.URL, Alt: i.Alt}
}

type addressRequest struct {
	State       string `json:"state" binding:"max=256"`
	Country     string `json:"country" binding:"required,min=2,max=256"`
	City        string `json:"city" binding:"required,min=2,max=256"`
	Street      string `json:"street" binding:"required,min=2,max=256"`
	HouseNumber int    `json:"houseNumber" binding:"required,min=1"`
	Zip         int    `json:"zip" binding:"gte=0"`
}

func (a addressRequest) toEntity() entity.Address {
	return entity.Address{
		State:       a.State,
		Country:     a.Country,
		City:        a.City,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		Zip:         a.Zip,
	}
}

// registerRequest has no role field; an isAdmin key in the body is dropped
// and every new user starts as a regular user.
type registerRequest struct {
	Name       nameRequest    `json:"name"`
	Phone      string         `json:"phone" binding:"required,phone"`
	Email      string         `json:"email" binding:"required,email"`
	Password   string         `json:"password" binding:"required,strongpwd"`
	Image      imageRequest   `json:"image"`
	Address    addressRequest `json:"address"`
	IsBusiness bool           `json:"isBusiness"`
}

func (r registerRequest) toEntity() entity.User {
	return entity.User{
		Name:       r.Name.toEntity(),
		Phone:      r.Phone,
		Email:      r.Email,
		Password:   r.Password,
		Image:      r.Image.toEntity(),
		Address:    r.Address.toEntity(),
		IsBusiness: r.IsBusiness,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// updateRequest carries the editable fields only. Role and business status
// keys are not part of it and are dropped by the decoder.
type updateRequest struct {
	Name    *nameRequest    `json:"name"`
	Phone   *string         `json:"phone" binding:"omitnil,phone"`
	Email   *string         `json:"email" binding:"omitnil,email"`
	Image   *imageRequest   `json:"image"`
	Address *addressRequest `json:"address"`
}

func (r updateRequest) toPatch() entity.UserPatch {
	var p entity.UserPatch
	if r.Name != nil {
		n := r.Name.toEntity()
		p.Name = &n
	}
	p.Phone = r.Phone
	p.Email = r.Email
	if r.Image != nil {
		img := r.Image.toEntity()
		p.Image = &img
	}
	if r.Address != nil {
		a := r.Address.toEntity()
		p.Address = &a
	}
	return p
}

type roleRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}

type nameResponse struct {
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
}

type imageResponse struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type addressResponse struct {
	State       string `json:"state"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
	Zip         int    `json:"zip"`
}

// userResponse is the public user shape. It has no password field.
type userResponse struct {
	ID         string          `json:"id"`
	Name       nameResponse    `json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Image      imageResponse   `json:"image"`
	Address    addressResponse `json:"address"`
	IsAdmin    bool            `json:"isAdmin"`
	IsBusiness bool            `json:"isBusiness"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  nameResponse{First: u.Name.First, Middle: u.Name.Middle, Last: u.Name.Last},
		Phone: u.Phone,
		Email: u.Email,
		Image: imageResponse{URL: u.Image.URL, Alt: u.Image.Alt},
		Address: addressResponse{
			State:       u.Address.State,
			Country:     u.Address.Country,
			City:        u.Address.City,
			Street:      u.Address.Street,
			HouseNumber: u.Address.HouseNumber,
			Zip:         u.Address.Zip,
		},
		IsAdmin:    u.IsAdmin,
		IsBusiness: u.IsBusiness,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toUserResponses(users []entity.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}
