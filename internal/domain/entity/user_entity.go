package entity

import (
	"strings"
	"time"
)

// Defaults applied by Normalize when the caller leaves the field empty.
const (
	DefaultImageURL = "https://cdn.pixabay.com/photo/2016/04/01/10/11/avatar-1299805_960_720.png"
	DefaultImageAlt = "user image"
	DefaultState    = "not defined"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field and never leave the
// service layer.
type User struct {
	ID         string
	Name       Name
	Phone      string
	Email      string
	Password   string
	Image      Image
	Address    Address
	IsAdmin    bool
	IsBusiness bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Name struct {
	First  string
	Middle string
	Last   string
}

// Full joins the non-empty name parts.
func (n Name) Full() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.First, n.Middle, n.Last} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type Image struct {
	URL string
	Alt string
}

type Address struct {
	State       string
	Country     string
	City        string
	Street      string
	HouseNumber int
	Zip         int
}

// UserPatch is a partial update; nil fields are left untouched.
// Role and business status are deliberately absent.
type UserPatch struct {
	Name    *Name
	Phone   *string
	Email   *string
	Image   *Image
	Address *Address
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil && p.Image == nil && p.Address == nil
}

// Apply returns u with the patch fields copied over.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Image != nil {
		u.Image = *p.Image
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	return u
}

// Normalize maps a user into its canonical stored shape. It is idempotent.
func Normalize(u User) User {
	u.Name = normalizeName(u.Name)
	u.Phone = strings.TrimSpace(u.Phone)
	u.Email = normalizeEmail(u.Email)
	u.Image = normalizeImage(u.Image)
	u.Address = normalizeAddress(u.Address)
	return u
}

// NormalizePatch applies the same per-field rules as Normalize to the fields
// present in p.
func NormalizePatch(p UserPatch) UserPatch {
	if p.Name != nil {
		n := normalizeName(*p.Name)
		p.Name = &n
	}
	if p.Phone != nil {
		s := strings.TrimSpace(*p.Phone)
		p.Phone = &s
	}
	if p.Email != nil {
		s := normalizeEmail(*p.Email)
		p.Email = &s
	}
	if p.Image != nil {
		img := normalizeImage(*p.Image)
		p.Image = &img
	}
	if p.Address != nil {
		a := normalizeAddress(*p.Address)
		p.Address = &a
	}
	return p
}

func normalizeName(n Name) Name {
	return Name{
		First:  collapseSpaces(n.First),
		Middle: collapseSpaces(n.Middle),
		Last:   collapseSpaces(n.Last),
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeImage(img Image) Image {
	img.URL = strings.TrimSpace(img.URL)
	img.Alt = collapseSpaces(img.Alt)
	if img.URL == "" {
		img.URL = DefaultImageURL
	}
	if img.Alt == "" {
		img.Alt = DefaultImageAlt
	}
	return img
}

func normalizeAddress(a Address) Address {
	a.State = collapseSpaces(a.State)
	a.Country = collapseSpaces(a.Country)
	a.City = collapseSpaces(a.City)
	a.Street = collapseSpaces(a.Street)
	if a.State == "" {
		a.State = DefaultState
	}
	return a
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
