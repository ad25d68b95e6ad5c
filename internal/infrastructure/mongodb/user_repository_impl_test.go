package mongodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/internal/domain/repository"
)

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &entity.User{
		Name:       entity.Name{First: "Jo", Last: "Doe"},
		Phone:      "0500000000",
		Email:      "jo@x.com",
		Password:   "hash",
		Image:      entity.Image{URL: "http://img.test/a.png", Alt: "me"},
		Address:    entity.Address{State: "TA", Country: "IL", City: "Tel Aviv", Street: "Herzl", HouseNumber: 3, Zip: 1234},
		IsBusiness: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	doc := fromEntity(u)
	doc.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded userDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got := decoded.toEntity()
	assert.Equal(t, doc.ID.Hex(), got.ID)
	u.ID = got.ID
	assert.Equal(t, u, got)
}

func TestPasswordOmittedWhenEmpty(t *testing.T) {
	raw, err := bson.Marshal(fromEntity(&entity.User{Email: "a@b.c"}))
	require.NoError(t, err)
	_, err = bson.Raw(raw).LookupErr("password")
	assert.Error(t, err)
}

func TestPatchSet(t *testing.T) {
	now := time.Unix(100, 0).UTC()
	phone := "0521234567"
	set := patchSet(entity.UserPatch{Phone: &phone, Name: &entity.Name{First: "Al", Last: "Bo"}}, now)

	keys := make([]string, 0, len(set))
	for _, e := range set {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"name", "phone", "updatedAt"}, keys)
	assert.Equal(t, nameDocument{First: "Al", Last: "Bo"}, set[0].Value)
	assert.Equal(t, now, set[2].Value)
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate("find user", mongo.ErrNoDocuments), repository.ErrUserNotFound)
	assert.ErrorIs(t, translate("find user", fmt.Errorf("wrapped: %w", mongo.ErrNoDocuments)), repository.ErrUserNotFound)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translate("update user", dup), repository.ErrEmailTaken)

	other := errors.New("socket closed")
	err := translate("update user", other)
	assert.ErrorIs(t, err, other)
	assert.Contains(t, err.Error(), "update user")
}

func TestUnconnectedRepository(t *testing.T) {
	r := NewUserRepository(nil, time.Second)
	ctx := context.Background()
	id := primitive.NewObjectID().Hex()

	assert.ErrorIs(t, r.Create(ctx, &entity.User{}), repository.ErrUnavailable)
	_, err := r.List(ctx)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	_, err = r.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	_, err = r.GetByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	_, err = r.ToggleBusiness(ctx, id)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	_, err = r.Delete(ctx, id)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}

func TestInvalidIDIsNotFound(t *testing.T) {
	r := NewUserRepository(nil, time.Second)
	ctx := context.Background()

	_, err := r.GetByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = r.Update(ctx, "zzz", entity.UserPatch{})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = r.Delete(ctx, "")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestNilDatabase(t *testing.T) {
	var d *Database
	assert.ErrorIs(t, d.Ping(context.Background()), repository.ErrUnavailable)
	assert.NoError(t, d.Close(context.Background()))
	assert.ErrorIs(t, d.EnsureIndexes(context.Background()), repository.ErrUnavailable)
}

func TestConnectRejectsEmptyURI(t *testing.T) {
	_, err := Connect(context.Background(), Options{Target: "local"})
	assert.Error(t, err)
}
