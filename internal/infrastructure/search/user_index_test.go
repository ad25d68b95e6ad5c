package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
)

func TestDocumentHasNoCredentials(t *testing.T) {
	doc := Document(&entity.User{ID: "u1", Email: "jo@x.com", Password: "hash", Name: entity.Name{First: "Jo", Last: "Doe"}})
	assert.Equal(t, "Jo Doe", doc["name"])
	for k, v := range doc {
		assert.NotEqual(t, "hash", v, k)
	}
	_, ok := doc["password"]
	assert.False(t, ok)
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, 10, ClampSize(0))
	assert.Equal(t, 10, ClampSize(51))
	assert.Equal(t, 5, ClampSize(5))
	assert.Equal(t, 10, Query("jo", -1)["size"])
}

func TestNilIndex(t *testing.T) {
	x := NewUserIndex(nil, "users")
	assert.Nil(t, x)

	ctx := context.Background()
	assert.NoError(t, x.Index(ctx, &entity.User{ID: "u1"}))
	assert.NoError(t, x.Remove(ctx, "u1"))
	res, err := x.Search(ctx, "jo", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}
