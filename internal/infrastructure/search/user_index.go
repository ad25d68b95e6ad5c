package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
)

// UserIndex mirrors user profiles into Elasticsearch for admin search.
// A nil index is valid: writes are skipped and searches return nothing.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	if es == nil || index == "" {
		return nil
	}
	return &UserIndex{es: es, index: index}
}

// Document is the indexed projection of a user; it never includes credentials.
func Document(u *entity.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name.Full(),
		"phone":       u.Phone,
		"city":        u.Address.City,
		"country":     u.Address.Country,
		"is_business": u.IsBusiness,
		"is_admin":    u.IsAdmin,
		"created_at":  u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  u.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	if x == nil {
		return nil
	}
	b, err := json.Marshal(Document(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	return x.do(ctx, req, u.ID)
}

func (x *UserIndex) Remove(ctx context.Context, id string) error {
	if x == nil {
		return nil
	}
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	return x.do(ctx, req, id)
}

func (x *UserIndex) do(ctx context.Context, req esapi.Request, id string) error {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es %s for user %s", res.Status(), id)
	}
	return nil
}

// Query builds the multi_match search body on email, name and city.
func Query(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name", "city"},
			},
		},
		"size": ClampSize(size),
	}
}

// ClampSize keeps result sizes between 1 and 50, defaulting to 10.
func ClampSize(size int) int {
	if size <= 0 || size > 50 {
		return 10
	}
	return size
}

func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if x == nil {
		return []map[string]any{}, nil
	}
	b, err := json.Marshal(Query(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
