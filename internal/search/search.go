// Package search keeps an Elasticsearch index of products and queries it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

var ErrSearch = errors.New("search error")

func NewClient(ctx context.Context, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type Index struct {
	client *elasticsearch.Client
	name   string
}

func New(client *elasticsearch.Client, name string) *Index {
	return &Index{client: client, name: name}
}

type document struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Collection  string  `json:"collection"`
	Price       float64 `json:"price"`
}

const mapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "category":    {"type": "keyword"},
      "collection":  {"type": "keyword"},
      "price":       {"type": "double"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it is missing.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	res, err := ix.client.Indices.Exists([]string{ix.name}, ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearch, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = ix.client.Indices.Create(ix.name,
		ix.client.Indices.Create.WithContext(ctx),
		ix.client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer res.Body.Close()
	return responseError(res.IsError(), res.Status(), res.Body)
}

func (ix *Index) IndexProduct(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(document{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Collection:  p.Collection,
		Price:       p.Price,
	})
	if err != nil {
		return err
	}

	res, err := ix.client.Index(ix.name, bytes.NewReader(body),
		ix.client.Index.WithDocumentID(p.ID.String()),
		ix.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer res.Body.Close()
	return responseError(res.IsError(), res.Status(), res.Body)
}

func (ix *Index) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := ix.client.Delete(ix.name, id.String(), ix.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res.IsError(), res.Status(), res.Body)
}

// Search returns the matching product ids in relevance order.
func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := ix.client.Search(
		ix.client.Search.WithContext(ctx),
		ix.client.Search.WithIndex(ix.name),
		ix.client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer res.Body.Close()
	if err := responseError(res.IsError(), res.Status(), res.Body); err != nil {
		return 0, nil, err
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("%w: decode: %v", ErrSearch, err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(hit.Source.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(isErr bool, status string, body io.Reader) error {
	if !isErr {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("%w: %s: %s", ErrSearch, status, msg)
}
