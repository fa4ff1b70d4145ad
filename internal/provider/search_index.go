// File: internal/provider/search_index.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"localpro_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// SearchIndexer mirrors provider profiles into the optional Elasticsearch
// index. All methods are no-ops when the client is nil, and callers treat
// every error as best-effort.
type SearchIndexer struct {
	client *elasticsearch.ESClientWrapper
	logger *zap.Logger
}

// NewSearchIndexer creates a new search indexer. client may be nil.
func NewSearchIndexer(client *elasticsearch.ESClientWrapper, logger *zap.Logger) *SearchIndexer {
	return &SearchIndexer{client: client, logger: logger.Named("provider_search_index")}
}

// Enabled reports whether an Elasticsearch backend is configured.
func (s *SearchIndexer) Enabled() bool {
	return s.client != nil
}

type providerDocument struct {
	UserID      string   `json:"user_id"`
	FullName    string   `json:"full_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Services    []string `json:"services"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	Town        string   `json:"town"`
	Photo       string   `json:"photo"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// DocumentJSON marshals the profile to its index document. The bulk sync
// command uses it alongside single-document indexing.
func DocumentJSON(profile *ProviderProfile) (string, error) {
	doc := providerDocument{
		UserID:      profile.UserID.String(),
		FullName:    profile.FullName,
		Title:       profile.Title,
		Description: profile.Description,
		Services:    []string(profile.Services),
		City:        profile.City,
		Region:      profile.Region,
		Town:        profile.Town,
		Photo:       profile.Photo,
		CreatedAt:   profile.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   profile.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshalling provider document: %w", err)
	}
	return string(body), nil
}

// Index writes or replaces the profile's document.
func (s *SearchIndexer) Index(ctx context.Context, profile *ProviderProfile) error {
	if s.client == nil {
		return nil
	}

	docJSON, err := DocumentJSON(profile)
	if err != nil {
		return err
	}
	body := []byte(docJSON)

	req := esapi.IndexRequest{
		Index:      elasticsearch.ProvidersIndexName,
		DocumentID: profile.ID.String(),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		return fmt.Errorf("indexing provider %s: %w", profile.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing provider %s: status %s", profile.ID, res.Status())
	}
	return nil
}

// Delete removes the profile's document. Missing documents are not errors.
func (s *SearchIndexer) Delete(ctx context.Context, profileID string) error {
	if s.client == nil {
		return nil
	}

	req := esapi.DeleteRequest{
		Index:      elasticsearch.ProvidersIndexName,
		DocumentID: profileID,
	}
	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		return fmt.Errorf("deleting provider document %s: %w", profileID, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deleting provider document %s: status %s", profileID, res.Status())
	}
	return nil
}

// Search runs the search criteria against the index and returns matching
// profile IDs. The predicate mirrors the SQL path: whole-word services
// matching, substring location matching.
func (s *SearchIndexer) Search(ctx context.Context, query SearchQuery) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch is not configured")
	}

	must := make([]map[string]interface{}, 0, 4)
	if query.Services != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{
				"services": map[string]interface{}{"query": query.Services, "operator": "and"},
			},
		})
	}
	for field, value := range map[string]string{
		"city":   query.City,
		"region": query.Region,
		"town":   query.Town,
	} {
		if value == "" {
			continue
		}
		must = append(must, map[string]interface{}{
			"wildcard": map[string]interface{}{
				field + ".keyword": map[string]interface{}{
					"value":            "*" + strings.ToLower(value) + "*",
					"case_insensitive": true,
				},
			},
		})
	}

	searchBody := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must}},
		"size":  1000,
	}
	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("marshalling search body: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(elasticsearch.ProvidersIndexName),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("searching providers index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("searching providers index: status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
