package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// UserIndex mirrors users into an Elasticsearch index and serves email search from it.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

type userDoc struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
	CreatedAt      string `json:"created_at"`
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":              map[string]any{"type": "keyword"},
			"email":           map[string]any{"type": "keyword"},
			"username":        map[string]any{"type": "text"},
			"profile_picture": map[string]any{"type": "keyword", "index": false},
			"created_at":      map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with a keyword email mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	b, _ := json.Marshal(indexMapping)
	res, err := esapi.IndicesCreateRequest{Index: x.index, Body: bytes.NewReader(b)}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index %s: %s", x.index, res.Status())
	}
	return nil
}

func newUserDoc(u *entity.User) []byte {
	b, _ := json.Marshal(userDoc{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	return b
}

func (x *UserIndex) IndexUser(ctx context.Context, u *entity.User) error {
	b := newUserDoc(u)
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index user %s: %s", u.ID, res.Status())
	}
	return nil
}

// Backfill bulk-upserts every user from src, keyed by id. It returns the number of
// documents indexed and fails if any item was rejected.
func (x *UserIndex) Backfill(ctx context.Context, src repository.UserSource, logger *logrus.Logger) (uint64, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        x.es,
		Index:         x.index,
		NumWorkers:    2,
		FlushBytes:    1 << 20,
		FlushInterval: time.Second,
	})
	if err != nil {
		return 0, err
	}

	walkErr := src.Each(ctx, func(u entity.User) error {
		return bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: u.ID,
			Body:       bytes.NewReader(newUserDoc(&u)),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if logger == nil {
					return
				}
				entry := logger.WithField("user_id", item.DocumentID)
				if err != nil {
					entry.WithError(err).Warn("user backfill item failed")
					return
				}
				entry.WithFields(logrus.Fields{"type": res.Error.Type, "reason": res.Error.Reason}).Warn("user backfill item rejected")
			},
		})
	})
	if err := bi.Close(ctx); err != nil && walkErr == nil {
		walkErr = err
	}

	stats := bi.Stats()
	if walkErr != nil {
		return stats.NumIndexed, walkErr
	}
	if stats.NumFailed > 0 {
		return stats.NumIndexed, fmt.Errorf("es backfill %s: %d of %d documents failed", x.index, stats.NumFailed, stats.NumAdded)
	}
	return stats.NumIndexed, nil
}

// SearchByEmail runs a case-insensitive wildcard on the email keyword, oldest users first.
func (x *UserIndex) SearchByEmail(ctx context.Context, query string, limit int) ([]entity.UserSummary, error) {
	body := map[string]any{
		"query": map[string]any{
			"wildcard": map[string]any{
				"email": map[string]any{
					"value":            "*" + escapeWildcard(query) + "*",
					"case_insensitive": true,
				},
			},
		},
		"sort": []any{map[string]any{"created_at": "asc"}},
		"size": limit,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.UserSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, entity.UserSummary{
			ID:             h.Source.ID,
			Email:          h.Source.Email,
			Username:       h.Source.Username,
			ProfilePicture: h.Source.ProfilePicture,
		})
	}
	return out, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

var (
	_ repository.UserDirectory = (*UserIndex)(nil)
	_ repository.UserIndexer   = (*UserIndex)(nil)
)
