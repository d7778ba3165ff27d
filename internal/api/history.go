package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// History returns past analyses for the session, newest order as sent by the server.
func (c *Client) History(ctx context.Context, token string) ([]HistoryEntry, error) {
	items, err := getList[historyItem](ctx, c, pathHistory, token)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(items))
	for i := range items {
		item := &items[i]
		raw := item.Label
		if raw == "" {
			raw = item.Prediction
		}
		entry := HistoryEntry{
			ID:           string(item.ID),
			Label:        ParseLabel(raw),
			Probability:  item.Probability,
			RawTimestamp: item.Timestamp,
		}
		if ts, ok := parseTimestamp(item.Timestamp, c.location); ok {
			entry.Timestamp = ts
		}
		entries = append(entries, entry)
	}

	c.log.Debug("history fetched", logger.Int("entries", len(entries)))
	return entries, nil
}

// Resources returns the educational articles, served from cache within the TTL.
func (c *Client) Resources(ctx context.Context, token string) ([]Resource, error) {
	if c.cache != nil {
		if cached, found := c.cache.Get(cacheKeyResources); found {
			if resources, ok := cached.([]Resource); ok {
				c.recordCache(true)
				c.log.Debug("resources cache hit", logger.Int("entries", len(resources)))
				return resources, nil
			}
		}
		c.recordCache(false)
	}

	items, err := getList[resourceItem](ctx, c, pathResources, token)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(items))
	for _, item := range items {
		resources = append(resources, Resource{
			ID:      string(item.ID),
			Title:   item.Title,
			Content: item.Content,
		})
	}

	if c.cache != nil {
		c.cache.Set(cacheKeyResources, resources, cache.DefaultExpiration)
	}

	c.log.Debug("resources fetched", logger.Int("entries", len(resources)))
	return resources, nil
}

func (c *Client) recordCache(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordCacheLookup(cacheKeyResources, hit)
	}
}

// getList fetches a JSON array from path. A 2xx body that is not an array
// of T yields an empty list, never a partially decoded one.
func getList[T any](ctx context.Context, c *Client, path, token string) ([]T, error) {
	start := time.Now()

	resp, err := c.http.Get(ctx, c.endpoint(path), c.sessionCookie(token))
	if err != nil {
		return nil, transportError(err, errors.CategoryNetwork, path)
	}

	r, err := c.readResponse(resp)
	if err != nil {
		return nil, transportError(err, errors.CategoryNetwork, path)
	}

	if !r.ok() {
		return nil, serverError(r.errorMessage(), errors.CategoryHTTP, path, r.status)
	}

	var items []T
	if err := json.Unmarshal(r.body, &items); err != nil {
		c.log.Warn("unexpected list payload, treating as empty",
			logger.String("endpoint", path),
			logger.Error(err),
			logger.Duration("duration", time.Since(start)))
		return nil, nil
	}
	return items, nil
}
