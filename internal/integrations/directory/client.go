package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Cache кэш ответов справочника
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент справочника тренеров, компаний и тем
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника
// cache может быть nil, тогда каждый вызов идет в сервис
func NewClient(baseURL string, timeout time.Duration, cache Cache, cacheTTL time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// GetTrainer получает тренера по ID
func (c *Client) GetTrainer(ctx context.Context, trainerID int64) (*Trainer, error) {
	var trainer Trainer
	path := fmt.Sprintf("/internal/trainers/%d", trainerID)
	if err := c.get(ctx, path, &trainer, ErrTrainerNotFound); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// GetCompany получает компанию по ID
func (c *Client) GetCompany(ctx context.Context, companyID int64) (*Company, error) {
	var company Company
	path := fmt.Sprintf("/internal/companies/%d", companyID)
	if err := c.get(ctx, path, &company, ErrCompanyNotFound); err != nil {
		return nil, err
	}
	return &company, nil
}

// GetTopic получает тему по ID
func (c *Client) GetTopic(ctx context.Context, topicID int64) (*Topic, error) {
	var topic Topic
	path := fmt.Sprintf("/internal/topics/%d", topicID)
	if err := c.get(ctx, path, &topic, ErrTopicNotFound); err != nil {
		return nil, err
	}
	return &topic, nil
}

// get читает ресурс через кэш
// Ошибки кэша не фатальны: логируем и идем в сервис
func (c *Client) get(ctx context.Context, path string, dest interface{}, notFound error) error {
	if c.cache != nil {
		err := c.cache.Get(ctx, path, dest)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("Directory cache read failed for %s: %v", path, err)
		}
	}

	if err := c.fetch(ctx, path, dest, notFound); err != nil {
		return err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, path, dest, c.cacheTTL); err != nil {
			c.log.Warn("Directory cache write failed for %s: %v", path, err)
		}
	}

	return nil
}

func (c *Client) fetch(ctx context.Context, path string, dest interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return notFound
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid id format in %s", ErrInvalidResponse, path)
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
