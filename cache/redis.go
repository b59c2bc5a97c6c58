package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopswift/backend/metrics"
	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
	"go.uber.org/zap"
)

const (
	cartTTL    = 30 * time.Minute
	productTTL = 30 * time.Minute
	orderTTL   = 60 * time.Minute

	cartKeyPrefix    = "cart:"
	productKeyPrefix = "product:"
	orderKeyPrefix   = "order:"
	listKeyPrefix    = "products:v:"
	listVersionKey   = "products:version"
)

type redisCache struct {
	client  *redis.Client
	metrics *metrics.AppMetrics
}

// NewRedisCache returns a Cache backed by the given Redis client. metrics may
// be nil.
func NewRedisCache(client *redis.Client, m *metrics.AppMetrics) Cache {
	return &redisCache{client: client, metrics: m}
}

func (c *redisCache) get(ctx context.Context, family, key string, out interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		c.metrics.RecordCacheLookup(ctx, family, false)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		zap.L().Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		c.metrics.RecordCacheLookup(ctx, family, false)
		return false
	}
	c.metrics.RecordCacheLookup(ctx, family, true)
	return true
}

func (c *redisCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		zap.L().Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisCache) del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		zap.L().Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisCache) GetCart(ctx context.Context, userID string) (*models.CartDetail, bool) {
	var cart models.CartDetail
	if !c.get(ctx, "cart", cartKeyPrefix+userID, &cart) {
		return nil, false
	}
	return &cart, true
}

func (c *redisCache) SetCart(ctx context.Context, userID string, cart *models.CartDetail) {
	c.set(ctx, cartKeyPrefix+userID, cart, cartTTL)
}

func (c *redisCache) DeleteCart(ctx context.Context, userID string) {
	c.del(ctx, cartKeyPrefix+userID)
}

func (c *redisCache) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	var product models.Product
	if !c.get(ctx, "product", productKeyPrefix+productID, &product) {
		return nil, false
	}
	return &product, true
}

func (c *redisCache) SetProduct(ctx context.Context, productID string, product *models.Product) {
	c.set(ctx, productKeyPrefix+productID, product, productTTL)
}

func (c *redisCache) DeleteProduct(ctx context.Context, productID string) {
	c.del(ctx, productKeyPrefix+productID)
}

func (c *redisCache) GetProductList(ctx context.Context, query repository.ProductQuery) (*models.ProductList, bool) {
	version, err := c.listVersion(ctx)
	if err != nil {
		zap.L().Warn("cache version lookup failed", zap.Error(err))
		return nil, false
	}

	var list models.ProductList
	if !c.get(ctx, "products", listKey(version, query), &list) {
		return nil, false
	}
	return &list, true
}

func (c *redisCache) SetProductList(ctx context.Context, query repository.ProductQuery, list *models.ProductList) {
	version, err := c.listVersion(ctx)
	if err != nil {
		zap.L().Warn("cache version lookup failed", zap.Error(err))
		return
	}
	c.set(ctx, listKey(version, query), list, productTTL)
}

// InvalidateProductLists bumps the version embedded in every listing key, so
// stale pages become unreachable and fall out via TTL.
func (c *redisCache) InvalidateProductLists(ctx context.Context) {
	if err := c.client.Incr(ctx, listVersionKey).Err(); err != nil {
		zap.L().Warn("cache list invalidation failed", zap.Error(err))
	}
}

func (c *redisCache) GetOrder(ctx context.Context, orderID string) (*models.Order, bool) {
	var order models.Order
	if !c.get(ctx, "order", orderKeyPrefix+orderID, &order) {
		return nil, false
	}
	return &order, true
}

func (c *redisCache) SetOrder(ctx context.Context, order *models.Order) {
	c.set(ctx, orderKeyPrefix+order.ID.Hex(), order, orderTTL)
}

func (c *redisCache) listVersion(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, listVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, listVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// listKey fingerprints a listing query into a cache key.
func listKey(version int64, q repository.ProductQuery) string {
	return fmt.Sprintf("%s%d:p:%d:l:%d:c:%s:min:%s:max:%s:s:%s",
		listKeyPrefix, version, q.Page, q.Limit, q.Category,
		formatFloat(q.MinPrice), formatFloat(q.MaxPrice), q.Sort)
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
