package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

const (
	productKeyPrefix = "product:"
	productListKey   = "products:all"
	productTTL       = 5 * time.Minute
	opTimeout        = 2 * time.Second
)

// ProductCache — read-through декоратор над ProductRepository.
// Чтения идут через Redis, любая мутация (включая Reserve/Release)
// инвалидирует ключ товара и ключ списка. Ошибки кеша не фатальны:
// при недоступном Redis работаем напрямую с хранилищем.
type ProductCache struct {
	inner  domain.ProductRepository
	client *redis.Client
	logger *log.Entry
}

func NewProductCache(inner domain.ProductRepository, client *redis.Client, logger *log.Logger) *ProductCache {
	return &ProductCache{
		inner:  inner,
		client: client,
		logger: logger.WithField("component", "product_cache"),
	}
}

func (c *ProductCache) Create(product domain.Product) error {
	if err := c.inner.Create(product); err != nil {
		return err
	}
	c.invalidateList()
	return nil
}

func (c *ProductCache) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal(raw, &product); err == nil {
			return product, nil
		}
		c.logger.WithField("product_id", id).Warn("повреждённая запись в кеше, перечитываем из хранилища")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WithError(err).Warn("кеш недоступен, читаем из хранилища")
	}

	product, err := c.inner.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	c.store(productKeyPrefix+id, product)

	return product, nil
}

func (c *ProductCache) List() ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, productListKey).Bytes()
	if err == nil {
		var products []domain.Product
		if err := json.Unmarshal(raw, &products); err == nil {
			return products, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WithError(err).Warn("кеш недоступен, читаем из хранилища")
	}

	products, err := c.inner.List()
	if err != nil {
		return nil, err
	}
	c.store(productListKey, products)

	return products, nil
}

func (c *ProductCache) Update(product domain.Product) error {
	if err := c.inner.Update(product); err != nil {
		return err
	}
	c.invalidate(product.ID)
	return nil
}

func (c *ProductCache) Delete(id string) error {
	if err := c.inner.Delete(id); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *ProductCache) Reserve(productID string, qty int) error {
	if err := c.inner.Reserve(productID, qty); err != nil {
		return err
	}
	c.invalidate(productID)
	return nil
}

func (c *ProductCache) Release(productID string, qty int) error {
	if err := c.inner.Release(productID, qty); err != nil {
		return err
	}
	c.invalidate(productID)
	return nil
}

func (c *ProductCache) store(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, raw, productTTL).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("не удалось записать в кеш")
	}
}

func (c *ProductCache) invalidate(productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, productKeyPrefix+productID, productListKey).Err(); err != nil {
		c.logger.WithError(err).WithField("product_id", productID).Warn(
			fmt.Sprintf("не удалось инвалидировать кеш товара %s", productID))
	}
}

func (c *ProductCache) invalidateList() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, productListKey).Err(); err != nil {
		c.logger.WithError(err).Warn("не удалось инвалидировать кеш списка товаров")
	}
}

var _ domain.ProductRepository = (*ProductCache)(nil)
