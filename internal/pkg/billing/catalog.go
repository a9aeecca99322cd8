package billing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PayLedger/app/models"
)

const catalogCacheKeyPrefix = "billing:product:"

// Product is the catalog view of a purchasable plan.
type Product struct {
	PlanRef     string `json:"plan_ref"`
	DisplayName string `json:"name"`
	Amount      string `json:"price"`
	IsRecurring bool   `json:"is_subscription"`
	Period      Period `json:"subscription_period,omitempty"`
}

// Catalog resolves plan references to products.
type Catalog interface {
	Lookup(ctx context.Context, planRef string) (*Product, error)
}

// StaticCatalog is an in-memory catalog keyed by plan reference.
type StaticCatalog map[string]Product

func (c StaticCatalog) Lookup(ctx context.Context, planRef string) (*Product, error) {
	_ = ctx
	p, ok := c[strings.TrimSpace(planRef)]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

type gormCatalog struct {
	db *gorm.DB
}

// NewGormCatalog reads active products from the billing_products table.
func NewGormCatalog(db *gorm.DB) Catalog {
	return &gormCatalog{db: db}
}

func (c *gormCatalog) Lookup(ctx context.Context, planRef string) (*Product, error) {
	var m models.BillingProduct
	err := c.db.WithContext(ctx).
		Where("plan_ref = ? AND is_active = ?", strings.TrimSpace(planRef), true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, storeError(err)
	}
	return productFromModel(&m), nil
}

func productFromModel(m *models.BillingProduct) *Product {
	p := &Product{
		PlanRef:     m.PlanRef,
		DisplayName: m.DisplayName,
		Amount:      m.Amount,
		IsRecurring: m.IsRecurring,
	}
	if m.IsRecurring {
		p.Period = normalizePeriod(m.RecurrencePeriod)
	}
	return p
}

type cachedCatalog struct {
	next   Catalog
	client *redis.Client
	ttl    time.Duration
}

// NewCachedCatalog wraps next with a Redis read-through cache. Cache errors
// are logged and fall through to next; a nil client disables caching.
func NewCachedCatalog(next Catalog, client *redis.Client, ttl time.Duration) Catalog {
	if client == nil || ttl <= 0 {
		return next
	}
	return &cachedCatalog{next: next, client: client, ttl: ttl}
}

func (c *cachedCatalog) Lookup(ctx context.Context, planRef string) (*Product, error) {
	key := catalogCacheKeyPrefix + strings.TrimSpace(planRef)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var p Product
		if uerr := json.Unmarshal(data, &p); uerr == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warnf("[Billing] Catalog cache read failed for %s: %v", planRef, err)
	}

	p, err := c.next.Lookup(ctx, planRef)
	if err != nil {
		return nil, err
	}
	if data, merr := json.Marshal(p); merr == nil {
		if serr := c.client.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			log.Warnf("[Billing] Catalog cache write failed for %s: %v", planRef, serr)
		}
	}
	return p, nil
}
