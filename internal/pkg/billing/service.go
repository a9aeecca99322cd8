package billing

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service composes the ledger, the catalog and the provider protocol into
// order creation and notification reconciliation.
type Service struct {
	ledger  *Ledger
	store   Store
	catalog Catalog
	cfg     ProviderConfig
	now     func() time.Time
}

// NewService creates a billing service from injected collaborators.
func NewService(store Store, catalog Catalog, cfg ProviderConfig) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		ledger:  NewLedger(store),
		store:   store,
		catalog: catalog,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

// NewServiceFromDB creates a billing service from a GORM DB handle, with a
// Redis cached product catalog when cacheClient is set.
func NewServiceFromDB(db *gorm.DB, cacheClient *redis.Client, catalogTTL time.Duration, cfg ProviderConfig) (*Service, error) {
	catalog := NewCachedCatalog(NewGormCatalog(db), cacheClient, catalogTTL)
	return NewService(NewStore(db), catalog, cfg)
}

// Ledger exposes the underlying order ledger.
func (s *Service) Ledger() *Ledger {
	return s.ledger
}
