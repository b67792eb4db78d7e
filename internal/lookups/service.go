package lookups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/ratedesk/ratedesk-backend/pkg/errors"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
)

const dropdownsKey = "dropdowns"

// Cache is the subset of the redis client the lookups service needs. A nil
// Cache disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Service serves and updates the dropdown lookup dictionary.
type Service interface {
	GetDropdowns(ctx context.Context) (Dropdowns, error)
	UpdateDropdowns(ctx context.Context, d Dropdowns) error
}

type service struct {
	repo     *Repository
	cache    Cache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService constructs the lookups service. cache may be nil.
func NewService(repo *Repository, cache Cache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lookups repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cache: cache, cacheTTL: cacheTTL, logg: logg}, nil
}

// GetDropdowns returns the stored dictionary, falling back to the defaults
// when nothing has been stored yet. Reads go through the cache when one is
// configured; cache failures degrade to the database silently.
func (s *service) GetDropdowns(ctx context.Context) (Dropdowns, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.cacheKey())
		if err == nil {
			var d Dropdowns
			if err := json.Unmarshal([]byte(cached), &d); err == nil {
				return d, nil
			}
		}
	}

	raw, err := s.repo.Get(ctx, dropdownsKey)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return DefaultDropdowns(), nil
		}
		return Dropdowns{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading dropdowns")
	}

	var d Dropdowns
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Dropdowns{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding stored dropdowns")
	}

	s.cacheStore(ctx, d)
	return d, nil
}

// UpdateDropdowns stores the dictionary and invalidates the cached copy.
func (s *service) UpdateDropdowns(ctx context.Context, d Dropdowns) error {
	if err := validateDropdowns(d); err != nil {
		return err
	}

	encoded, err := json.Marshal(d)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding dropdowns")
	}
	if err := s.repo.Upsert(ctx, dropdownsKey, string(encoded)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing dropdowns")
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, s.cacheKey()); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("evicting dropdowns cache: %v", err))
		}
	}

	s.logg.Info(ctx, "dropdowns updated")
	return nil
}

func (s *service) cacheKey() string {
	return s.cache.CacheKey("lookups", dropdownsKey)
}

func (s *service) cacheStore(ctx context.Context, d Dropdowns) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(), string(encoded), s.cacheTTL); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("caching dropdowns: %v", err))
	}
}

func validateDropdowns(d Dropdowns) error {
	named := map[string][]string{
		"route_types":           d.RouteTypes,
		"known_hops":            d.KnownHops,
		"sender_id_supported":   d.SenderIDSupported,
		"registration_required": d.RegistrationRequired,
		"is_exclusive":          d.IsExclusive,
	}
	for name, list := range named {
		if len(list) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must not be empty", name))
		}
		for _, v := range list {
			if v == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s contains an empty value", name))
			}
		}
	}
	return nil
}
