package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartcart/apperror"
	"smartcart/models"
)

// Placeholder defaults for spoken items with no catalog match.
const (
	PlaceholderBrand    = "Generic"
	PlaceholderPrice    = 50.0
	PlaceholderUnit     = "1 unit"
	PlaceholderCategory = "grocery"
)

// CatalogLister supplies the products spoken names are matched against.
type CatalogLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

// Resolution is the outcome of one voice request. Nothing is applied to a
// cart here; callers decide what to do with it.
type Resolution struct {
	Items      []models.Product `json:"items"`
	Budget     float64          `json:"budget"`
	Transcript string           `json:"originalTranscript"`
}

type Resolver struct {
	parser  Parser
	catalog CatalogLister
	logger  *zap.Logger
	timeout time.Duration
	newID   func() string
}

func NewResolver(parser Parser, catalog CatalogLister, logger *zap.Logger, timeout time.Duration) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		parser:  parser,
		catalog: catalog,
		logger:  logger,
		timeout: timeout,
		newID:   NewPlaceholderID,
	}
}

// ResolveTranscript parses transcript with the language model and maps each
// spoken item to a product. A parser failure yields no items at all.
func (r *Resolver) ResolveTranscript(ctx context.Context, transcript string) (Resolution, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return Resolution{}, apperror.Validation("Transcript missing")
	}

	catalog, err := r.catalog.List(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("load catalog for voice matching: %w", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	parsed, err := r.parser.Parse(ctx, transcript)
	if err != nil {
		r.logger.Warn("transcript parse failed", zap.Error(err))
		return Resolution{}, apperror.Upstream("Failed to parse voice input", err)
	}

	items := Resolve(parsed.Items, catalog, r.newID)
	r.logger.Info("transcript resolved",
		zap.Int("spoken_items", len(parsed.Items)),
		zap.Int("resolved_items", len(items)),
		zap.Float64("budget", parsed.Budget),
	)

	return Resolution{Items: items, Budget: parsed.Budget, Transcript: transcript}, nil
}

// Resolve maps each non-blank name, in order, to the first catalog product
// it matches or to a placeholder product.
func Resolve(names []string, catalog []models.Product, newID func() string) []models.Product {
	items := make([]models.Product, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if p, ok := MatchProduct(name, catalog); ok {
			items = append(items, p)
			continue
		}
		items = append(items, Placeholder(name, newID()))
	}
	return items
}

// MatchProduct finds the first product whose name contains name or is
// contained in it, ignoring case.
func MatchProduct(name string, catalog []models.Product) (models.Product, bool) {
	spoken := strings.ToLower(strings.TrimSpace(name))
	for _, p := range catalog {
		productName := strings.ToLower(p.Name)
		if productName == "" {
			continue
		}
		if strings.Contains(productName, spoken) || strings.Contains(spoken, productName) {
			return p, true
		}
	}
	return models.Product{}, false
}

// Placeholder builds a stand-in product named exactly as spoken.
func Placeholder(name, id string) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Brand:    PlaceholderBrand,
		Price:    PlaceholderPrice,
		Unit:     PlaceholderUnit,
		Category: PlaceholderCategory,
	}
}

// NewPlaceholderID combines a millisecond timestamp with a random UUID.
func NewPlaceholderID() string {
	return fmt.Sprintf("voice-%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

// IsPlaceholderID reports whether id was produced by NewPlaceholderID.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, "voice-")
}
