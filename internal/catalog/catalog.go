package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"pos-backend/internal/logger"
	"pos-backend/internal/models"
)

// Catalog serves the product menu as read-only reference data. The menu file
// is authored outside this service; a missing or corrupt file degrades to an
// empty catalog so the location keeps serving.
type Catalog struct {
	mu     sync.RWMutex
	path   string
	logger *logger.Logger
	menu   models.Menu
	byID   map[string]models.Product
}

func New(path string, log *logger.Logger) *Catalog {
	c := &Catalog{
		path:   path,
		logger: log,
		byID:   make(map[string]models.Product),
	}
	if err := c.Reload(); err != nil {
		log.Error("CATALOG", fmt.Sprintf("Failed to load menu from %s, serving empty catalog: %v", path, err))
	}
	return c
}

// Reload re-reads the menu file. On failure the previous snapshot is replaced
// with an empty one rather than left stale, matching the fail-open contract.
func (c *Catalog) Reload() error {
	menu, err := readMenu(c.path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.menu = models.Menu{Products: []models.Product{}}
		c.byID = make(map[string]models.Product)
		return err
	}

	byID := make(map[string]models.Product, len(menu.Products))
	for _, product := range menu.Products {
		byID[product.ID] = product
	}
	c.menu = menu
	c.byID = byID

	c.logger.Info("CATALOG", fmt.Sprintf("Loaded %d products from %s", len(menu.Products), c.path))
	return nil
}

func (c *Catalog) GetProduct(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	product, ok := c.byID[id]
	return product, ok
}

func (c *Catalog) Snapshot() models.Menu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.menu
}

func readMenu(path string) (models.Menu, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Menu{}, fmt.Errorf("read menu file: %w", err)
	}
	var menu models.Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return models.Menu{}, fmt.Errorf("parse menu file: %w", err)
	}
	if menu.Products == nil {
		menu.Products = []models.Product{}
	}
	return menu, nil
}
