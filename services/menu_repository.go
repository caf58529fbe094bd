package services

import (
	"MenuScout/config/database"
	"MenuScout/config/environment"
	"MenuScout/models"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"cloud.google.com/go/firestore"
	"github.com/mmcloughlin/geohash"
)

// MenuRepository persists finished menus: always to disk as indented JSON,
// and to Firestore when a client is configured.
type MenuRepository struct {
	FirestoreClient *firestore.Client
	OutputDir       string
}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{
		FirestoreClient: database.GetFirestoreClient(),
		OutputDir:       environment.GetOutputDir(),
	}
}

// SaveToFile writes the menu as indented JSON under
// <outputDir>/<platform>_menu_<menu_id>.json and returns the path.
func (r *MenuRepository) SaveToFile(menu models.Menu, platformName string) (string, error) {
	payload, err := json.MarshalIndent(map[string]models.Menu{"data": menu}, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode menu: %w", err)
	}

	filename := fmt.Sprintf("%s_menu_%s.json", platformName, menu.MenuID)
	path := filepath.Join(r.OutputDir, filename)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// SaveToFirestore upserts the menu into the "menus" collection keyed by
// platform and menu id, with a geohash field for location queries. A nil
// client (Firestore disabled) is a silent no-op.
func (r *MenuRepository) SaveToFirestore(ctx context.Context, menu models.Menu, platformName string) error {
	if r.FirestoreClient == nil {
		return nil
	}

	docID := fmt.Sprintf("%s_%s", platformName, menu.MenuID)
	doc := map[string]interface{}{
		"platform":   platformName,
		"menu":       menu,
		"geohash":    geohash.Encode(menu.Latitude, menu.Longitude),
		"title":      menu.Title,
		"categories": len(menu.Categories),
	}

	if _, err := r.FirestoreClient.Collection("menus").Doc(docID).Set(ctx, doc); err != nil {
		return fmt.Errorf("failed to store menu %s: %w", docID, err)
	}
	log.Printf("Menu %s stored in Firestore", docID)
	return nil
}
