// pkg/learning/seeder.go
package learning

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/model"
	"github.com/catalogkit/colmatch/pkg/normalizer"
	"github.com/catalogkit/colmatch/pkg/store"
)

// seedPair is one known-good header/target association for a language
type seedPair struct {
	header string
	target string
}

// seedCatalog returns curated header/target pairs per language. They are
// the associations a user would otherwise teach the engine in the first
// few sessions. Spelling variants of the same header collapse onto one
// normalized key, so some pairs intentionally share a pattern
func seedCatalog() map[model.Language][]seedPair {
	return map[model.Language][]seedPair{
		model.LanguageFrench: {
			{header: "Référence", target: "reference"},
			{header: "Réf.", target: "reference"},
			{header: "Code article", target: "reference"},
			{header: "Code EAN", target: "barcode"},
			{header: "Code barre", target: "barcode"},
			{header: "Libellé", target: "label"},
			{header: "Désignation", target: "description"},
			{header: "Description", target: "description"},
			{header: "Prix", target: "price"},
			{header: "Prix de vente", target: "price"},
			{header: "Prix d'achat", target: "purchase_price"},
			{header: "Catégorie", target: "category"},
			{header: "Sous-catégorie", target: "subcategory"},
			{header: "Marque", target: "brand"},
			{header: "Couleur", target: "color"},
			{header: "Taille", target: "size"},
			{header: "Poids", target: "weight"},
			{header: "Stock", target: "stock"},
			{header: "Quantité", target: "quantity"},
			{header: "Image", target: "image"},
		},
		model.LanguageEnglish: {
			{header: "Reference", target: "reference"},
			{header: "SKU", target: "reference"},
			{header: "Item number", target: "reference"},
			{header: "EAN", target: "barcode"},
			{header: "Barcode", target: "barcode"},
			{header: "Name", target: "label"},
			{header: "Title", target: "label"},
			{header: "Description", target: "description"},
			{header: "Price", target: "price"},
			{header: "Retail price", target: "price"},
			{header: "Purchase price", target: "purchase_price"},
			{header: "Category", target: "category"},
			{header: "Subcategory", target: "subcategory"},
			{header: "Brand", target: "brand"},
			{header: "Colour", target: "color"},
			{header: "Size", target: "size"},
			{header: "Weight", target: "weight"},
			{header: "Stock", target: "stock"},
			{header: "Quantity", target: "quantity"},
			{header: "Image", target: "image"},
		},
		model.LanguageItalian: {
			{header: "Codice", target: "reference"},
			{header: "Codice articolo", target: "reference"},
			{header: "Codice a barre", target: "barcode"},
			{header: "EAN", target: "barcode"},
			{header: "Nome", target: "label"},
			{header: "Descrizione", target: "description"},
			{header: "Prezzo", target: "price"},
			{header: "Prezzo di acquisto", target: "purchase_price"},
			{header: "Categoria", target: "category"},
			{header: "Sottocategoria", target: "subcategory"},
			{header: "Marca", target: "brand"},
			{header: "Colore", target: "color"},
			{header: "Taglia", target: "size"},
			{header: "Peso", target: "weight"},
			{header: "Giacenza", target: "stock"},
			{header: "Quantità", target: "quantity"},
			{header: "Immagine", target: "image"},
		},
		model.LanguageSpanish: {
			{header: "Referencia", target: "reference"},
			{header: "Código", target: "reference"},
			{header: "Código de barras", target: "barcode"},
			{header: "EAN", target: "barcode"},
			{header: "Nombre", target: "label"},
			{header: "Descripción", target: "description"},
			{header: "Precio", target: "price"},
			{header: "Precio de compra", target: "purchase_price"},
			{header: "Categoría", target: "category"},
			{header: "Subcategoría", target: "subcategory"},
			{header: "Marca", target: "brand"},
			{header: "Color", target: "color"},
			{header: "Talla", target: "size"},
			{header: "Peso", target: "weight"},
			{header: "Existencias", target: "stock"},
			{header: "Cantidad", target: "quantity"},
			{header: "Imagen", target: "image"},
		},
		model.LanguageGerman: {
			{header: "Artikelnummer", target: "reference"},
			{header: "Art.-Nr.", target: "reference"},
			{header: "EAN", target: "barcode"},
			{header: "Strichcode", target: "barcode"},
			{header: "Bezeichnung", target: "label"},
			{header: "Beschreibung", target: "description"},
			{header: "Preis", target: "price"},
			{header: "Einkaufspreis", target: "purchase_price"},
			{header: "Kategorie", target: "category"},
			{header: "Unterkategorie", target: "subcategory"},
			{header: "Marke", target: "brand"},
			{header: "Farbe", target: "color"},
			{header: "Größe", target: "size"},
			{header: "Gewicht", target: "weight"},
			{header: "Bestand", target: "stock"},
			{header: "Menge", target: "quantity"},
			{header: "Bild", target: "image"},
		},
		model.LanguagePortuguese: {
			{header: "Referência", target: "reference"},
			{header: "Código", target: "reference"},
			{header: "Código de barras", target: "barcode"},
			{header: "EAN", target: "barcode"},
			{header: "Nome", target: "label"},
			{header: "Descrição", target: "description"},
			{header: "Preço", target: "price"},
			{header: "Preço de compra", target: "purchase_price"},
			{header: "Categoria", target: "category"},
			{header: "Subcategoria", target: "subcategory"},
			{header: "Marca", target: "brand"},
			{header: "Cor", target: "color"},
			{header: "Tamanho", target: "size"},
			{header: "Peso", target: "weight"},
			{header: "Estoque", target: "stock"},
			{header: "Quantidade", target: "quantity"},
			{header: "Imagem", target: "image"},
		},
		model.LanguageDutch: {
			{header: "Artikelnummer", target: "reference"},
			{header: "SKU", target: "reference"},
			{header: "EAN", target: "barcode"},
			{header: "Streepjescode", target: "barcode"},
			{header: "Naam", target: "label"},
			{header: "Omschrijving", target: "description"},
			{header: "Prijs", target: "price"},
			{header: "Inkoopprijs", target: "purchase_price"},
			{header: "Categorie", target: "category"},
			{header: "Subcategorie", target: "subcategory"},
			{header: "Merk", target: "brand"},
			{header: "Kleur", target: "color"},
			{header: "Maat", target: "size"},
			{header: "Gewicht", target: "weight"},
			{header: "Voorraad", target: "stock"},
			{header: "Aantal", target: "quantity"},
			{header: "Afbeelding", target: "image"},
		},
	}
}

// SeedReport summarizes one seeding pass
type SeedReport struct {
	Seeded  int // Patterns newly reinforced
	Skipped int // Pairs already present, left untouched
}

// Seeder pre-loads the pattern store with curated associations
type Seeder struct {
	normalizer *normalizer.Normalizer
	store      store.Store
	logger     *zap.Logger
}

// NewSeeder creates a pattern seeder
func NewSeeder(n *normalizer.Normalizer, s store.Store, logger *zap.Logger) *Seeder {
	return &Seeder{
		normalizer: n,
		store:      s,
		logger:     logger,
	}
}

// Seed loads the curated pairs for the given languages, or for every
// supported language when none are named. Seeding is idempotent: a pair
// whose pattern already exists is skipped, so repeated runs never
// inflate frequencies
func (s *Seeder) Seed(ctx context.Context, languages ...model.Language) (*SeedReport, error) {
	if len(languages) == 0 {
		languages = model.KnownLanguages()
	}

	catalog := seedCatalog()
	report := &SeedReport{}

	for _, lang := range languages {
		pairs, ok := catalog[lang]
		if !ok {
			return nil, fmt.Errorf("no seed data for language %q", lang)
		}

		for _, pair := range pairs {
			key := s.normalizer.Normalize(pair.header, lang)
			if key.IsEmpty() {
				continue
			}

			exists, err := s.patternExists(ctx, key.Canonical, pair.target)
			if err != nil {
				return nil, fmt.Errorf("failed to check pattern for %q: %w", pair.header, err)
			}
			if exists {
				report.Skipped++
				continue
			}

			if err := s.store.Reinforce(ctx, key.Canonical, pair.target); err != nil {
				return nil, fmt.Errorf("failed to seed pattern for %q: %w", pair.header, err)
			}
			record := model.NewCorrectionRecord(pair.header, lang, pair.target,
				"seed:"+string(lang), 0)
			if err := s.store.AppendCorrection(ctx, record); err != nil {
				return nil, fmt.Errorf("failed to log seed correction for %q: %w", pair.header, err)
			}
			report.Seeded++
		}

		s.logger.Info("Seeded language pack",
			zap.String("language", string(lang)),
			zap.Int("pairs", len(pairs)))
	}

	s.logger.Info("Seeding complete",
		zap.Int("seeded", report.Seeded),
		zap.Int("skipped", report.Skipped))

	return report, nil
}

// patternExists reports whether a (key, target) pattern is already stored
func (s *Seeder) patternExists(ctx context.Context, key, target string) (bool, error) {
	patterns, err := s.store.Lookup(ctx, key)
	if err != nil {
		return false, err
	}
	for _, p := range patterns {
		if p.TargetColumn == target {
			return true, nil
		}
	}
	return false, nil
}
