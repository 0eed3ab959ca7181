// pkg/normalizer/packs.go
package normalizer

import "github.com/catalogkit/colmatch/pkg/model"

// Pack holds the normalization tables for one language. All keys are in
// NormalizeText form; Synonyms map a single token to its canonical
// token, Phrases map a whole normalized header to its canonical tokens,
// Stopwords are dropped during token mapping
type Pack struct {
	Synonyms  map[string]string
	Phrases   map[string][]string
	Stopwords map[string]struct{}
}

func newPack(synonyms map[string]string, phrases map[string][]string, stopwords ...string) *Pack {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[w] = struct{}{}
	}
	if phrases == nil {
		phrases = map[string][]string{}
	}
	return &Pack{Synonyms: synonyms, Phrases: phrases, Stopwords: stops}
}

// builtinPacks returns the packs for the seven supported languages.
// Fiscal qualifiers (HT, TTC, VAT and their per-language equivalents)
// are stopwords everywhere: "prix unitaire HT" and "prix unitaire"
// produce the same key
func builtinPacks() map[model.Language]*Pack {
	return map[model.Language]*Pack{
		model.LanguageFrench: newPack(
			map[string]string{
				// Identifiers
				"reference": "reference", "ref": "reference", "code": "reference",
				"sku": "reference", "article": "reference",
				"ean": "barcode", "ean13": "barcode", "upc": "barcode",
				"gtin": "barcode", "codebar": "barcode",
				// Labels and descriptions
				"libelle": "label", "nom": "label", "titre": "label",
				"intitule": "label", "designation": "description",
				"description": "description", "descriptif": "description",
				"desc": "description",
				// Prices
				"prix": "price", "tarif": "price", "cout": "price",
				"unitaire": "unit", "achat": "purchase",
				// Classification
				"categorie": "category", "rubrique": "category",
				"famille": "category", "marque": "brand",
				"fabricant": "brand", "modele": "model",
				// Attributes
				"couleur": "color", "coloris": "color", "taille": "size",
				"dimension": "size", "poids": "weight", "matiere": "material",
				"materiau": "material",
				// Stock
				"stock": "stock", "inventaire": "stock",
				"disponibilite": "stock", "dispo": "stock",
				"quantite": "quantity", "qte": "quantity",
				// Media and dimensions
				"image": "image", "photo": "image", "img": "image",
				"visuel": "image", "lien": "url", "url": "url",
				"longueur": "length", "largeur": "width", "hauteur": "height",
				// Relations
				"fournisseur": "supplier", "livraison": "delivery",
				"delai": "delivery",
			},
			map[string][]string{
				"code barre":     {"barcode"},
				"code barres":    {"barcode"},
				"code a barres":  {"barcode"},
				"sous categorie": {"subcategory"},
				"sous famille":   {"subcategory"},
			},
			"de", "du", "des", "le", "la", "les", "un", "une", "et", "en",
			"au", "aux", "pour", "par", "sur", "avec", "sans",
			"ht", "ttc", "tva", "net", "brut", "public", "minimum",
			"maximum", "total", "base",
		),

		model.LanguageEnglish: newPack(
			map[string]string{
				"reference": "reference", "ref": "reference", "code": "reference",
				"sku": "reference", "item": "reference", "article": "reference",
				"ean": "barcode", "ean13": "barcode", "upc": "barcode",
				"gtin": "barcode", "barcode": "barcode",
				"name": "label", "title": "label", "label": "label",
				"description": "description", "desc": "description",
				"price": "price", "cost": "price", "rrp": "price",
				"unit": "unit", "purchase": "purchase", "buying": "purchase",
				"category": "category", "family": "category",
				"subcategory": "subcategory",
				"brand":       "brand", "manufacturer": "brand", "maker": "brand",
				"model": "model", "colour": "color", "color": "color",
				"size": "size", "weight": "weight", "material": "material",
				"stock": "stock", "inventory": "stock", "availability": "stock",
				"quantity": "quantity", "qty": "quantity",
				"image": "image", "photo": "image", "picture": "image",
				"pic": "image", "img": "image", "url": "url", "link": "url",
				"length": "length", "width": "width", "height": "height",
				"supplier": "supplier", "vendor": "supplier",
				"delivery": "delivery",
			},
			map[string][]string{
				"bar code":    {"barcode"},
				"sub category": {"subcategory"},
				"part number": {"reference"},
				"item number": {"reference"},
			},
			"the", "a", "an", "of", "for", "in", "on", "at", "per", "and",
			"excl", "incl", "vat", "tax", "net", "gross", "public",
			"minimum", "maximum", "total", "base",
		),

		model.LanguageItalian: newPack(
			map[string]string{
				"codice": "reference", "articolo": "reference",
				"item": "reference", "sku": "reference",
				"ean": "barcode", "ean13": "barcode",
				"nome": "label", "titolo": "label", "denominazione": "label",
				"descrizione": "description", "desc": "description",
				"prezzo": "price", "unitario": "unit",
				"acquisto": "purchase",
				"categoria": "category", "sottocategoria": "subcategory",
				"marca": "brand", "marchio": "brand", "fabbricante": "brand",
				"modello": "model", "colore": "color",
				"taglia": "size", "dimensione": "size",
				"peso": "weight", "materiale": "material",
				"disponibilita": "stock", "magazzino": "stock",
				"giacenza": "stock", "quantita": "quantity",
				"immagine": "image", "foto": "image",
				"lunghezza": "length", "larghezza": "width", "altezza": "height",
				"fornitore": "supplier", "consegna": "delivery",
			},
			map[string][]string{
				"codice a barre":  {"barcode"},
				"sotto categoria": {"subcategory"},
			},
			"di", "del", "della", "dei", "delle", "il", "lo", "la", "le",
			"gli", "un", "una", "e", "a", "da", "con", "per",
			"iva", "esclusa", "inclusa", "lordo", "netto", "pubblico",
			"minimo", "massimo", "totale", "base",
		),

		model.LanguageSpanish: newPack(
			map[string]string{
				"codigo": "reference", "referencia": "reference",
				"articulo": "reference", "sku": "reference",
				"ean": "barcode", "ean13": "barcode",
				"nombre": "label", "titulo": "label", "denominacion": "label",
				"descripcion": "description", "desc": "description",
				"precio": "price", "unitario": "unit",
				"compra": "purchase",
				"categoria": "category", "subcategoria": "subcategory",
				"marca": "brand", "fabricante": "brand", "modelo": "model",
				"color": "color", "talla": "size", "tamano": "size",
				"dimension": "size", "peso": "weight", "material": "material",
				"existencias": "stock", "disponibilidad": "stock",
				"almacen": "stock", "cantidad": "quantity",
				"imagen": "image", "foto": "image",
				"longitud": "length", "anchura": "width", "ancho": "width",
				"altura": "height", "alto": "height",
				"proveedor": "supplier", "entrega": "delivery",
			},
			map[string][]string{
				"codigo de barras": {"barcode"},
				"sub categoria":    {"subcategory"},
			},
			"de", "del", "la", "el", "los", "las", "un", "una", "y", "en",
			"con", "por", "para", "sin",
			"iva", "neto", "bruto", "publico", "minimo", "maximo",
			"total", "base",
		),

		model.LanguageGerman: newPack(
			map[string]string{
				"artikel": "reference", "artikelnummer": "reference",
				"artnr": "reference", "nummer": "reference", "sku": "reference",
				"ean": "barcode", "strichcode": "barcode", "barcode": "barcode",
				"name": "label", "bezeichnung": "label", "titel": "label",
				"beschreibung": "description",
				"preis": "price", "stuckpreis": "price", "einheit": "unit",
				"einkaufspreis": "purchase", "einkauf": "purchase",
				"kategorie": "category", "warengruppe": "category",
				"unterkategorie": "subcategory",
				"marke": "brand", "hersteller": "brand", "modell": "model",
				"farbe": "color",
				// Umlaut forms survive NormalizeText with the mark
				// stripped, sharp s intact
				"grose": "size", "große": "size", "grosse": "size",
				"groesse": "size",
				"gewicht": "weight", "material": "material",
				"bestand": "stock", "lager": "stock",
				"verfugbarkeit": "stock", "menge": "quantity",
				"anzahl": "quantity", "bild": "image", "foto": "image",
				"lange": "length", "laenge": "length",
				"breite": "width", "hohe": "height", "hoehe": "height",
				"lieferant": "supplier", "lieferung": "delivery",
				"lieferzeit": "delivery",
			},
			map[string][]string{
				"artikel nr": {"reference"},
				"art nr":     {"reference"},
			},
			"der", "die", "das", "ein", "eine", "und", "mit", "ohne", "je",
			"mwst", "ust", "netto", "brutto", "inkl", "exkl", "min", "max",
			"gesamt", "basis",
		),

		model.LanguagePortuguese: newPack(
			map[string]string{
				"codigo": "reference", "referencia": "reference",
				"artigo": "reference", "sku": "reference",
				"ean": "barcode", "ean13": "barcode",
				"nome": "label", "titulo": "label",
				"descricao": "description", "desc": "description",
				"preco": "price", "unitario": "unit",
				"compra": "purchase",
				"categoria": "category", "subcategoria": "subcategory",
				"marca": "brand", "fabricante": "brand", "modelo": "model",
				"cor": "color", "tamanho": "size",
				"peso": "weight", "material": "material",
				"estoque": "stock", "disponibilidade": "stock",
				"quantidade": "quantity",
				"imagem": "image", "foto": "image",
				"comprimento": "length", "largura": "width", "altura": "height",
				"fornecedor": "supplier", "entrega": "delivery",
			},
			map[string][]string{
				"codigo de barras": {"barcode"},
				"sub categoria":    {"subcategory"},
			},
			"de", "do", "da", "dos", "das", "o", "os", "as", "um", "uma",
			"e", "em", "com", "sem", "por", "para",
			"iva", "liquido", "bruto", "publico", "minimo", "maximo",
			"total", "base",
		),

		model.LanguageDutch: newPack(
			map[string]string{
				"artikel": "reference", "artikelnummer": "reference",
				"nummer": "reference", "sku": "reference",
				"ean": "barcode", "streepjescode": "barcode",
				"barcode": "barcode",
				"naam": "label", "titel": "label", "benaming": "label",
				"omschrijving": "description", "beschrijving": "description",
				"prijs": "price", "stukprijs": "price", "eenheid": "unit",
				"inkoopprijs": "purchase", "inkoop": "purchase",
				"categorie": "category", "subcategorie": "subcategory",
				"merk": "brand", "fabrikant": "brand", "model": "model",
				"kleur": "color", "maat": "size",
				"gewicht": "weight", "materiaal": "material",
				"voorraad": "stock", "beschikbaarheid": "stock",
				"aantal": "quantity", "hoeveelheid": "quantity",
				"afbeelding": "image", "foto": "image",
				"lengte": "length", "breedte": "width", "hoogte": "height",
				"leverancier": "supplier", "levering": "delivery",
				"levertijd": "delivery",
			},
			nil,
			"de", "het", "een", "van", "en", "met", "zonder", "per",
			"btw", "incl", "excl", "netto", "bruto", "totaal", "basis",
		),
	}
}
