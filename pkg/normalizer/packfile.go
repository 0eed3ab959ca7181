// pkg/normalizer/packfile.go
package normalizer

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/catalogkit/colmatch/pkg/model"
)

// packFile is the on-disk overlay format. Each section extends one
// language pack:
//
//	[packs.fr]
//	stopwords = ["promo"]
//	[packs.fr.synonyms]
//	tarif = "price"
//	[packs.fr.phrases]
//	"code ean" = ["barcode"]
type packFile struct {
	Packs map[string]packOverlay `toml:"packs"`
}

type packOverlay struct {
	Synonyms  map[string]string   `toml:"synonyms"`
	Phrases   map[string][]string `toml:"phrases"`
	Stopwords []string            `toml:"stopwords"`
}

// LoadOverlay merges a TOML pack file into the built-in tables. Entries
// for a language without a built-in pack create a new pack, so callers
// can teach the normalizer additional languages. Overlay entries win
// over built-in ones
func (n *Normalizer) LoadOverlay(path string) error {
	var file packFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("failed to parse pack overlay %s: %w", path, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for tag, overlay := range file.Packs {
		language := model.ParseLanguage(tag)
		if language == "" {
			return fmt.Errorf("pack overlay %s: empty language tag", path)
		}

		pack, ok := n.packs[language]
		if !ok {
			pack = newPack(map[string]string{}, map[string][]string{})
			n.packs[language] = pack
		}

		for synonym, canonical := range overlay.Synonyms {
			pack.Synonyms[NormalizeText(synonym)] = NormalizeText(canonical)
		}
		for phrase, canonical := range overlay.Phrases {
			mapped := make([]string, 0, len(canonical))
			for _, token := range canonical {
				mapped = append(mapped, NormalizeText(token))
			}
			pack.Phrases[NormalizeText(phrase)] = mapped
		}
		for _, stopword := range overlay.Stopwords {
			pack.Stopwords[NormalizeText(stopword)] = struct{}{}
		}
	}

	return nil
}
