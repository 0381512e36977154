package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed decks/default.yaml
var defaultDeckYAML []byte

var (
	ErrEmptyDeck         = errors.New("deck has no categories")
	ErrBlankCategoryName = errors.New("deck category name is blank")
	ErrDuplicateCategory = errors.New("deck category name is duplicated")
)

// Deck is an ordered set of categories and their questions
type Deck struct {
	Categories []DeckCategory `yaml:"categories"`
}

// DeckCategory is one category of a deck with its ordered question texts
type DeckCategory struct {
	Name      string   `yaml:"name"`
	Emoji     string   `yaml:"emoji"`
	Questions []string `yaml:"questions"`
}

// QuestionCount returns the number of questions across all categories
func (d Deck) QuestionCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Questions)
	}
	return n
}

// Validate checks that the deck has categories with unique, non-blank names
func (d Deck) Validate() error {
	if len(d.Categories) == 0 {
		return ErrEmptyDeck
	}
	seen := make(map[string]bool, len(d.Categories))
	for i, c := range d.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %d: %w", i, ErrBlankCategoryName)
		}
		if seen[c.Name] {
			return fmt.Errorf("category %q: %w", c.Name, ErrDuplicateCategory)
		}
		seen[c.Name] = true
	}
	return nil
}

// ParseDeck decodes and validates a YAML deck
func ParseDeck(r io.Reader) (Deck, error) {
	var deck Deck
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&deck); err != nil {
		return Deck{}, fmt.Errorf("failed to parse deck: %w", err)
	}
	if err := deck.Validate(); err != nil {
		return Deck{}, err
	}
	return deck, nil
}

// DefaultDeck returns the built-in deck
func DefaultDeck() Deck {
	deck, err := ParseDeck(bytes.NewReader(defaultDeckYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded default deck is invalid: %v", err))
	}
	return deck
}

// LoadDeck reads a deck file, or returns the built-in deck when path is empty
func LoadDeck(path string) (Deck, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultDeck(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Deck{}, fmt.Errorf("failed to open deck: %w", err)
	}
	defer f.Close()
	return ParseDeck(f)
}
