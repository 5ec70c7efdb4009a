package profiles

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

// File is the YAML layout of a custom profile file:
//
//	profiles:
//	  - key: shopify
//	    label: Shopify product export
//	    default_game: Pokemon TCG
//	    name: [title]
//	    price: [variant price]
//	    quantity: [variant inventory qty]
type File struct {
	Profiles []FileProfile `yaml:"profiles"`
}

// FileProfile is one profile entry. Omitted alias lists fall back to the
// generic profile.
type FileProfile struct {
	Key         string   `yaml:"key"`
	Label       string   `yaml:"label"`
	DefaultGame string   `yaml:"default_game"`
	Game        []string `yaml:"game"`
	Set         []string `yaml:"set"`
	Name        []string `yaml:"name"`
	Number      []string `yaml:"number"`
	Condition   []string `yaml:"condition"`
	Finish      []string `yaml:"finish"`
	Price       []string `yaml:"price"`
	Quantity    []string `yaml:"quantity"`
	Location    []string `yaml:"location"`
	Image       []string `yaml:"image"`
}

// Profile converts the entry to a core.Profile with generic fallbacks.
func (fp FileProfile) Profile() core.Profile {
	return core.Profile{
		Key:         strings.TrimSpace(fp.Key),
		Label:       fp.Label,
		DefaultGame: fp.DefaultGame,
		Game:        fp.Game,
		Set:         fp.Set,
		Name:        fp.Name,
		Number:      fp.Number,
		Condition:   fp.Condition,
		Finish:      fp.Finish,
		Price:       fp.Price,
		Quantity:    fp.Quantity,
		Location:    fp.Location,
		Image:       fp.Image,
	}.Inherit(Generic)
}

// Parse decodes a profile file and validates every entry without
// registering anything.
func Parse(data []byte) ([]core.Profile, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	var errs []error
	seen := make(map[string]bool)
	result := make([]core.Profile, 0, len(f.Profiles))
	for i, fp := range f.Profiles {
		p := fp.Profile()
		switch {
		case p.Key == "":
			errs = append(errs, fmt.Errorf("profile %d: key is required", i+1))
			continue
		case seen[p.Key]:
			errs = append(errs, fmt.Errorf("profile %d: duplicate key %q", i+1, p.Key))
			continue
		}
		if _, exists := core.GetProfile(p.Key); exists {
			errs = append(errs, fmt.Errorf("profile %d: key %q is already registered", i+1, p.Key))
			continue
		}
		seen[p.Key] = true
		result = append(result, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

// LoadFile reads a YAML profile file and registers every profile in it.
// Nothing is registered if any entry is invalid.
func LoadFile(path string) ([]core.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	loaded, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, p := range loaded {
		core.RegisterProfile(p)
	}
	return loaded, nil
}
