package categorizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "returnscli/internal/errors"
	"returnscli/pkg/contracts/domain"
)

// Category is one named entry of the keyword table.
type Category struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"min=1,dive,required"`
}

// tableFile is the YAML layout accepted by LoadTable.
type tableFile struct {
	Categories []Category `yaml:"categories" validate:"min=1,dive"`
}

// Table is an ordered, immutable category table. Its order is the
// tie-break order of the categorizer.
type Table struct {
	categories []Category
	index      map[string]int
}

var validate = validator.New()

// NewTable validates and copies categories. Keywords are trimmed and
// lowercased; names must be unique and must not collide with "Other".
func NewTable(categories []Category) (*Table, error) {
	file := tableFile{Categories: categories}
	if err := validate.Struct(file); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid category table", err)
	}

	t := &Table{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("category %d has a blank name", i))
		}
		if name == domain.CategoryOther {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("category name %q is reserved", name))
		}
		if _, dup := t.index[name]; dup {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("duplicate category %q", name))
		}

		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, apperrors.NewAppValidationError(fmt.Sprintf("category %q has a blank keyword", name))
			}
			keywords = append(keywords, kw)
		}

		t.index[name] = len(t.categories)
		t.categories = append(t.categories, Category{Name: name, Keywords: keywords})
	}
	return t, nil
}

// MustNewTable is NewTable for static tables; it panics on invalid input.
func MustNewTable(categories []Category) *Table {
	t, err := NewTable(categories)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTable reads a YAML file of the form
//
//	categories:
//	  - name: Ethnic Wear
//	    keywords: [saree, kurta]
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read category table", err).WithContext("path", path)
	}

	var file tableFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, apperrors.NewParsingError("failed to parse category table", err).WithContext("path", path)
	}

	return NewTable(file.Categories)
}

// Len returns the number of categories.
func (t *Table) Len() int {
	return len(t.categories)
}

// Categories returns a copy of the categories in table order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Names returns the category names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// Position returns the table index of name. Unknown names, including
// "Other", report false.
func (t *Table) Position(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// DefaultTable returns the built-in fashion marketplace table.
func DefaultTable() *Table {
	return defaultTable
}

var defaultTable = MustNewTable([]Category{
	{
		Name: "Ethnic Wear",
		Keywords: []string{
			"saree", "lehenga", "choli", "kurta", "dupatta", "suit", "ethnic", "traditional",
			"salwar", "kameez", "anarkali", "ghagra", "churidar", "palazzo", "sharara",
			"embroidered", "sequence", "work", "designer", "party", "wear", "heavy",
			"georgette", "crepe", "net", "organza", "velvet", "silk", "cotton",
		},
	},
	{
		Name: "Western Wear",
		Keywords: []string{
			"gown", "dress", "top", "bottom", "shirt", "western", "casual", "jeans",
			"trouser", "pant", "skirt", "blouse", "tank", "crop", "cami", "tunic", "maxi",
			"mini", "midi", "bodycon", "a-line", "wrap", "shift",
		},
	},
	{
		Name: "Beauty & Grooming",
		Keywords: []string{
			"hair", "straightener", "beauty", "grooming", "cosmetic", "makeup", "skincare",
			"haircare", "styling", "tools", "brush", "comb", "mirror",
		},
	},
	{
		Name: "Accessories",
		Keywords: []string{
			"belt", "jewelry", "bag", "accessory", "jewellery", "necklace", "earring",
			"bracelet", "ring", "watch", "scarf", "shawl", "handbag", "purse",
		},
	},
	{
		Name: "Home & Living",
		Keywords: []string{
			"home", "living", "decor", "furniture", "kitchen", "bedding", "curtain",
			"cushion", "pillow", "blanket", "towel", "carpet", "rug",
		},
	},
	{
		Name: "Electronics",
		Keywords: []string{
			"electronic", "gadget", "device", "machine", "phone", "mobile", "charger",
			"cable", "headphone", "speaker", "camera", "laptop", "tablet",
		},
	},
})
