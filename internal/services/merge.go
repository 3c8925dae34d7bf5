// internal/services/merge.go
package services

import "github.com/javajoker/catalog-backend/internal/models"

// ProductPatch holds the incoming values of an upsert.
type ProductPatch struct {
	Description string
	Document    *UploadResult // nil when no file was uploaded
}

// mergeRule overwrites one stored field when the patch carries a usable value.
type mergeRule struct {
	Fields    []string
	Overwrite func(ProductPatch) bool
	Apply     func(*models.Product, ProductPatch)
}

var productMergeRules = []mergeRule{
	{
		Fields:    []string{"Description"},
		Overwrite: func(p ProductPatch) bool { return p.Description != "" },
		Apply:     func(dst *models.Product, p ProductPatch) { dst.Description = p.Description },
	},
	{
		Fields:    []string{"DocumentURL", "DocumentKey"},
		Overwrite: func(p ProductPatch) bool { return p.Document != nil },
		Apply: func(dst *models.Product, p ProductPatch) {
			dst.DocumentURL = p.Document.URL
			dst.DocumentKey = p.Document.Key
		},
	},
}

// MergeProduct applies patch to existing and returns the result together
// with the struct fields that were overwritten.
func MergeProduct(existing models.Product, patch ProductPatch) (models.Product, []string) {
	return mergeWith(productMergeRules, existing, patch)
}

func mergeWith(rules []mergeRule, existing models.Product, patch ProductPatch) (models.Product, []string) {
	merged := existing
	var changed []string
	for _, rule := range rules {
		if !rule.Overwrite(patch) {
			continue
		}
		rule.Apply(&merged, patch)
		changed = append(changed, rule.Fields...)
	}
	return merged, changed
}

// NewProduct builds the record stored on the first write for an article number.
func NewProduct(articleNumber string, patch ProductPatch) models.Product {
	product, _ := MergeProduct(models.Product{ArticleNumber: articleNumber}, patch)
	return product
}
