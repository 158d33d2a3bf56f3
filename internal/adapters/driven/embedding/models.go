package embedding

import (
	"sort"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// DefaultModel is used when no model is configured. It is the cheapest
// hosted model with acceptable quality for retrieval workloads.
const DefaultModel = "text-embedding-3-small"

// DefaultDimensions is the vector width of DefaultModel, also used as
// the fallback for models missing from the registry.
const DefaultDimensions = 1536

// modelDimensions maps known embedding models to their vector widths.
// Hosted OpenAI models first, then the local Ollama models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
}

// ValidateModel reports whether model is in the registry. Unknown
// models are rejected so a typo in settings fails fast instead of
// producing vectors with a surprise dimension.
func ValidateModel(model string) error {
	if model == "" {
		return domain.NewValidationError("model", "embedding model is required")
	}
	if _, ok := modelDimensions[model]; !ok {
		return domain.NewValidationError("model", "unknown embedding model: "+model)
	}
	return nil
}

// DimensionsFor returns the vector width for model, or
// DefaultDimensions when the model is not in the registry.
func DimensionsFor(model string) int {
	if d, ok := modelDimensions[model]; ok {
		return d
	}
	return DefaultDimensions
}

// SupportedModels returns the registry keys in sorted order.
func SupportedModels() []string {
	models := make([]string, 0, len(modelDimensions))
	for m := range modelDimensions {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
