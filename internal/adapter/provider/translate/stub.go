package translate

import (
	"context"
	"fmt"

	"github.com/heartmarshall/lessico/internal/domain"
)

// Stub is the translation provider used when translation is switched off.
// Every call fails with domain.ErrTranslationUnavailable, so lookups still
// return definitions with the unavailable marker.
type Stub struct{}

// NewStub creates a disabled translation provider.
func NewStub() *Stub { return &Stub{} }

// Translate always reports that no translation is available.
func (s *Stub) Translate(_ context.Context, _, sourceLang, targetLang string) (string, error) {
	return "", fmt.Errorf("translate: disabled (%s->%s): %w", sourceLang, targetLang, domain.ErrTranslationUnavailable)
}
