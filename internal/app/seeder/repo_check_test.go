package seeder_test

import (
	"github.com/heartmarshall/lessico/internal/adapter/postgres/lexicon"
	"github.com/heartmarshall/lessico/internal/app/seeder"
)

// Compile-time check: *lexicon.Repo must satisfy LexiconBulkRepo.
var _ seeder.LexiconBulkRepo = (*lexicon.Repo)(nil)
