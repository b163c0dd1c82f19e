// Package store provides SQLite-based persistence for the skillforge
// learning loop: raw failure observations, aggregated patterns, and the
// schema version bookkeeping shared by every process that touches the file.
package store

// Schema version constants.
//
// Version history:
//   - V1: observations + patterns
//   - V2: patterns.dismissed column and the review candidate index
const (
	// SchemaVersion is the current supported schema version.
	// Operations refuse to run if the store version exceeds this.
	SchemaVersion = 2
)

// schemaV1 creates the initial schema.
const schemaV1 = `
-- Schema version bookkeeping
CREATE TABLE IF NOT EXISTS schema_version (
  version     INTEGER PRIMARY KEY,
  applied_ms  INTEGER NOT NULL
);

-- Raw failure sightings (append-only, never deduplicated)
CREATE TABLE IF NOT EXISTS observations (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  created_ms   INTEGER NOT NULL DEFAULT (CAST(strftime('%s','now') AS INTEGER) * 1000),
  category     TEXT NOT NULL CHECK(category IN ('missing','excess','style','other')),
  situation    TEXT NOT NULL CHECK(length(situation) <= 500),
  expectation  TEXT NOT NULL CHECK(length(expectation) <= 1000),
  file_path    TEXT,
  notes        TEXT,
  session_id   TEXT
);

CREATE INDEX IF NOT EXISTS idx_observations_created ON observations(created_ms);
CREATE INDEX IF NOT EXISTS idx_observations_situation ON observations(situation);

-- Aggregated fix patterns, keyed by content
CREATE TABLE IF NOT EXISTS patterns (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  situation      TEXT NOT NULL CHECK(length(situation) <= 500),
  instruction    TEXT NOT NULL CHECK(length(instruction) <= 2000),
  count          INTEGER NOT NULL DEFAULT 1 CHECK(count >= 1),
  first_seen_ms  INTEGER NOT NULL,
  last_seen_ms   INTEGER NOT NULL,
  promoted       INTEGER NOT NULL DEFAULT 0,
  skill_path     TEXT,
  UNIQUE(situation, instruction)
);

CREATE INDEX IF NOT EXISTS idx_patterns_count ON patterns(count DESC);
`

// schemaV2 adds the dismissed flag so a declined pattern is never
// surfaced again until explicitly reset, plus the candidate lookup index.
const schemaV2 = `
ALTER TABLE patterns ADD COLUMN dismissed INTEGER NOT NULL DEFAULT 0;

CREATE INDEX IF NOT EXISTS idx_patterns_review
  ON patterns(promoted, dismissed, count DESC);
`

// AllTables lists every table the schema must contain after migration.
var AllTables = []string{
	"schema_version",
	"observations",
	"patterns",
}

// AllIndexes lists every index the schema must contain after migration.
var AllIndexes = []string{
	"idx_observations_created",
	"idx_observations_situation",
	"idx_patterns_count",
	"idx_patterns_review",
}
