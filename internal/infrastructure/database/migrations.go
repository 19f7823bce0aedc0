package database

import migrate "github.com/rubenv/sql-migrate"

var migrationSources = map[string]*migrate.MemoryMigrationSource{
	DialectPostgres: {
		Migrations: []*migrate.Migration{
			{
				Id: "0001_survey_snapshots",
				Up: []string{`CREATE TABLE IF NOT EXISTS survey_snapshots (
					id VARCHAR(64) PRIMARY KEY,
					sessions JSONB NOT NULL DEFAULT '{}'::jsonb,
					results JSONB NOT NULL DEFAULT '{}'::jsonb,
					session_count INTEGER NOT NULL DEFAULT 0,
					record_count INTEGER NOT NULL DEFAULT 0,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`},
				Down: []string{`DROP TABLE IF EXISTS survey_snapshots`},
			},
		},
	},
	DialectSQLite: {
		Migrations: []*migrate.Migration{
			{
				Id: "0001_survey_snapshots",
				Up: []string{`CREATE TABLE IF NOT EXISTS survey_snapshots (
					id TEXT PRIMARY KEY,
					sessions TEXT NOT NULL DEFAULT '{}',
					results TEXT NOT NULL DEFAULT '{}',
					session_count INTEGER NOT NULL DEFAULT 0,
					record_count INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`},
				Down: []string{`DROP TABLE IF EXISTS survey_snapshots`},
			},
		},
	},
}
