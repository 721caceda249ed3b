package postgres

// SQL queries for archived report fragments

const (
	queryFragmentsTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'report_fragments'
		)
	`

	// querySaveFragment upserts one fragment. A republished day replaces the stored body.
	querySaveFragment = `
		INSERT INTO report_fragments (env, name, day, ext, body, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (env, name, day, ext)
		DO UPDATE SET body = EXCLUDED.body, archived_at = EXCLUDED.archived_at
	`

	queryFetchFragment = `
		SELECT body
		FROM report_fragments
		WHERE env = $1 AND name = $2 AND day = $3 AND ext = $4
	`

	// queryArchivedDays lists stored days in [start, finish).
	queryArchivedDays = `
		SELECT day
		FROM report_fragments
		WHERE env = $1 AND name = $2 AND ext = $3 AND day >= $4 AND day < $5
		ORDER BY day ASC
	`
)
