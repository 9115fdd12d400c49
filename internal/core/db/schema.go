package db

func (db *DB) initSchema() error {
	schema := `
	-- Sessions table
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT UNIQUE NOT NULL,
		project_path TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_active DATETIME DEFAULT CURRENT_TIMESTAMP,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'active'
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_path);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_active ON sessions(last_active);

	-- File read events
	CREATE TABLE IF NOT EXISTS file_reads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		file_path TEXT NOT NULL,
		file_hash TEXT,
		read_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		context TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_file_reads_session ON file_reads(session_id);

	-- File change events
	CREATE TABLE IF NOT EXISTS changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		file_path TEXT NOT NULL,
		change_type TEXT NOT NULL,
		description TEXT,
		before_hash TEXT,
		after_hash TEXT,
		changed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_changes_session ON changes(session_id);

	-- Test run events
	CREATE TABLE IF NOT EXISTS tests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		command TEXT NOT NULL,
		result TEXT NOT NULL,
		output TEXT,
		run_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tests_session ON tests(session_id);

	-- Note events (tags stored as a JSON array, NULL when absent)
	CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		content TEXT NOT NULL,
		tags TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_notes_session ON notes(session_id);

	-- Error events
	CREATE TABLE IF NOT EXISTS errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		error_type TEXT NOT NULL,
		error_message TEXT NOT NULL,
		file_path TEXT,
		context TEXT,
		occurred_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_errors_session ON errors(session_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}
