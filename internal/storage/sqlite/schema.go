package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS chat_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	user_message TEXT NOT NULL,
	ai_response TEXT NOT NULL,
	location_data TEXT,
	timestamp DATETIME NOT NULL,
	intent TEXT,
	entities TEXT
);

CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history(session_id, id);

CREATE TABLE IF NOT EXISTS user_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL UNIQUE,
	current_location TEXT,
	preferences TEXT,
	created_at DATETIME NOT NULL,
	last_activity DATETIME NOT NULL
);
`
