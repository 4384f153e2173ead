package database

type migration struct {
	version string
	sql     string
}

// migrations are applied in order; each runs at most once.
var migrations = []migration{
	{
		version: "001_initial",
		sql: `
CREATE TABLE sessions (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	brief TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE session_messages (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	role TEXT NOT NULL,
	text TEXT NOT NULL,
	ts INTEGER NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE TABLE session_todos (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	id TEXT NOT NULL,
	text TEXT NOT NULL,
	status TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE TABLE session_approvals (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	ts INTEGER NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE TABLE users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`,
	},
}
