package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	message_num  INTEGER PRIMARY KEY AUTOINCREMENT,
	mailing_list TEXT NOT NULL,
	uidvalidity  INTEGER NOT NULL,
	uid          INTEGER NOT NULL,
	from_name    TEXT,
	from_addr    TEXT,
	subject      TEXT,
	date         TEXT,
	message_id   TEXT,
	in_reply_to  TEXT,
	message      BLOB,
	FOREIGN KEY (mailing_list) REFERENCES lists (name)
);

CREATE INDEX IF NOT EXISTS idx_messages_mailing_list ON messages(mailing_list);
CREATE INDEX IF NOT EXISTS idx_messages_from_addr    ON messages(from_addr);
CREATE INDEX IF NOT EXISTS idx_messages_date         ON messages(date);
CREATE INDEX IF NOT EXISTS idx_messages_subject      ON messages(subject);
CREATE INDEX IF NOT EXISTS idx_messages_message_id   ON messages(message_id);
CREATE INDEX IF NOT EXISTS idx_messages_in_reply_to  ON messages(in_reply_to);

CREATE TABLE IF NOT EXISTS messages_to (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	message_num INTEGER,
	to_name     TEXT,
	to_addr     TEXT,
	FOREIGN KEY (message_num) REFERENCES messages (message_num)
);

CREATE INDEX IF NOT EXISTS idx_messages_to_message_num ON messages_to(message_num);
CREATE INDEX IF NOT EXISTS idx_messages_to_to_addr     ON messages_to(to_addr);

CREATE TABLE IF NOT EXISTS messages_cc (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	message_num INTEGER,
	cc_name     TEXT,
	cc_addr     TEXT,
	FOREIGN KEY (message_num) REFERENCES messages (message_num)
);

CREATE INDEX IF NOT EXISTS idx_messages_cc_message_num ON messages_cc(message_num);
CREATE INDEX IF NOT EXISTS idx_messages_cc_cc_addr     ON messages_cc(cc_addr);

CREATE TABLE IF NOT EXISTS lists (
	name       TEXT NOT NULL PRIMARY KEY,
	msg_count  INTEGER,
	first_date TEXT,
	last_date  TEXT
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_at    DATETIME NOT NULL,
	finished_at   DATETIME,
	folder_count  INTEGER NOT NULL DEFAULT 0,
	message_count INTEGER NOT NULL DEFAULT 0
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
