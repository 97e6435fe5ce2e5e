package filedb

const schemaSQL = `
CREATE TABLE IF NOT EXISTS files (
  key TEXT NOT NULL,
  time_stamp INTEGER NOT NULL,
  data BLOB,
  PRIMARY KEY (key, time_stamp)
);
`

const (
	insertFileSQL     = "INSERT INTO files (key, time_stamp, data) VALUES (?, ?, ?)"
	retrieveFileSQL   = "SELECT data FROM files WHERE key = ? AND time_stamp = ?"
	retrieveLatestSQL = "SELECT time_stamp, data FROM files WHERE key = ? ORDER BY time_stamp DESC LIMIT 1"
	listAllSQL        = "SELECT key, time_stamp FROM files"
	listTimestampsSQL = "SELECT time_stamp FROM files WHERE key = ? ORDER BY time_stamp ASC"
	deleteExpiredSQL  = "DELETE FROM files WHERE time_stamp < ?"
)
