package db

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"public-notes/config"
)

const mysqlDuplicateEntry = 1062

type dialect struct {
	name           string
	driver         string
	dsn            func(config.Database) string
	schema         []string
	tableExists    string
	isDuplicateKey func(error) bool
}

func dialectFor(name string) (dialect, error) {
	switch name {
	case "mysql":
		return mysqlDialect, nil
	case "sqlite":
		return sqliteDialect, nil
	}
	return dialect{}, fmt.Errorf("unsupported database driver %q", name)
}

var mysqlDialect = dialect{
	name:   "mysql",
	driver: "mysql",
	dsn: func(cfg config.Database) string {
		c := mysql.NewConfig()
		c.User = cfg.User
		c.Passwd = cfg.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		c.DBName = cfg.Name
		return c.FormatDSN()
	},
	schema: []string{`
	CREATE TABLE IF NOT EXISTS notes (
		tag BIGINT NOT NULL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		text VARCHAR(2000) NOT NULL,
		INDEX idx_notes_email (email)
	) DEFAULT CHARSET = utf8mb4;`},
	tableExists: `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`,
	isDuplicateKey: func(err error) bool {
		var me *mysql.MySQLError
		return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
	},
}

var sqliteDialect = dialect{
	name:   "sqlite",
	driver: "sqlite",
	// Every transaction, reads included, begins IMMEDIATE and so holds the
	// write lock: readers queue behind writers for up to busy_timeout.
	dsn: func(cfg config.Database) string {
		q := url.Values{}
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "journal_mode(WAL)")
		q.Set("_txlock", "immediate")
		return "file:" + cfg.Path + "?" + q.Encode()
	},
	schema: []string{`
	CREATE TABLE IF NOT EXISTS notes (
		tag INTEGER NOT NULL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		text VARCHAR(2000) NOT NULL
	);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_email ON notes (email);`,
	},
	tableExists: `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
	isDuplicateKey: func(err error) bool {
		var se *sqlite.Error
		if !errors.As(err, &se) {
			return false
		}
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return false
	},
}
