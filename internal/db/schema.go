package db

import (
	"database/sql"
	"fmt"

	"github.com/erazemk/assetinv/internal/config"
)

// sqliteSchema is the full SQLite database schema.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
    id         INTEGER PRIMARY KEY,
    username   TEXT NOT NULL,
    email      TEXT NOT NULL,
    password   TEXT NOT NULL,
    role       TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'Active',
    last_login DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_admin_users_email ON admin_users(email)`,

	`CREATE TABLE IF NOT EXISTS inventory_items (
    id                  INTEGER PRIMARY KEY,
    tag_id              TEXT NOT NULL,
    sn_description      TEXT,
    category            TEXT,
    dept_area           TEXT,
    office              TEXT,
    designation         TEXT,
    assignee            TEXT,
    email_address       TEXT,
    mobile_number       TEXT,
    date_issued         DATE,
    supplier            TEXT,
    warranty_expiration DATE,
    status              TEXT,
    condition_status    TEXT,
    unit_value          DECIMAL(15,2) NOT NULL DEFAULT 0,
    qty                 INTEGER NOT NULL DEFAULT 1,
    total_value         DECIMAL(15,2) NOT NULL DEFAULT 0,
    model_no            TEXT,
    serial_no           TEXT,
    remarks             TEXT,
    chain_of_ownership  TEXT,
    previous_owner      TEXT,
    remarks_date        DATETIME,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_items_tag_id ON inventory_items(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_items_model_no ON inventory_items(model_no)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_items_serial_no ON inventory_items(serial_no)`,

	`CREATE TABLE IF NOT EXISTS settings (
    name  TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`,
}

// mysqlSchema mirrors sqliteSchema for MySQL. Each statement is executed on
// its own because the driver does not enable multi-statement queries.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS admin_users (
    id         INT AUTO_INCREMENT PRIMARY KEY,
    username   VARCHAR(100) NOT NULL,
    email      VARCHAR(255) NOT NULL,
    password   VARCHAR(255) NOT NULL,
    role       VARCHAR(50) NOT NULL,
    status     VARCHAR(50) NOT NULL DEFAULT 'Active',
    last_login DATETIME NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY idx_admin_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS inventory_items (
    id                  INT AUTO_INCREMENT PRIMARY KEY,
    tag_id              VARCHAR(32) NOT NULL,
    sn_description      TEXT NULL,
    category            VARCHAR(100) NULL,
    dept_area           VARCHAR(100) NULL,
    office              VARCHAR(100) NULL,
    designation         VARCHAR(100) NULL,
    assignee            VARCHAR(255) NULL,
    email_address       VARCHAR(255) NULL,
    mobile_number       VARCHAR(50) NULL,
    date_issued         DATE NULL,
    supplier            VARCHAR(255) NULL,
    warranty_expiration DATE NULL,
    status              VARCHAR(50) NULL,
    condition_status    VARCHAR(50) NULL,
    unit_value          DECIMAL(15,2) NOT NULL DEFAULT 0,
    qty                 INT NOT NULL DEFAULT 1,
    total_value         DECIMAL(15,2) NOT NULL DEFAULT 0,
    model_no            VARCHAR(100) NULL,
    serial_no           VARCHAR(100) NULL,
    remarks             TEXT NULL,
    chain_of_ownership  TEXT NULL,
    previous_owner      VARCHAR(255) NULL,
    remarks_date        DATETIME NULL,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY idx_inventory_items_tag_id (tag_id),
    KEY idx_inventory_items_model_no (model_no),
    KEY idx_inventory_items_serial_no (serial_no)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS settings (
    name  VARCHAR(100) PRIMARY KEY,
    value TEXT NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case config.DriverMySQL:
		stmts = mysqlSchema
	case config.DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
