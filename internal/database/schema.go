package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL statements executed at startup.  Every statement
// is idempotent (CREATE TABLE IF NOT EXISTS / INSERT IGNORE) so the
// bootstrap can run on every boot without a separate migration tool.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        email         VARCHAR(255) NOT NULL UNIQUE,
        password_hash VARCHAR(255) NOT NULL,
        role          VARCHAR(32)  NOT NULL,
        is_active     TINYINT(1)   NOT NULL DEFAULT 1,
        created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    ) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
        id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id    BIGINT UNSIGNED NOT NULL,
        token_hash CHAR(64) NOT NULL UNIQUE,
        expires_at DATETIME NOT NULL,
        revoked_at DATETIME NULL,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    ) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS dining_tables (
        number   INT UNSIGNED PRIMARY KEY,
        capacity INT UNSIGNED NOT NULL
    ) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS products (
        id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        name        VARCHAR(255) NOT NULL,
        price_cents BIGINT NOT NULL
    ) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS reservations (
        id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        customer_name VARCHAR(255) NOT NULL,
        contact_email VARCHAR(255) NOT NULL,
        res_date      DATE NOT NULL,
        res_hour      TINYINT UNSIGNED NOT NULL,
        table_number  INT UNSIGNED NULL,
        party_size    INT UNSIGNED NOT NULL,
        status        ENUM('PENDING','CONFIRMED','IN_PROGRESS','CLOSED','CANCELLED') NOT NULL DEFAULT 'PENDING',
        created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        CONSTRAINT fk_res_table FOREIGN KEY (table_number) REFERENCES dining_tables(number),
        INDEX idx_res_table_date (table_number, res_date),
        INDEX idx_res_status (status)
    ) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS reservation_orders (
        id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        reservation_id BIGINT UNSIGNED NOT NULL,
        seat_no        INT UNSIGNED NOT NULL,
        position       INT UNSIGNED NOT NULL,
        item_name      VARCHAR(255) NOT NULL,
        price_cents    BIGINT NOT NULL,
        created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        CONSTRAINT fk_order_res FOREIGN KEY (reservation_id) REFERENCES reservations(id) ON DELETE CASCADE,
        UNIQUE KEY uq_order_slot (reservation_id, seat_no, position)
    ) ENGINE=InnoDB`,
}

// seedTables inserts the twelve dining tables the floor is laid out with.
// INSERT IGNORE keeps reboots from duplicating rows and leaves manually
// adjusted capacities alone.
const seedTables = `INSERT IGNORE INTO dining_tables (number, capacity) VALUES
    (1,4),(2,4),(3,4),(4,4),(5,6),(6,6),(7,6),(8,6),(9,2),(10,2),(11,8),(12,8)`

// Bootstrap creates the schema and seeds the static table layout.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	if _, err := db.ExecContext(ctx, seedTables); err != nil {
		return fmt.Errorf("seed dining_tables: %w", err)
	}
	return nil
}
