package db

import (
	"database/sql"
	"fmt"
	"log"

	"postline/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createPostsTable(); err != nil {
		return err
	}
	if err := createCommentsTable(); err != nil {
		return err
	}
	if err := createLikesTable(); err != nil {
		return err
	}
	if err := createTokensTable(); err != nil {
		return err
	}
	log.Println("Database schema initialized.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		user_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		is_email_public BOOLEAN NOT NULL DEFAULT FALSE,
		is_name_public BOOLEAN NOT NULL DEFAULT TRUE,
		verified_at DATETIME NULL,
		role CHAR(1) NOT NULL DEFAULT 'U',
		avatar_path VARCHAR(512) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createPostsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS posts (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		user_id CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_posts_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create posts table: %w", err)
	}
	return nil
}

func createCommentsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS comments (
		id CHAR(36) PRIMARY KEY,
		content TEXT NOT NULL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		post_id CHAR(36) NOT NULL,
		user_id CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_comments_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
		CONSTRAINT fk_comments_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create comments table: %w", err)
	}
	return nil
}

func createLikesTable() error {
	// The unique key makes the like upsert atomic: concurrent reactions from
	// the same user on the same target collapse onto one row.
	query := `
	CREATE TABLE IF NOT EXISTS likes (
		id CHAR(36) PRIMARY KEY,
		type CHAR(1) NOT NULL,
		like_item_id CHAR(36) NOT NULL,
		user_id CHAR(36) NOT NULL,
		` + "`like`" + ` BOOLEAN NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_likes_target_user (type, like_item_id, user_id),
		CONSTRAINT fk_likes_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create likes table: %w", err)
	}
	return nil
}

func createTokensTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tokens (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	_, err := DB.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create tokens table: %w", err)
	}
	return nil
}
