package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Attempt is one journal row per invocation. Only engagement evidence is
// recorded; passwords and token material are never stored.
type Attempt struct {
	Timestamp  string `db:"timestamp"`
	Username   string `db:"username"`
	UserAgent  string `db:"user_agent"`
	StatusCode int    `db:"status_code"`
	Outcome    string `db:"outcome"`
}

func CreateAttemptsIfNotExists(path string) (*sqlx.DB, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		timestamp 	TEXT NOT NULL,
		username 	TEXT NOT NULL,
		user_agent 	TEXT,
		status_code INTEGER,
		outcome 	TEXT
	);
	`
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %v", err)
	}
	db.MustExec(schema)
	return db, nil
}

func InsertAttempts(path string, attempts *[]Attempt) error {
	if attempts == nil {
		return fmt.Errorf("attempts == nil")
	}

	// create database if it doesn't already exist
	db, err := CreateAttemptsIfNotExists(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx := db.MustBegin()
	for _, attempt := range *attempts {
		sql := `INSERT INTO attempts
		(
			timestamp,
			username,
			user_agent,
			status_code,
			outcome
		)
		VALUES
		(
			:timestamp,
			:username,
			:user_agent,
			:status_code,
			:outcome
		);`
		_, err := tx.NamedExec(sql, &attempt)
		if err != nil {
			fmt.Printf("could not execute transaction: %v\n", err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("could not commit transaction: %v", err)
	}
	return nil
}

func GetAttempts(path string) ([]Attempt, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %v", err)
	}
	defer db.Close()

	results := []Attempt{}
	err = db.Select(&results, "SELECT * FROM attempts ORDER BY timestamp ASC;")
	if err != nil {
		return nil, fmt.Errorf("could not retrieve attempts: %v", err)
	}
	return results, nil
}
