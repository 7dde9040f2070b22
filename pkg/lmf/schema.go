package lmf

import (
	"database/sql"
	"strings"
)

// Schema is the subset of the LMF SQLite layout the reader queries.
const Schema = `
CREATE TABLE IF NOT EXISTS Lemma (
	lexicalEntryId TEXT NOT NULL,
	writtenForm    TEXT NOT NULL,
	partOfSpeech   TEXT
);
CREATE INDEX IF NOT EXISTS Lemma_lexicalEntryId ON Lemma (lexicalEntryId);
CREATE TABLE IF NOT EXISTS Sense (
	senseId        TEXT NOT NULL,
	lexicalEntryId TEXT NOT NULL,
	synset         TEXT
);
CREATE INDEX IF NOT EXISTS Sense_lexicalEntryId ON Sense (lexicalEntryId);
`

// CreateSchema creates the Lemma and Sense tables on conn.
func CreateSchema(conn *sql.DB) error {
	for _, s := range strings.Split(Schema, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := conn.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
