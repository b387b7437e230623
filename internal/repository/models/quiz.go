package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON-serialized column. Question
// options live in one ordered column rather than a child table, so display
// order A-D is exactly insertion order.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Quiz row. Quizzes are immutable after creation, so there is no updated_at.
type Quiz struct {
	ID        string    `db:"id"`
	TimeLimit int       `db:"time_limit"`
	CreatedAt time.Time `db:"created_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question row. Position is the 0-based ordinal within the quiz.
type Question struct {
	ID           string         `db:"id"`
	QuizID       string         `db:"quiz_id"`
	Position     int            `db:"position"`
	Question     string         `db:"question"`
	Options      StringSlice    `db:"options"`
	AnswerLetter string         `db:"answer_letter"`
	Explanation  sql.NullString `db:"explanation"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Student row. (quiz_id, name) is unique; score and finished are rewritten on
// every submit.
type Student struct {
	ID        string    `db:"id"`
	QuizID    string    `db:"quiz_id"`
	Name      string    `db:"name"`
	Score     int       `db:"score"`
	Finished  bool      `db:"finished"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}
