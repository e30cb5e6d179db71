package ledger

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicateWord matches any *DuplicateWordError via errors.Is.
	ErrDuplicateWord = errors.New("word already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// DuplicateWordError reports a case-insensitive collision with a word the
// user already has. Word is the spelling that was submitted.
type DuplicateWordError struct {
	Word string
}

func (e *DuplicateWordError) Error() string {
	return fmt.Sprintf("The word '%s' already exists!", e.Word)
}

func (e *DuplicateWordError) Is(target error) bool {
	return target == ErrDuplicateWord
}

// isUniqueViolation recognizes unique-constraint failures from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
