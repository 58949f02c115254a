package repository

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// likeEscape is the ESCAPE character for LIKE patterns. It is not a backslash
// because MySQL and SQLite disagree on backslash handling inside string literals.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// alternateKeyPredicate matches accounts by phone, email, or either of the two.
// ok is false when neither key is given.
func alternateKeyPredicate(phone, email *string) (pred sq.Sqlizer, ok bool) {
	switch {
	case phone != nil && email != nil:
		return sq.Or{sq.Eq{"phone": *phone}, sq.Eq{"email": *email}}, true
	case phone != nil:
		return sq.Eq{"phone": *phone}, true
	case email != nil:
		return sq.Eq{"email": *email}, true
	default:
		return nil, false
	}
}

// titleContainsPredicate matches titles containing fragment, case-insensitively.
// Both sides are lower-cased so the result does not depend on column collation,
// and LIKE wildcards inside fragment match literally.
func titleContainsPredicate(fragment string) sq.Sqlizer {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
	return sq.Expr("LOWER(title) LIKE ? ESCAPE '"+likeEscape+"'", pattern)
}
