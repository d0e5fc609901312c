package store

import (
	sq "github.com/Masterminds/squirrel"
)

const preferencesTable = "preferences"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildGetPreferenceQuery(key string) (string, []any, error) {
	return psql.
		Select("value").
		From(preferencesTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

// buildSetPreferenceQuery builds an upsert keyed on the primary key.
func buildSetPreferenceQuery(key, value string) (string, []any, error) {
	return psql.
		Insert(preferencesTable).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
}

func buildRemovePreferencesQuery(keys ...string) (string, []any, error) {
	return psql.
		Delete(preferencesTable).
		Where(sq.Eq{"key": keys}).
		ToSql()
}
