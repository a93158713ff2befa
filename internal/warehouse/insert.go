package warehouse

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// buildInsert renders a multi-row INSERT for one batch. Question-mark
// placeholders match the Snowflake driver's bind style.
func buildInsert(table string, rows []Row) (string, []interface{}, error) {
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("cannot build insert for empty batch")
	}

	builder := sq.Insert(table).Columns("id", "email_body", "inserted_date")
	for _, row := range rows {
		builder = builder.Values(row.ID, row.Body, row.InsertedDate)
	}

	return builder.ToSql()
}
