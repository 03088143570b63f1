package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// QueryParams encapsulates all query parameters.
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword.
	// Example: "Chain = ? AND BurnIn = 0"
	Where string

	// Args holds the arguments for the placeholders in Where.
	Args []any

	// Limit is the maximum number of records to return. Zero means no
	// limit.
	Limit int

	// Offset is the number of records to skip. It only applies together
	// with Limit.
	Offset int

	// OrderBy specifies sorting, without the "ORDER BY" keywords.
	// Example: "Step ASC"
	OrderBy string

	// Columns restricts the selected columns. They must be fields of the
	// mapped struct; the other fields are left zero. Empty means all.
	Columns []string

	// Distinct drops duplicate rows. It is usually combined with Columns.
	Distinct bool
}

// DataReader reads rows written by a DataRecorder back into structs.
type DataReader interface {
	// MapTable associates a table with the struct type of sampleEntry. A
	// table must be mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the names of all the tables in the database.
	ListTables(ctx context.Context) ([]string, error)

	// Query returns the matching rows as values of the mapped struct type,
	// together with the number of rows matching params.Where.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the reader.
	Close() error
}

type sqliteReader struct {
	*sql.DB

	typeMap map[string]reflect.Type
}

// NewReader opens the SQLite database stored in filename.
func NewReader(filename string) (DataReader, error) {
	db, err := sql.Open("sqlite3", "file:"+filename+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	return newReader(db), nil
}

func newReader(db *sql.DB) *sqliteReader {
	return &sqliteReader{
		DB:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	if !tableNamePattern.MatchString(tableName) {
		panic(fmt.Sprintf("invalid table name %q", tableName))
	}

	if err := checkEntry(sampleEntry); err != nil {
		panic(err)
	}

	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) ListTables(ctx context.Context) ([]string, error) {
	rows, err := r.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		tables = append(tables, name)
	}

	return tables, rows.Err()
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("no mapping found for table: %s", tableName)
	}

	selection, err := selectClause(structType, params)
	if err != nil {
		return nil, 0, err
	}

	query := selection + " FROM " + tableName

	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	totalCount, err := r.queryTotalCount(ctx, query, params.Args)
	if err != nil {
		return nil, 0, err
	}

	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	rows, err := r.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := scanRows(rows, structType)
	if err != nil {
		return nil, 0, err
	}

	return results, totalCount, nil
}

func selectClause(structType reflect.Type, params QueryParams) (string, error) {
	selection := "SELECT "
	if params.Distinct {
		selection += "DISTINCT "
	}

	if len(params.Columns) == 0 {
		return selection + "*", nil
	}

	for _, c := range params.Columns {
		if _, ok := structType.FieldByName(c); !ok {
			return "", fmt.Errorf("column %s is not a field of %s",
				c, structType)
		}
	}

	return selection + strings.Join(params.Columns, ", "), nil
}

// queryTotalCount counts the rows the unpaginated query returns.
func (r *sqliteReader) queryTotalCount(
	ctx context.Context,
	query string,
	args []any,
) (int, error) {
	var totalCount int

	err := r.QueryRowContext(ctx, "SELECT COUNT(*) FROM ("+query+")", args...).
		Scan(&totalCount)
	if err != nil {
		return 0, err
	}

	return totalCount, nil
}

func scanRows(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldMap := make(map[string]int)
	for i := 0; i < structType.NumField(); i++ {
		fieldMap[structType.Field(i).Name] = i
	}

	var results []any

	for rows.Next() {
		structVal := reflect.New(structType).Elem()
		scanTargets := make([]any, len(columns))

		for i, colName := range columns {
			if fieldIdx, ok := fieldMap[colName]; ok {
				scanTargets[i] = structVal.Field(fieldIdx).Addr().Interface()
			} else {
				var placeholder any
				scanTargets[i] = &placeholder
			}
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}

		results = append(results, structVal.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.DB.Close()
}
