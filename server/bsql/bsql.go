package bsql

import (
	"bytes"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

func NewDB(db *sql.DB) *DB {
	return &DB{DB: db}
}

func Open(username, password, host, port, dbname string, maxIdleConnection, maxOpenConnection int) *DB {
	db := openSQL(username, password, host, port, dbname)
	db.SetMaxIdleConns(maxIdleConnection)
	db.SetMaxOpenConns(maxOpenConnection)

	if err := db.Ping(); err != nil {
		panic(fmt.Sprintf("failed to ping database: %v", err))
	}

	return NewDB(db)
}

func openSQL(username, password, host, port, dbname string) *sql.DB {
	connectionStrTokens := []string{
		"sslmode=disable",
		"binary_parameters=yes",
	}

	if username != "" {
		connectionStrTokens = append(connectionStrTokens, fmt.Sprintf("user=%s", username))
	}

	if password != "" {
		connectionStrTokens = append(connectionStrTokens, fmt.Sprintf("password=%s", password))
	}

	if host != "" {
		connectionStrTokens = append(connectionStrTokens, fmt.Sprintf("host=%s", host))
	}

	if port != "" {
		connectionStrTokens = append(connectionStrTokens, fmt.Sprintf("port=%s", port))
	}

	if dbname != "" {
		connectionStrTokens = append(connectionStrTokens, fmt.Sprintf("dbname=%s", dbname))
	}

	connectionStr := strings.Join(connectionStrTokens, " ")
	db, err := sql.Open("postgres", connectionStr)
	if err != nil {
		panic(fmt.Sprintf("failed to open database: %v", err))
	}
	return db
}

// Insert builds and runs a single-row INSERT ... RETURNING id. Columns are
// sorted so the generated SQL is stable.
func (db *DB) Insert(tableName string, dict map[string]interface{}) (id int64, err error) {
	var keyBuffer bytes.Buffer
	var valueBuffer bytes.Buffer
	keyBuffer.WriteString(fmt.Sprintf("INSERT INTO %s (", tableName))
	valueBuffer.WriteString(") VALUES (")
	values := []interface{}{}
	var counter int

	sortedList := sortDict(dict)
	for _, entry := range sortedList {
		keyBuffer.WriteString(entry.key)
		valueBuffer.WriteString(fmt.Sprintf("$%d", counter+1))
		if counter != len(dict)-1 {
			keyBuffer.WriteString(", ")
			valueBuffer.WriteString(", ")
		}
		values = append(values, entry.value)
		counter++
	}
	valueBuffer.WriteString(") RETURNING id;")
	keyBuffer.WriteString(valueBuffer.String())

	err = db.QueryRow(keyBuffer.String(), values...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, err
}

// BulkInsert builds and runs a multi-row INSERT ... RETURNING id. All rows
// must share the same column set; the statement is atomic, so one bad row
// fails the batch.
func (db *DB) BulkInsert(tableName string, rows []map[string]interface{}) ([]int64, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make([]string, 0, len(rows[0]))
	for _, entry := range sortDict(rows[0]) {
		columns = append(columns, entry.key)
	}

	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", tableName, strings.Join(columns, ", ")))

	values := make([]interface{}, 0, len(rows)*len(columns))
	placeholder := 1
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("bulk insert row %d has %d columns, want %d", i, len(row), len(columns))
		}
		if i > 0 {
			buffer.WriteString(", ")
		}
		buffer.WriteString("(")
		for j, column := range columns {
			value, ok := row[column]
			if !ok {
				return nil, fmt.Errorf("bulk insert row %d is missing column %s", i, column)
			}
			if j > 0 {
				buffer.WriteString(", ")
			}
			buffer.WriteString(fmt.Sprintf("$%d", placeholder))
			values = append(values, value)
			placeholder++
		}
		buffer.WriteString(")")
	}
	buffer.WriteString(" RETURNING id;")

	result, err := db.Query(buffer.String(), values...)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	ids := make([]int64, 0, len(rows))
	for result.Next() {
		var id int64
		if err := result.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, result.Err()
}

// CountRows runs SELECT COUNT(*) with an optional WHERE clause.
func (db *DB) CountRows(tableName, where string, args ...interface{}) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)
	if where != "" {
		query += " WHERE " + where
	}

	var count int64
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type entry struct {
	key   string
	value interface{}
}

func sortDict(dict map[string]interface{}) []*entry {
	attrs := []string{}
	for key := range dict {
		attrs = append(attrs, key)
	}
	sort.Strings(attrs)
	entries := []*entry{}
	for _, key := range attrs {
		entries = append(entries, &entry{
			key:   key,
			value: dict[key],
		})
	}
	return entries
}
