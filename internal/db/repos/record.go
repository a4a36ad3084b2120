package repos

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/restbridge/restbridge/internal/query"
	"github.com/restbridge/restbridge/internal/types"
)

// RecordRepository executes store-level operations against the physical
// tables named by the schema registry. Field and order inputs are
// validated by the query layer before they reach this repository; the
// identifier quoting here is belt and braces, not the security boundary.
type RecordRepository struct {
	db       *gorm.DB
	registry *RegistryRepository
}

// NewRecordRepository creates a record repository.
func NewRecordRepository(db *gorm.DB, registry *RegistryRepository) *RecordRepository {
	return &RecordRepository{db: db, registry: registry}
}

// SearchCount counts the records matching the filter.
func (r *RecordRepository) SearchCount(ctx context.Context, model string, filter query.FilterSet) (int64, error) {
	table, err := r.registry.TableFor(ctx, model)
	if err != nil {
		return 0, err
	}

	var count int64
	tx := applyFilter(r.db.WithContext(ctx).Table(table), filter)
	if err := tx.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records of %q: %w", model, err)
	}
	return count, nil
}

// SearchRead fetches one window of matching records.
func (r *RecordRepository) SearchRead(ctx context.Context, model string, filter query.FilterSet, fields []string, window query.Window, order string) ([]types.Record, error) {
	table, err := r.registry.TableFor(ctx, model)
	if err != nil {
		return nil, err
	}

	selected := make([]string, 0, len(fields))
	for _, f := range fields {
		selected = append(selected, quoteIdent(f))
	}

	tx := applyFilter(r.db.WithContext(ctx).Table(table), filter).
		Select(strings.Join(selected, ", ")).
		Offset(window.Offset).
		Limit(window.Limit)
	if order != "" {
		tx = tx.Order(orderClause(order))
	}

	var rows []map[string]interface{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read records of %q: %w", model, err)
	}

	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, types.Record(row))
	}
	return records, nil
}

// Create inserts a record and returns the id the store assigned.
func (r *RecordRepository) Create(ctx context.Context, model string, values types.Record) (int64, error) {
	table, err := r.registry.TableFor(ctx, model)
	if err != nil {
		return 0, err
	}

	row := make(map[string]interface{}, len(values))
	for k, v := range values {
		row[k] = v
	}

	err = r.db.WithContext(ctx).Table(table).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Create(&row).Error
	if err != nil {
		return 0, fmt.Errorf("failed to create a record of %q: %w", model, err)
	}

	id, ok := asInt64(row["id"])
	if !ok {
		return 0, fmt.Errorf("store returned a non-integer id for %q", model)
	}
	return id, nil
}

// Write applies a partial update to one record.
func (r *RecordRepository) Write(ctx context.Context, model string, id int64, values types.Record) (bool, error) {
	table, err := r.registry.TableFor(ctx, model)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).Table(table).
		Where("id = ?", id).
		Updates(map[string]interface{}(values))
	if res.Error != nil {
		return false, fmt.Errorf("failed to update record %d of %q: %w", id, model, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Unlink deletes one record.
func (r *RecordRepository) Unlink(ctx context.Context, model string, id int64) (bool, error) {
	table, err := r.registry.TableFor(ctx, model)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).Exec("DELETE FROM "+quoteIdent(table)+" WHERE id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete record %d of %q: %w", id, model, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// applyFilter translates the conjunction into WHERE clauses. LIKE/NLIKE
// use ILIKE so matching is case-insensitive substring containment.
func applyFilter(tx *gorm.DB, filter query.FilterSet) *gorm.DB {
	for _, cond := range filter {
		col := quoteIdent(cond.Field)
		switch cond.Operator {
		case query.OpEqual:
			tx = tx.Where(col+" = ?", cond.Value)
		case query.OpNotEqual:
			tx = tx.Where(col+" <> ?", cond.Value)
		case query.OpIn:
			tx = tx.Where(col+" IN ?", cond.Value)
		case query.OpNotIn:
			tx = tx.Where(col+" NOT IN ?", cond.Value)
		case query.OpGreater:
			tx = tx.Where(col+" > ?", cond.Value)
		case query.OpGreaterEqual:
			tx = tx.Where(col+" >= ?", cond.Value)
		case query.OpLess:
			tx = tx.Where(col+" < ?", cond.Value)
		case query.OpLessEqual:
			tx = tx.Where(col+" <= ?", cond.Value)
		case query.OpLike:
			tx = tx.Where(col+" ILIKE ?", containsPattern(cond.Value))
		case query.OpNotLike:
			tx = tx.Where(col+" NOT ILIKE ?", containsPattern(cond.Value))
		}
	}
	return tx
}

// orderClause turns the normalized "field dir,field dir" string into a
// quoted ORDER BY clause.
func orderClause(order string) string {
	parts := strings.Split(order, ",")
	for i, part := range parts {
		tokens := strings.Fields(part)
		if len(tokens) == 2 {
			parts[i] = quoteIdent(tokens[0]) + " " + tokens[1]
		}
	}
	return strings.Join(parts, ", ")
}

func containsPattern(value interface{}) string {
	return fmt.Sprintf("%%%v%%", value)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func asInt64(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case int64:
		return id, true
	case int32:
		return int64(id), true
	case int:
		return int64(id), true
	case uint:
		return int64(id), true
	case uint64:
		return int64(id), true
	case float64:
		return int64(id), true
	}
	return 0, false
}
