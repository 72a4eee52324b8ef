package table

import (
	"fmt"
	"sort"

	"github.com/EKolev/QuickbaseDemo/pkg/types"
)

// PrimaryKeyColumn is the name of the implicit primary-key column. It is
// always present, always indexed, and cannot be declared, removed, or
// shadowed by a derived column.
const PrimaryKeyColumn = "id"

// DerivedFunc computes a derived column's value from a record. Functions must
// be pure over the record's stored physical fields: a derived value is
// materialized when an index over it is built or a record is added, and is
// never recomputed until the next rebuild, so any other input (time, external
// state) silently goes stale in the index.
type DerivedFunc func(rec Record) types.FieldValue

type physicalColumn struct {
	kind types.Kind
	def  types.FieldValue
}

type derivedColumn struct {
	kind types.Kind
	fn   DerivedFunc
}

// Schema tracks the physical and derived columns of a table. A column's kind
// is fixed at declaration: physical columns take it from their default value,
// derived columns declare it explicitly so match text can be parsed without
// evaluating the function.
type Schema struct {
	physical map[string]physicalColumn
	derived  map[string]derivedColumn
}

// NewSchema creates an empty schema. The primary-key column is implicit and
// never part of the physical column set.
func NewSchema() *Schema {
	return &Schema{
		physical: make(map[string]physicalColumn),
		derived:  make(map[string]derivedColumn),
	}
}

// AddColumn declares a physical column whose kind is taken from the default
// value. Returns false if the name is taken (by the primary key, another
// physical column, or a derived column).
func (s *Schema) AddColumn(name string, def types.FieldValue) bool {
	if s.HasColumn(name) {
		return false
	}
	s.physical[name] = physicalColumn{kind: def.Kind(), def: def}
	return true
}

// RemoveColumn removes a physical column declaration. Returns false if the
// name is not a physical column.
func (s *Schema) RemoveColumn(name string) bool {
	if _, ok := s.physical[name]; !ok {
		return false
	}
	delete(s.physical, name)
	return true
}

// AddDerived declares a derived column with the given result kind. Returns
// false if the name is taken.
func (s *Schema) AddDerived(name string, kind types.Kind, fn DerivedFunc) bool {
	if s.HasColumn(name) || fn == nil {
		return false
	}
	s.derived[name] = derivedColumn{kind: kind, fn: fn}
	return true
}

// HasColumn reports whether the name refers to the primary key, a physical
// column, or a derived column.
func (s *Schema) HasColumn(name string) bool {
	if name == PrimaryKeyColumn {
		return true
	}
	if _, ok := s.physical[name]; ok {
		return true
	}
	_, ok := s.derived[name]
	return ok
}

// IsDerived reports whether the name refers to a derived column.
func (s *Schema) IsDerived(name string) bool {
	_, ok := s.derived[name]
	return ok
}

// KindOf returns the declared kind of a column, physical or derived. The
// primary key is KindUint.
func (s *Schema) KindOf(name string) (types.Kind, bool) {
	if name == PrimaryKeyColumn {
		return types.KindUint, true
	}
	if col, ok := s.physical[name]; ok {
		return col.kind, true
	}
	if col, ok := s.derived[name]; ok {
		return col.kind, true
	}
	return 0, false
}

// PhysicalColumns returns the declared physical column names in sorted order.
func (s *Schema) PhysicalColumns() []string {
	names := make([]string, 0, len(s.physical))
	for name := range s.physical {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DerivedColumns returns the declared derived column names in sorted order.
func (s *Schema) DerivedColumns() []string {
	names := make([]string, 0, len(s.derived))
	for name := range s.derived {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that a record's field set matches the declared physical
// columns exactly: no undeclared field, no missing field, no kind mismatch.
func (s *Schema) Validate(fields map[string]types.FieldValue) error {
	for name, v := range fields {
		col, ok := s.physical[name]
		if !ok {
			return fmt.Errorf("%w: undeclared column %q", types.ErrSchemaViolation, name)
		}
		if v.Kind() != col.kind {
			return fmt.Errorf("%w: column %q holds %s, schema declares %s",
				types.ErrSchemaViolation, name, v.Kind(), col.kind)
		}
	}
	if len(fields) != len(s.physical) {
		for name := range s.physical {
			if _, ok := fields[name]; !ok {
				return fmt.Errorf("%w: missing column %q", types.ErrSchemaViolation, name)
			}
		}
	}
	return nil
}
