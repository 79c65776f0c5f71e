// Package meta provides model metadata for statement construction: field
// descriptors, primary key resolution, and ancestor (multi-table inheritance)
// models derived by reflection from tagged Go structs.
package meta

import (
	"errors"
	"reflect"
	"strings"
	"sync"
)

// Field describes a single model field as seen by the statement engines.
type Field struct {
	// Name is the Go struct field name.
	Name string
	// Column is the database column name.
	Column string
	// Model is the concrete model that owns the column. For fields inherited
	// from an ancestor this is the ancestor model, not the declaring child.
	Model *Model
	// PrimaryKey marks the model's primary key field.
	PrimaryKey bool
	// AutoCreated marks fields synthesized by the metadata layer (parent
	// links) rather than declared by the user.
	AutoCreated bool
	// Concrete reports whether the field maps to a real column on the owning
	// table. Many-to-many relations are not concrete.
	Concrete bool
	// ForeignKey marks single-column relations stored as a local column.
	ForeignKey bool
	// ManyToMany marks relations stored in a join table.
	ManyToMany bool
}

// Updatable reports whether the field can be the target of an UPDATE
// assignment. Only plain columns and foreign-key columns qualify.
func (f *Field) Updatable() bool {
	return f.Concrete && !f.ManyToMany
}

// Model describes a database-backed model: its table, primary key, fields,
// and the ancestor models it inherits columns from.
type Model struct {
	Name    string
	Table   string
	PK      *Field
	Fields  []*Field
	Parents []*Model

	byName map[string]*Field
}

// Field resolves a field by Go name or column name, searching the model's own
// fields first and then its ancestors.
func (m *Model) Field(name string) (*Field, error) {
	if f, ok := m.byName[name]; ok {
		return f, nil
	}
	for _, p := range m.Parents {
		if f, err := p.Field(name); err == nil {
			return f, nil
		}
	}
	return nil, errors.New("meta: unknown field " + name + " on model " + m.Name)
}

// Ancestors returns all transitive parent models, nearest first.
func (m *Model) Ancestors() []*Model {
	var out []*Model
	for _, p := range m.Parents {
		out = append(out, p)
		out = append(out, p.Ancestors()...)
	}
	return out
}

func (m *Model) addField(f *Field) {
	m.Fields = append(m.Fields, f)
	m.byName[f.Name] = f
	if f.Column != f.Name {
		m.byName[f.Column] = f
	}
}

// New creates an empty model for manual registration. Most callers should use
// Of instead; New exists for schemas that are not backed by Go structs.
func New(name, table string) *Model {
	return &Model{Name: name, Table: table, byName: make(map[string]*Field)}
}

// AddField registers a field on a manually built model and returns it.
func (m *Model) AddField(f *Field) *Field {
	if f.Model == nil {
		f.Model = m
	}
	if f.Column == "" {
		f.Column = strings.ToLower(f.Name)
	}
	m.addField(f)
	if f.PrimaryKey {
		m.PK = f
	}
	return f
}

// AddParent registers an ancestor model plus the auto-created link field that
// ties the child row to its ancestor row.
func (m *Model) AddParent(p *Model) {
	m.Parents = append(m.Parents, p)
	m.addField(&Field{
		Name:        p.Name + "Ptr",
		Column:      p.Table + "_id",
		Model:       m,
		AutoCreated: true,
		Concrete:    true,
		ForeignKey:  true,
	})
}

var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]*Model)
)

// Of derives a model from a struct value (or pointer to struct). Results are
// cached per struct type.
//
// Tag conventions:
//   - db:"column" or db:"column,pk" names the column.
//   - db:"-" skips the field.
//   - rel:"fk" marks a foreign-key column; rel:"m2m" marks a many-to-many
//     relation (not concrete, never updatable through SET).
//   - An embedded struct with its own table is an ancestor model; its fields
//     resolve through the child but stay owned by the ancestor.
func Of(v any) (*Model, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, errors.New("meta: nil model value")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.New("meta: expected struct, got " + t.Kind().String())
	}

	registryMu.RLock()
	if m, ok := registry[t]; ok {
		registryMu.RUnlock()
		return m, nil
	}
	registryMu.RUnlock()

	m, err := build(t, v)
	if err != nil {
		return nil, err
	}

	registryMu.Lock()
	registry[t] = m
	registryMu.Unlock()
	return m, nil
}

func build(t reflect.Type, v any) (*Model, error) {
	m := New(t.Name(), inferTableName(t, v))

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		// Embedded struct with its own table is an ancestor model.
		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				parent, err := Of(reflect.New(ft).Interface())
				if err != nil {
					return nil, err
				}
				m.AddParent(parent)
				continue
			}
		}

		column, isPK := parseDBTag(sf)
		if column == "-" {
			continue
		}

		f := &Field{
			Name:       sf.Name,
			Column:     column,
			Model:      m,
			PrimaryKey: isPK,
			Concrete:   true,
		}

		switch sf.Tag.Get("rel") {
		case "fk":
			f.ForeignKey = true
		case "m2m":
			f.ManyToMany = true
			f.Concrete = false
		}

		m.addField(f)
		if isPK {
			m.PK = f
		}
	}

	// Fallback: field named ID is the primary key.
	if m.PK == nil {
		if f, ok := m.byName["ID"]; ok {
			f.PrimaryKey = true
			m.PK = f
		}
	}
	// Inherit the nearest ancestor's primary key when the child declares none.
	if m.PK == nil && len(m.Parents) > 0 {
		m.PK = m.Parents[0].PK
	}
	if m.PK == nil {
		return nil, errors.New("meta: no primary key on model " + m.Name)
	}

	return m, nil
}

// parseDBTag extracts the column name and pk flag from a db tag, defaulting
// the column to the lowercased field name.
func parseDBTag(sf reflect.StructField) (column string, isPK bool) {
	tag, ok := sf.Tag.Lookup("db")
	if !ok || tag == "" {
		return strings.ToLower(sf.Name), false
	}
	parts := strings.Split(tag, ",")
	column = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "pk" {
			isPK = true
		}
	}
	if column == "" {
		column = strings.ToLower(sf.Name)
	}
	return column, isPK
}

// inferTableName determines the table name from a TableName() method or the
// lowercased, naively pluralized struct name.
func inferTableName(t reflect.Type, v any) string {
	if tn, ok := v.(interface{ TableName() string }); ok {
		return tn.TableName()
	}
	if tn, ok := reflect.New(t).Interface().(interface{ TableName() string }); ok {
		return tn.TableName()
	}

	name := t.Name()
	if !strings.HasSuffix(name, "s") {
		name += "s"
	}
	return strings.ToLower(name)
}
