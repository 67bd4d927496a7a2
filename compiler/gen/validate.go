package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/erdgen/schema"
	"github.com/syssam/erdgen/schema/edge"
)

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Messages returns the error messages in report order. An empty list means
// the document is ready for generation.
func (r *ValidationResult) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Detail()
	}
	return msgs
}

// ByCategory returns the errors of the given category.
func (r *ValidationResult) ByCategory(c Category) []*ValidationError {
	var errs []*ValidationError
	for _, e := range r.Errors {
		if e.Category == c {
			errs = append(errs, e)
		}
	}
	return errs
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "  - [%s] %s\n", e.Category, e.Detail())
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "  - [%s] %s\n", w.Category, w.Detail())
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// Validate checks the structural invariants of a schema document. It never
// modifies the document and reports every issue it finds.
func Validate(doc *schema.Document, opts ...Option) (*ValidationResult, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return validate(doc, cfg), nil
}

type validator struct {
	cfg    *Config
	doc    *schema.Document
	index  map[string]int // lowercased table name -> first position
	names  []string       // table names, for suggestions
	result *ValidationResult
}

func validate(doc *schema.Document, cfg *Config) *ValidationResult {
	v := &validator{
		cfg:    cfg,
		doc:    doc,
		index:  make(map[string]int),
		result: &ValidationResult{},
	}
	if doc == nil {
		v.errorf(CategoryStructural, "", "", "document is empty")
		return v.result
	}
	v.tableNames()
	for i, t := range doc.Tables {
		if t == nil {
			continue
		}
		label := t.Name
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("#%d", i)
		}
		v.columns(label, t)
		v.relations(i, label, t)
		v.indexes(label, t)
		v.constraints(label, t)
	}
	cfg.Logger.Debug("schema validated",
		"tables", len(doc.Tables),
		"errors", len(v.result.Errors),
		"warnings", len(v.result.Warnings),
	)
	return v.result
}

func (v *validator) errorf(c Category, table, fieldName, format string, args ...any) {
	v.result.Errors = append(v.result.Errors, NewValidationError(c, table, fieldName, fmt.Sprintf(format, args...)))
}

func (v *validator) warnf(c Category, table, fieldName, format string, args ...any) {
	v.result.Warnings = append(v.result.Warnings, NewValidationError(c, table, fieldName, fmt.Sprintf(format, args...)))
}

// tableNames checks that every table is named and that names are unique
// regardless of case.
func (v *validator) tableNames() {
	for i, t := range v.doc.Tables {
		if t == nil {
			v.errorf(CategoryStructural, fmt.Sprintf("#%d", i), "", "table is null")
			continue
		}
		if strings.TrimSpace(t.Name) == "" {
			v.errorf(CategoryStructural, fmt.Sprintf("#%d", i), "", "table name is required")
			continue
		}
		key := strings.ToLower(t.Name)
		if j, ok := v.index[key]; ok {
			v.errorf(CategoryStructural, t.Name, "", "duplicate table name (conflicts with %q)", v.doc.Tables[j].Name)
			continue
		}
		v.index[key] = i
		v.names = append(v.names, t.Name)
	}
}

func (v *validator) lookup(name string) (int, *schema.Table, bool) {
	i, ok := v.index[strings.ToLower(name)]
	if !ok {
		return -1, nil, false
	}
	return i, v.doc.Tables[i], true
}

func (v *validator) columns(label string, t *schema.Table) {
	seen := make(map[string]string, len(t.Properties))
	for _, name := range t.PropertyNames() {
		col := "column " + quote(name)
		if strings.TrimSpace(name) == "" {
			v.errorf(CategoryStructural, label, "", "column name is required")
			continue
		}
		if prev, ok := seen[strings.ToLower(name)]; ok {
			v.errorf(CategoryStructural, label, col, "duplicate column name (conflicts with %q)", prev)
			continue
		}
		seen[strings.ToLower(name)] = name
		p := t.Properties[name]
		if p == nil {
			v.errorf(CategoryStructural, label, col, "column is null")
			continue
		}
		if p.IsEnum() {
			if len(p.Enum) == 0 {
				v.errorf(CategoryStructural, label, col, "enum column requires values")
			}
			if p.NativeEnum() && p.DBEnumName == "" {
				v.errorf(CategoryStructural, label, col, "dbEnumName is required when useDbEnum is enabled")
			}
		}
		if p.Type == "" {
			v.errorf(CategoryStructural, label, col, "column type is required")
		} else if _, ok := v.cfg.TypeMap.Lookup(p.Type); !ok {
			msg := fmt.Sprintf("unknown column type %q maps to %s", p.Type, FallbackType)
			if s := suggest(p.Type, v.cfg.TypeMap.Columns()); s != "" {
				msg += "; " + s
			}
			v.warnf(CategoryAdvisory, label, col, "%s", msg)
		}
	}
}

func (v *validator) relations(pos int, label string, t *schema.Table) {
	derived := make(map[string]string, len(t.Relations))
	for _, key := range t.RelationKeys() {
		r := t.Relations[key]
		rel := "relation " + quote(key)
		if r == nil {
			v.errorf(CategoryStructural, label, rel, "relation is null")
			continue
		}
		if !r.Type.Valid() {
			v.errorf(CategoryStructural, label, rel, "unknown relation type (use one of %s)", kindList())
			continue
		}
		if r.Type == edge.OneToOne && r.IsOwner == nil {
			v.errorf(CategoryOwnership, label, rel, "OneToOne relation requires isOwner")
		}
		dk := RelationKey(r.Type, v.targetName(r.Entity))
		if prev, ok := derived[dk]; ok && r.Entity != "" {
			v.errorf(CategoryStructural, label, rel, "resolves to key %q, already used by relation %q", dk, prev)
		} else if r.Entity != "" {
			derived[dk] = key
			if t.HasProperty(dk) && r.Type != edge.ManyToMany {
				v.warnf(CategoryAdvisory, label, rel, "resolves to key %q, which shadows a column of the same name", dk)
			}
		}
		if strings.TrimSpace(r.Entity) == "" {
			v.errorf(CategoryStructural, label, rel, "relation has no target entity")
			continue
		}
		tpos, target, ok := v.lookup(r.Entity)
		if !ok {
			msg := fmt.Sprintf("entity %q does not exist", r.Entity)
			if s := suggest(r.Entity, v.names); s != "" {
				msg += "; " + s
			}
			v.errorf(CategoryStructural, label, rel, "%s", msg)
			continue
		}
		v.symmetry(label, rel, t, r, target)
		if pos < tpos {
			v.ownership(label, rel, t, r, target)
		}
	}
}

// symmetry checks that a ManyToOne is mirrored by a OneToMany and vice versa.
func (v *validator) symmetry(label, rel string, t *schema.Table, r *edge.Descriptor, target *schema.Table) {
	var want edge.Kind
	switch r.Type {
	case edge.ManyToOne:
		want = edge.OneToMany
	case edge.OneToMany:
		want = edge.ManyToOne
	default:
		return
	}
	if _, ok := findRelation(target, want, t.Name); ok {
		return
	}
	report := v.errorf
	if v.cfg.Symmetry == SymmetryAdvisory {
		report = v.warnf
	}
	report(CategorySymmetry, label, rel, "%s relation has no %s counterpart on %q", r.Type, want, target.Name)
}

// ownership checks that both sides of a OneToOne or ManyToMany pair do not
// claim the same ownership. It runs once per pair.
func (v *validator) ownership(label, rel string, t *schema.Table, r *edge.Descriptor, target *schema.Table) {
	owner, ok := r.Owner()
	if !ok || (r.Type != edge.OneToOne && r.Type != edge.ManyToMany) {
		return
	}
	back, found := findRelation(target, r.Type, t.Name)
	if !found {
		return
	}
	other, ok := back.Owner()
	if !ok {
		return
	}
	switch {
	case r.Type == edge.OneToOne && owner == other:
		v.errorf(CategoryOwnership, label, rel, "both sides of the OneToOne relation with %q declare isOwner=%t", target.Name, owner)
	case r.Type == edge.ManyToMany && owner && other:
		v.errorf(CategoryOwnership, label, rel, "both sides of the ManyToMany relation with %q declare isOwner=true", target.Name)
	}
}

func (v *validator) indexes(label string, t *schema.Table) {
	for i, idx := range t.Indexes {
		name := fmt.Sprintf("index #%d", i)
		if idx == nil {
			v.errorf(CategoryStructural, label, name, "index is null")
			continue
		}
		if idx.Name != "" {
			name = "index " + quote(idx.Name)
		}
		if len(idx.Columns) == 0 {
			v.errorf(CategoryStructural, label, name, "index requires at least one column")
		}
		v.columnRefs(label, name, t, idx.Columns)
	}
}

func (v *validator) constraints(label string, t *schema.Table) {
	for i, c := range t.Constraints {
		name := fmt.Sprintf("constraint #%d", i)
		if c == nil {
			v.errorf(CategoryStructural, label, name, "constraint is null")
			continue
		}
		if c.Name != "" {
			name = "constraint " + quote(c.Name)
		}
		switch schema.ConstraintType(strings.ToUpper(string(c.Type))) {
		case schema.Check:
			if strings.TrimSpace(c.Expression) == "" {
				v.errorf(CategoryStructural, label, name, "CHECK constraint requires an expression")
			}
		case schema.Unique:
			if len(c.Columns) == 0 {
				v.errorf(CategoryStructural, label, name, "UNIQUE constraint requires at least one column")
			}
		default:
			v.errorf(CategoryStructural, label, name, "unknown constraint type %q (use CHECK or UNIQUE)", c.Type)
		}
		v.columnRefs(label, name, t, c.Columns)
	}
}

// columnRefs reports columns that are neither declared properties nor
// foreign keys derived from the table's relations.
func (v *validator) columnRefs(label, name string, t *schema.Table, cols []string) {
	for _, col := range cols {
		if t.HasProperty(col) || v.holdsForeignKey(t, col) {
			continue
		}
		v.errorf(CategoryStructural, label, name, "unknown column %q", col)
	}
}

// targetName returns the declared name of the table entity refers to, or
// entity itself when no table matches.
func (v *validator) targetName(entity string) string {
	if _, t, ok := v.lookup(entity); ok {
		return t.Name
	}
	return entity
}

func (v *validator) holdsForeignKey(t *schema.Table, col string) bool {
	for _, r := range t.Relations {
		if r != nil && r.Type.HoldsForeignKey() && strings.EqualFold(RelationKey(r.Type, v.targetName(r.Entity)), col) {
			return true
		}
	}
	return false
}

// findRelation returns the first relation (in key order) of t with kind k
// pointing at target.
func findRelation(t *schema.Table, k edge.Kind, target string) (*edge.Descriptor, bool) {
	for _, key := range t.RelationKeys() {
		r := t.Relations[key]
		if r != nil && r.Type == k && strings.EqualFold(r.Entity, target) {
			return r, true
		}
	}
	return nil, false
}

func kindList() string {
	names := make([]string, len(edge.Kinds))
	for i, k := range edge.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func quote(s string) string { return fmt.Sprintf("%q", s) }
