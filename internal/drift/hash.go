// Package drift computes a stable content hash for a schema and reports
// the structural differences between two schema snapshots.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/kclaka/seedkit/internal/schema"
)

// Hash returns the SHA-256 hex digest of db's structure. It is invariant
// to the order of a table's foreign keys, unique constraints, and check
// constraints (they are sorted before hashing), but changes if any table,
// column, or constraint's content changes. Column order is significant:
// it reflects ordinal position, which is part of the schema's identity.
func Hash(db *schema.Database) string {
	normalized := normalize(db)
	// json.Marshal on a fixed struct type emits fields in declaration
	// order, which makes this serialization deterministic without any
	// extra key-sorting step.
	body, err := json.Marshal(normalized)
	if err != nil {
		// Database is built entirely from exported, JSON-marshalable
		// fields; a marshal failure here would indicate a programming
		// error, not a runtime condition callers can act on.
		panic("drift: hash: " + err.Error())
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// normalize returns a deep copy of db with each table's FK, unique, and
// check constraint vectors sorted into a canonical order.
func normalize(db *schema.Database) *schema.Database {
	out := &schema.Database{
		Name:    db.Name,
		Dialect: db.Dialect,
		Enums:   append([]schema.EnumDecl(nil), db.Enums...),
	}
	out.Tables = make([]*schema.Table, len(db.Tables))
	for i, t := range db.Tables {
		out.Tables[i] = normalizeTable(t)
	}
	return out
}

func normalizeTable(t *schema.Table) *schema.Table {
	nt := &schema.Table{
		Name:       t.Name,
		Comment:    t.Comment,
		PrimaryKey: append([]string(nil), t.PrimaryKey...),
	}
	nt.Columns = make([]*schema.Column, len(t.Columns))
	for i, c := range t.Columns {
		cc := *c
		cc.EnumValues = append([]string(nil), c.EnumValues...)
		nt.Columns[i] = &cc
	}

	nt.ForeignKeys = make([]*schema.ForeignKey, len(t.ForeignKeys))
	for i, fk := range t.ForeignKeys {
		fkc := *fk
		fkc.SourceColumns = append([]string(nil), fk.SourceColumns...)
		fkc.ReferencedColumns = append([]string(nil), fk.ReferencedColumns...)
		nt.ForeignKeys[i] = &fkc
	}
	sort.Slice(nt.ForeignKeys, func(i, j int) bool {
		a, b := nt.ForeignKeys[i], nt.ForeignKeys[j]
		ka := joinCols(a.SourceColumns) + "->" + a.ReferencedTable
		kb := joinCols(b.SourceColumns) + "->" + b.ReferencedTable
		return ka < kb
	})

	nt.Uniques = make([]*schema.UniqueConstraint, len(t.Uniques))
	for i, u := range t.Uniques {
		uc := *u
		uc.Columns = append([]string(nil), u.Columns...)
		nt.Uniques[i] = &uc
	}
	sort.Slice(nt.Uniques, func(i, j int) bool {
		return joinCols(nt.Uniques[i].Columns) < joinCols(nt.Uniques[j].Columns)
	})

	nt.Checks = make([]*schema.CheckConstraint, len(t.Checks))
	for i, ck := range t.Checks {
		ckc := *ck
		nt.Checks[i] = &ckc
	}
	sort.Slice(nt.Checks, func(i, j int) bool {
		return nt.Checks[i].Expression < nt.Checks[j].Expression
	})

	return nt
}

func joinCols(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ","
		}
		out += c
	}
	return out
}
