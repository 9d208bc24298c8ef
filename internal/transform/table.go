package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// TableID identifies one of the output tables. The declaration order is also the load order:
// entity tables come before the map tables that reference them.
type TableID int

const (
	TableGame TableID = iota
	TableGameDescription
	TableMechanic
	TableCategory
	TableDesigner
	TableArtist
	TablePublisher
	TableGameMechanic
	TableGameCategory
	TableGameDesigner
	TableGameArtist
	TableGamePublisher

	tableCount
)

// TableSpec describes the shape of a table.
type TableSpec struct {
	Name    string
	Columns []string
	// Key holds the indices of the columns that identify a row, two rows with the same key are
	// duplicates and only the first one seen is kept.
	Key []int
}

func (s TableSpec) FileName() string {
	return s.Name + ".csv"
}

var gameColumns = []string{
	"id",
	"title",
	"release_year",
	"avg_rating",
	"bayes_rating",
	"total_ratings",
	"std_ratings",
	"min_players",
	"max_players",
	"min_playtime",
	"max_playtime",
	"min_age",
	"weight",
	"owned_copies",
	"wishlist",
	"kickstarter",
}

func classificationSpec(kind Kind) TableSpec {
	return TableSpec{
		Name:    string(kind),
		Columns: []string{"id", "name"},
		Key:     []int{0},
	}
}

func mapSpec(kind Kind) TableSpec {
	return TableSpec{
		Name:    "game_" + string(kind),
		Columns: []string{"game_id", string(kind) + "_id"},
		Key:     []int{0, 1},
	}
}

var tableSpecs = [tableCount]TableSpec{
	TableGame: {
		Name:    "game",
		Columns: gameColumns,
		Key:     []int{0},
	},
	TableGameDescription: {
		Name:    "game_description",
		Columns: []string{"game_id", "description"},
		Key:     []int{0},
	},
	TableMechanic:      classificationSpec(KindMechanic),
	TableCategory:      classificationSpec(KindCategory),
	TableDesigner:      classificationSpec(KindDesigner),
	TableArtist:        classificationSpec(KindArtist),
	TablePublisher:     classificationSpec(KindPublisher),
	TableGameMechanic:  mapSpec(KindMechanic),
	TableGameCategory:  mapSpec(KindCategory),
	TableGameDesigner:  mapSpec(KindDesigner),
	TableGameArtist:    mapSpec(KindArtist),
	TableGamePublisher: mapSpec(KindPublisher),
}

var classificationTables = map[Kind]TableID{
	KindMechanic:  TableMechanic,
	KindCategory:  TableCategory,
	KindDesigner:  TableDesigner,
	KindArtist:    TableArtist,
	KindPublisher: TablePublisher,
}

var mapTables = map[Kind]TableID{
	KindMechanic:  TableGameMechanic,
	KindCategory:  TableGameCategory,
	KindDesigner:  TableGameDesigner,
	KindArtist:    TableGameArtist,
	KindPublisher: TableGamePublisher,
}

func init() {
	names := map[string]bool{}
	for i, spec := range tableSpecs {
		if spec.Name == "" || len(spec.Columns) == 0 || len(spec.Key) == 0 {
			panic(fmt.Sprintf("table %d is not fully specified", i))
		}
		if names[spec.Name] {
			panic(fmt.Sprintf("duplicate table name %q", spec.Name))
		}
		names[spec.Name] = true
		for _, k := range spec.Key {
			if k < 0 || k >= len(spec.Columns) {
				panic(fmt.Sprintf("table %q: key column %d out of range", spec.Name, k))
			}
		}
	}
	for _, kind := range Kinds {
		if _, ok := classificationTables[kind]; !ok {
			panic(fmt.Sprintf("kind %q has no classification table", kind))
		}
		if _, ok := mapTables[kind]; !ok {
			panic(fmt.Sprintf("kind %q has no map table", kind))
		}
	}
}

func (id TableID) Spec() TableSpec {
	return tableSpecs[id]
}

func (id TableID) String() string {
	if id < 0 || id >= tableCount {
		return "TableID(" + strconv.Itoa(int(id)) + ")"
	}
	return tableSpecs[id].Name
}

// Tables returns every table id in load order.
func Tables() []TableID {
	out := make([]TableID, tableCount)
	for i := range out {
		out[i] = TableID(i)
	}
	return out
}

// TableByName looks up a table id from its name.
func TableByName(name string) (TableID, bool) {
	for i, spec := range tableSpecs {
		if spec.Name == name {
			return TableID(i), true
		}
	}
	return 0, false
}

func ClassificationTable(kind Kind) TableID {
	return classificationTables[kind]
}

func MapTable(kind Kind) TableID {
	return mapTables[kind]
}

type Row []string

// Table is an ordered list of rows for one table id.
type Table struct {
	ID   TableID
	Rows []Row
}

func NewTable(id TableID) *Table {
	return &Table{ID: id}
}

// Append adds a row, it panics when the row does not have one value per column.
func (t *Table) Append(row Row) {
	if len(row) != len(t.ID.Spec().Columns) {
		panic(fmt.Sprintf(
			"table %s: row has %d values, expected %d",
			t.ID, len(row), len(t.ID.Spec().Columns),
		))
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) key(row Row) string {
	var sb strings.Builder
	for i, col := range t.ID.Spec().Key {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(row[col]))
	}
	return sb.String()
}

// Dedup returns a copy of the table without duplicate rows, the first row seen for each key
// is the one kept.
func (t *Table) Dedup() *Table {
	seen := make(map[string]struct{}, len(t.Rows))
	out := &Table{ID: t.ID, Rows: make([]Row, 0, len(t.Rows))}
	for _, row := range t.Rows {
		k := t.key(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Assembler accumulates the rows of every table over a single run.
type Assembler struct {
	tables [tableCount]*Table
}

func NewAssembler() *Assembler {
	a := &Assembler{}
	for _, id := range Tables() {
		a.tables[id] = NewTable(id)
	}
	return a
}

func (a *Assembler) Append(id TableID, row Row) {
	a.tables[id].Append(row)
}

// AddItem appends every row extracted from one item.
func (a *Assembler) AddItem(item ItemRows) {
	a.Append(TableGame, item.Game.Row())
	a.Append(TableGameDescription, item.Description.Row())
	for _, kind := range Kinds {
		for _, c := range item.Classifications[kind] {
			a.Append(ClassificationTable(kind), c.Row())
		}
		for _, m := range item.Maps[kind] {
			a.Append(MapTable(kind), m.Row())
		}
	}
}

func (a *Assembler) Table(id TableID) *Table {
	return a.tables[id]
}

// Dedup replaces every table with its deduplicated version.
func (a *Assembler) Dedup() {
	for i, t := range a.tables {
		a.tables[i] = t.Dedup()
	}
}

// Tables returns every table in load order.
func (a *Assembler) Tables() []*Table {
	out := make([]*Table, 0, tableCount)
	for _, t := range a.tables {
		out = append(out, t)
	}
	return out
}
