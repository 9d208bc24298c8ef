package transform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableSpecs(t *testing.T) {
	require.Len(t, Tables(), 12)

	names := map[string]bool{}
	for _, id := range Tables() {
		names[id.Spec().FileName()] = true
	}
	for _, expected := range []string{
		"game.csv", "game_description.csv",
		"mechanic.csv", "category.csv", "designer.csv", "artist.csv", "publisher.csv",
		"game_mechanic.csv", "game_category.csv", "game_designer.csv", "game_artist.csv", "game_publisher.csv",
	} {
		require.True(t, names[expected], "missing table %s", expected)
	}

	require.Equal(t, []string{"game_id", "mechanic_id"}, MapTable(KindMechanic).Spec().Columns)
	require.Equal(t, []string{"id", "name"}, ClassificationTable(KindArtist).Spec().Columns)
	require.Len(t, TableGame.Spec().Columns, 16)

	id, ok := TableByName("game_publisher")
	require.True(t, ok)
	require.Equal(t, TableGamePublisher, id)
	_, ok = TableByName("nope")
	require.False(t, ok)
}

func TestTablesLoadOrder(t *testing.T) {
	seenMap := false
	for _, id := range Tables() {
		isMap := len(id.Spec().Columns) == 2 && id.Spec().Columns[0] == "game_id" && id != TableGameDescription
		if isMap {
			seenMap = true
			continue
		}
		require.False(t, seenMap, "entity table %s comes after a map table", id)
	}
}

func TestTableDedup(t *testing.T) {
	table := NewTable(TableGameMechanic)
	table.Append(Row{"100", "2001"})
	table.Append(Row{"100", "2002"})
	table.Append(Row{"100", "2001"})
	table.Append(Row{"101", "2001"})

	deduped := table.Dedup()
	require.Equal(t, []Row{
		{"100", "2001"},
		{"100", "2002"},
		{"101", "2001"},
	}, deduped.Rows)

	// the original is left untouched
	require.Len(t, table.Rows, 4)

	again := deduped.Dedup()
	require.Equal(t, deduped.Rows, again.Rows)
}

func TestTableDedupFirstSeenWins(t *testing.T) {
	table := NewTable(TableMechanic)
	table.Append(Row{"2001", "Hand Management"})
	table.Append(Row{"2002", "Dice Rolling"})
	table.Append(Row{"2001", "Hand-Management"})

	deduped := table.Dedup()
	require.Equal(t, []Row{
		{"2001", "Hand Management"},
		{"2002", "Dice Rolling"},
	}, deduped.Rows)
}

func TestTableDedupKeysDoNotCollide(t *testing.T) {
	table := NewTable(TableGameMechanic)
	table.Append(Row{"1,2", "3"})
	table.Append(Row{"1", "2,3"})
	require.Len(t, table.Dedup().Rows, 2)
}

func TestTableAppendWrongWidth(t *testing.T) {
	require.Panics(t, func() {
		NewTable(TableGame).Append(Row{"1", "2"})
	})
}

func TestAssembler(t *testing.T) {
	items := loadTestBatch(t)

	asm := NewAssembler()
	for _, item := range append(items, items...) {
		rows, err := ExtractItem(item)
		require.NoError(t, err)
		asm.AddItem(rows)
	}
	require.Len(t, asm.Table(TableGame).Rows, 4)

	asm.Dedup()
	require.Len(t, asm.Table(TableGame).Rows, 2)
	require.Len(t, asm.Table(TableGameDescription).Rows, 2)
	// 2040 is shared by both games
	require.Len(t, asm.Table(TableMechanic).Rows, 2)
	require.Len(t, asm.Table(TableGameMechanic).Rows, 3)
	require.Len(t, asm.Table(TableArtist).Rows, 1)

	before := map[TableID]int{}
	for _, table := range asm.Tables() {
		before[table.ID] = len(table.Rows)
	}
	asm.Dedup()
	for _, table := range asm.Tables() {
		require.Equal(t, before[table.ID], len(table.Rows), "table %s", table.ID)
	}
}
