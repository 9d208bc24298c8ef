package transform

import (
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractClassifications(t *testing.T) {
	items := loadTestBatch(t)

	records, maps, err := ExtractClassifications(items[0], KindDesigner)
	require.NoError(t, err)

	expectedRecords := []ClassificationRecord{
		{Kind: KindDesigner, ID: 9714, Name: "Gavan Brown"},
		{Kind: KindDesigner, ID: 9713, Name: "Matt Tolman"},
		{Kind: KindDesigner, ID: 9, Name: "Martin Wallace"},
	}
	if diff := cmp.Diff(expectedRecords, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	expectedMaps := []ClassificationMap{
		{Kind: KindDesigner, GameID: 224517, ClassificationID: 9714},
		{Kind: KindDesigner, GameID: 224517, ClassificationID: 9713},
		{Kind: KindDesigner, GameID: 224517, ClassificationID: 9},
	}
	if diff := cmp.Diff(expectedMaps, maps); diff != "" {
		t.Fatalf("unexpected maps (-want +got):\n%s", diff)
	}
}

func TestExtractClassificationsCounts(t *testing.T) {
	items := loadTestBatch(t)

	testCases := []struct {
		item  *xmlquery.Node
		kind  Kind
		count int
	}{
		{item: items[0], kind: KindMechanic, count: 2},
		{item: items[0], kind: KindCategory, count: 3},
		{item: items[0], kind: KindArtist, count: 1},
		{item: items[0], kind: KindPublisher, count: 1},
		{item: items[1], kind: KindArtist, count: 0},
		{item: items[1], kind: KindDesigner, count: 1},
	}

	for _, test := range testCases {
		records, maps, err := ExtractClassifications(test.item, test.kind)
		require.NoError(t, err)
		require.Len(t, records, test.count, "kind %s", test.kind)
		require.Len(t, maps, test.count, "kind %s", test.kind)
	}
}

func TestExtractClassificationsNoLinks(t *testing.T) {
	item := parseItem(t, `<item id="1"><link type="boardgamefamily" id="8374" value="Crowdfunding: Kickstarter"/></item>`)
	for _, kind := range Kinds {
		records, maps, err := ExtractClassifications(item, kind)
		require.NoError(t, err)
		require.Empty(t, records)
		require.Empty(t, maps)
	}
}

func TestExtractClassificationsErrors(t *testing.T) {
	item := parseItem(t, `<item id="1"><link type="boardgamemechanic" value="Dice"/></item>`)
	_, _, err := ExtractClassifications(item, KindMechanic)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)

	item = parseItem(t, `<item id="1"><link type="boardgamemechanic" id="x1" value="Dice"/></item>`)
	_, _, err = ExtractClassifications(item, KindMechanic)
	var coercion *TypeCoercionError
	require.ErrorAs(t, err, &coercion)
	require.Equal(t, "x1", coercion.Value)

	item = parseItem(t, `<item id="1"><link type="boardgamemechanic" id="2" /></item>`)
	_, _, err = ExtractClassifications(item, KindMechanic)
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "link[boardgamemechanic]@value", missing.Field)
}

func TestExtractItem(t *testing.T) {
	items := loadTestBatch(t)
	rows, err := ExtractItem(items[1])
	require.NoError(t, err)
	require.Equal(t, 150, rows.Game.ID)
	require.Equal(t, 150, rows.Description.GameID)
	require.Len(t, rows.Classifications, len(Kinds))
	require.Len(t, rows.Maps[KindCategory], 1)
	require.Empty(t, rows.Maps[KindArtist])
}
