package transform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadTestBatch(t testing.TB) []*xmlquery.Node {
	r, err := OpenBatch("testdata/bgg_games_batch_00.xml")
	require.NoError(t, err)
	defer r.Close()
	return readAll(t, r)
}

func TestExtractGame(t *testing.T) {
	items := loadTestBatch(t)
	require.Len(t, items, 2)

	testCases := []struct {
		item     *xmlquery.Node
		expected GameRecord
	}{
		{
			item: items[0],
			expected: GameRecord{
				ID:           224517,
				Title:        "Brass: Birmingham",
				ReleaseYear:  2018,
				AvgRating:    8.60707,
				BayesRating:  8.41563,
				TotalRatings: 42315,
				StdRatings:   1.40787,
				MinPlayers:   2,
				MaxPlayers:   4,
				MinPlaytime:  60,
				MaxPlaytime:  120,
				MinAge:       14,
				Weight:       3.891,
				OwnedCopies:  60218,
				Wishlist:     13452,
				Kickstarter:  true,
			},
		},
		{
			item: items[1],
			expected: GameRecord{
				ID:           150,
				Title:        "PitchCar",
				ReleaseYear:  1995,
				AvgRating:    7.25,
				BayesRating:  6.9,
				TotalRatings: 9931,
				StdRatings:   1.3,
				MinPlayers:   2,
				MaxPlayers:   8,
				MinPlaytime:  30,
				MaxPlaytime:  30,
				MinAge:       6,
				Weight:       1,
				OwnedCopies:  14800,
				Wishlist:     1201,
				Kickstarter:  false,
			},
		},
	}

	for _, test := range testCases {
		game, err := ExtractGame(test.item)
		require.NoError(t, err)
		if diff := cmp.Diff(test.expected, game); diff != "" {
			t.Fatalf("unexpected game record (-want +got):\n%s", diff)
		}

		rawID, _ := attr(test.item, "id")
		id, err := ItemID(test.item)
		require.NoError(t, err)
		require.Equal(t, rawID, formatInt(id))
		require.Equal(t, id, game.ID)
	}
}

func TestExtractGameRow(t *testing.T) {
	items := loadTestBatch(t)
	game, err := ExtractGame(items[0])
	require.NoError(t, err)
	require.Equal(t, Row{
		"224517", "Brass: Birmingham", "2018", "8.60707", "8.41563", "42315", "1.40787",
		"2", "4", "60", "120", "14", "3.891", "60218", "13452", "1",
	}, game.Row())
}

func TestExtractGamePrefersPrimaryName(t *testing.T) {
	item := parseItem(t, `<item id="7">
		<name type="alternate" value="Alt" />
		<name type="primary" value="Primary" />
	</item>`)
	f, _ := newFieldReader(item)
	require.Equal(t, "Primary", f.title())

	item = parseItem(t, `<item id="7"><name value="Only" /></item>`)
	f, _ = newFieldReader(item)
	require.Equal(t, "Only", f.title())
}

const completeItem = `<item id="%s">
	<name type="primary" value="Game" />
	<description>text</description>
	<yearpublished value="2001" />
	<minplayers value="1" />
	<maxplayers value="%s" />
	<minplaytime value="10" />
	<maxplaytime value="20" />
	<minage value="8" />
	<statistics><ratings>
		<usersrated value="10" />
		<average value="%s" />
		<bayesaverage value="5.5" />
		<stddev value="1.5" />
		<owned value="3" />
		<wishing value="4" />
		<averageweight value="2.5" />
	</ratings></statistics>
</item>`

func fmtItem(id, maxPlayers, average string) string {
	return fmt.Sprintf(completeItem, id, maxPlayers, average)
}

func TestExtractGameErrors(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		_, err := ExtractGame(parseItem(t, `<item><name value="x"/></item>`))
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "id", missing.Field)
	})

	t.Run("missing average", func(t *testing.T) {
		item := parseItem(t, `<item id="5">
			<name value="x"/>
			<yearpublished value="2001" />
			<minplayers value="1" /><maxplayers value="2" />
			<minplaytime value="1" /><maxplaytime value="2" />
			<minage value="1" />
			<usersrated value="1" /><bayesaverage value="1" /><stddev value="1" />
			<owned value="1" /><wishing value="1" /><averageweight value="1" />
		</item>`)
		_, err := ExtractGame(item)
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "average", missing.Field)
		require.Equal(t, "5", missing.ItemID)
	})

	t.Run("missing value attribute", func(t *testing.T) {
		item := parseItem(t, fmtItem("5", "4", "7.0"))
		xmlquery.FindOne(item, ".//minage").Attr = nil
		_, err := ExtractGame(item)
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "minage@value", missing.Field)
	})

	t.Run("non numeric integer", func(t *testing.T) {
		_, err := ExtractGame(parseItem(t, fmtItem("5", "four", "7.0")))
		var coercion *TypeCoercionError
		require.ErrorAs(t, err, &coercion)
		require.Equal(t, "maxplayers", coercion.Field)
		require.Equal(t, "four", coercion.Value)
	})

	t.Run("non numeric float", func(t *testing.T) {
		_, err := ExtractGame(parseItem(t, fmtItem("5", "4", "N/A")))
		var coercion *TypeCoercionError
		require.ErrorAs(t, err, &coercion)
		require.Equal(t, "average", coercion.Field)
	})

	t.Run("non numeric id", func(t *testing.T) {
		_, err := ExtractGame(parseItem(t, fmtItem("abc", "4", "7.0")))
		var coercion *TypeCoercionError
		require.ErrorAs(t, err, &coercion)
		require.Equal(t, "id", coercion.Field)
	})

	t.Run("complete", func(t *testing.T) {
		game, err := ExtractGame(parseItem(t, fmtItem("5", "4", "7.0")))
		require.NoError(t, err)
		require.Equal(t, 5, game.ID)
		require.False(t, game.Kickstarter)
	})
}

func TestExtractDescription(t *testing.T) {
	items := loadTestBatch(t)

	desc, err := ExtractDescription(items[0])
	require.NoError(t, err)
	require.Equal(t, GameDescription{
		GameID: 224517,
		Description: "Brass: Birmingham is an economic strategy game sequel to Martin Wallace' 2007 " +
			"masterpiece, Brass. The game is played over two halves: the canal era and the rail era.",
	}, desc)

	desc, err = ExtractDescription(items[1])
	require.NoError(t, err)
	require.Equal(t, "Flick your car &amp; race.", desc.Description)

	desc, err = ExtractDescription(parseItem(t, `<item id="3"><description/></item>`))
	require.NoError(t, err)
	require.Equal(t, "", desc.Description)

	_, err = ExtractDescription(parseItem(t, `<item id="3"></item>`))
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "description", missing.Field)
}
