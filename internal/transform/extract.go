package transform

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// KickstarterFamilyID is the id of the "Crowdfunding: Kickstarter" family link.
const KickstarterFamilyID = 8374

type GameRecord struct {
	ID           int
	Title        string
	ReleaseYear  int
	AvgRating    float64
	BayesRating  float64
	TotalRatings int
	StdRatings   float64
	MinPlayers   int
	MaxPlayers   int
	MinPlaytime  int
	MaxPlaytime  int
	MinAge       int
	Weight       float64
	OwnedCopies  int
	Wishlist     int
	Kickstarter  bool
}

func (g GameRecord) Row() Row {
	kickstarter := "0"
	if g.Kickstarter {
		kickstarter = "1"
	}
	return Row{
		formatInt(g.ID),
		g.Title,
		formatInt(g.ReleaseYear),
		formatFloat(g.AvgRating),
		formatFloat(g.BayesRating),
		formatInt(g.TotalRatings),
		formatFloat(g.StdRatings),
		formatInt(g.MinPlayers),
		formatInt(g.MaxPlayers),
		formatInt(g.MinPlaytime),
		formatInt(g.MaxPlaytime),
		formatInt(g.MinAge),
		formatFloat(g.Weight),
		formatInt(g.OwnedCopies),
		formatInt(g.Wishlist),
		kickstarter,
	}
}

type GameDescription struct {
	GameID      int
	Description string
}

func (d GameDescription) Row() Row {
	return Row{formatInt(d.GameID), d.Description}
}

var gameValueExprs = descendantExprs(
	"yearpublished",
	"average",
	"bayesaverage",
	"usersrated",
	"stddev",
	"minplayers",
	"maxplayers",
	"minplaytime",
	"maxplaytime",
	"minage",
	"averageweight",
	"owned",
	"wishing",
)

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// fieldReader reads typed fields off an item, keeping only the first error so that a run
// of lookups can be checked once at the end.
type fieldReader struct {
	item   *xmlquery.Node
	itemID string
	err    error
}

func (f *fieldReader) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *fieldReader) missing(field string) {
	f.fail(&MissingFieldError{ItemID: f.itemID, Field: field})
}

func (f *fieldReader) coerce(field, value, typ string, err error) {
	f.fail(&TypeCoercionError{
		ItemID: f.itemID,
		Field:  field,
		Value:  value,
		Type:   typ,
		Err:    err,
	})
}

// value returns the `value` attribute of the first element named `element`.
func (f *fieldReader) value(element string) (string, bool) {
	node := xmlquery.QuerySelector(f.item, gameValueExprs[element])
	if node == nil {
		f.missing(element)
		return "", false
	}
	v, ok := attr(node, "value")
	if !ok {
		f.missing(element + "@value")
		return "", false
	}
	return v, true
}

func (f *fieldReader) parseInt(field, raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		f.coerce(field, raw, "integer", err)
		return 0
	}
	return n
}

func (f *fieldReader) parseFloat(field, raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		f.coerce(field, raw, "float", err)
		return 0
	}
	return n
}

func (f *fieldReader) intValue(element string) int {
	raw, ok := f.value(element)
	if !ok {
		return 0
	}
	return f.parseInt(element, raw)
}

func (f *fieldReader) floatValue(element string) float64 {
	raw, ok := f.value(element)
	if !ok {
		return 0
	}
	return f.parseFloat(element, raw)
}

// title prefers the primary name, items without a typed name fall back to the first one.
func (f *fieldReader) title() string {
	chosen := xmlquery.QuerySelector(f.item, primaryNameExpr)
	if chosen == nil {
		chosen = xmlquery.QuerySelector(f.item, nameExpr)
	}
	if chosen == nil {
		f.missing("name")
		return ""
	}
	v, ok := attr(chosen, "value")
	if !ok {
		f.missing("name@value")
		return ""
	}
	return v
}

func (f *fieldReader) hasLinkID(id int) bool {
	target := strconv.Itoa(id)
	for _, link := range xmlquery.QuerySelectorAll(f.item, linkWithIDExpr) {
		if v, _ := attr(link, "id"); strings.TrimSpace(v) == target {
			return true
		}
	}
	return false
}

func newFieldReader(item *xmlquery.Node) (*fieldReader, int) {
	f := &fieldReader{item: item}
	raw, ok := attr(item, "id")
	if !ok {
		f.missing("id")
		return f, 0
	}
	f.itemID = raw
	return f, f.parseInt("id", raw)
}

// ItemID returns the integer id attribute of an item.
func ItemID(item *xmlquery.Node) (int, error) {
	f, id := newFieldReader(item)
	return id, f.err
}

// ExtractGame reads the game table fields of an item.
func ExtractGame(item *xmlquery.Node) (GameRecord, error) {
	f, id := newFieldReader(item)
	if f.err != nil {
		return GameRecord{}, f.err
	}

	g := GameRecord{
		ID:           id,
		Title:        f.title(),
		ReleaseYear:  f.intValue("yearpublished"),
		AvgRating:    f.floatValue("average"),
		BayesRating:  f.floatValue("bayesaverage"),
		TotalRatings: f.intValue("usersrated"),
		StdRatings:   f.floatValue("stddev"),
		MinPlayers:   f.intValue("minplayers"),
		MaxPlayers:   f.intValue("maxplayers"),
		MinPlaytime:  f.intValue("minplaytime"),
		MaxPlaytime:  f.intValue("maxplaytime"),
		MinAge:       f.intValue("minage"),
		Weight:       f.floatValue("averageweight"),
		OwnedCopies:  f.intValue("owned"),
		Wishlist:     f.intValue("wishing"),
		Kickstarter:  f.hasLinkID(KickstarterFamilyID),
	}
	if f.err != nil {
		return GameRecord{}, f.err
	}
	return g, nil
}

// ExtractDescription reads and sanitizes the description of an item.
func ExtractDescription(item *xmlquery.Node) (GameDescription, error) {
	f, id := newFieldReader(item)
	if f.err != nil {
		return GameDescription{}, f.err
	}

	node := xmlquery.QuerySelector(item, descriptionExpr)
	if node == nil {
		return GameDescription{}, &MissingFieldError{ItemID: f.itemID, Field: "description"}
	}

	return GameDescription{
		GameID:      id,
		Description: SanitizeDescription(node.InnerText()),
	}, nil
}
