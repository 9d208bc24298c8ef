package transform

import (
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Kind is a tagging dimension games are classified by.
type Kind string

const (
	KindMechanic  Kind = "mechanic"
	KindCategory  Kind = "category"
	KindDesigner  Kind = "designer"
	KindArtist    Kind = "artist"
	KindPublisher Kind = "publisher"
)

// Kinds lists every classification kind in table order.
var Kinds = []Kind{
	KindMechanic,
	KindCategory,
	KindDesigner,
	KindArtist,
	KindPublisher,
}

const linkTypePrefix = "boardgame"

// LinkType is the `type` attribute value of the links that carry this kind.
func (k Kind) LinkType() string {
	return linkTypePrefix + string(k)
}

var linkExprs = func() map[Kind]*xpath.Expr {
	exprs := make(map[Kind]*xpath.Expr, len(Kinds))
	for _, kind := range Kinds {
		exprs[kind] = xpath.MustCompile(fmt.Sprintf(".//link[@type='%s']", kind.LinkType()))
	}
	return exprs
}()

type ClassificationRecord struct {
	Kind Kind
	ID   int
	Name string
}

func (c ClassificationRecord) Row() Row {
	return Row{formatInt(c.ID), c.Name}
}

type ClassificationMap struct {
	Kind             Kind
	GameID           int
	ClassificationID int
}

func (m ClassificationMap) Row() Row {
	return Row{formatInt(m.GameID), formatInt(m.ClassificationID)}
}

// ExtractClassifications reads every link of the given kind on an item. The two results are
// parallel: the i-th map row points at the i-th record.
func ExtractClassifications(item *xmlquery.Node, kind Kind) ([]ClassificationRecord, []ClassificationMap, error) {
	f, gameID := newFieldReader(item)
	if f.err != nil {
		return nil, nil, f.err
	}

	expr, ok := linkExprs[kind]
	if !ok {
		return nil, nil, fmt.Errorf("unknown classification kind %q", kind)
	}
	linkType := kind.LinkType()
	links := xmlquery.QuerySelectorAll(item, expr)

	var records []ClassificationRecord
	var maps []ClassificationMap
	for _, link := range links {
		rawID, ok := attr(link, "id")
		if !ok {
			return nil, nil, &MissingFieldError{ItemID: f.itemID, Field: fmt.Sprintf("link[%s]@id", linkType)}
		}
		name, ok := attr(link, "value")
		if !ok {
			return nil, nil, &MissingFieldError{ItemID: f.itemID, Field: fmt.Sprintf("link[%s]@value", linkType)}
		}
		id := f.parseInt(fmt.Sprintf("link[%s]@id", linkType), rawID)
		if f.err != nil {
			return nil, nil, f.err
		}

		records = append(records, ClassificationRecord{Kind: kind, ID: id, Name: name})
		maps = append(maps, ClassificationMap{Kind: kind, GameID: gameID, ClassificationID: id})
	}

	return records, maps, nil
}

// ItemRows is everything extracted from a single item. It is built completely before any of it
// is handed to an Assembler, so a failing item never leaves partial rows behind.
type ItemRows struct {
	Game            GameRecord
	Description     GameDescription
	Classifications map[Kind][]ClassificationRecord
	Maps            map[Kind][]ClassificationMap
}

// ExtractItem runs every extractor over an item.
func ExtractItem(item *xmlquery.Node) (ItemRows, error) {
	game, err := ExtractGame(item)
	if err != nil {
		return ItemRows{}, err
	}
	desc, err := ExtractDescription(item)
	if err != nil {
		return ItemRows{}, err
	}

	rows := ItemRows{
		Game:            game,
		Description:     desc,
		Classifications: make(map[Kind][]ClassificationRecord, len(Kinds)),
		Maps:            make(map[Kind][]ClassificationMap, len(Kinds)),
	}
	for _, kind := range Kinds {
		records, maps, err := ExtractClassifications(item, kind)
		if err != nil {
			return ItemRows{}, err
		}
		rows.Classifications[kind] = records
		rows.Maps[kind] = maps
	}
	return rows, nil
}
