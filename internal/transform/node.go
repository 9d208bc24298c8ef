package transform

import (
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Item lookups are relative to the item node. An absolute "//" path would search the whole
// batch file and pick up fields of earlier items.
var (
	containerExpr   = xpath.MustCompile("//" + containerElement)
	nameExpr        = xpath.MustCompile(".//name")
	primaryNameExpr = xpath.MustCompile(".//name[@type='primary']")
	descriptionExpr = xpath.MustCompile(".//description")
	linkWithIDExpr  = xpath.MustCompile(".//link[@id]")
)

// descendantExprs compiles a first-descendant lookup for each element name.
func descendantExprs(names ...string) map[string]*xpath.Expr {
	exprs := make(map[string]*xpath.Expr, len(names))
	for _, name := range names {
		exprs[name] = xpath.MustCompile(".//" + name)
	}
	return exprs
}

// attr returns the value of the attribute with the given local name. SelectAttr cannot tell a
// missing attribute from an empty one.
func attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
