package transform

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/require"
)

func readAll(t testing.TB, r interface{ Next() (*xmlquery.Node, error) }) []*xmlquery.Node {
	var out []*xmlquery.Node
	for {
		node, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, node)
	}
}

func parseItem(t testing.TB, item string) *xmlquery.Node {
	r := NewBatchReader("inline", strings.NewReader("<items>"+item+"</items>"))
	node, err := r.Next()
	require.NoError(t, err)
	return node
}

func TestBatchReaderSkipsNonElements(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<items termsofuse="x">
	some stray text
	<item id="1"><name value="a"/></item>
	<!-- a comment -->

	<item id="2"><name value="b"/></item>
</items>
`
	r := NewBatchReader("inline", strings.NewReader(doc))
	items := readAll(t, r)
	require.Len(t, items, 2)
	require.Equal(t, "item", items[0].Data)

	id, ok := attr(items[1], "id")
	require.True(t, ok)
	require.Equal(t, "2", id)

	// exhausted readers stay exhausted
	_, err := r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestBatchReaderOnlyYieldsDirectChildren(t *testing.T) {
	doc := `<items><item id="1"><item id="nested"/></item></items>`
	items := readAll(t, NewBatchReader("inline", strings.NewReader(doc)))
	require.Len(t, items, 1)
	nested := xmlquery.FindOne(items[0], ".//item")
	require.NotNil(t, nested)
	require.Equal(t, "nested", nested.SelectAttr("id"))
}

func TestBatchReaderLookupsStayInsideItem(t *testing.T) {
	doc := `<items>
		<item id="1"><minage value="10"/></item>
		<item id="2"><minage value="12"/></item>
	</items>`
	items := readAll(t, NewBatchReader("inline", strings.NewReader(doc)))
	require.Len(t, items, 2)

	f, _ := newFieldReader(items[1])
	require.Equal(t, 12, f.intValue("minage"))
	require.NoError(t, f.err)
}

func TestBatchReaderParseErrors(t *testing.T) {
	table := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "no container", doc: `<things><item id="1"/></things>`},
		{name: "unclosed item", doc: `<items><item id="1"><name value="a"/>`},
		{name: "mismatched tags", doc: `<items><item id="1"></name></items>`},
		{name: "garbage after container", doc: `<items><item id="1"/></items><oops>`},
		{name: "second container", doc: `<items><item id="7"/></items><items><item id="8"/></items>`},
		{name: "element after container", doc: `<items><item id="7"/></items><extra/>`},
		{name: "text after container", doc: `<items><item id="7"/></items>trailing`},
	}

	for _, test := range table {
		r := NewBatchReader(test.name, strings.NewReader(test.doc))
		var err error
		for err == nil {
			_, err = r.Next()
		}
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "%s: expected a parse error, got %v", test.name, err)
		require.Equal(t, test.name, parseErr.Path)
	}
}

func TestBatchReaderRejectsSecondRootBeforeYielding(t *testing.T) {
	doc := `<items><item id="7"/></items><items><item id="8"/></items>`
	r := NewBatchReader("two-roots", strings.NewReader(doc))

	item, err := r.Next()
	require.Nil(t, item)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.ErrorIs(t, err, errMultipleRoots)

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestListBatchFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xml", "a.xml", "notes.txt", "c.XML"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<items/>"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.xml"), 0700))

	files, err := ListBatchFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.xml"),
		filepath.Join(dir, "b.xml"),
	}, files)
}

func TestOpenDirMissing(t *testing.T) {
	_, err := OpenDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestDirReaderReadsEveryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bgg_games_batch_00.xml"),
		[]byte(`<items><item id="1"/><item id="2"/></items>`),
		0600,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bgg_games_batch_01.xml"),
		[]byte(`<items></items>`),
		0600,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bgg_games_batch_02.xml"),
		[]byte(`<items><item id="3"/></items>`),
		0600,
	))

	reader, err := OpenDir(dir)
	require.NoError(t, err)
	defer reader.Close()

	var ids []string
	for {
		item, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		id, _ := attr(item, "id")
		ids = append(ids, id)
	}
	require.Equal(t, []string{"1", "2", "3"}, ids)
}
