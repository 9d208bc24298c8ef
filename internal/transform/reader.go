package transform

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
)

const (
	// BatchFileExt is the extension a file must have to be read as a batch file.
	BatchFileExt = ".xml"

	containerElement = "items"
)

var (
	errMissingContainer = errors.New("missing <items> container element")
	errMultipleRoots    = errors.New("more than one root element")
	errTextOutsideRoot  = errors.New("character data outside the root element")
)

// ListBatchFiles returns the paths of every batch file directly inside dir, sorted by name.
func ListBatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: dir, Err: err}
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != BatchFileExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// BatchReader yields the items of a single batch file one at a time. The file is parsed into
// a tree on the first call to Next.
type BatchReader struct {
	path string
	src  io.Reader
	file *os.File

	parsed bool
	next   *xmlquery.Node
}

// OpenBatch opens a batch file for reading, the caller must Close it.
func OpenBatch(path string) (*BatchReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return NewBatchReader(path, f), nil
}

// NewBatchReader reads items from r, `name` is only used in errors. If r is an *os.File it will
// be closed by Close.
func NewBatchReader(name string, r io.Reader) *BatchReader {
	br := &BatchReader{path: name, src: r}
	if f, ok := r.(*os.File); ok {
		br.file = f
	}
	return br
}

func (r *BatchReader) parseError(err error) error {
	return &ParseError{Path: r.path, Err: err}
}

// parse reads the whole document and returns its first <items> element. xmlquery (like
// encoding/xml under it) accepts several top level elements, those are rejected here.
func (r *BatchReader) parse() (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(r.src)
	if err != nil {
		return nil, r.parseError(err)
	}

	roots := 0
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.ElementNode:
			roots++
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil, r.parseError(errTextOutsideRoot)
			}
		}
	}
	if roots > 1 {
		return nil, r.parseError(errMultipleRoots)
	}

	container := xmlquery.QuerySelector(doc, containerExpr)
	if container == nil {
		return nil, r.parseError(errMissingContainer)
	}
	return container, nil
}

// Next returns the next item of the batch, skipping any child of the container that is not an
// element. It returns io.EOF once every item was returned.
func (r *BatchReader) Next() (*xmlquery.Node, error) {
	if !r.parsed {
		r.parsed = true
		container, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.next = container.FirstChild
	}

	for r.next != nil {
		node := r.next
		r.next = node.NextSibling
		if node.Type == xmlquery.ElementNode {
			return node, nil
		}
	}
	return nil, io.EOF
}

func (r *BatchReader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// DirReader yields the items of every batch file in a directory, file by file.
type DirReader struct {
	files   []string
	idx     int
	current *BatchReader
}

// OpenDir lists the batch files in dir. A missing directory is reported as an *IOError
// wrapping fs.ErrNotExist.
func OpenDir(dir string) (*DirReader, error) {
	files, err := ListBatchFiles(dir)
	if err != nil {
		return nil, err
	}
	return &DirReader{files: files, idx: -1}, nil
}

// Files returns the batch files that will be read.
func (d *DirReader) Files() []string {
	return d.files
}

// CurrentFile returns the file the last item came from.
func (d *DirReader) CurrentFile() string {
	if d.idx < 0 || d.idx >= len(d.files) {
		return ""
	}
	return d.files[d.idx]
}

// Next returns the next item across all files, or io.EOF once every file was read.
func (d *DirReader) Next() (*xmlquery.Node, error) {
	for {
		if d.current == nil {
			if d.idx+1 >= len(d.files) {
				return nil, io.EOF
			}
			d.idx++
			br, err := OpenBatch(d.files[d.idx])
			if err != nil {
				return nil, err
			}
			d.current = br
		}

		node, err := d.current.Next()
		if err == io.EOF {
			closeErr := d.current.Close()
			d.current = nil
			if closeErr != nil {
				return nil, &IOError{Op: "close", Path: d.files[d.idx], Err: closeErr}
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return node, nil
	}
}

func (d *DirReader) Close() error {
	if d.current == nil {
		return nil
	}
	err := d.current.Close()
	d.current = nil
	return err
}
