package xmlapi

import (
	"fmt"
	"net/url"
	"strings"

	"bgg-pipeline/internal/components/assert"
)

const DefaultBaseUrl = "https://boardgamegeek.com/xmlapi2"

// BatchFileFormat names the file FetchBatches writes for the n-th batch.
const BatchFileFormat = "bgg_games_batch_%02d.xml"

// BatchFileGlob matches every file named by BatchFileFormat.
const BatchFileGlob = "bgg_games_batch_*.xml"

// Param is a single query parameter, params keep the order they are given in.
type Param struct {
	Key   string
	Value string
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2C", ",")
}

// QueryPath renders `<queryType>?k=v&...` with parameters in the given order.
func QueryPath(queryType string, params ...Param) string {
	var out strings.Builder
	out.WriteString(queryType)
	for i, p := range params {
		if i == 0 {
			out.WriteByte('?')
		} else {
			out.WriteByte('&')
		}
		out.WriteString(escape(p.Key))
		out.WriteByte('=')
		out.WriteString(escape(p.Value))
	}
	return out.String()
}

// BuildQuery returns the absolute url of an xml api query.
func BuildQuery(queryType string, params ...Param) string {
	return fmt.Sprintf("%s/%s", DefaultBaseUrl, QueryPath(queryType, params...))
}

// Batches splits ids into contiguous chunks of at most size ids.
func Batches(ids []string, size int) [][]string {
	assert.Positive(size)

	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}

func thingParams(ids []string) []Param {
	return []Param{
		{Key: "id", Value: strings.Join(ids, ",")},
		{Key: "stats", Value: "1"},
	}
}
