package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte("<items></items>"))
	}))
	defer server.Close()

	output := &memoryOutput{}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil, output)

	_, err := client.R().SetBody("payload").Post("/thing")
	require.NoError(t, err)
	_, err = client.R().Get("/thing?id=1")
	require.NoError(t, err)

	require.Len(t, output.messages, 2)
	first := output.messages["1"]
	require.Contains(t, first, "POST "+server.URL+"/thing")
	require.Contains(t, first, "payload")
	require.Contains(t, first, "200 OK")
	require.Contains(t, first, "<items></items>")
	require.True(t, strings.HasPrefix(output.messages["2"], "---- REQUEST ----\n\nGET "))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "http")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), nil, 0600))

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(dir, "stale.txt"))

	output.Write("1", "hello")
	contents, err := os.ReadFile(filepath.Join(output.Dir(), "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}
