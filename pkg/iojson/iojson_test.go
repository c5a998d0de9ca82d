package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, record{Name: "a", Count: 2}))
	assert.Equal(t, "{\n  \"name\": \"a\",\n  \"count\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)}))
	assert.Empty(t, out.String())

	var e Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &e))
	assert.Contains(t, e.Message, "error marshaling")
	assert.Contains(t, e.Data, "json_error")
}

func TestWriteLine(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteLine(&out, record{Name: "a", Count: 1}))
	require.NoError(t, WriteLine(&out, record{Name: "b", Count: 2}))

	assert.Equal(t, "{\"name\":\"a\",\"count\":1}\n{\"name\":\"b\",\"count\":2}\n", out.String())
}

func TestWriteError(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteError(&out, "no task on this line", map[string]any{"line": 3}))

	var e Error
	require.NoError(t, json.Unmarshal(out.Bytes(), &e))
	assert.Equal(t, "no task on this line", e.Message)
	assert.EqualValues(t, 3, e.Data["line"])
}

func TestInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("- [ ] a\r\n- [x] b\n"), 0o600))

	in := &Input{path: path}
	lines, err := ReadLines(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"- [ ] a", "- [x] b"}, lines)
}

func TestInput_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	_, err = w.WriteString(`{"name":"piped","count":7}`)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	in := &Input{stdin: r}
	got, err := ReadJSON[record](in)
	require.NoError(t, err)
	assert.Equal(t, record{Name: "piped", Count: 7}, got)
}

func TestInput_MissingFile(t *testing.T) {
	in := &Input{path: filepath.Join(t.TempDir(), "nope.json")}
	_, err := ReadJSON[record](in)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "open file"))
}
