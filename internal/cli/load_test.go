package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stmtc/compiler"
	"github.com/syssam/stmtc/dialect/sql/schema"
)

func TestDecodeDescriptors(t *testing.T) {
	ds, err := DecodeDescriptors(strings.NewReader(`
kind: insert
table: '"USERS"'
columns: [ID, NAME]
values: ["1", "'Bob'"]
---
kind: batch_insert
table: '"LOGS"'
columns: [MSG]
rows: ["('a')", "('b')"]
---
kind: select
select: SELECT * FROM "USERS"
limit: 10
offset: 20
`))
	require.NoError(t, err)
	require.Len(t, ds, 3)
	assert.Equal(t, compiler.Insert, ds[0].Kind)
	assert.Equal(t, []string{"1", "'Bob'"}, ds[0].Values)
	assert.Equal(t, compiler.BatchInsert, ds[1].Kind)
	assert.Equal(t, []string{"('a')", "('b')"}, ds[1].Rows)
	assert.Equal(t, 20, ds[2].Offset)
}

func TestDecodeDescriptors_Errors(t *testing.T) {
	_, err := DecodeDescriptors(strings.NewReader(""))
	assert.EqualError(t, err, "no descriptors")

	_, err = DecodeDescriptors(strings.NewReader("kind: insert\ntabel: T\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descriptor 1")

	_, err = DecodeDescriptors(strings.NewReader("kind: merge\n"))
	require.Error(t, err)
}

func TestLoadIndexes(t *testing.T) {
	dir := t.TempDir()
	s := schema.Static{"USERS": {{Name: "PK", Type: schema.Primary, Fields: []string{"ID"}}}}
	for _, name := range []string{"idx.yaml", "idx.msgpack"} {
		var buf bytes.Buffer
		require.NoError(t, schema.WriteSnapshot(&buf, s, SnapshotFormat(name)))
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		got, err := LoadIndexes(path)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("T:\n  - {name: A, type: primary, fields: [X]}\n  - {name: B, type: primary, fields: [Y]}\n"), 0o644))
	_, err := LoadIndexes(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second primary key")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, "warn", 0)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l, err = NewLogger(&buf, "warn", 2)
	require.NoError(t, err)
	l.Debug("debug")
	assert.Contains(t, buf.String(), "debug")

	_, err = NewLogger(&buf, "loud", 0)
	assert.Error(t, err)
}
