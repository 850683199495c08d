package global

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogIndex(t *testing.T) {
	assert.Equal(t, int64(3), getLogIndex("hackemon", "/logs/hackemon-3.log"))
	assert.Equal(t, int64(-1), getLogIndex("hackemon", "/logs/hackemon-x.log"))
	assert.Equal(t, int64(-1), getLogIndex("hackemon", "/logs/hackemon.log"))
	assert.Equal(t, int64(-1), getLogIndex("hackemon", "/logs/hackemon-0.log"))
}

func TestRollingFileWriterRotates(t *testing.T) {
	files := afero.NewMemMapFs()
	w, err := NewRollingFileWriter(files, "/logs", "hackemon")
	require.NoError(t, err)
	w.maxSize = 10
	w.maxFiles = 3

	for _, line := range []string{"first line\n", "second line\n", "third line\n", "fourth line\n"} {
		_, err := w.Write([]byte(line))
		require.NoError(t, err)
	}

	read := func(name string) string {
		data, err := afero.ReadFile(files, "/logs/"+name)
		require.NoError(t, err)
		return string(data)
	}

	assert.Equal(t, "fourth line\n", read("hackemon.log"))
	assert.Equal(t, "third line\n", read("hackemon-1.log"))
	assert.Equal(t, "second line\n", read("hackemon-2.log"))

	exists, err := afero.Exists(files, "/logs/hackemon-3.log")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRollingFileWriterAppendsUnderLimit(t *testing.T) {
	files := afero.NewMemMapFs()
	w, err := NewRollingFileWriter(files, "/logs", "hackemon")
	require.NoError(t, err)

	_, err = w.Write([]byte("a"))
	require.NoError(t, err)
	_, err = w.Write([]byte("b"))
	require.NoError(t, err)

	data, err := afero.ReadFile(files, "/logs/hackemon.log")
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
}

func TestRollingFileWriterDropsBrokenArchives(t *testing.T) {
	files := afero.NewMemMapFs()
	w, err := NewRollingFileWriter(files, "/logs", "hackemon")
	require.NoError(t, err)
	w.maxSize = 1

	require.NoError(t, afero.WriteFile(files, "/logs/hackemon-old.log", []byte("?"), 0644))
	_, err = w.Write([]byte("one"))
	require.NoError(t, err)
	_, err = w.Write([]byte("two"))
	require.NoError(t, err)

	exists, err := afero.Exists(files, "/logs/hackemon-old.log")
	require.NoError(t, err)
	assert.False(t, exists)
}
