package runtime

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemporaryFileWithSuffix(t *testing.T) {
	storage, err := NewTemporaryTestStorage("tempfolder-test-")
	require.NoError(t, err)
	defer storage.(TemporaryFolder).Remove()

	file, err := storage.NewFile(".tar.gz")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(file.Path(), ".tar.gz"))

	_, err = file.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = file.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	path := file.Path()
	require.NoError(t, file.Close())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "Close() must remove the file")
}

func TestTemporaryFolderRemove(t *testing.T) {
	storage, err := NewTemporaryTestStorage("tempfolder-test-")
	require.NoError(t, err)

	folder, err := storage.NewFolder()
	require.NoError(t, err)
	file, err := folder.NewFile("")
	require.NoError(t, err)
	_, err = file.Write([]byte("data"))
	require.NoError(t, err)
	file.Close()

	require.NoError(t, storage.(TemporaryFolder).Remove())
	_, err = os.Stat(folder.Path())
	require.True(t, os.IsNotExist(err))
}
