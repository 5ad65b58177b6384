package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	rt "runtime"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/platform"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runid"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/mocks"
)

// fakeProject builds a small project tree including version control
// litter that must never reach the artifact.
func fakeProject(t *testing.T) string {
	t.Helper()
	project := filepath.Join(t.TempDir(), "pipeline")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "modules"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".git", "objects"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "main.nf"), []byte("workflow {}\n"), 0754))
	require.NoError(t, os.WriteFile(filepath.Join(project, "nextflow.config"), []byte("process.executor = 'local'\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "modules", "align.nf"), []byte("process ALIGN {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, ".gitignore"), []byte("work/\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, ".git", "objects", "pack"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "modules", ".gitignore"), []byte("*.tmp\n"), 0644))
	return project
}

// tarEntries reads a gzipped tarball and returns its headers by name.
func tarEntries(t *testing.T, path string) map[string]*tar.Header {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	entries := map[string]*tar.Header{}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		entries[hdr.Name] = hdr
	}
	return entries
}

func TestUploadArchivesProject(t *testing.T) {
	storage, err := runtime.NewTemporaryTestStorage("archive-test-")
	require.NoError(t, err)
	defer storage.(runtime.TemporaryFolder).Remove()

	project := fakeProject(t)

	// The tarball only exists while PutFile runs, so inspect it there
	var entries map[string]*tar.Header
	var uploadedPath string
	p := &platform.MockPlatform{}
	p.On("PutFile", mock.AnythingOfType("string"), "@nf_stage/workdir/abcd1234").Run(func(args mock.Arguments) {
		uploadedPath = args.String(0)
		entries = tarEntries(t, uploadedPath)
	}).Return(nil)

	packager := &Packager{Storage: storage, Platform: p, Monitor: mocks.NewMockMonitor(true)}
	name, err := packager.Upload(project, "@nf_stage/workdir", runid.ID("abcd1234"))
	require.NoError(t, err)
	p.AssertExpectations(t)

	assert.True(t, strings.HasSuffix(name, ".tar.gz"))
	assert.Equal(t, filepath.Base(uploadedPath), name)

	assert.Contains(t, entries, "pipeline/")
	assert.Contains(t, entries, "pipeline/main.nf")
	assert.Contains(t, entries, "pipeline/nextflow.config")
	assert.Contains(t, entries, "pipeline/modules/")
	assert.Contains(t, entries, "pipeline/modules/align.nf")
	for entry := range entries {
		assert.NotContains(t, entry, ".git", "version control state leaked into artifact")
	}
	if rt.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0754), entries["pipeline/main.nf"].FileInfo().Mode().Perm())
	}

	_, err = os.Stat(uploadedPath)
	assert.True(t, os.IsNotExist(err), "temporary tarball must be removed after upload")
}

func TestUploadPreservesSymlinks(t *testing.T) {
	if rt.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	storage, err := runtime.NewTemporaryTestStorage("archive-test-")
	require.NoError(t, err)
	defer storage.(runtime.TemporaryFolder).Remove()

	project := fakeProject(t)
	require.NoError(t, os.Symlink("main.nf", filepath.Join(project, "link.nf")))

	var entries map[string]*tar.Header
	p := &platform.MockPlatform{}
	p.On("PutFile", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		entries = tarEntries(t, args.String(0))
	}).Return(nil)

	packager := &Packager{Storage: storage, Platform: p, Monitor: mocks.NewMockMonitor(true)}
	_, err = packager.Upload(project, "@nf_stage/workdir", runid.ID("abcd1234"))
	require.NoError(t, err)

	link := entries["pipeline/link.nf"]
	require.NotNil(t, link)
	assert.Equal(t, byte(tar.TypeSymlink), link.Typeflag)
	assert.Equal(t, "main.nf", link.Linkname)
}

func TestUploadFailureRemovesTarball(t *testing.T) {
	storage, err := runtime.NewTemporaryTestStorage("archive-test-")
	require.NoError(t, err)
	defer storage.(runtime.TemporaryFolder).Remove()

	var uploadedPath string
	p := &platform.MockPlatform{}
	p.On("PutFile", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		uploadedPath = args.String(0)
	}).Return(errors.New("stage unreachable"))

	packager := &Packager{Storage: storage, Platform: p, Monitor: mocks.NewMockMonitor(true)}
	_, err = packager.Upload(fakeProject(t), "@nf_stage/workdir", runid.ID("abcd1234"))
	require.Error(t, err)
	assert.Equal(t, ErrUploadFailed, errors.Cause(err))
	assert.Contains(t, err.Error(), "stage unreachable")

	_, err = os.Stat(uploadedPath)
	assert.True(t, os.IsNotExist(err), "temporary tarball must be removed after failed upload")
}

func TestUploadMissingProjectFolder(t *testing.T) {
	storage, err := runtime.NewTemporaryTestStorage("archive-test-")
	require.NoError(t, err)
	defer storage.(runtime.TemporaryFolder).Remove()

	p := &platform.MockPlatform{}
	packager := &Packager{Storage: storage, Platform: p, Monitor: mocks.NewMockMonitor(true)}
	_, err = packager.Upload(filepath.Join(t.TempDir(), "no-such-project"), "@nf_stage/workdir", runid.ID("abcd1234"))
	require.Error(t, err)
	assert.Equal(t, ErrPackagingFailed, errors.Cause(err))
	p.AssertNotCalled(t, "PutFile", mock.Anything, mock.Anything)
}
