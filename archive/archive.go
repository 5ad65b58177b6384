// Package archive turns a workflow project folder into a compressed
// tarball and ships it to the stage folder that the remote job mounts as
// its work directory.
package archive

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/platform"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runid"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

var debug = util.Debug("archive")

// Error kinds returned from Upload, separating local archive construction
// failures from stage transfer failures.
var (
	ErrPackagingFailed = errors.New("failed to package project folder")
	ErrUploadFailed    = errors.New("failed to upload project archive")
)

// Packager creates the project artifact for a run and uploads it.
type Packager struct {
	Storage  runtime.TemporaryStorage
	Platform platform.Platform
	Monitor  runtime.Monitor
}

// Upload archives projectDir and uploads the result to the run's folder
// under workDirStage. It returns the artifact file name as the job will
// see it on the mounted stage. The intermediate tarball lives in
// temporary storage and is removed before Upload returns, on success as
// well as on failure.
func (p *Packager) Upload(projectDir, workDirStage string, token runid.ID) (string, error) {
	folder, err := filepath.Abs(projectDir)
	if err != nil {
		return "", errors.Wrapf(ErrPackagingFailed, "unable to resolve project folder '%s': %s", projectDir, err)
	}

	file, err := p.Storage.NewFile(".tar.gz")
	if err != nil {
		return "", errors.Wrapf(ErrPackagingFailed, "unable to create temporary file: %s", err)
	}
	// Close() removes the file, covering all return paths below
	defer file.Close()

	debug("packing '%s' into '%s'", folder, file.Path())
	if err = writeTarball(file, folder); err != nil {
		return "", errors.Wrapf(ErrPackagingFailed, "%s", err)
	}

	stagePath := workDirStage + "/" + string(token)
	p.Monitor.Debugf("uploading '%s' to '%s'", file.Path(), stagePath)
	if err = p.Platform.PutFile(file.Path(), stagePath); err != nil {
		return "", errors.Wrapf(ErrUploadFailed, "%s", err)
	}

	return filepath.Base(file.Path()), nil
}
