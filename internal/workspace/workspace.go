// Package workspace resolves where a run's output layers go. Resolution is
// pure: the folder is only created later, at write time, so a run that fails
// its license check leaves no trace on disk.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/khgis/ga-lisst/internal/domain"
)

// ProjectFileName marks a project root. The nearest directory at or above
// the working directory containing this file is treated as the open project.
const ProjectFileName = "lisst.project.yaml"

// OutputDirName is the layer folder created inside the chosen parent.
const OutputDirName = "ga_lisst_layers"

// Source records how the output folder was chosen.
type Source string

const (
	SourceExplicit Source = "explicit" // user-supplied folder
	SourceProject  Source = "project"  // derived from the open project
	SourceFallback Source = "fallback" // no project found, home directory default
)

// Resolution is the chosen output folder and how it was derived.
type Resolution struct {
	Folder string
	Source Source
}

// Resolver locates the output folder. HomeDir defaults to the current user's
// home and exists as a field so tests can redirect the fallback.
type Resolver struct {
	HomeDir string
}

// Resolve picks the output folder. An explicit folder always wins. Otherwise
// the working directory's ancestors are searched for a project file and the
// folder is placed beside it; with no project, the fallback is
// <home>/ga_lisst_layers and the caller should warn.
func (r Resolver) Resolve(explicit, workingDir string) (Resolution, error) {
	if explicit != "" {
		return Resolution{Folder: explicit, Source: SourceExplicit}, nil
	}

	if root, ok := findProjectRoot(workingDir); ok {
		return Resolution{Folder: filepath.Join(root, OutputDirName), Source: SourceProject}, nil
	}

	home := r.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return Resolution{}, fmt.Errorf("%w: resolve output folder: %v", domain.ErrFilesystem, err)
		}
	}
	return Resolution{Folder: filepath.Join(home, OutputDirName), Source: SourceFallback}, nil
}

// findProjectRoot walks up from dir looking for the project marker file.
func findProjectRoot(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
