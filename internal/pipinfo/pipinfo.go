// Package pipinfo queries package indexes for release metadata.
package pipinfo

import (
	"context"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"golang.org/x/xerrors"
)

// PackageTypeSource is the package type of source archives.
const PackageTypeSource = "sdist"

// ErrNoRelease is returned when a version has no release data.
var ErrNoRelease = xerrors.New("no release data")

// Index is a source of release metadata.
type Index interface {
	Fetch(ctx context.Context, name string) (*Data, error)
	// ProjectURL returns a human readable page for the package.
	ProjectURL(name string) string
}

// Info is the package summary.
type Info struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Summary    string `json:"summary"`
	ProjectURL string `json:"project_url"`
}

// File is a single distribution file of a release.
type File struct {
	Filename    string            `json:"filename"`
	PackageType string            `json:"packagetype"`
	URL         string            `json:"url"`
	Size        int64             `json:"size"`
	Digests     map[string]string `json:"digests"`
	UploadTime  time.Time         `json:"upload_time_iso_8601"`
}

// Data is the release metadata of a package, keyed by version.
type Data struct {
	Info     Info              `json:"info"`
	Releases map[string][]File `json:"releases"`

	versions []string
}

// Versions returns the release versions, highest first.
//
// Versions are compared as PEP 440 versions. Tags that are only valid
// semantic versions sort after those, and versions that parse as neither
// sort last.
func (d *Data) Versions() []string {
	if d.versions != nil {
		return d.versions
	}

	vs := make([]releaseVersion, 0, len(d.Releases))
	for raw := range d.Releases {
		vs = append(vs, parseVersion(raw))
	}
	sort.Slice(vs, func(i, j int) bool {
		return vs[i].greater(vs[j])
	})

	versions := make([]string, 0, len(vs))
	for _, v := range vs {
		versions = append(versions, v.raw)
	}
	d.versions = versions
	return versions
}

// Version schemes, in sort order.
const (
	schemePEP440 = iota
	schemeSemver
	schemeUnknown
)

type releaseVersion struct {
	raw    string
	scheme int
	pep    pep440.Version
	sem    *semver.Version
}

func parseVersion(raw string) releaseVersion {
	if v, err := pep440.Parse(raw); err == nil {
		return releaseVersion{raw: raw, scheme: schemePEP440, pep: v}
	}
	if v, err := semver.NewVersion(raw); err == nil {
		return releaseVersion{raw: raw, scheme: schemeSemver, sem: v}
	}
	return releaseVersion{raw: raw, scheme: schemeUnknown}
}

func (a releaseVersion) greater(b releaseVersion) bool {
	if a.scheme != b.scheme {
		return a.scheme < b.scheme
	}
	switch a.scheme {
	case schemePEP440:
		if c := a.pep.Compare(b.pep); c != 0 {
			return c > 0
		}
	case schemeSemver:
		if !a.sem.Equal(b.sem) {
			return a.sem.GreaterThan(b.sem)
		}
	}
	return a.raw > b.raw
}

// LatestVersion returns the highest version.
func (d *Data) LatestVersion() (string, error) {
	vs := d.Versions()
	if len(vs) == 0 {
		return "", xerrors.Errorf("%w: package %q has no releases", ErrNoRelease, d.Info.Name)
	}
	return vs[0], nil
}

// Release returns the files of version. The latest version is used when
// version is empty.
func (d *Data) Release(version string) ([]File, error) {
	if version == "" {
		var err error
		version, err = d.LatestVersion()
		if err != nil {
			return nil, err
		}
	}
	files, ok := d.Releases[version]
	if !ok {
		return nil, xerrors.Errorf("%w: version %s", ErrNoRelease, version)
	}
	return files, nil
}

// SourceFile returns the source archive of version, or nil if the release
// has none.
func (d *Data) SourceFile(version string) (*File, error) {
	files, err := d.Release(version)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].PackageType == PackageTypeSource {
			return &files[i], nil
		}
	}
	return nil, nil
}
