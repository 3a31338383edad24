package pipinfo

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/go-github/v24/github"
	"golang.org/x/xerrors"
)

// GitHub lists the releases of a GitHub repository.
// Names have the form <owner>/<repo> or a full repository URL.
type GitHub struct {
	Client *github.Client
}

var _ Index = new(GitHub)

func (g *GitHub) client() *github.Client {
	if g.Client == nil {
		return github.NewClient(nil)
	}
	return g.Client
}

// ProjectURL returns the repository page.
func (g *GitHub) ProjectURL(name string) string {
	owner, repo, err := ParseRepo(name)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s", owner, repo)
}

// Fetch lists every release of the repository.
// Tags are used as versions with a leading "v" removed, and each release's
// tarball is reported as its source archive.
func (g *GitHub) Fetch(ctx context.Context, name string) (*Data, error) {
	owner, repo, err := ParseRepo(name)
	if err != nil {
		return nil, err
	}

	d := &Data{
		Info: Info{
			Name:       repo,
			ProjectURL: g.ProjectURL(name),
		},
		Releases: map[string][]File{},
	}

	opts := &github.ListOptions{PerPage: 100}
	for {
		rels, resp, err := g.client().Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, xerrors.Errorf("failed to list releases of %s/%s: %w", owner, repo, err)
		}

		for _, rel := range rels {
			if rel.GetDraft() {
				continue
			}
			version := strings.TrimPrefix(rel.GetTagName(), "v")
			files := []File{{
				Filename:    fmt.Sprintf("%s-%s.tar.gz", repo, version),
				PackageType: PackageTypeSource,
				URL:         rel.GetTarballURL(),
				UploadTime:  rel.GetPublishedAt().Time,
			}}
			for _, a := range rel.Assets {
				files = append(files, File{
					Filename:    a.GetName(),
					PackageType: "asset",
					URL:         a.GetBrowserDownloadURL(),
					Size:        int64(a.GetSize()),
				})
			}
			d.Releases[version] = files
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if latest, err := d.LatestVersion(); err == nil {
		d.Info.Version = latest
	}
	return d, nil
}

// ParseRepo splits a repository reference into owner and name.
//
// It can be a full url like https://github.com/pypa/virtualenv or just the path
// like pypa/virtualenv.
func ParseRepo(name string) (owner, repo string, err error) {
	u, err := url.Parse(name)
	if err != nil {
		return "", "", xerrors.Errorf("failed to parse repo %q: %w", name, err)
	}

	p := u.Path
	// this probably means the host is part of the path
	if u.Host == "" {
		parts := strings.Split(strings.Trim(p, "/"), "/")
		if len(parts) == 3 {
			p = strings.Join(parts[1:], "/")
		}
	}

	p = strings.Trim(p, "/")
	p = strings.TrimSuffix(p, ".git")

	parts := strings.Split(p, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", xerrors.Errorf("invalid repo: %s", name)
	}
	return parts[0], path.Base(parts[1]), nil
}
