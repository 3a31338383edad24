package pipinfo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v24/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

const sampleJSON = `{
  "info": {"name": "sample", "version": "2.0", "summary": "A sample"},
  "releases": {
    "1.0": [
      {"filename": "sample-1.0-py3-none-any.whl", "packagetype": "bdist_wheel", "url": "https://files.example/sample-1.0-py3-none-any.whl"},
      {"filename": "sample-1.0.tar.gz", "packagetype": "sdist", "url": "https://files.example/sample-1.0.tar.gz", "upload_time_iso_8601": "2021-03-04T05:06:07.123456Z"}
    ],
    "2.0": [
      {"filename": "sample-2.0.tar.gz", "packagetype": "sdist", "url": "https://files.example/sample-2.0.tar.gz", "size": 1234}
    ],
    "1.10": [
      {"filename": "sample-1.10-py3-none-any.whl", "packagetype": "bdist_wheel", "url": "https://files.example/sample-1.10-py3-none-any.whl"}
    ]
  }
}`

func pypiServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pypi/sample/json":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, sampleJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPyPI_Fetch(t *testing.T) {
	srv := pypiServer(t)
	ctx := context.Background()
	idx := &PyPI{Client: srv.Client(), BaseURL: srv.URL + "/"}

	t.Run("Versions", func(t *testing.T) {
		d, err := idx.Fetch(ctx, "sample")
		require.NoError(t, err)

		assert.Equal(t, []string{"2.0", "1.10", "1.0"}, d.Versions())

		latest, err := d.LatestVersion()
		require.NoError(t, err)
		assert.Equal(t, "2.0", latest)
	})

	t.Run("SourceFile", func(t *testing.T) {
		d, err := idx.Fetch(ctx, "sample")
		require.NoError(t, err)

		src, err := d.SourceFile("")
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, "sample-2.0.tar.gz", src.Filename)
		assert.Equal(t, int64(1234), src.Size)

		src, err = d.SourceFile("1.0")
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, "https://files.example/sample-1.0.tar.gz", src.URL)
		assert.Equal(t, time.Date(2021, 3, 4, 5, 6, 7, 123456000, time.UTC), src.UploadTime.UTC())

		src, err = d.SourceFile("1.10")
		require.NoError(t, err)
		assert.Nil(t, src)

		_, err = d.SourceFile("9.9")
		assert.True(t, xerrors.Is(err, ErrNoRelease))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := idx.Fetch(ctx, "missing")
		require.Error(t, err)

		var serr *StatusError
		require.True(t, xerrors.As(err, &serr))
		assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	})

	t.Run("ProjectURL", func(t *testing.T) {
		assert.Equal(t, srv.URL+"/project/sample/", idx.ProjectURL("sample"))
		assert.Equal(t, "https://pypi.org/project/virtualenv/", (&PyPI{}).ProjectURL("virtualenv"))
	})
}

func TestData_Versions(t *testing.T) {
	t.Run("Unparsable", func(t *testing.T) {
		d := &Data{Releases: map[string][]File{
			"0.9":     nil,
			"1.0rc1":  nil,
			"10.0.1":  nil,
			"2.0.0":   nil,
			"nightly": nil,
		}}
		assert.Equal(t, []string{"10.0.1", "2.0.0", "1.0rc1", "0.9", "nightly"}, d.Versions())
	})

	t.Run("PEP440", func(t *testing.T) {
		d := &Data{Releases: map[string][]File{
			"1.0":       nil,
			"1.5":       nil,
			"2.0rc1":    nil,
			"2.0.post1": {{Filename: "sample-2.0.post1.tar.gz", PackageType: PackageTypeSource}},
			"2.0":       nil,
			"1.2.3.4":   nil,
			"2.0.dev3":  nil,
		}}
		assert.Equal(t, []string{"2.0.post1", "2.0", "2.0rc1", "2.0.dev3", "1.5", "1.2.3.4", "1.0"}, d.Versions())

		latest, err := d.LatestVersion()
		require.NoError(t, err)
		assert.Equal(t, "2.0.post1", latest)

		f, err := d.SourceFile("")
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, "sample-2.0.post1.tar.gz", f.Filename)
	})

	t.Run("SemverOnly", func(t *testing.T) {
		d := &Data{Releases: map[string][]File{
			"1.0.0-SNAPSHOT": nil,
			"1.1.0-SNAPSHOT": nil,
			"0.1":            nil,
			"latest":         nil,
		}}
		assert.Equal(t, []string{"0.1", "1.1.0-SNAPSHOT", "1.0.0-SNAPSHOT", "latest"}, d.Versions())
	})

	t.Run("Empty", func(t *testing.T) {
		d := &Data{Info: Info{Name: "empty"}}
		assert.Empty(t, d.Versions())

		_, err := d.LatestVersion()
		assert.True(t, xerrors.Is(err, ErrNoRelease))

		_, err = d.Release("")
		assert.True(t, xerrors.Is(err, ErrNoRelease))
	})
}

func TestGitHub_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/pypa/virtualenv/releases", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
  {"tag_name": "20.0.0", "tarball_url": "https://api.example/tarball/20.0.0"},
  {"tag_name": "v20.10.0", "tarball_url": "https://api.example/tarball/v20.10.0",
   "assets": [{"name": "virtualenv.pyz", "browser_download_url": "https://dl.example/virtualenv.pyz", "size": 42}]},
  {"tag_name": "v21.0.0", "draft": true}
]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := github.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	idx := &GitHub{Client: client}
	d, err := idx.Fetch(context.Background(), "https://github.com/pypa/virtualenv.git")
	require.NoError(t, err)

	assert.Equal(t, []string{"20.10.0", "20.0.0"}, d.Versions())
	assert.Equal(t, "20.10.0", d.Info.Version)
	assert.Equal(t, "https://github.com/pypa/virtualenv", d.Info.ProjectURL)

	src, err := d.SourceFile("")
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, "https://api.example/tarball/v20.10.0", src.URL)

	files, err := d.Release("20.10.0")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, int64(42), files[1].Size)
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		in    string
		owner string
		repo  string
		err   bool
	}{
		{in: "pypa/virtualenv", owner: "pypa", repo: "virtualenv"},
		{in: "github.com/pypa/virtualenv", owner: "pypa", repo: "virtualenv"},
		{in: "https://github.com/pypa/virtualenv.git", owner: "pypa", repo: "virtualenv"},
		{in: "virtualenv", err: true},
		{in: "a/b/c/d", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := ParseRepo(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}
