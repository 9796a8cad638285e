package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	ErrDevBuild         = errors.New("development builds cannot self-update")
	ErrAlreadyLatest    = errors.New("current version is the latest release")
	ErrChecksumMismatch = errors.New("release checksum mismatch")
)

// Stage identifies one phase of an update for progress reporting.
type Stage int

const (
	StageResolve Stage = iota
	StageDownload
	StageVerify
	StageUnpack
	StageInstall
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageResolve:
		return "resolve"
	case StageDownload:
		return "download"
	case StageVerify:
		return "verify"
	case StageUnpack:
		return "unpack"
	case StageInstall:
		return "install"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is one stage transition, with a human-readable detail line.
type Progress struct {
	Stage  Stage
	Detail string
}

// UpdateRequest selects the version to install. An empty Target means
// the latest release.
type UpdateRequest struct {
	Current string
	Target  string
}

// artifact names the two release files an update needs.
type artifact struct {
	asset       string
	archiveURL  string
	manifestURL string
}

// Update resolves the target release, fetches and verifies its archive
// for this platform, and swaps the running executable for the new
// binary. report is called once per stage.
func (c *Checker) Update(ctx context.Context, req UpdateRequest, report func(Progress)) error {
	if req.Current == "(devel)" {
		return ErrDevBuild
	}

	tag := req.Target
	if tag == "" {
		report(Progress{Stage: StageResolve, Detail: "Looking up the latest release"})
		res, err := c.Check(ctx, &CheckInput{Version: req.Current})
		if err != nil {
			return fmt.Errorf("resolve latest release: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	art, err := c.artifactFor(tag, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	report(Progress{Stage: StageDownload, Detail: "Downloading " + tag})
	var archive, manifest []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		archive, err = c.fetch(gctx, art.archiveURL)
		if err != nil {
			return fmt.Errorf("download %s: %w", art.asset, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		manifest, err = c.fetch(gctx, art.manifestURL)
		if err != nil {
			return fmt.Errorf("download checksums.txt: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	report(Progress{Stage: StageVerify, Detail: "Verifying archive checksum"})
	want, err := checksumFor(manifest, art.asset)
	if err != nil {
		return err
	}
	if err := verifySHA256(archive, want); err != nil {
		return err
	}

	report(Progress{Stage: StageUnpack, Detail: "Unpacking new binary"})
	binary, err := unpackExecutable(archive, art.asset)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", art.asset, err)
	}

	report(Progress{Stage: StageInstall, Detail: "Installing new binary"})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("locate running executable: %w", err)
	}
	if err := installOver(target, binary); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	report(Progress{Stage: StageDone, Detail: "Updated to " + tag})
	return nil
}

// releasePlatforms is the matrix the release workflow builds. Archives
// are named linguakit_<os>_<arch> with Go's own OS and architecture
// spellings; windows ships a zip, everything else a tar.gz.
var releasePlatforms = map[string]string{
	"darwin/amd64":  ".tar.gz",
	"darwin/arm64":  ".tar.gz",
	"linux/amd64":   ".tar.gz",
	"linux/arm64":   ".tar.gz",
	"windows/amd64": ".zip",
	"windows/arm64": ".zip",
}

func assetFor(goos, goarch string) (string, error) {
	ext, ok := releasePlatforms[goos+"/"+goarch]
	if !ok {
		return "", fmt.Errorf("no release build for %s/%s", goos, goarch)
	}
	return fmt.Sprintf("linguakit_%s_%s%s", goos, goarch, ext), nil
}

func (c *Checker) artifactFor(tag, goos, goarch string) (artifact, error) {
	asset, err := assetFor(goos, goarch)
	if err != nil {
		return artifact{}, err
	}
	base := fmt.Sprintf("%s/%s/%s/releases/download/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag)
	return artifact{
		asset:       asset,
		archiveURL:  base + "/" + asset,
		manifestURL: base + "/checksums.txt",
	}, nil
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// checksumFor finds the asset's hash in a sha256sum-format manifest.
func checksumFor(manifest []byte, asset string) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(manifest))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[1] == asset {
			return fields[0], nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read checksums.txt: %w", err)
	}
	return "", fmt.Errorf("checksums.txt has no entry for %s", asset)
}

func verifySHA256(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: want %s, got %s", ErrChecksumMismatch, wantHex, got)
	}
	return nil
}

// unpackExecutable pulls the linguakit binary out of a release archive,
// picking the archive format off the asset extension.
func unpackExecutable(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return fromZip(archive, "linguakit.exe")
	}
	return fromTarGz(archive, "linguakit")
}

func fromTarGz(archive []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("archive has no %s", name)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func fromZip(archive []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("archive has no %s", name)
}

// installOver atomically replaces the executable at path with binary,
// preserving its file mode. The staging file lives in the same
// directory so the final rename cannot cross filesystems.
func installOver(path string, binary []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	staged, err := os.CreateTemp(filepath.Dir(path), ".linguakit-*.new")
	if err != nil {
		return err
	}
	stagedPath := staged.Name()
	defer func() { _ = os.Remove(stagedPath) }()

	if _, err := staged.Write(binary); err != nil {
		_ = staged.Close()
		return fmt.Errorf("stage binary: %w", err)
	}
	if err := staged.Sync(); err != nil {
		_ = staged.Close()
		return fmt.Errorf("sync staged binary: %w", err)
	}
	if err := staged.Close(); err != nil {
		return err
	}

	if err := os.Chmod(stagedPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod staged binary: %w", err)
	}
	return os.Rename(stagedPath, path)
}
