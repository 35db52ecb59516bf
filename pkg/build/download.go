package build

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// githubPrefix selects the latest release of a repository instead of a
// fixed archive URL, as in "github:owner/repo".
const githubPrefix = "github:"

var githubAPI = "https://api.github.com"

// EnsureResources makes sure dir exists. When it does not and url is set,
// the tar.gz archive at url is downloaded and extracted into dir.
func EnsureResources(ctx context.Context, client *http.Client, dir, url string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if url == "" {
		return fmt.Errorf("resources not found at %s: %w", dir, ErrMissingSource)
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	if repo, ok := strings.CutPrefix(url, githubPrefix); ok {
		resolved, err := latestReleaseAsset(ctx, client, repo)
		if err != nil {
			return fmt.Errorf("failed to find latest resources release: %w", err)
		}
		url = resolved
	}

	fmt.Printf("Resources not found at %s. Downloading from %s...\n", dir, url)
	tmp := dir + ".partial"
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := downloadAndExtract(ctx, client, url, tmp); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	return os.Rename(tmp, dir)
}

func latestReleaseAsset(ctx context.Context, client *http.Client, repo string) (string, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/releases/latest", githubAPI, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	// GitHub rejects requests without a User-Agent
	req.Header.Set("User-Agent", "jiten-cli")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var release struct {
		Assets []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	for _, asset := range release.Assets {
		if strings.HasSuffix(asset.Name, ".tar.gz") || strings.HasSuffix(asset.Name, ".tgz") {
			return asset.BrowserDownloadURL, nil
		}
	}
	return "", errors.New("no tar.gz asset found in latest release")
}

func downloadAndExtract(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	return extractTar(tar.NewReader(gzReader), dest)
}

// extractTar writes regular files and directories under dest. Entries
// escaping dest are rejected.
func extractTar(tr *tar.Reader, dest string) error {
	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}

	var files int
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading tar archive: %w", err)
		}

		target := filepath.Join(root, filepath.FromSlash(header.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes %s", header.Name, dest)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr); err != nil {
				return err
			}
			files++
		}
	}

	if files == 0 {
		return errors.New("no files found in downloaded archive")
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return out.Close()
}
