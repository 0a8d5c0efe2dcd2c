package seedbox

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// File is one remote file with the metadata the purge decisions need.
type File struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// DiskUsage is the remote filesystem's df snapshot.
type DiskUsage struct {
	TotalGB     float64
	UsedGB      float64
	AvailableGB float64
	PercentUsed float64
}

// PathExists reports whether path exists on the remote host.
func (c *Client) PathExists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, _, code, err := c.runner.run(fmt.Sprintf(`test -e "%s"`, path))
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

// ListFiles enumerates all files under path with size and mtime.
// olderThanDays > 0 restricts to files at least that old. A listing failure
// is an error, not an empty result.
func (c *Client) ListFiles(ctx context.Context, path string, olderThanDays int) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := fmt.Sprintf(`find "%s" -type f`, path)
	if olderThanDays > 0 {
		cmd += fmt.Sprintf(" -mtime +%d", olderThanDays)
	}
	cmd += ` -printf "%p\t%s\t%T@\n"`

	stdout, stderr, code, err := c.runner.run(cmd)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("%w: find %s: %s", ErrUnavailable, path, strings.TrimSpace(stderr))
	}

	var files []File
	for _, line := range strings.Split(stdout, "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			continue
		}
		size, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		mtime, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			continue
		}
		files = append(files, File{
			Path:    parts[0],
			Size:    size,
			ModTime: time.Unix(int64(mtime), 0),
		})
	}
	return files, nil
}

// DeleteFile removes one remote file.
func (c *Client) DeleteFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, stderr, code, err := c.runner.run(fmt.Sprintf(`rm -f "%s"`, path))
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("delete %s: %s", path, strings.TrimSpace(stderr))
	}
	return nil
}

// DeleteEmptyDirs removes empty directories under path, skipping any whose
// path equals or ends with a protected entry. rmdir is used so a directory
// that gained content between the scan and the delete survives. Returns the
// number of directories removed.
func (c *Client) DeleteEmptyDirs(ctx context.Context, path string, protected []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	stdout, stderr, code, err := c.runner.run(fmt.Sprintf(`find "%s" -type d -empty -print`, path))
	if err != nil {
		return 0, err
	}
	if code != 0 {
		return 0, fmt.Errorf("%w: find empty dirs in %s: %s", ErrUnavailable, path, strings.TrimSpace(stderr))
	}

	deleted := 0
	for _, dir := range strings.Split(strings.TrimSpace(stdout), "\n") {
		dir = strings.TrimSpace(dir)
		if dir == "" || dir == path || isProtected(dir, protected) {
			continue
		}
		_, _, rmCode, err := c.runner.run(fmt.Sprintf(`rmdir "%s"`, dir))
		if err != nil {
			return deleted, err
		}
		if rmCode == 0 {
			deleted++
		}
	}
	return deleted, nil
}

// DiskUsage parses df output for the remote root filesystem.
func (c *Client) DiskUsage(ctx context.Context) (*DiskUsage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stdout, stderr, code, err := c.runner.run("df -BG /")
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("%w: df: %s", ErrUnavailable, strings.TrimSpace(stderr))
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("unexpected df output")
	}
	fields := strings.Fields(lines[1])
	if len(fields) < 5 {
		return nil, fmt.Errorf("unexpected df output format")
	}

	parse := func(s, cut string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSuffix(s, cut), 64)
		return v
	}
	return &DiskUsage{
		TotalGB:     parse(fields[1], "G"),
		UsedGB:      parse(fields[2], "G"),
		AvailableGB: parse(fields[3], "G"),
		PercentUsed: parse(fields[4], "%"),
	}, nil
}

// IsProtected reports whether path falls under one of the protected
// entries. An entry matches its own folder and, as a prefix, everything
// inside it; a bare name like "/_ready" also matches by suffix so the same
// entry protects the folder wherever it is mounted.
func IsProtected(path string, protected []string) bool {
	for _, p := range protected {
		if p == "" {
			continue
		}
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

func isProtected(dir string, protected []string) bool {
	for _, p := range protected {
		if p == "" {
			continue
		}
		if dir == p || strings.HasSuffix(dir, p) {
			return true
		}
	}
	return false
}
