// Package archive extracts dataset files from the zip bundles the
// Statewide Database and the Census Bureau publish.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/censusalign/censusalign/pkg/constants"
	"github.com/censusalign/censusalign/pkg/errors"
)

// IsZip reports whether the file at path begins with the zip magic bytes.
// Some dataset URLs serve zip archives without a .zip extension.
func IsZip(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return magic[0] == 'P' && magic[1] == 'K' && magic[2] == 0x03 && magic[3] == 0x04
}

// ExtractFirst extracts the first archive member whose name ends with one of
// the given suffixes into destDir and returns the extracted file's path.
// Matching is case insensitive and skips macOS resource-fork entries.
func ExtractFirst(archivePath, destDir string, suffixes ...string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", errors.WrapIO("open archive", archivePath, err)
	}
	defer r.Close()

	for _, member := range r.File {
		if !matches(member.Name, suffixes) {
			continue
		}
		out, err := extractMember(member, destDir)
		if err != nil {
			return "", err
		}
		return out, nil
	}
	return "", &errors.NotFoundError{
		Resource: "archive member " + strings.Join(suffixes, "|"),
		ID:       archivePath,
	}
}

// ExtractShapefile extracts the .shp member and its sidecar files (.dbf,
// .shx, .prj) into destDir and returns the path of the .shp file. TIGER/Line
// archives carry exactly one shapefile per zip.
func ExtractShapefile(archivePath, destDir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", errors.WrapIO("open archive", archivePath, err)
	}
	defer r.Close()

	var shpPath string
	for _, member := range r.File {
		if !matches(member.Name, []string{".shp", ".dbf", ".shx", ".prj"}) {
			continue
		}
		out, err := extractMember(member, destDir)
		if err != nil {
			return "", err
		}
		if strings.HasSuffix(strings.ToLower(out), ".shp") {
			shpPath = out
		}
	}
	if shpPath == "" {
		return "", &errors.NotFoundError{Resource: "shapefile", ID: archivePath}
	}
	return shpPath, nil
}

func matches(name string, suffixes []string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "._") || strings.HasPrefix(name, "__MACOSX") {
		return false
	}
	lower := strings.ToLower(base)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

func extractMember(member *zip.File, destDir string) (string, error) {
	if member.UncompressedSize64 > uint64(constants.MaxArchiveMemberSize) {
		return "", &errors.ValidationError{
			Field:   "archive member",
			Value:   member.Name,
			Message: "uncompressed size exceeds limit",
		}
	}

	if err := os.MkdirAll(destDir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create directory", destDir, err)
	}
	target := filepath.Join(destDir, filepath.Base(member.Name))

	rc, err := member.Open()
	if err != nil {
		return "", errors.WrapIO("open archive member", member.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return "", errors.WrapIO("create file", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(rc, constants.MaxArchiveMemberSize)); err != nil {
		return "", errors.WrapIO("extract", member.Name, err)
	}
	return target, nil
}
