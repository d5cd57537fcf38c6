// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package constants_test

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const copyrightHeader = "// Copyright (c) 2026 ImChat. All rights reserved."

/*
TestSourceFilesCarryProjectHeader checks every hand-written Go file in the
module opens with the ImChat copyright line. Generated schema tables and
directories the toolchain ignores are skipped.
*/
func TestSourceFilesCarryProjectHeader(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "..")

	checked := 0
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "schema") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		source, err := os.Open(path)
		if err != nil {
			return err
		}
		defer source.Close()

		scanner := bufio.NewScanner(source)
		scanner.Scan()
		assert.Equal(t, copyrightHeader, scanner.Text(), path)
		checked++
		return nil
	})
	require.NoError(t, err)
	assert.Positive(t, checked)
}
