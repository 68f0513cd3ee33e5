//go:build mage

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats prints Go lines of code per top-level directory.
func Stats() error {
	prod := map[string]int{}
	tests := map[string]int{}

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path == "vendor" || path == ".git" || path == binaryDir || strings.HasPrefix(path, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasPrefix(path, "magefiles") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		dir := strings.SplitN(filepath.ToSlash(path), "/", 3)
		key := dir[0]
		if len(dir) > 2 {
			key = dir[0] + "/" + dir[1]
		}
		if strings.HasSuffix(path, "_test.go") {
			tests[key] += count
		} else {
			prod[key] += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(prod))
	for k := range prod {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var totalProd, totalTest int
	for _, k := range keys {
		fmt.Printf("%-24s %6d prod %6d test\n", k, prod[k], tests[k])
		totalProd += prod[k]
		totalTest += tests[k]
	}
	fmt.Printf("%-24s %6d prod %6d test\n", "total", totalProd, totalTest)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
