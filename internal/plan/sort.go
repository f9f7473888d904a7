package plan

import (
	"fmt"
	"regexp"
	"sort"
)

var digitRun = regexp.MustCompile(`\d+`)

// destKey maps a destination path to a key whose alphabetical order is a
// numeric-aware hybrid: every digit run is padded so "man1" sorts before
// "man10". Install walks keys ascending, uninstall descending, making
// uninstall the exact reverse of install.
func destKey(path string) string {
	return digitRun.ReplaceAllStringFunc(path, func(s string) string {
		return fmt.Sprintf("%020s", s)
	})
}

func sortOps(ops []Operation, reverse bool) {
	sort.SliceStable(ops, func(i, j int) bool {
		less := destKey(ops[i].Path) < destKey(ops[j].Path)
		if reverse {
			return !less && destKey(ops[i].Path) != destKey(ops[j].Path)
		}
		return less
	})
}
